// Package views maps route paths to the fixed set of page views. The
// mapping is pure: resolving never performs I/O and never mutates session
// state. When the session is locked, every path renders the password gate,
// but the underlying mapping still runs so navigation resumes at the
// originally requested view after unlock.
package views

import (
	"strings"
)

// View identifies one of the fixed page views.
type View int

const (
	Home View = iota
	Arena
	FreeGenerator
	PremiumGenerator
	Gallery
	Info
	ActivateAccount
	PasswordGate
)

// String returns the view's name.
func (v View) String() string {
	switch v {
	case Home:
		return "home"
	case Arena:
		return "arena"
	case FreeGenerator:
		return "generate"
	case PremiumGenerator:
		return "premium"
	case Gallery:
		return "gallery"
	case Info:
		return "info"
	case ActivateAccount:
		return "activate"
	case PasswordGate:
		return "password_gate"
	default:
		return "unknown"
	}
}

// Route is the result of resolving a path.
type Route struct {
	// View is what should render now. PasswordGate when locked.
	View View

	// Requested is the view the path mapped to before the gate check,
	// so a post-unlock navigation can resume there. Equal to View when
	// the session is not locked.
	Requested View

	// ActivationToken carries the token segment of /activate/:token.
	ActivationToken string

	// Redirected is true when an unknown path fell back to Home.
	Redirected bool
}

// Resolve maps a path to a route. Unknown paths redirect to Home rather
// than rendering a not-found view.
func Resolve(path string, locked bool) Route {
	route := resolvePath(path)
	route.Requested = route.View
	if locked {
		route.View = PasswordGate
	}
	return route
}

func resolvePath(path string) Route {
	trimmed := strings.Trim(path, "/")

	switch trimmed {
	case "":
		return Route{View: Home}
	case "arena":
		return Route{View: Arena}
	case "generate":
		return Route{View: FreeGenerator}
	case "premium":
		return Route{View: PremiumGenerator}
	case "gallery":
		return Route{View: Gallery}
	case "info":
		return Route{View: Info}
	}

	if token, ok := strings.CutPrefix(trimmed, "activate/"); ok && token != "" && !strings.Contains(token, "/") {
		return Route{View: ActivateAccount, ActivationToken: token}
	}

	return Route{View: Home, Redirected: true}
}
