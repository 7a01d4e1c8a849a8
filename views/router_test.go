package views

import (
	"testing"
)

func TestResolve_KnownPaths(t *testing.T) {
	tests := []struct {
		path string
		want View
	}{
		{"/", Home},
		{"", Home},
		{"/arena", Arena},
		{"/arena/", Arena},
		{"/generate", FreeGenerator},
		{"/premium", PremiumGenerator},
		{"/gallery", Gallery},
		{"/info", Info},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			route := Resolve(tt.path, false)
			if route.View != tt.want {
				t.Errorf("Resolve(%q).View = %v, want %v", tt.path, route.View, tt.want)
			}
			if route.Redirected {
				t.Errorf("Resolve(%q) should not redirect", tt.path)
			}
		})
	}
}

func TestResolve_ActivationToken(t *testing.T) {
	route := Resolve("/activate/abc123", false)
	if route.View != ActivateAccount {
		t.Fatalf("View = %v, want ActivateAccount", route.View)
	}
	if route.ActivationToken != "abc123" {
		t.Errorf("ActivationToken = %q, want %q", route.ActivationToken, "abc123")
	}
}

func TestResolve_UnknownPathsRedirectHome(t *testing.T) {
	tests := []string{
		"/nope",
		"/arena/extra",
		"/activate/",       // missing token
		"/activate/a/b",    // extra segment
		"/Gallery",         // paths are case-sensitive
		"/generate/images", // no nested routes
	}

	for _, path := range tests {
		t.Run(path, func(t *testing.T) {
			route := Resolve(path, false)
			if route.View != Home {
				t.Errorf("Resolve(%q).View = %v, want Home", path, route.View)
			}
			if !route.Redirected {
				t.Errorf("Resolve(%q).Redirected = false, want true", path)
			}
		})
	}
}

func TestResolve_LockedRendersPasswordGate(t *testing.T) {
	// Every path renders the gate while locked, but the requested view is
	// still recorded so navigation resumes after unlock.
	tests := []struct {
		path          string
		wantRequested View
	}{
		{"/", Home},
		{"/arena", Arena},
		{"/gallery", Gallery},
		{"/activate/tok", ActivateAccount},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			route := Resolve(tt.path, true)
			if route.View != PasswordGate {
				t.Errorf("Resolve(%q, locked).View = %v, want PasswordGate", tt.path, route.View)
			}
			if route.Requested != tt.wantRequested {
				t.Errorf("Resolve(%q, locked).Requested = %v, want %v", tt.path, route.Requested, tt.wantRequested)
			}
		})
	}
}

func TestResolve_UnlockedRequestedMatchesView(t *testing.T) {
	route := Resolve("/premium", false)
	if route.Requested != route.View {
		t.Errorf("Requested = %v, View = %v; want equal when unlocked", route.Requested, route.View)
	}
}
