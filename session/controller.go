// Package session implements the client's authentication state machine.
//
// The machine has three states. Locked means the site-wide password gate is
// configured and not yet passed; Anonymous means no bearer token is held;
// Authenticated means a token is stored and presumed valid until the
// backend says otherwise. The gate and token auth are independent checks
// composed here, not one conflated boolean.
//
// The machine has no terminal state: it runs for the life of the process
// and can cycle through login and logout indefinitely.
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"artarena/gateway"
	"artarena/logging"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// State identifies the current position in the auth state machine.
type State int

const (
	// Locked means the site-wide password gate blocks everything.
	Locked State = iota

	// Anonymous means no token is held; protected actions are refused
	// locally before any network call.
	Anonymous

	// Authenticated means a token is stored and attached to protected
	// calls until an Unauthorized outcome invalidates it.
	Authenticated
)

// String returns a human-readable state name.
func (s State) String() string {
	switch s {
	case Locked:
		return "locked"
	case Anonymous:
		return "anonymous"
	case Authenticated:
		return "authenticated"
	default:
		return "unknown"
	}
}

// ErrWrongPassword is returned by Unlock for an incorrect site password.
// Attempts are deliberately unthrottled; there is no lockout counter.
var ErrWrongPassword = errors.New("session: incorrect site password")

// Store is the slice of the persistent session store the controller needs.
type Store interface {
	Token() string
	SetToken(token string) error
	ClearToken() error
	Credits() (int, bool)
	SetCredits(credits int) error
	ClearCredits() error
	SiteUnlocked() bool
	SetSiteUnlocked(unlocked bool) error
}

// API is the slice of the gateway the controller drives for auth flows.
type API interface {
	Login(ctx context.Context, email, password string) (gateway.LoginResult, gateway.Outcome)
	Register(ctx context.Context, email, password, displayName string) (gateway.RegisterResult, gateway.Outcome)
	Activate(ctx context.Context, token string) (gateway.ActivateResult, gateway.Outcome)
}

// Config holds the gate configuration. The gate is enabled when either
// field is set; the hash takes precedence when both are.
type Config struct {
	SitePassword     string
	SitePasswordHash string
}

// gateEnabled reports whether the site-wide gate is configured at all.
func (c Config) gateEnabled() bool {
	return c.SitePassword != "" || c.SitePasswordHash != ""
}

// AuthPrompt is the side effect fired when a protected action is attempted
// without authentication: the auth modal in the web client, a login hint in
// the CLI. It receives a caller-supplied message.
type AuthPrompt func(message string)

// Controller is the single authority over session state. All protected
// actions consult it via RequireAuthenticated before touching the network.
type Controller struct {
	mu     sync.Mutex
	state  State
	store  Store
	api    API
	cfg    Config
	prompt AuthPrompt
	log    *logging.Logger
}

// NewController creates a Controller and derives the initial state from the
// persistent store: Locked if the gate is configured and not yet unlocked,
// Authenticated if a token is stored, Anonymous otherwise.
func NewController(store Store, api API, cfg Config, prompt AuthPrompt, logger *logging.Logger) (*Controller, error) {
	if store == nil {
		return nil, fmt.Errorf("session: store cannot be nil")
	}
	if api == nil {
		return nil, fmt.Errorf("session: api cannot be nil")
	}
	if logger == nil {
		return nil, fmt.Errorf("session: logger cannot be nil")
	}
	if prompt == nil {
		prompt = func(string) {}
	}

	c := &Controller{
		store:  store,
		api:    api,
		cfg:    cfg,
		prompt: prompt,
		log:    logger.Named("session"),
	}
	c.state = c.deriveState()

	c.log.Debug("session hydrated", zap.String("state", c.state.String()))
	return c, nil
}

// deriveState recomputes the state from the store and gate config.
func (c *Controller) deriveState() State {
	if c.cfg.gateEnabled() && !c.store.SiteUnlocked() {
		return Locked
	}
	if c.store.Token() != "" {
		return Authenticated
	}
	return Anonymous
}

// State returns the current state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Unlock checks the submitted site password against the configured value.
// On success the unlocked flag is persisted and the state recomputes to
// Anonymous, or directly to Authenticated when a token was already stored
// (the two gates are independent). On failure the state is unchanged and
// ErrWrongPassword is returned.
func (c *Controller) Unlock(password string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != Locked {
		return nil
	}

	if !c.checkSitePassword(password) {
		c.log.Warn("site unlock failed")
		return ErrWrongPassword
	}

	if err := c.store.SetSiteUnlocked(true); err != nil {
		return fmt.Errorf("session: failed to persist unlock: %w", err)
	}
	c.state = c.deriveState()
	c.log.Info("site unlocked", zap.String("state", c.state.String()))
	return nil
}

func (c *Controller) checkSitePassword(password string) bool {
	if c.cfg.SitePasswordHash != "" {
		return bcrypt.CompareHashAndPassword([]byte(c.cfg.SitePasswordHash), []byte(password)) == nil
	}
	return password == c.cfg.SitePassword
}

// Login exchanges credentials for a token. On success the token and credit
// balance are persisted and the state becomes Authenticated.
func (c *Controller) Login(ctx context.Context, email, password string) gateway.Outcome {
	result, out := c.api.Login(ctx, email, password)
	if !out.OK() {
		c.log.Warn("login failed", zap.String("outcome", out.Kind.String()))
		return out
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.store.SetToken(result.Token); err != nil {
		return gateway.Outcome{Kind: gateway.Failure, Message: err.Error()}
	}
	if err := c.store.SetCredits(result.User.Credits); err != nil {
		c.log.Warn("failed to cache credits", zap.Error(err))
	}
	c.state = Authenticated

	c.log.Info("login succeeded", zap.Int("credits", result.User.Credits))
	return out
}

// Register creates an account. The confirm-password check happens here,
// before any network call. If the backend returns a token the state becomes
// Authenticated immediately; otherwise it stays Anonymous pending the
// out-of-band activation flow, and the returned info message says so.
func (c *Controller) Register(ctx context.Context, email, password, confirmPassword, displayName string) (string, gateway.Outcome) {
	if password != confirmPassword {
		return "", gateway.Outcome{Kind: gateway.Failure, Message: "Passwords do not match"}
	}

	result, out := c.api.Register(ctx, email, password, displayName)
	if !out.OK() {
		c.log.Warn("registration failed", zap.String("outcome", out.Kind.String()))
		return "", out
	}

	if result.Token == "" {
		c.log.Info("registration pending verification")
		return result.Message, out
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.store.SetToken(result.Token); err != nil {
		return "", gateway.Outcome{Kind: gateway.Failure, Message: err.Error()}
	}
	if result.User.Credits > 0 {
		if err := c.store.SetCredits(result.User.Credits); err != nil {
			c.log.Warn("failed to cache credits", zap.Error(err))
		}
	}
	c.state = Authenticated

	c.log.Info("registration succeeded with immediate token")
	return result.Message, out
}

// Activate completes email verification with the token from the
// verification link. A one-shot flow; it does not change session state.
func (c *Controller) Activate(ctx context.Context, token string) (gateway.ActivateResult, gateway.Outcome) {
	return c.api.Activate(ctx, token)
}

// Logout clears the stored token and cached credits and returns the state
// to Anonymous. The site-unlock flag is deliberately left alone.
func (c *Controller) Logout() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.store.ClearToken(); err != nil {
		return fmt.Errorf("session: failed to clear token: %w", err)
	}
	if err := c.store.ClearCredits(); err != nil {
		c.log.Warn("failed to clear cached credits", zap.Error(err))
	}
	if c.state == Authenticated {
		c.state = Anonymous
	}

	c.log.Info("logged out")
	return nil
}

// HandleUnauthorized reacts to an Unauthorized outcome from any protected
// call: the token is treated as invalid or expired, cleared from the store,
// and the state drops to Anonymous. A guarded call made immediately after
// fails the guard locally instead of hitting the network again.
func (c *Controller) HandleUnauthorized() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.store.ClearToken(); err != nil {
		c.log.Warn("failed to clear invalid token", zap.Error(err))
	}
	if c.state == Authenticated {
		c.state = Anonymous
	}

	c.log.Info("session invalidated by unauthorized response")
}

// RequireAuthenticated is the single choke point for protected actions.
// Returns true iff the state is Authenticated; otherwise fires the auth
// prompt exactly once with the caller's message and returns false.
func (c *Controller) RequireAuthenticated(message string) bool {
	c.mu.Lock()
	state := c.state
	c.mu.Unlock()

	if state == Authenticated {
		return true
	}
	c.prompt(message)
	return false
}

// Credits returns the cached credit balance, if one is cached. The cache
// refreshes only on login; the backend owns the authoritative count.
func (c *Controller) Credits() (int, bool) {
	return c.store.Credits()
}
