// Package session owns the console authentication state machine and the
// admission rules for protected routes. Session state is held by an explicit
// manager wired at startup; nothing in this package is a global.
package session

import (
	"fmt"
	"sync"

	"github.com/noah-isme/scrum-console-gateway/internal/models"
)

// State names the positions of the session machine.
type State string

const (
	StateAnonymous      State = "anonymous"
	StateAuthenticating State = "authenticating"
	StateAuthenticated  State = "authenticated"
	StateFailed         State = "failed"
)

// Gate tracks one console session through the authentication machine.
// Transitions: anonymous/failed -> authenticating on a login or resume
// attempt; authenticating -> authenticated on accepted credentials,
// -> failed on rejected credentials, -> anonymous when a silent resume
// does not pan out; authenticated -> anonymous on logout.
type Gate struct {
	mu     sync.Mutex
	state  State
	user   *models.User
	token  string
	reason string
}

// NewGate returns a gate in the anonymous state.
func NewGate() *Gate {
	return &Gate{state: StateAnonymous}
}

// BeginAttempt enters the authenticating state. Allowed from anonymous and
// failed; a failed gate re-admits a fresh attempt, keeping only the last
// error for display.
func (g *Gate) BeginAttempt() error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.state != StateAnonymous && g.state != StateFailed {
		return fmt.Errorf("cannot begin attempt from state %q", g.state)
	}
	g.state = StateAuthenticating
	return nil
}

// Accept records accepted credentials. The user must be non-nil: the session
// invariant is authenticated == (user != nil).
func (g *Gate) Accept(user *models.User, token string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.state != StateAuthenticating {
		return fmt.Errorf("cannot accept credentials from state %q", g.state)
	}
	if user == nil {
		return fmt.Errorf("cannot authenticate without a user")
	}
	g.state = StateAuthenticated
	g.user = user
	g.token = token
	g.reason = ""
	return nil
}

// Reject records rejected credentials with the reason shown to the user.
func (g *Gate) Reject(reason string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.state != StateAuthenticating {
		return fmt.Errorf("cannot reject credentials from state %q", g.state)
	}
	g.state = StateFailed
	g.user = nil
	g.token = ""
	g.reason = reason
	return nil
}

// Settle returns to anonymous without surfacing an error. Used when a resume
// attempt fails: the stored token simply no longer resolves to a profile.
func (g *Gate) Settle() error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.state != StateAuthenticating {
		return fmt.Errorf("cannot settle from state %q", g.state)
	}
	g.state = StateAnonymous
	g.user = nil
	g.token = ""
	g.reason = ""
	return nil
}

// Logout clears the session from any state.
func (g *Gate) Logout() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.state = StateAnonymous
	g.user = nil
	g.token = ""
	g.reason = ""
}

// State returns the current machine state.
func (g *Gate) State() State {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.state
}

// Authenticated reports whether the gate holds an authenticated user.
func (g *Gate) Authenticated() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.state == StateAuthenticated && g.user != nil
}

// User returns the authenticated user, or nil.
func (g *Gate) User() *models.User {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.user
}

// Token returns the upstream access token held by the session.
func (g *Gate) Token() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.token
}

// Reason returns the last rejection reason, for failed gates.
func (g *Gate) Reason() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.reason
}
