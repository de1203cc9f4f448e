// Package session tracks the authentication state of the running client and
// decides whether navigation to a route is allowed.
package session

import "sync"

// State is the authentication state of the client.
type State int

const (
	// StateResolving is the transient state before the initial session
	// probe has settled. Protected navigation suspends in this state.
	StateResolving State = iota
	StateUnauthenticated
	StateAuthenticated
)

func (s State) String() string {
	switch s {
	case StateAuthenticated:
		return "authenticated"
	case StateUnauthenticated:
		return "unauthenticated"
	default:
		return "resolving"
	}
}

// Requirement is a route's authentication requirement.
type Requirement int

const (
	// RequireNone allows the route in every state.
	RequireNone Requirement = iota
	// RequireAuthenticated protects the route behind a session.
	RequireAuthenticated
	// RequireAnonymous marks login/register style entry points.
	RequireAnonymous
)

// Decision is the outcome of evaluating a route against the gate.
type Decision int

const (
	Allow Decision = iota
	// Wait means the gate has not resolved yet and navigation must
	// suspend instead of rendering optimistically.
	Wait
	RedirectToLogin
	RedirectToHome
)

// User is the minimal identity the gate holds for the signed-in user.
type User struct {
	ID    string
	Name  string
	Email string
}

// Gate is the long-lived session gate. The authentication flow is its single
// writer; everything else only reads. The zero value is not usable, use New.
type Gate struct {
	mu    sync.RWMutex
	state State
	user  User
}

// New returns a gate in StateResolving.
func New() *Gate {
	return &Gate{state: StateResolving}
}

// State returns the current state.
func (g *Gate) State() State {
	g.mu.RLock()
	defer g.mu.RUnlock()

	return g.state
}

// User returns the signed-in user. The bool is false unless the gate is
// authenticated.
func (g *Gate) User() (User, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	return g.user, g.state == StateAuthenticated
}

// Authenticate transitions the gate to StateAuthenticated. Called after a
// successful session fetch, login, or registration.
func (g *Gate) Authenticate(user User) {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.state = StateAuthenticated
	g.user = user
}

// Clear transitions the gate to StateUnauthenticated. Called on logout and
// on any response carrying an authorization-failure signal.
func (g *Gate) Clear() {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.state = StateUnauthenticated
	g.user = User{}
}

// ResolveUnauthenticated settles the initial probe as "no session". Unlike
// Clear it only acts while the gate is still resolving, so a login that
// races the probe is not overwritten.
func (g *Gate) ResolveUnauthenticated() {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.state == StateResolving {
		g.state = StateUnauthenticated
	}
}

// Evaluate decides whether a route with the given requirement may be
// entered in the current state.
func (g *Gate) Evaluate(req Requirement) Decision {
	g.mu.RLock()
	defer g.mu.RUnlock()

	switch req {
	case RequireAuthenticated:
		switch g.state {
		case StateResolving:
			return Wait
		case StateUnauthenticated:
			return RedirectToLogin
		}
	case RequireAnonymous:
		if g.state == StateAuthenticated {
			return RedirectToHome
		}
	}

	return Allow
}
