// Package auth tracks the session of one client context and guards views that
// require an authenticated caller.
package auth

import (
	"fmt"
	"time"
)

type State int

const (
	// StateUnknown holds until the identity provider reports for the first time.
	StateUnknown State = iota
	StateUnauthenticated
	StateAuthenticated
)

func (s State) String() string {
	switch s {
	case StateUnknown:
		return "unknown"
	case StateUnauthenticated:
		return "unauthenticated"
	case StateAuthenticated:
		return "authenticated"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

type Profile struct {
	UserID    int       `json:"user_id"`
	Email     string    `json:"email"`
	Name      string    `json:"name,omitempty"`
	TokenID   string    `json:"-"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Session is a value; Profile is set only when State is StateAuthenticated.
type Session struct {
	State   State    `json:"-"`
	Profile *Profile `json:"profile,omitempty"`
}

func (s Session) Authenticated() bool {
	return s.State == StateAuthenticated && s.Profile != nil
}

func sessionFor(p *Profile) Session {
	if p == nil {
		return Session{State: StateUnauthenticated}
	}
	cp := *p
	return Session{State: StateAuthenticated, Profile: &cp}
}

func (s Session) equal(o Session) bool {
	if s.State != o.State {
		return false
	}
	if s.Profile == nil || o.Profile == nil {
		return s.Profile == o.Profile
	}
	return *s.Profile == *o.Profile
}
