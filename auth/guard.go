package auth

import "sync"

// GuardHandlers are the three outcomes of a guarded view. Nil handlers are skipped.
type GuardHandlers struct {
	// Pending runs while the session is still unknown.
	Pending func()
	// Render runs on every authenticated session.
	Render func(Profile)
	// Redirect runs once per transition into StateUnauthenticated.
	Redirect func()
}

// Guard keeps a protected view in step with a Gate for as long as it is mounted.
type Guard struct {
	handlers GuardHandlers

	mu          sync.Mutex
	last        State
	stopped     bool
	unsubscribe func()
}

func NewGuard(gate *Gate, handlers GuardHandlers) *Guard {
	g := &Guard{handlers: handlers, last: StateUnknown}
	unsubscribe := gate.Subscribe(g.evaluate)
	g.mu.Lock()
	g.unsubscribe = unsubscribe
	g.mu.Unlock()
	return g
}

func (g *Guard) evaluate(s Session) {
	g.mu.Lock()
	if g.stopped {
		g.mu.Unlock()
		return
	}
	prev := g.last
	g.last = s.State
	g.mu.Unlock()

	switch s.State {
	case StateUnknown:
		if g.handlers.Pending != nil {
			g.handlers.Pending()
		}
	case StateUnauthenticated:
		if prev != StateUnauthenticated && g.handlers.Redirect != nil {
			g.handlers.Redirect()
		}
	case StateAuthenticated:
		if s.Profile != nil && g.handlers.Render != nil {
			g.handlers.Render(*s.Profile)
		}
	}
}

// Stop unmounts the guard; no handler runs afterwards.
func (g *Guard) Stop() {
	g.mu.Lock()
	g.stopped = true
	unsubscribe := g.unsubscribe
	g.mu.Unlock()
	if unsubscribe != nil {
		unsubscribe()
	}
}
