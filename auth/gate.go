package auth

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/Dosada05/cup-site/services"
)

// IdentityProvider is the source of truth for one client context's session.
//
// OnSessionChange must invoke fn asynchronously once with the current session
// (nil profile when signed out) and again after every later sign-in, sign-out
// or expiry, including ones not triggered through this provider's methods.
type IdentityProvider interface {
	SignIn(ctx context.Context, email, password string) (*Profile, error)
	SignOut(ctx context.Context) error
	OnSessionChange(fn func(*Profile)) (cancel func())
}

// Gate owns the Session of a single client context.
//
// Subscriber callbacks run synchronously, one transition at a time, and must
// not call Login or Logout on the same Gate.
type Gate struct {
	provider IdentityProvider
	logger   *slog.Logger

	mu      sync.Mutex
	session Session
	subs    map[int]func(Session)
	nextSub int
	closed  bool
	cancel  func()

	dispatch sync.Mutex
}

func NewGate(provider IdentityProvider, logger *slog.Logger) *Gate {
	g := &Gate{
		provider: provider,
		logger:   logger,
		session:  Session{State: StateUnknown},
		subs:     make(map[int]func(Session)),
	}
	cancel := provider.OnSessionChange(func(p *Profile) {
		g.apply(sessionFor(p))
	})
	g.mu.Lock()
	g.cancel = cancel
	g.mu.Unlock()
	return g
}

func (g *Gate) Session() Session {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.session
}

// Subscribe calls fn with the current session and then on every transition
// until the returned function is called.
func (g *Gate) Subscribe(fn func(Session)) (unsubscribe func()) {
	g.dispatch.Lock()
	defer g.dispatch.Unlock()

	g.mu.Lock()
	if g.closed {
		g.mu.Unlock()
		return func() {}
	}
	id := g.nextSub
	g.nextSub++
	g.subs[id] = fn
	current := g.session
	g.mu.Unlock()

	fn(current)

	var once sync.Once
	return func() {
		once.Do(func() {
			g.mu.Lock()
			delete(g.subs, id)
			g.mu.Unlock()
		})
	}
}

// Login leaves the session untouched on failure.
func (g *Gate) Login(ctx context.Context, email, password string) error {
	profile, err := g.provider.SignIn(ctx, email, password)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			return services.ErrInvalidCredentials
		}
		g.logger.Error("sign-in failed", slog.Any("error", err))
		if errors.Is(err, services.ErrAuthServiceUnavailable) {
			return err
		}
		return errors.Join(services.ErrAuthServiceUnavailable, err)
	}
	g.apply(sessionFor(profile))
	return nil
}

// Logout is best effort: the session becomes unauthenticated even when the
// provider fails, and the provider error is returned for logging.
func (g *Gate) Logout(ctx context.Context) error {
	err := g.provider.SignOut(ctx)
	g.apply(Session{State: StateUnauthenticated})
	if err != nil {
		g.logger.Warn("sign-out failed", slog.Any("error", err))
		if !errors.Is(err, services.ErrAuthServiceUnavailable) {
			err = errors.Join(services.ErrAuthServiceUnavailable, err)
		}
		return err
	}
	return nil
}

// Close detaches the gate from its provider and drops all subscribers.
func (g *Gate) Close() {
	g.mu.Lock()
	if g.closed {
		g.mu.Unlock()
		return
	}
	g.closed = true
	cancel := g.cancel
	g.subs = map[int]func(Session){}
	g.mu.Unlock()

	if cancel != nil {
		cancel()
	}
}

func (g *Gate) apply(next Session) {
	g.dispatch.Lock()
	defer g.dispatch.Unlock()

	g.mu.Lock()
	if g.closed || g.session.equal(next) {
		g.mu.Unlock()
		return
	}
	g.session = next
	subs := make([]func(Session), 0, len(g.subs))
	for _, fn := range g.subs {
		subs = append(subs, fn)
	}
	g.mu.Unlock()

	g.logger.Debug("session changed", slog.String("state", next.State.String()))
	for _, fn := range subs {
		fn(next)
	}
}
