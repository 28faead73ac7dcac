package auth

import (
	"context"
	"sync"
	"time"

	"github.com/Dosada05/cup-site/models"
)

// Authenticator verifies dashboard credentials.
type Authenticator interface {
	Login(ctx context.Context, creds models.Credentials) (*models.User, error)
}

// TokenProvider is an IdentityProvider for one client context holding a
// session token. It reports the token's session on subscription, then every
// sign-in, sign-out and expiry.
type TokenProvider struct {
	authn  Authenticator
	tokens *Tokens

	// deliver serialises callbacks so listeners observe changes in order.
	deliver sync.Mutex

	mu        sync.Mutex
	token     string
	profile   *Profile
	expiry    *time.Timer
	listeners map[int]func(*Profile)
	nextID    int
	stopWatch func()
}

func NewTokenProvider(authn Authenticator, tokens *Tokens, token string) *TokenProvider {
	p := &TokenProvider{
		authn:     authn,
		tokens:    tokens,
		listeners: make(map[int]func(*Profile)),
	}
	if profile, err := tokens.Parse(token); err == nil {
		p.token = token
		p.profile = profile
		p.scheduleExpiryLocked()
	}
	p.stopWatch = tokens.OnRevoke(p.revoked)
	return p
}

// revoked ends the session when its token is revoked elsewhere, e.g. by an
// HTTP logout from another tab.
func (p *TokenProvider) revoked(tokenID string) {
	p.mu.Lock()
	if p.profile == nil || p.profile.TokenID != tokenID {
		p.mu.Unlock()
		return
	}
	p.token = ""
	p.profile = nil
	if p.expiry != nil {
		p.expiry.Stop()
		p.expiry = nil
	}
	p.mu.Unlock()
	p.notify()
}

// Token returns the current signed token, empty when signed out.
func (p *TokenProvider) Token() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.token
}

func (p *TokenProvider) SignIn(ctx context.Context, email, password string) (*Profile, error) {
	user, err := p.authn.Login(ctx, models.Credentials{Email: email, Password: password})
	if err != nil {
		return nil, err
	}
	token, profile, err := p.tokens.Issue(user)
	if err != nil {
		return nil, err
	}

	p.mu.Lock()
	p.token = token
	p.profile = profile
	p.scheduleExpiryLocked()
	p.mu.Unlock()

	p.notify()
	return profile, nil
}

// SignOut revokes the current token so middleware rejects it from now on.
func (p *TokenProvider) SignOut(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	p.mu.Lock()
	profile := p.profile
	p.token = ""
	p.profile = nil
	if p.expiry != nil {
		p.expiry.Stop()
		p.expiry = nil
	}
	p.mu.Unlock()

	p.tokens.Revoke(profile)
	if profile != nil {
		p.notify()
	}
	return nil
}

func (p *TokenProvider) OnSessionChange(fn func(*Profile)) (cancel func()) {
	p.mu.Lock()
	id := p.nextID
	p.nextID++
	p.listeners[id] = fn
	p.mu.Unlock()

	go func() {
		p.deliver.Lock()
		defer p.deliver.Unlock()

		p.mu.Lock()
		_, active := p.listeners[id]
		current := p.profile
		p.mu.Unlock()
		if active {
			fn(current)
		}
	}()

	return func() {
		p.mu.Lock()
		delete(p.listeners, id)
		if len(p.listeners) > 0 {
			p.mu.Unlock()
			return
		}
		if p.expiry != nil {
			p.expiry.Stop()
			p.expiry = nil
		}
		stop := p.stopWatch
		p.stopWatch = nil
		p.mu.Unlock()
		if stop != nil {
			stop()
		}
	}
}

func (p *TokenProvider) scheduleExpiryLocked() {
	if p.expiry != nil {
		p.expiry.Stop()
	}
	profile := p.profile
	p.expiry = time.AfterFunc(time.Until(profile.ExpiresAt), func() {
		p.mu.Lock()
		if p.profile != profile {
			p.mu.Unlock()
			return
		}
		p.token = ""
		p.profile = nil
		p.expiry = nil
		p.mu.Unlock()
		p.notify()
	})
}

// notify delivers the latest session, so a late delivery never reverts a newer one.
func (p *TokenProvider) notify() {
	p.deliver.Lock()
	defer p.deliver.Unlock()

	p.mu.Lock()
	profile := p.profile
	fns := make([]func(*Profile), 0, len(p.listeners))
	for _, fn := range p.listeners {
		fns = append(fns, fn)
	}
	p.mu.Unlock()

	for _, fn := range fns {
		fn(profile)
	}
}
