package auth

import (
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/Dosada05/cup-site/models"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
)

var (
	ErrTokenInvalid = errors.New("session token is invalid")
	ErrTokenRevoked = errors.New("session token has been revoked")
)

type sessionClaims struct {
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
	jwt.RegisteredClaims
}

// Tokens issues and verifies signed session tokens and remembers which ones
// were revoked by logout until they would have expired anyway.
type Tokens struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time

	mu       sync.Mutex
	revoked  map[string]time.Time
	watchers map[int]func(tokenID string)
	nextID   int
}

func NewTokens(secret string, ttl time.Duration) *Tokens {
	return &Tokens{
		secret:   []byte(secret),
		ttl:      ttl,
		now:      time.Now,
		revoked:  make(map[string]time.Time),
		watchers: make(map[int]func(string)),
	}
}

func (t *Tokens) Issue(user *models.User) (string, *Profile, error) {
	now := t.now()
	profile := &Profile{
		UserID:    user.ID,
		Email:     user.Email,
		Name:      user.Name,
		TokenID:   uuid.NewString(),
		ExpiresAt: now.Add(t.ttl).Truncate(time.Second),
	}

	claims := sessionClaims{
		Email: profile.Email,
		Name:  profile.Name,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.Itoa(profile.UserID),
			ID:        profile.TokenID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(profile.ExpiresAt),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
	if err != nil {
		return "", nil, fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, profile, nil
}

func (t *Tokens) Parse(token string) (*Profile, error) {
	if token == "" {
		return nil, ErrTokenInvalid
	}

	var claims sessionClaims
	parser := jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	_, err := parser.ParseWithClaims(token, &claims, func(*jwt.Token) (interface{}, error) {
		return t.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTokenInvalid, err)
	}

	userID, err := strconv.Atoi(claims.Subject)
	if err != nil || userID <= 0 {
		return nil, fmt.Errorf("%w: bad subject %q", ErrTokenInvalid, claims.Subject)
	}
	if claims.ExpiresAt == nil || claims.ID == "" {
		return nil, fmt.Errorf("%w: missing exp or jti", ErrTokenInvalid)
	}

	profile := &Profile{
		UserID:    userID,
		Email:     claims.Email,
		Name:      claims.Name,
		TokenID:   claims.ID,
		ExpiresAt: claims.ExpiresAt.Time,
	}
	if !t.now().Before(profile.ExpiresAt) {
		return nil, fmt.Errorf("%w: expired", ErrTokenInvalid)
	}
	if t.isRevoked(profile.TokenID) {
		return nil, ErrTokenRevoked
	}
	return profile, nil
}

func (t *Tokens) Revoke(p *Profile) {
	if p == nil || p.TokenID == "" {
		return
	}
	t.mu.Lock()
	t.revoked[p.TokenID] = p.ExpiresAt
	t.pruneLocked()
	watchers := make([]func(string), 0, len(t.watchers))
	for _, fn := range t.watchers {
		watchers = append(watchers, fn)
	}
	t.mu.Unlock()

	for _, fn := range watchers {
		fn(p.TokenID)
	}
}

// OnRevoke calls fn with the ID of every token revoked from now on.
func (t *Tokens) OnRevoke(fn func(tokenID string)) (cancel func()) {
	t.mu.Lock()
	id := t.nextID
	t.nextID++
	t.watchers[id] = fn
	t.mu.Unlock()

	return func() {
		t.mu.Lock()
		delete(t.watchers, id)
		t.mu.Unlock()
	}
}

func (t *Tokens) isRevoked(id string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	_, ok := t.revoked[id]
	return ok
}

func (t *Tokens) pruneLocked() {
	now := t.now()
	for id, exp := range t.revoked {
		if !now.Before(exp) {
			delete(t.revoked, id)
		}
	}
}
