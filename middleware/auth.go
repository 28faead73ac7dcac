package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/Dosada05/cup-site/auth"
)

const (
	SessionCookieName = "session"
	TokenQueryParam   = "token"
)

type contextKey string

const profileContextKey contextKey = "profile"

// SessionToken reads the session token from the Authorization header,
// falling back to the session cookie.
func SessionToken(r *http.Request) string {
	if h := r.Header.Get("Authorization"); h != "" {
		if token, ok := strings.CutPrefix(h, "Bearer "); ok {
			return strings.TrimSpace(token)
		}
	}
	if c, err := r.Cookie(SessionCookieName); err == nil && c.Value != "" {
		return c.Value
	}
	return ""
}

// TokenFromRequest is SessionToken with a final fallback to the token query
// parameter. Only websocket upgrades use it; browsers cannot set headers there.
func TokenFromRequest(r *http.Request) string {
	if token := SessionToken(r); token != "" {
		return token
	}
	return r.URL.Query().Get(TokenQueryParam)
}

func wantsHTML(r *http.Request) bool {
	return strings.Contains(r.Header.Get("Accept"), "text/html")
}

// Authenticate admits requests carrying a valid, unrevoked session token.
// Browser navigations without one are redirected to loginPath; API calls get 401.
func Authenticate(tokens *auth.Tokens, loginPath string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			profile, err := tokens.Parse(SessionToken(r))
			if err != nil {
				if wantsHTML(r) {
					http.Redirect(w, r, loginPath, http.StatusSeeOther)
					return
				}
				message := "authentication required"
				if errors.Is(err, auth.ErrTokenRevoked) {
					message = "session has ended"
				}
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusUnauthorized)
				_ = json.NewEncoder(w).Encode(map[string]string{"error": message, "redirect": loginPath})
				return
			}

			ctx := context.WithValue(r.Context(), profileContextKey, profile)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func ProfileFromContext(ctx context.Context) (*auth.Profile, error) {
	profile, ok := ctx.Value(profileContextKey).(*auth.Profile)
	if !ok || profile == nil {
		return nil, errors.New("session profile not found in context")
	}
	return profile, nil
}

// WithProfile stores profile in ctx the way Authenticate does.
func WithProfile(ctx context.Context, profile *auth.Profile) context.Context {
	return context.WithValue(ctx, profileContextKey, profile)
}
