package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Dosada05/cup-site/auth"
	"github.com/Dosada05/cup-site/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func protected(t *testing.T, tokens *auth.Tokens) http.Handler {
	t.Helper()
	return Authenticate(tokens, "/login")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		profile, err := ProfileFromContext(r.Context())
		require.NoError(t, err)
		_, _ = w.Write([]byte(profile.Email))
	}))
}

func TestAuthenticate_RejectsMissingToken(t *testing.T) {
	tokens := auth.NewTokens("secret", time.Hour)
	handler := protected(t, tokens)

	t.Run("browser navigation redirects", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/dashboard/stats", nil)
		req.Header.Set("Accept", "text/html,application/xhtml+xml")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusSeeOther, rec.Code)
		assert.Equal(t, "/login", rec.Header().Get("Location"))
	})

	t.Run("api call gets 401", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/dashboard/stats", nil)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		var body map[string]string
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, "/login", body["redirect"])
		assert.Equal(t, "authentication required", body["error"])
	})
}

func TestAuthenticate_AcceptsValidToken(t *testing.T) {
	tokens := auth.NewTokens("secret", time.Hour)
	token, _, err := tokens.Issue(&models.User{ID: 1, Email: "admin@cup.example"})
	require.NoError(t, err)
	handler := protected(t, tokens)

	tests := []struct {
		name  string
		setup func(r *http.Request)
	}{
		{"bearer header", func(r *http.Request) { r.Header.Set("Authorization", "Bearer "+token) }},
		{"session cookie", func(r *http.Request) { r.AddCookie(&http.Cookie{Name: SessionCookieName, Value: token}) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/dashboard/stats", nil)
			tt.setup(req)
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			assert.Equal(t, http.StatusOK, rec.Code)
			assert.Equal(t, "admin@cup.example", rec.Body.String())
		})
	}
}

func TestAuthenticate_IgnoresQueryToken(t *testing.T) {
	tokens := auth.NewTokens("secret", time.Hour)
	token, _, err := tokens.Issue(&models.User{ID: 1, Email: "admin@cup.example"})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/dashboard/stats?token="+token, nil)
	rec := httptest.NewRecorder()
	protected(t, tokens).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestTokenFromRequest(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/dashboard/live?token=from-query", nil)
	assert.Equal(t, "from-query", TokenFromRequest(req))
	assert.Empty(t, SessionToken(req))

	req.Header.Set("Authorization", "Bearer from-header")
	assert.Equal(t, "from-header", TokenFromRequest(req))
}

func TestRedactToken(t *testing.T) {
	tests := []struct {
		name string
		uri  string
		want string
	}{
		{"no query", "/dashboard/live", "/dashboard/live"},
		{"other params kept", "/teams?page=2", "/teams?page=2"},
		{"token masked", "/dashboard/live?token=abc.def.ghi", "/dashboard/live?token=REDACTED"},
		{"token among others", "/auth/session?room=x&token=abc", "/auth/session?room=x&token=REDACTED"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var seenURI, seenToken string
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				seenURI = r.RequestURI
				seenToken = r.URL.Query().Get(TokenQueryParam)
			})
			req := httptest.NewRequest(http.MethodGet, tt.uri, nil)
			original := req.URL.Query().Get(TokenQueryParam)
			RedactToken(next).ServeHTTP(httptest.NewRecorder(), req)

			assert.Equal(t, tt.want, seenURI)
			assert.Equal(t, original, seenToken)
		})
	}
}

func TestAuthenticate_RevokedToken(t *testing.T) {
	tokens := auth.NewTokens("secret", time.Hour)
	token, profile, err := tokens.Issue(&models.User{ID: 1, Email: "admin@cup.example"})
	require.NoError(t, err)
	tokens.Revoke(profile)

	req := httptest.NewRequest(http.MethodPost, "/auth/logout", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	protected(t, tokens).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "session has ended")
}
