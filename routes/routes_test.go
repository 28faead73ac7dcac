package routes

import (
	"bytes"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Dosada05/cup-site/auth"
	"github.com/Dosada05/cup-site/models"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOriginChecker(t *testing.T) {
	req := func(origin string) *http.Request {
		r := httptest.NewRequest(http.MethodGet, "/live/auction", nil)
		if origin != "" {
			r.Header.Set("Origin", origin)
		}
		return r
	}

	assert.Nil(t, OriginChecker(nil))

	listed := OriginChecker([]string{"https://cup.example"})
	assert.True(t, listed(req("https://cup.example")))
	assert.True(t, listed(req("")))
	assert.False(t, listed(req("https://evil.example")))
}

func TestSetupRoutes_DashboardRequiresSession(t *testing.T) {
	router := chi.NewRouter()
	SetupRoutes(router, Handlers{}, Options{
		Tokens:         auth.NewTokens("secret", time.Hour),
		LoginPath:      "/login",
		Logger:         slog.New(slog.NewTextHandler(io.Discard, nil)),
	})

	tests := []struct {
		method, path, accept string
		want                 int
	}{
		{http.MethodGet, "/healthz", "", http.StatusOK},
		{http.MethodGet, "/dashboard/stats", "", http.StatusUnauthorized},
		{http.MethodGet, "/dashboard/stats", "text/html", http.StatusSeeOther},
		{http.MethodPost, "/dashboard/teams", "application/json", http.StatusUnauthorized},
		{http.MethodPost, "/dashboard/auction/players/4/sell", "", http.StatusUnauthorized},
		{http.MethodPost, "/auth/logout", "", http.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			r := httptest.NewRequest(tt.method, tt.path, nil)
			if tt.accept != "" {
				r.Header.Set("Accept", tt.accept)
			}
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, r)
			assert.Equal(t, tt.want, rec.Code)
		})
	}
}

func TestSetupRoutes_QueryTokenNeverLogged(t *testing.T) {
	tokens := auth.NewTokens("secret", time.Hour)
	token, _, err := tokens.Issue(&models.User{ID: 1, Email: "admin@cup.example"})
	require.NoError(t, err)

	var logs bytes.Buffer
	router := chi.NewRouter()
	SetupRoutes(router, Handlers{}, Options{
		Tokens:    tokens,
		LoginPath: "/login",
		Logger:    slog.New(slog.NewTextHandler(&logs, nil)),
	})

	tests := []struct {
		path string
		want int
	}{
		{"/auth/session?token=" + token, http.StatusUnauthorized},
		{"/dashboard/stats?token=" + token, http.StatusUnauthorized},
		{"/healthz?token=" + token, http.StatusOK},
	}
	for _, tt := range tests {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tt.path, nil))
		assert.Equal(t, tt.want, rec.Code, tt.path)
	}

	assert.NotContains(t, logs.String(), token)
	assert.Contains(t, logs.String(), "token=REDACTED")
}

func TestSetupRoutes_CORS(t *testing.T) {
	newRouter := func(origins []string) http.Handler {
		router := chi.NewRouter()
		SetupRoutes(router, Handlers{}, Options{
			Tokens:         auth.NewTokens("secret", time.Hour),
			LoginPath:      "/login",
			AllowedOrigins: origins,
			Logger:         slog.New(slog.NewTextHandler(io.Discard, nil)),
		})
		return router
	}
	allowOrigin := func(h http.Handler, origin string) string {
		r := httptest.NewRequest(http.MethodGet, "/healthz", nil)
		r.Header.Set("Origin", origin)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, r)
		return rec.Header().Get("Access-Control-Allow-Origin")
	}

	sameOrigin := newRouter(nil)
	assert.Empty(t, allowOrigin(sameOrigin, "https://evil.example"))

	listed := newRouter([]string{"https://cup.example"})
	assert.Equal(t, "https://cup.example", allowOrigin(listed, "https://cup.example"))
	assert.Empty(t, allowOrigin(listed, "https://evil.example"))
}
