package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/Dosada05/cup-site/auth"
	"github.com/Dosada05/cup-site/middleware"
	"github.com/Dosada05/cup-site/models"
	"github.com/Dosada05/cup-site/services"
)

type AuthHandler struct {
	responder
	authService services.AuthService
	tokens      *auth.Tokens
	loginPath   string
}

func NewAuthHandler(authService services.AuthService, tokens *auth.Tokens, loginPath string, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		responder:   responder{logger: logger},
		authService: authService,
		tokens:      tokens,
		loginPath:   loginPath,
	}
}

// Login godoc
// @Summary Sign in to the dashboard
// @Tags auth
// @Accept json
// @Produce json
// @Param input body models.Credentials true "Email and password"
// @Success 200 {object} map[string]interface{} "token and profile; the session cookie is set"
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string "Invalid credentials"
// @Failure 503 {object} map[string]string "Auth service unavailable"
// @Router /auth/login [post]
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var input models.Credentials
	if err := readJSON(w, r, &input); err != nil {
		h.badRequestResponse(w, r, err)
		return
	}
	if input.Email == "" || input.Password == "" {
		h.badRequestResponse(w, r, errors.New("email and password are required"))
		return
	}

	user, err := h.authService.Login(r.Context(), input)
	if err != nil {
		if !errors.Is(err, services.ErrInvalidCredentials) {
			err = errors.Join(services.ErrAuthServiceUnavailable, err)
		}
		h.mapServiceErrorToHTTP(w, r, err)
		return
	}

	token, profile, err := h.tokens.Issue(user)
	if err != nil {
		h.serverErrorResponse(w, r, err)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    token,
		Path:     "/",
		Expires:  profile.ExpiresAt,
		HttpOnly: true,
		Secure:   r.TLS != nil,
		SameSite: http.SameSiteLaxMode,
	})

	h.logger.Info("dashboard sign-in", slog.Int("user_id", profile.UserID))
	h.respond(w, r, http.StatusOK, jsonResponse{"token": token, "profile": profile})
}

// Logout godoc
// @Summary Sign out; always succeeds and points the client at the login page
// @Tags auth
// @Produce json
// @Success 200 {object} map[string]string
// @Security BearerAuth
// @Router /auth/logout [post]
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if profile, err := middleware.ProfileFromContext(r.Context()); err != nil {
		h.logger.Warn("logout without session profile", slog.Any("error", err))
	} else {
		h.tokens.Revoke(profile)
	}

	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   r.TLS != nil,
		SameSite: http.SameSiteLaxMode,
	})
	h.respond(w, r, http.StatusOK, jsonResponse{"redirect": h.loginPath})
}

func (h *AuthHandler) Session(w http.ResponseWriter, r *http.Request) {
	profile, err := middleware.ProfileFromContext(r.Context())
	if err != nil {
		h.unauthorizedResponse(w, r, "failed to identify current user")
		return
	}
	h.respond(w, r, http.StatusOK, jsonResponse{"profile": profile})
}
