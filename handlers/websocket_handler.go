package handlers

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/Dosada05/cup-site/auth"
	"github.com/Dosada05/cup-site/live"
	"github.com/Dosada05/cup-site/middleware"
	"github.com/gorilla/websocket"
)

type WebSocketHandler struct {
	hub           *live.Hub
	authenticator auth.Authenticator
	tokens        *auth.Tokens
	loginPath     string
	upgrader      websocket.Upgrader
	logger        *slog.Logger
}

func NewWebSocketHandler(
	hub *live.Hub,
	authenticator auth.Authenticator,
	tokens *auth.Tokens,
	loginPath string,
	checkOrigin func(r *http.Request) bool,
	logger *slog.Logger,
) *WebSocketHandler {
	return &WebSocketHandler{
		hub:           hub,
		authenticator: authenticator,
		tokens:        tokens,
		loginPath:     loginPath,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     checkOrigin,
		},
		logger: logger,
	}
}

// ServeAuction streams public auction updates.
func (h *WebSocketHandler) ServeAuction(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", slog.String("room", live.RoomAuction), slog.Any("error", err))
		return
	}

	client := live.NewClient(h.hub, conn, live.RoomAuction)
	h.hub.Register(client)
	go client.WritePump()
	go client.ReadPump()
}

type dashboardCommand struct {
	Type string `json:"type"`
}

// ServeDashboard streams dashboard updates for as long as the caller's
// session stays authenticated. The session is tracked by an auth.Gate bound
// to this connection; when it ends the client gets a REDIRECT and is closed.
func (h *WebSocketHandler) ServeDashboard(w http.ResponseWriter, r *http.Request) {
	token := middleware.TokenFromRequest(r)

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", slog.String("room", live.RoomDashboard), slog.Any("error", err))
		return
	}

	client := live.NewClient(h.hub, conn, live.RoomDashboard)
	provider := auth.NewTokenProvider(h.authenticator, h.tokens, token)
	gate := auth.NewGate(provider, h.logger)

	var joined sync.Once
	guard := auth.NewGuard(gate, auth.GuardHandlers{
		Pending: func() {
			client.Send(live.Message{Type: live.TypeSessionPending})
		},
		Render: func(p auth.Profile) {
			joined.Do(func() { h.hub.Register(client) })
			client.Send(live.Message{Type: live.TypeSession, Payload: p})
		},
		Redirect: func() {
			client.Send(live.Message{Type: live.TypeRedirect, Payload: map[string]string{"location": h.loginPath}})
			client.Close()
		},
	})

	client.OnMessage = func(raw []byte) {
		var cmd dashboardCommand
		if err := json.Unmarshal(raw, &cmd); err != nil {
			return
		}
		if cmd.Type == "LOGOUT" {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := gate.Logout(ctx); err != nil {
				h.logger.Warn("dashboard logout failed", slog.Any("error", err))
			}
		}
	}

	go client.WritePump()
	go func() {
		client.ReadPump()
		guard.Stop()
		gate.Close()
	}()
}
