package handlers

import (
	"log/slog"
	"net/http"

	"github.com/Dosada05/cup-site/services"
)

type DashboardHandler struct {
	responder
	statsService services.TeamStatsService
}

func NewDashboardHandler(s services.TeamStatsService, logger *slog.Logger) *DashboardHandler {
	return &DashboardHandler{responder: responder{logger: logger}, statsService: s}
}

func (h *DashboardHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.statsService.Summary(r.Context())
	if requestGone(r) {
		return
	}
	if err != nil {
		h.mapServiceErrorToHTTP(w, r, err)
		return
	}
	h.respond(w, r, http.StatusOK, stats)
}
