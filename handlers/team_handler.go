package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/Dosada05/cup-site/live"
	"github.com/Dosada05/cup-site/models"
	"github.com/Dosada05/cup-site/services"
	"github.com/go-chi/chi/v5"
)

const maxLogoBytes = 5 << 20

type TeamHandler struct {
	responder
	statsService services.TeamStatsService
	teamService  services.TeamService
	events       services.Broadcaster
}

func NewTeamHandler(stats services.TeamStatsService, ts services.TeamService, events services.Broadcaster, logger *slog.Logger) *TeamHandler {
	return &TeamHandler{
		responder:    responder{logger: logger},
		statsService: stats,
		teamService:  ts,
		events:       events,
	}
}

// ListTeams godoc
// @Summary Teams with their current player counts
// @Tags teams
// @Produce json
// @Success 200 {object} map[string]interface{} "teams, available=false when the store could not be read"
// @Router /teams [get]
func (h *TeamHandler) ListTeams(w http.ResponseWriter, r *http.Request) {
	teams, err := h.statsService.ListTeams(r.Context())
	if requestGone(r) {
		return
	}
	if err != nil {
		if !errors.Is(err, services.ErrStoreUnavailable) {
			h.serverErrorResponse(w, r, err)
			return
		}
		h.logger.Warn("teams unavailable, serving empty state", slog.Any("error", err))
		h.respond(w, r, http.StatusOK, jsonResponse{"teams": []models.Team{}, "available": false})
		return
	}

	h.respond(w, r, http.StatusOK, jsonResponse{"teams": teams, "available": true})
}

// GetTeamBySlug godoc
// @Summary Team detail with roster
// @Tags teams
// @Produce json
// @Param slug path string true "Team slug"
// @Success 200 {object} models.TeamDetail
// @Failure 404 {object} map[string]string
// @Failure 503 {object} map[string]string
// @Router /teams/{slug} [get]
func (h *TeamHandler) GetTeamBySlug(w http.ResponseWriter, r *http.Request) {
	detail, err := h.statsService.GetTeamBySlug(r.Context(), chi.URLParam(r, "slug"))
	if requestGone(r) {
		return
	}
	if err != nil {
		h.mapServiceErrorToHTTP(w, r, err)
		return
	}
	h.respond(w, r, http.StatusOK, detail)
}

// CreateTeam godoc
// @Summary Create a team
// @Tags dashboard
// @Accept json
// @Produce json
// @Param input body services.CreateTeamInput true "Team"
// @Success 201 {object} map[string]interface{}
// @Failure 400 {object} map[string]string
// @Failure 409 {object} map[string]string "Name already in use"
// @Security BearerAuth
// @Router /dashboard/teams [post]
func (h *TeamHandler) CreateTeam(w http.ResponseWriter, r *http.Request) {
	var input services.CreateTeamInput
	if err := readJSON(w, r, &input); err != nil {
		h.badRequestResponse(w, r, err)
		return
	}

	team, err := h.teamService.CreateTeam(r.Context(), input)
	if err != nil {
		h.mapServiceErrorToHTTP(w, r, err)
		return
	}
	h.teamsChanged(team)
	h.respond(w, r, http.StatusCreated, jsonResponse{"team": team})
}

func (h *TeamHandler) GetTeamByID(w http.ResponseWriter, r *http.Request) {
	teamID, err := getIDFromURL(r, "teamID")
	if err != nil {
		h.badRequestResponse(w, r, err)
		return
	}

	team, err := h.teamService.GetTeamByID(r.Context(), teamID)
	if err != nil {
		h.mapServiceErrorToHTTP(w, r, err)
		return
	}
	h.respond(w, r, http.StatusOK, jsonResponse{"team": team})
}

func (h *TeamHandler) UpdateTeam(w http.ResponseWriter, r *http.Request) {
	teamID, err := getIDFromURL(r, "teamID")
	if err != nil {
		h.badRequestResponse(w, r, err)
		return
	}

	var input services.UpdateTeamInput
	if err := readJSON(w, r, &input); err != nil {
		h.badRequestResponse(w, r, err)
		return
	}
	if input.Name == nil && input.Captain == nil && input.Color == nil {
		h.badRequestResponse(w, r, errors.New("no fields provided for update"))
		return
	}

	team, err := h.teamService.UpdateTeam(r.Context(), teamID, input)
	if err != nil {
		h.mapServiceErrorToHTTP(w, r, err)
		return
	}
	h.teamsChanged(team)
	h.respond(w, r, http.StatusOK, jsonResponse{"team": team})
}

func (h *TeamHandler) DeleteTeam(w http.ResponseWriter, r *http.Request) {
	teamID, err := getIDFromURL(r, "teamID")
	if err != nil {
		h.badRequestResponse(w, r, err)
		return
	}

	if err := h.teamService.DeleteTeam(r.Context(), teamID); err != nil {
		h.mapServiceErrorToHTTP(w, r, err)
		return
	}
	h.teamsChanged(jsonResponse{"deleted_id": teamID})
	w.WriteHeader(http.StatusNoContent)
}

// UploadLogo godoc
// @Summary Upload a team logo
// @Tags dashboard
// @Accept multipart/form-data
// @Produce json
// @Param teamID path int true "Team ID"
// @Param logo formData file true "Image, at most 5MB"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]string
// @Failure 503 {object} map[string]string "Logo storage not configured"
// @Security BearerAuth
// @Router /dashboard/teams/{teamID}/logo [post]
func (h *TeamHandler) UploadLogo(w http.ResponseWriter, r *http.Request) {
	teamID, err := getIDFromURL(r, "teamID")
	if err != nil {
		h.badRequestResponse(w, r, err)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxLogoBytes+1<<10)
	if err := r.ParseMultipartForm(maxLogoBytes); err != nil {
		h.badRequestResponse(w, r, errors.New("logo must be a multipart upload of at most 5MB"))
		return
	}
	file, header, err := r.FormFile("logo")
	if err != nil {
		h.badRequestResponse(w, r, errors.New("missing logo file"))
		return
	}
	defer file.Close()

	team, err := h.teamService.UploadLogo(r.Context(), teamID, header.Filename, header.Header.Get("Content-Type"), file)
	if err != nil {
		h.mapServiceErrorToHTTP(w, r, err)
		return
	}
	h.teamsChanged(team)
	h.respond(w, r, http.StatusOK, jsonResponse{"team": team})
}

func (h *TeamHandler) teamsChanged(payload any) {
	if h.events == nil {
		return
	}
	h.events.BroadcastToRoom(live.RoomDashboard, live.TypeTeamsChanged, payload)
	h.events.BroadcastToRoom(live.RoomAuction, live.TypeTeamsChanged, payload)
}
