package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/Dosada05/cup-site/models"
	"github.com/Dosada05/cup-site/services"
)

type AuctionHandler struct {
	responder
	auctionService services.AuctionService
}

func NewAuctionHandler(as services.AuctionService, logger *slog.Logger) *AuctionHandler {
	return &AuctionHandler{
		responder:      responder{logger: logger},
		auctionService: as,
	}
}

// Board godoc
// @Summary Auction board: players by status and spend per team
// @Tags auction
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /auction [get]
func (h *AuctionHandler) Board(w http.ResponseWriter, r *http.Request) {
	board, err := h.auctionService.Board(r.Context())
	if requestGone(r) {
		return
	}
	if err != nil {
		if !errors.Is(err, services.ErrStoreUnavailable) {
			h.serverErrorResponse(w, r, err)
			return
		}
		h.logger.Warn("auction board unavailable, serving empty state", slog.Any("error", err))
		empty := models.AuctionBoard{
			Available: []models.Player{},
			Sold:      []models.Player{},
			Unsold:    []models.Player{},
			Spend:     []models.TeamSpend{},
		}
		h.respond(w, r, http.StatusOK, jsonResponse{"board": empty, "available": false})
		return
	}
	h.respond(w, r, http.StatusOK, jsonResponse{"board": board, "available": true})
}

// Sell godoc
// @Summary Sell a player to a team
// @Tags dashboard
// @Accept json
// @Produce json
// @Param playerID path int true "Player ID"
// @Param input body services.SellInput true "Team name and price"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string "Player or team not found"
// @Failure 409 {object} map[string]string "Already sold"
// @Security BearerAuth
// @Router /dashboard/auction/players/{playerID}/sell [post]
func (h *AuctionHandler) Sell(w http.ResponseWriter, r *http.Request) {
	playerID, err := getIDFromURL(r, "playerID")
	if err != nil {
		h.badRequestResponse(w, r, err)
		return
	}

	var input services.SellInput
	if err := readJSON(w, r, &input); err != nil {
		h.badRequestResponse(w, r, err)
		return
	}

	player, err := h.auctionService.Sell(r.Context(), playerID, input)
	if err != nil {
		h.mapServiceErrorToHTTP(w, r, err)
		return
	}
	h.respond(w, r, http.StatusOK, jsonResponse{"player": player})
}

func (h *AuctionHandler) MarkUnsold(w http.ResponseWriter, r *http.Request) {
	playerID, err := getIDFromURL(r, "playerID")
	if err != nil {
		h.badRequestResponse(w, r, err)
		return
	}

	player, err := h.auctionService.MarkUnsold(r.Context(), playerID)
	if err != nil {
		h.mapServiceErrorToHTTP(w, r, err)
		return
	}
	h.respond(w, r, http.StatusOK, jsonResponse{"player": player})
}

func (h *AuctionHandler) Reset(w http.ResponseWriter, r *http.Request) {
	playerID, err := getIDFromURL(r, "playerID")
	if err != nil {
		h.badRequestResponse(w, r, err)
		return
	}

	player, err := h.auctionService.Reset(r.Context(), playerID)
	if err != nil {
		h.mapServiceErrorToHTTP(w, r, err)
		return
	}
	h.respond(w, r, http.StatusOK, jsonResponse{"player": player})
}
