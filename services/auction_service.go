package services

import (
	"context"
	"errors"
	"log/slog"
	"sort"
	"strings"

	"github.com/Dosada05/cup-site/live"
	"github.com/Dosada05/cup-site/models"
	"github.com/Dosada05/cup-site/repositories"
)

// Broadcaster pushes events to live websocket rooms.
type Broadcaster interface {
	BroadcastToRoom(roomID string, msgType string, payload any)
}

type AuctionService interface {
	Board(ctx context.Context) (*models.AuctionBoard, error)
	Sell(ctx context.Context, playerID int, input SellInput) (*models.Player, error)
	MarkUnsold(ctx context.Context, playerID int) (*models.Player, error)
	Reset(ctx context.Context, playerID int) (*models.Player, error)
}

type SellInput struct {
	Team  string `json:"team"`
	Price int    `json:"price"`
}

type auctionService struct {
	playerRepo repositories.PlayerRepository
	teamRepo   repositories.TeamRepository
	events     Broadcaster
	logger     *slog.Logger
}

func NewAuctionService(
	playerRepo repositories.PlayerRepository,
	teamRepo repositories.TeamRepository,
	events Broadcaster,
	logger *slog.Logger,
) AuctionService {
	return &auctionService{
		playerRepo: playerRepo,
		teamRepo:   teamRepo,
		events:     events,
		logger:     logger,
	}
}

func (s *auctionService) Board(ctx context.Context) (*models.AuctionBoard, error) {
	players, err := s.playerRepo.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	board := &models.AuctionBoard{
		Available: []models.Player{},
		Sold:      []models.Player{},
		Unsold:    []models.Player{},
		Spend:     []models.TeamSpend{},
	}
	spend := map[string]*models.TeamSpend{}
	for _, p := range players {
		switch p.AuctionStatus {
		case models.AuctionSold:
			board.Sold = append(board.Sold, p)
			ts, ok := spend[p.Team]
			if !ok {
				ts = &models.TeamSpend{Team: p.Team}
				spend[p.Team] = ts
			}
			ts.Players++
			if p.SoldPrice != nil {
				ts.Spent += *p.SoldPrice
			}
		case models.AuctionUnsold:
			board.Unsold = append(board.Unsold, p)
		default:
			board.Available = append(board.Available, p)
		}
	}
	for _, ts := range spend {
		board.Spend = append(board.Spend, *ts)
	}
	sort.Slice(board.Spend, func(i, j int) bool { return board.Spend[i].Team < board.Spend[j].Team })
	return board, nil
}

func (s *auctionService) Sell(ctx context.Context, playerID int, input SellInput) (*models.Player, error) {
	teamName := strings.TrimSpace(input.Team)
	if teamName == "" {
		return nil, ErrTeamNameRequired
	}

	player, err := s.playerRepo.GetByID(ctx, playerID)
	if err != nil {
		return nil, handleRepositoryError(err)
	}
	if player.AuctionStatus == models.AuctionSold {
		return nil, ErrPlayerAlreadySold
	}
	if input.Price < player.BasePrice {
		return nil, ErrInvalidAuctionPrice
	}

	teams, err := s.teamRepo.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	found := false
	for _, t := range teams {
		if t.Name == teamName {
			found = true
			break
		}
	}
	if !found {
		return nil, ErrTeamNotFound
	}

	price := input.Price
	player.Team = teamName
	player.SoldPrice = &price
	player.AuctionStatus = models.AuctionSold
	return s.save(ctx, player, ErrPlayerAlreadySold, models.AuctionAvailable, models.AuctionUnsold)
}

func (s *auctionService) MarkUnsold(ctx context.Context, playerID int) (*models.Player, error) {
	player, err := s.playerRepo.GetByID(ctx, playerID)
	if err != nil {
		return nil, handleRepositoryError(err)
	}
	if player.AuctionStatus != models.AuctionAvailable {
		return nil, ErrPlayerNotForSale
	}
	player.AuctionStatus = models.AuctionUnsold
	return s.save(ctx, player, ErrPlayerNotForSale, models.AuctionAvailable)
}

// Reset returns a player to the pool, releasing any team assignment made by a sale.
func (s *auctionService) Reset(ctx context.Context, playerID int) (*models.Player, error) {
	player, err := s.playerRepo.GetByID(ctx, playerID)
	if err != nil {
		return nil, handleRepositoryError(err)
	}
	read := player.AuctionStatus
	if read == models.AuctionSold {
		player.Team = ""
	}
	player.SoldPrice = nil
	player.AuctionStatus = models.AuctionAvailable
	return s.save(ctx, player, ErrAuctionConflict, read)
}

// save writes the auction change only while the stored status is still one of
// from; otherwise it returns changed.
func (s *auctionService) save(ctx context.Context, player *models.Player, changed error, from ...models.AuctionStatus) (*models.Player, error) {
	if err := s.playerRepo.UpdateAuction(ctx, player, from...); err != nil {
		if errors.Is(err, repositories.ErrAuctionStateChanged) {
			return nil, changed
		}
		return nil, handleRepositoryError(err)
	}
	s.logger.Info("auction updated",
		slog.Int("player_id", player.ID),
		slog.String("status", string(player.AuctionStatus)),
		slog.String("team", player.Team),
	)
	if s.events != nil {
		s.events.BroadcastToRoom(live.RoomAuction, live.TypeAuctionUpdated, player)
		s.events.BroadcastToRoom(live.RoomDashboard, live.TypeAuctionUpdated, player)
	}
	return player, nil
}
