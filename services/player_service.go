package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/Dosada05/cup-site/models"
	"github.com/Dosada05/cup-site/repositories"
)

type PlayerService interface {
	ListPlayers(ctx context.Context) ([]models.Player, error)
	GetPlayerByID(ctx context.Context, id int) (*models.Player, error)
	CreatePlayer(ctx context.Context, input CreatePlayerInput) (*models.Player, error)
	UpdatePlayer(ctx context.Context, id int, input UpdatePlayerInput) (*models.Player, error)
	DeletePlayer(ctx context.Context, id int) error
}

type CreatePlayerInput struct {
	Name      string `json:"name"`
	Team      string `json:"team"`
	Position  string `json:"position"`
	BasePrice int    `json:"base_price"`
}

type UpdatePlayerInput struct {
	Name      *string `json:"name"`
	Team      *string `json:"team"`
	Position  *string `json:"position"`
	BasePrice *int    `json:"base_price"`
}

type playerService struct {
	playerRepo repositories.PlayerRepository
}

func NewPlayerService(playerRepo repositories.PlayerRepository) PlayerService {
	return &playerService{playerRepo: playerRepo}
}

func (s *playerService) ListPlayers(ctx context.Context) ([]models.Player, error) {
	return s.playerRepo.GetAll(ctx)
}

func (s *playerService) GetPlayerByID(ctx context.Context, id int) (*models.Player, error) {
	p, err := s.playerRepo.GetByID(ctx, id)
	return p, handleRepositoryError(err)
}

func (s *playerService) CreatePlayer(ctx context.Context, input CreatePlayerInput) (*models.Player, error) {
	player := &models.Player{
		Name:          strings.TrimSpace(input.Name),
		Team:          strings.TrimSpace(input.Team),
		Position:      strings.TrimSpace(input.Position),
		BasePrice:     input.BasePrice,
		AuctionStatus: models.AuctionAvailable,
	}
	if player.Name == "" {
		return nil, ErrPlayerNameRequired
	}
	if player.BasePrice < 0 {
		return nil, fmt.Errorf("%w: base price cannot be negative", ErrValidationFailed)
	}

	if err := s.playerRepo.Create(ctx, player); err != nil {
		return nil, handleRepositoryError(err)
	}
	return player, nil
}

func (s *playerService) UpdatePlayer(ctx context.Context, id int, input UpdatePlayerInput) (*models.Player, error) {
	player, err := s.playerRepo.GetByID(ctx, id)
	if err != nil {
		return nil, handleRepositoryError(err)
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, ErrPlayerNameRequired
		}
		player.Name = name
	}
	if input.Team != nil {
		player.Team = strings.TrimSpace(*input.Team)
	}
	if input.Position != nil {
		player.Position = strings.TrimSpace(*input.Position)
	}
	if input.BasePrice != nil {
		if *input.BasePrice < 0 {
			return nil, fmt.Errorf("%w: base price cannot be negative", ErrValidationFailed)
		}
		player.BasePrice = *input.BasePrice
	}

	if err := s.playerRepo.Update(ctx, player); err != nil {
		return nil, handleRepositoryError(err)
	}
	return player, nil
}

func (s *playerService) DeletePlayer(ctx context.Context, id int) error {
	return handleRepositoryError(s.playerRepo.Delete(ctx, id))
}
