package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/Dosada05/cup-site/models"
	"github.com/Dosada05/cup-site/repositories"
	"github.com/Dosada05/cup-site/storage"
	"github.com/gosimple/slug"
)

type TeamService interface {
	CreateTeam(ctx context.Context, input CreateTeamInput) (*models.Team, error)
	GetTeamByID(ctx context.Context, id int) (*models.Team, error)
	UpdateTeam(ctx context.Context, id int, input UpdateTeamInput) (*models.Team, error)
	DeleteTeam(ctx context.Context, id int) error
	UploadLogo(ctx context.Context, id int, filename, contentType string, r io.Reader) (*models.Team, error)
}

type CreateTeamInput struct {
	Name    string  `json:"name"`
	Captain *string `json:"captain"`
	Color   string  `json:"color"`
}

type UpdateTeamInput struct {
	Name    *string `json:"name"`
	Captain *string `json:"captain"`
	Color   *string `json:"color"`
}

type teamService struct {
	teamRepo repositories.TeamRepository
	logos    storage.LogoStore
	logger   *slog.Logger
}

func NewTeamService(teamRepo repositories.TeamRepository, logos storage.LogoStore, logger *slog.Logger) TeamService {
	return &teamService{
		teamRepo: teamRepo,
		logos:    logos,
		logger:   logger,
	}
}

// TeamSlug derives the URL slug for a team name.
func TeamSlug(name string) string {
	return slug.Make(name)
}

func validTeamColor(c string) bool {
	if len(c) != 4 && len(c) != 7 || c[0] != '#' {
		return false
	}
	for _, r := range c[1:] {
		if !strings.ContainsRune("0123456789abcdefABCDEF", r) {
			return false
		}
	}
	return true
}

func normalizeCaptain(c *string) *string {
	if c == nil {
		return nil
	}
	v := strings.TrimSpace(*c)
	if v == "" {
		return nil
	}
	return &v
}

func applyTeamName(team *models.Team, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrTeamNameRequired
	}
	s := TeamSlug(name)
	if s == "" {
		return fmt.Errorf("%w: team name %q produces an empty slug", ErrValidationFailed, name)
	}
	team.Name = name
	team.Slug = s
	return nil
}

func (s *teamService) CreateTeam(ctx context.Context, input CreateTeamInput) (*models.Team, error) {
	team := &models.Team{
		Captain: normalizeCaptain(input.Captain),
		Color:   strings.TrimSpace(input.Color),
	}
	if err := applyTeamName(team, input.Name); err != nil {
		return nil, err
	}
	if team.Color == "" {
		team.Color = models.DefaultTeamColor
	}
	if !validTeamColor(team.Color) {
		return nil, fmt.Errorf("%w: color must be a hex value like #D0620D", ErrValidationFailed)
	}

	if err := s.teamRepo.Create(ctx, team); err != nil {
		return nil, handleRepositoryError(err)
	}
	populateTeamPresentationFunc(team, s.logos)
	return team, nil
}

func (s *teamService) GetTeamByID(ctx context.Context, id int) (*models.Team, error) {
	team, err := s.teamRepo.GetByID(ctx, id)
	if err != nil {
		return nil, handleRepositoryError(err)
	}
	populateTeamPresentationFunc(team, s.logos)
	return team, nil
}

// UpdateTeam does not rename players of the team: their team field is free text.
func (s *teamService) UpdateTeam(ctx context.Context, id int, input UpdateTeamInput) (*models.Team, error) {
	team, err := s.teamRepo.GetByID(ctx, id)
	if err != nil {
		return nil, handleRepositoryError(err)
	}

	if input.Name != nil {
		if err := applyTeamName(team, *input.Name); err != nil {
			return nil, err
		}
	}
	if input.Captain != nil {
		team.Captain = normalizeCaptain(input.Captain)
	}
	if input.Color != nil {
		color := strings.TrimSpace(*input.Color)
		if !validTeamColor(color) {
			return nil, fmt.Errorf("%w: color must be a hex value like #D0620D", ErrValidationFailed)
		}
		team.Color = color
	}

	if err := s.teamRepo.Update(ctx, team); err != nil {
		return nil, handleRepositoryError(err)
	}
	populateTeamPresentationFunc(team, s.logos)
	return team, nil
}

func (s *teamService) DeleteTeam(ctx context.Context, id int) error {
	team, err := s.teamRepo.GetByID(ctx, id)
	if err != nil {
		return handleRepositoryError(err)
	}
	if err := s.teamRepo.Delete(ctx, id); err != nil {
		return handleRepositoryError(err)
	}
	if team.LogoKey != nil {
		s.deleteLogoObject(ctx, *team.LogoKey)
	}
	return nil
}

func (s *teamService) UploadLogo(ctx context.Context, id int, filename, contentType string, r io.Reader) (*models.Team, error) {
	if s.logos == nil {
		return nil, ErrLogoUploadDisabled
	}
	if !strings.HasPrefix(contentType, "image/") {
		return nil, fmt.Errorf("%w: logo must be an image, got %q", ErrValidationFailed, contentType)
	}

	team, err := s.teamRepo.GetByID(ctx, id)
	if err != nil {
		return nil, handleRepositoryError(err)
	}

	key := storage.LogoKey(id, filename)
	if _, err := s.logos.Put(ctx, key, contentType, r); err != nil {
		return nil, errors.Join(ErrLogoUploadFailed, err)
	}

	if err := s.teamRepo.SetLogoKey(ctx, id, &key); err != nil {
		s.deleteLogoObject(ctx, key)
		return nil, handleRepositoryError(err)
	}

	if team.LogoKey != nil && *team.LogoKey != key {
		s.deleteLogoObject(ctx, *team.LogoKey)
	}
	team.LogoKey = &key
	populateTeamPresentationFunc(team, s.logos)
	return team, nil
}

// deleteLogoObject is best effort; a stale object in the bucket is harmless.
func (s *teamService) deleteLogoObject(ctx context.Context, key string) {
	if s.logos == nil || key == "" {
		return
	}
	if err := s.logos.Remove(ctx, key); err != nil {
		s.logger.Warn("failed to delete team logo", slog.String("key", key), slog.Any("error", err))
	}
}
