package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/Dosada05/cup-site/models"
	"github.com/Dosada05/cup-site/repositories"
	"github.com/Dosada05/cup-site/storage"
	"golang.org/x/sync/errgroup"
)

// ComputeTeamStats returns a copy of teams with PlayerCount set to the number of
// players whose Team field equals the team's Name (exact, case-sensitive).
// Neither input slice is modified. A team without a name counts zero and a
// player without a team counts toward no team.
func ComputeTeamStats(teams []models.Team, players []models.Player) []models.Team {
	counts := make(map[string]int, len(teams))
	for _, p := range players {
		if p.Team != "" {
			counts[p.Team]++
		}
	}

	out := make([]models.Team, len(teams))
	for i, t := range teams {
		out[i] = t
		out[i].PlayerCount = 0
		if t.Name != "" {
			out[i].PlayerCount = counts[t.Name]
		}
	}
	return out
}

// teamInitials builds the fallback badge text: first letter of every word, upper-cased.
func teamInitials(name string) string {
	var b strings.Builder
	for _, word := range strings.Fields(name) {
		r, _ := utf8.DecodeRuneInString(word)
		b.WriteRune(unicode.ToUpper(r))
	}
	return b.String()
}

func populateTeamPresentationFunc(team *models.Team, logos storage.LogoStore) {
	if team == nil {
		return
	}
	team.Initials = teamInitials(team.Name)
	if team.LogoKey != nil && *team.LogoKey != "" && logos != nil {
		url := logos.URL(*team.LogoKey)
		if url != "" {
			team.LogoURL = &url
		}
	}
}

type TeamStatsService interface {
	ListTeams(ctx context.Context) ([]models.Team, error)
	GetTeamBySlug(ctx context.Context, slug string) (*models.TeamDetail, error)
	Summary(ctx context.Context) (*models.DashboardStats, error)
}

type teamStatsService struct {
	teamRepo   repositories.TeamRepository
	playerRepo repositories.PlayerRepository
	logos      storage.LogoStore
	logger     *slog.Logger
}

func NewTeamStatsService(
	teamRepo repositories.TeamRepository,
	playerRepo repositories.PlayerRepository,
	logos storage.LogoStore,
	logger *slog.Logger,
) TeamStatsService {
	return &teamStatsService{
		teamRepo:   teamRepo,
		playerRepo: playerRepo,
		logos:      logos,
		logger:     logger,
	}
}

// snapshot reads both collections concurrently. Either failure fails the
// whole snapshot, so callers never aggregate over a single collection.
func (s *teamStatsService) snapshot(ctx context.Context) ([]models.Team, []models.Player, error) {
	var (
		teams   []models.Team
		players []models.Player
	)

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		teams, err = s.teamRepo.GetAll(gCtx)
		if err != nil {
			return fmt.Errorf("load %s: %w", repositories.KindTeams, err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		players, err = s.playerRepo.GetAll(gCtx)
		if err != nil {
			return fmt.Errorf("load %s: %w", repositories.KindPlayers, err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		s.logger.Error("team snapshot failed", slog.Any("error", err))
		return nil, nil, err
	}
	return teams, players, nil
}

func (s *teamStatsService) ListTeams(ctx context.Context) ([]models.Team, error) {
	teams, players, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}

	result := ComputeTeamStats(teams, players)
	for i := range result {
		populateTeamPresentationFunc(&result[i], s.logos)
	}
	return result, nil
}

func (s *teamStatsService) GetTeamBySlug(ctx context.Context, slug string) (*models.TeamDetail, error) {
	teams, players, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}

	for _, team := range ComputeTeamStats(teams, players) {
		if team.Slug != slug {
			continue
		}
		populateTeamPresentationFunc(&team, s.logos)

		roster := make([]models.Player, 0, team.PlayerCount)
		for _, p := range players {
			if team.Name != "" && p.Team == team.Name {
				roster = append(roster, p)
			}
		}
		return &models.TeamDetail{Team: team, Players: roster}, nil
	}
	return nil, ErrTeamNotFound
}

func (s *teamStatsService) Summary(ctx context.Context) (*models.DashboardStats, error) {
	teams, players, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}

	names := make(map[string]struct{}, len(teams))
	for _, t := range teams {
		if t.Name != "" {
			names[t.Name] = struct{}{}
		}
	}

	stats := &models.DashboardStats{
		TeamsTotal:   len(teams),
		PlayersTotal: len(players),
	}
	for _, p := range players {
		switch p.AuctionStatus {
		case models.AuctionSold:
			stats.PlayersSold++
		case models.AuctionUnsold:
			stats.PlayersUnsold++
		default:
			stats.PlayersAvailable++
		}
		if _, ok := names[p.Team]; !ok {
			stats.PlayersUnassigned++
		}
	}
	return stats, nil
}
