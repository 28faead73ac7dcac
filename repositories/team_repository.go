package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/Dosada05/cup-site/models"
)

var (
	ErrTeamNotFound     = errors.New("team not found")
	ErrTeamNameConflict = errors.New("team name conflict")
)

type TeamRepository interface {
	GetAll(ctx context.Context) ([]models.Team, error)
	GetByID(ctx context.Context, id int) (*models.Team, error)
	Create(ctx context.Context, team *models.Team) error
	Update(ctx context.Context, team *models.Team) error
	SetLogoKey(ctx context.Context, id int, key *string) error
	Delete(ctx context.Context, id int) error
}

type postgresTeamRepository struct {
	db *sql.DB
}

func NewPostgresTeamRepository(db *sql.DB) TeamRepository {
	return &postgresTeamRepository{db: db}
}

const teamColumns = `id, name, slug, captain, color, logo_key, created_at`

func scanTeam(row interface{ Scan(...any) error }, t *models.Team) error {
	var captain, logoKey sql.NullString
	if err := row.Scan(&t.ID, &t.Name, &t.Slug, &captain, &t.Color, &logoKey, &t.CreatedAt); err != nil {
		return err
	}
	if captain.Valid {
		t.Captain = &captain.String
	}
	if logoKey.Valid {
		t.LogoKey = &logoKey.String
	}
	return nil
}

// GetAll returns the whole teams collection in insertion order.
func (r *postgresTeamRepository) GetAll(ctx context.Context) ([]models.Team, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+teamColumns+` FROM teams ORDER BY id ASC`)
	if err != nil {
		return nil, storeError(KindTeams, "read", err)
	}
	defer rows.Close()

	teams := make([]models.Team, 0)
	for rows.Next() {
		var t models.Team
		if err := scanTeam(rows, &t); err != nil {
			return nil, storeError(KindTeams, "scan", err)
		}
		teams = append(teams, t)
	}
	if err := rows.Err(); err != nil {
		return nil, storeError(KindTeams, "iterate", err)
	}
	return teams, nil
}

func (r *postgresTeamRepository) GetByID(ctx context.Context, id int) (*models.Team, error) {
	var t models.Team
	err := scanTeam(r.db.QueryRowContext(ctx, `SELECT `+teamColumns+` FROM teams WHERE id = $1`, id), &t)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTeamNotFound
		}
		return nil, storeError(KindTeams, "read", err)
	}
	return &t, nil
}

func (r *postgresTeamRepository) Create(ctx context.Context, team *models.Team) error {
	query := `
		INSERT INTO teams (name, slug, captain, color, logo_key)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at`

	err := r.db.QueryRowContext(ctx, query,
		team.Name,
		team.Slug,
		team.Captain,
		team.Color,
		team.LogoKey,
	).Scan(&team.ID, &team.CreatedAt)
	if err != nil {
		if constraint, ok := uniqueViolation(err); ok && (constraint == "teams_name_key" || constraint == "teams_slug_key") {
			return ErrTeamNameConflict
		}
		return storeError(KindTeams, "create", err)
	}
	return nil
}

func (r *postgresTeamRepository) Update(ctx context.Context, team *models.Team) error {
	query := `
		UPDATE teams SET
			name = $1,
			slug = $2,
			captain = $3,
			color = $4
		WHERE id = $5`

	result, err := r.db.ExecContext(ctx, query, team.Name, team.Slug, team.Captain, team.Color, team.ID)
	if err != nil {
		if constraint, ok := uniqueViolation(err); ok && (constraint == "teams_name_key" || constraint == "teams_slug_key") {
			return ErrTeamNameConflict
		}
		return storeError(KindTeams, "update", err)
	}
	return checkAffectedRows(result, ErrTeamNotFound)
}

func (r *postgresTeamRepository) SetLogoKey(ctx context.Context, id int, key *string) error {
	result, err := r.db.ExecContext(ctx, `UPDATE teams SET logo_key = $1 WHERE id = $2`, key, id)
	if err != nil {
		return storeError(KindTeams, "update", err)
	}
	return checkAffectedRows(result, ErrTeamNotFound)
}

// Delete removes the team only; players keep their team name.
func (r *postgresTeamRepository) Delete(ctx context.Context, id int) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM teams WHERE id = $1`, id)
	if err != nil {
		return storeError(KindTeams, "delete", err)
	}
	return checkAffectedRows(result, ErrTeamNotFound)
}
