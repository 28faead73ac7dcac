package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/Dosada05/cup-site/models"
	"github.com/lib/pq"
)

var (
	ErrPlayerNotFound = errors.New("player not found")
	// ErrAuctionStateChanged means the player left the expected auction status
	// between read and write.
	ErrAuctionStateChanged = errors.New("player auction status changed")
)

type PlayerRepository interface {
	GetAll(ctx context.Context) ([]models.Player, error)
	GetByID(ctx context.Context, id int) (*models.Player, error)
	Create(ctx context.Context, player *models.Player) error
	Update(ctx context.Context, player *models.Player) error
	// UpdateAuction writes the auction fields only while the stored status is
	// one of from; an empty from applies the write unconditionally.
	UpdateAuction(ctx context.Context, player *models.Player, from ...models.AuctionStatus) error
	Delete(ctx context.Context, id int) error
}

type postgresPlayerRepository struct {
	db *sql.DB
}

func NewPostgresPlayerRepository(db *sql.DB) PlayerRepository {
	return &postgresPlayerRepository{db: db}
}

const playerColumns = `id, name, team, position, base_price, sold_price, auction_status, created_at`

func scanPlayer(row interface{ Scan(...any) error }, p *models.Player) error {
	var soldPrice sql.NullInt64
	err := row.Scan(&p.ID, &p.Name, &p.Team, &p.Position, &p.BasePrice, &soldPrice, &p.AuctionStatus, &p.CreatedAt)
	if err != nil {
		return err
	}
	if soldPrice.Valid {
		v := int(soldPrice.Int64)
		p.SoldPrice = &v
	}
	return nil
}

// GetAll returns the whole players collection in insertion order.
func (r *postgresPlayerRepository) GetAll(ctx context.Context) ([]models.Player, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+playerColumns+` FROM players ORDER BY id ASC`)
	if err != nil {
		return nil, storeError(KindPlayers, "read", err)
	}
	defer rows.Close()

	players := make([]models.Player, 0)
	for rows.Next() {
		var p models.Player
		if err := scanPlayer(rows, &p); err != nil {
			return nil, storeError(KindPlayers, "scan", err)
		}
		players = append(players, p)
	}
	if err := rows.Err(); err != nil {
		return nil, storeError(KindPlayers, "iterate", err)
	}
	return players, nil
}

func (r *postgresPlayerRepository) GetByID(ctx context.Context, id int) (*models.Player, error) {
	var p models.Player
	err := scanPlayer(r.db.QueryRowContext(ctx, `SELECT `+playerColumns+` FROM players WHERE id = $1`, id), &p)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrPlayerNotFound
		}
		return nil, storeError(KindPlayers, "read", err)
	}
	return &p, nil
}

func (r *postgresPlayerRepository) Create(ctx context.Context, player *models.Player) error {
	query := `
		INSERT INTO players (name, team, position, base_price, sold_price, auction_status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at`

	err := r.db.QueryRowContext(ctx, query,
		player.Name,
		player.Team,
		player.Position,
		player.BasePrice,
		player.SoldPrice,
		player.AuctionStatus,
	).Scan(&player.ID, &player.CreatedAt)
	if err != nil {
		return storeError(KindPlayers, "create", err)
	}
	return nil
}

func (r *postgresPlayerRepository) Update(ctx context.Context, player *models.Player) error {
	query := `
		UPDATE players SET
			name = $1,
			team = $2,
			position = $3,
			base_price = $4
		WHERE id = $5`

	result, err := r.db.ExecContext(ctx, query, player.Name, player.Team, player.Position, player.BasePrice, player.ID)
	if err != nil {
		return storeError(KindPlayers, "update", err)
	}
	return checkAffectedRows(result, ErrPlayerNotFound)
}

func (r *postgresPlayerRepository) UpdateAuction(ctx context.Context, player *models.Player, from ...models.AuctionStatus) error {
	query := `
		UPDATE players SET
			team = $1,
			sold_price = $2,
			auction_status = $3
		WHERE id = $4`
	args := []any{player.Team, player.SoldPrice, player.AuctionStatus, player.ID}
	if len(from) > 0 {
		allowed := make([]string, len(from))
		for i, st := range from {
			allowed[i] = string(st)
		}
		query += ` AND auction_status = ANY($5)`
		args = append(args, pq.Array(allowed))
	}

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return storeError(KindPlayers, "update", err)
	}
	err = checkAffectedRows(result, ErrAuctionStateChanged)
	if !errors.Is(err, ErrAuctionStateChanged) {
		return err
	}

	var exists bool
	if err := r.db.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM players WHERE id = $1)`, player.ID).Scan(&exists); err != nil {
		return storeError(KindPlayers, "read", err)
	}
	if !exists {
		return ErrPlayerNotFound
	}
	return ErrAuctionStateChanged
}

func (r *postgresPlayerRepository) Delete(ctx context.Context, id int) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM players WHERE id = $1`, id)
	if err != nil {
		return storeError(KindPlayers, "delete", err)
	}
	return checkAffectedRows(result, ErrPlayerNotFound)
}
