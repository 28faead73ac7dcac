package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"
)

// ErrStoreUnavailable wraps every failure to read from or write to the database.
var ErrStoreUnavailable = errors.New("entity store unavailable")

// EntityKind names a collection in the entity store.
type EntityKind string

const (
	KindTeams   EntityKind = "teams"
	KindPlayers EntityKind = "players"
	KindUsers   EntityKind = "users"
)

func storeError(kind EntityKind, op string, err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%s %s: %w", op, kind, err)
	}
	return fmt.Errorf("%w: %s %s: %w", ErrStoreUnavailable, op, kind, err)
}

func checkAffectedRows(result sql.Result, notFoundError error) error {
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check affected rows: %w", err)
	}
	if rowsAffected == 0 {
		return notFoundError
	}
	return nil
}

// uniqueViolation returns the violated constraint name for pq unique_violation errors.
func uniqueViolation(err error) (string, bool) {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == "23505" {
		return pqErr.Constraint, true
	}
	return "", false
}
