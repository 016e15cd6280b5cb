package repo

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"jobdesk/internal/domain"
)

// CounterRepositoryPG implements domain.CounterRepository backed by
// PostgreSQL. The row lock taken inside Allocate serializes concurrent
// allocators for a scope, so each committed transaction observes the
// previous one's ordinal.
type CounterRepositoryPG struct {
	pool *pgxpool.Pool
}

// NewCounterRepository creates a new CounterRepositoryPG.
func NewCounterRepository(pool *pgxpool.Pool) *CounterRepositoryPG {
	return &CounterRepositoryPG{pool: pool}
}

// Allocate issues the next ordinal for scope within a single transaction.
func (r *CounterRepositoryPG) Allocate(ctx context.Context, scope string, now time.Time) (int, int, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return 0, 0, fmt.Errorf("begin allocate: %w", err)
	}
	defer tx.Rollback(ctx)

	// Seed the counter row on first use so the row lock below has a target.
	if _, err := tx.Exec(ctx, `
INSERT INTO counters (scope, year, last_number)
VALUES ($1, 0, 0)
ON CONFLICT (scope) DO NOTHING;
`, scope); err != nil {
		return 0, 0, fmt.Errorf("seed counter %q: %w", scope, err)
	}

	var storedYear, storedLast int
	row := tx.QueryRow(ctx, `SELECT year, last_number FROM counters WHERE scope = $1 FOR UPDATE`, scope)
	if err := row.Scan(&storedYear, &storedLast); err != nil {
		return 0, 0, fmt.Errorf("read counter %q: %w", scope, err)
	}

	year, ordinal := domain.NextAllocation(storedYear, storedLast, now.Year())

	if _, err := tx.Exec(ctx, `
UPDATE counters
SET year = $2,
    last_number = $3,
    updated_at = NOW()
WHERE scope = $1;
`, scope, year, ordinal); err != nil {
		return 0, 0, fmt.Errorf("advance counter %q: %w", scope, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, 0, fmt.Errorf("commit allocate %q: %w", scope, err)
	}
	return year, ordinal, nil
}
