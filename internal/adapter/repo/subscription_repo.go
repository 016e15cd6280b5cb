package repo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"jobdesk/internal/domain"
)

const subscriptionColumns = `account_id, plan, post_limit, posts_used, period_start, active_until, created_at, updated_at`

// SubscriptionRepositoryPG implements domain.SubscriptionRepository backed by
// PostgreSQL. Reserve and Refresh lock the account row so the period reset
// and the limit check cannot interleave with a concurrent request.
type SubscriptionRepositoryPG struct {
	pool *pgxpool.Pool
}

// NewSubscriptionRepository creates a new SubscriptionRepositoryPG.
func NewSubscriptionRepository(pool *pgxpool.Pool) *SubscriptionRepositoryPG {
	return &SubscriptionRepositoryPG{pool: pool}
}

// Get fetches the stored record without applying any period reset.
func (r *SubscriptionRepositoryPG) Get(ctx context.Context, accountID string) (*domain.Subscription, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+subscriptionColumns+` FROM subscriptions WHERE account_id = $1`, accountID)
	return scanSubscription(row)
}

// CreateDefault inserts the record unless the account already has one.
func (r *SubscriptionRepositoryPG) CreateDefault(ctx context.Context, sub *domain.Subscription) error {
	_, err := r.pool.Exec(ctx, `
INSERT INTO subscriptions (account_id, plan, post_limit, posts_used, period_start)
VALUES ($1, $2, $3, $4, $5)
ON CONFLICT (account_id) DO NOTHING;
`, sub.AccountID, sub.Plan, sub.PostLimit, sub.PostsUsed, sub.PeriodStart)
	if err != nil {
		return fmt.Errorf("create default subscription: %w", err)
	}
	return nil
}

// Refresh returns the current record, creating the default when absent and
// persisting the calendar-month reset when the stored period is stale.
func (r *SubscriptionRepositoryPG) Refresh(ctx context.Context, accountID string, now time.Time) (*domain.Subscription, error) {
	var out *domain.Subscription
	err := r.withAccountLock(ctx, accountID, now, func(tx pgx.Tx, sub *domain.Subscription) error {
		if sub.PeriodStale(now) {
			sub.ResetPeriod(now)
			if err := persistUsage(ctx, tx, sub); err != nil {
				return err
			}
		}
		out = sub
		return nil
	})
	return out, err
}

// Reserve consumes one posting slot, or returns domain.ErrQuotaExceeded with
// no side effects. Reset, check, and increment share one transaction.
func (r *SubscriptionRepositoryPG) Reserve(ctx context.Context, accountID string, now time.Time) (*domain.Subscription, error) {
	var out *domain.Subscription
	err := r.withAccountLock(ctx, accountID, now, func(tx pgx.Tx, sub *domain.Subscription) error {
		if sub.PeriodStale(now) {
			sub.ResetPeriod(now)
		}
		if sub.PostsUsed >= sub.PostLimit {
			return domain.ErrQuotaExceeded
		}
		sub.PostsUsed++
		if err := persistUsage(ctx, tx, sub); err != nil {
			return err
		}
		out = sub
		return nil
	})
	return out, err
}

// Release hands back a slot reserved for a posting that failed to persist.
func (r *SubscriptionRepositoryPG) Release(ctx context.Context, accountID string) error {
	_, err := r.pool.Exec(ctx, `
UPDATE subscriptions
SET posts_used = GREATEST(posts_used - 1, 0),
    updated_at = NOW()
WHERE account_id = $1;
`, accountID)
	if err != nil {
		return fmt.Errorf("release posting slot: %w", err)
	}
	return nil
}

// SetPlan applies an upgrade. PostsUsed is deliberately not listed; a nil
// activeUntil writes NULL.
func (r *SubscriptionRepositoryPG) SetPlan(ctx context.Context, accountID string, plan domain.Plan, limit int, activeUntil *time.Time, periodStart time.Time) (*domain.Subscription, error) {
	row := r.pool.QueryRow(ctx, `
UPDATE subscriptions
SET plan = $2,
    post_limit = $3,
    active_until = $4,
    period_start = $5,
    updated_at = NOW()
WHERE account_id = $1
RETURNING `+subscriptionColumns+`;
`, accountID, plan, limit, activeUntil, periodStart)
	return scanSubscription(row)
}

// withAccountLock runs fn against the row-locked subscription, inserting the
// default record first when the account has none.
func (r *SubscriptionRepositoryPG) withAccountLock(ctx context.Context, accountID string, now time.Time, fn func(tx pgx.Tx, sub *domain.Subscription) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin subscription tx: %w", err)
	}
	defer tx.Rollback(ctx)

	def := domain.NewDefaultSubscription(accountID, now)
	if _, err := tx.Exec(ctx, `
INSERT INTO subscriptions (account_id, plan, post_limit, posts_used, period_start)
VALUES ($1, $2, $3, $4, $5)
ON CONFLICT (account_id) DO NOTHING;
`, def.AccountID, def.Plan, def.PostLimit, def.PostsUsed, def.PeriodStart); err != nil {
		return fmt.Errorf("seed subscription: %w", err)
	}

	row := tx.QueryRow(ctx, `SELECT `+subscriptionColumns+` FROM subscriptions WHERE account_id = $1 FOR UPDATE`, accountID)
	sub, err := scanSubscription(row)
	if err != nil {
		return err
	}

	if err := fn(tx, sub); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit subscription tx: %w", err)
	}
	return nil
}

func persistUsage(ctx context.Context, tx pgx.Tx, sub *domain.Subscription) error {
	if _, err := tx.Exec(ctx, `
UPDATE subscriptions
SET posts_used = $2,
    period_start = $3,
    updated_at = NOW()
WHERE account_id = $1;
`, sub.AccountID, sub.PostsUsed, sub.PeriodStart); err != nil {
		return fmt.Errorf("persist subscription usage: %w", err)
	}
	return nil
}

func scanSubscription(row pgx.Row) (*domain.Subscription, error) {
	var s domain.Subscription
	if err := row.Scan(&s.AccountID, &s.Plan, &s.PostLimit, &s.PostsUsed, &s.PeriodStart, &s.ActiveUntil, &s.CreatedAt, &s.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &s, nil
}
