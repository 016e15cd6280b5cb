package domain

import (
	"context"
	"time"
)

// CounterRepository hands out sequence ordinals. Allocate must perform its
// read-modify-write atomically: under N concurrent calls for one scope the
// returned ordinals are exactly 1..N.
type CounterRepository interface {
	Allocate(ctx context.Context, scope string, now time.Time) (year, ordinal int, err error)
}

// SubscriptionRepository persists per-account quota records.
type SubscriptionRepository interface {
	// Get fetches the record as stored. It applies no period reset, so
	// PostsUsed may be stale; callers must not gate on it.
	Get(ctx context.Context, accountID string) (*Subscription, error)

	// CreateDefault inserts the given record unless one already exists.
	CreateDefault(ctx context.Context, sub *Subscription) error

	// Refresh returns the current record, creating the default when absent
	// and persisting the calendar-month reset when the period is stale.
	Refresh(ctx context.Context, accountID string, now time.Time) (*Subscription, error)

	// Reserve atomically consumes one posting slot: inside a single
	// transaction it creates the default record if absent, applies the
	// period reset if stale, and increments PostsUsed only while it stays
	// within PostLimit. Returns ErrQuotaExceeded without side effects when
	// no slot is available.
	Reserve(ctx context.Context, accountID string, now time.Time) (*Subscription, error)

	// Release undoes one reservation after a failed posting write. It never
	// drives PostsUsed below zero.
	Release(ctx context.Context, accountID string) error

	// SetPlan applies an upgrade: new plan and limit, fresh period start,
	// paid-plan expiry. A nil activeUntil clears the expiry (free plan).
	// PostsUsed is left untouched.
	SetPlan(ctx context.Context, accountID string, plan Plan, limit int, activeUntil *time.Time, periodStart time.Time) (*Subscription, error)
}

// ApplicationRepository persists the application ledger.
type ApplicationRepository interface {
	// Upsert writes the application keyed by its derived ID. When a row for
	// the pair already exists the call is a no-op: the stored snapshot and
	// AppliedAt are first-write-wins.
	Upsert(ctx context.Context, app *Application) error

	// ListJobIDs returns the job IDs the account has applied to.
	ListJobIDs(ctx context.Context, accountID string) ([]string, error)
}

// JobPostingRepository persists published jobs.
type JobPostingRepository interface {
	Create(ctx context.Context, posting *JobPosting) error
	GetByPublicID(ctx context.Context, publicID string) (*JobPosting, error)
	List(ctx context.Context, filter PostingFilter) ([]JobPosting, error)
}
