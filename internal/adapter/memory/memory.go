// Package memory provides in-memory implementations of the domain
// repositories. They back the service and handler tests and let the API run
// locally without Postgres; each guards its state with a mutex so the
// atomicity contracts match the pgx adapters.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"jobdesk/internal/domain"
)

// CounterRepository is an in-memory domain.CounterRepository.
type CounterRepository struct {
	mu       sync.Mutex
	counters map[string]*domain.Counter
}

// NewCounterRepository creates an empty counter store.
func NewCounterRepository() *CounterRepository {
	return &CounterRepository{counters: make(map[string]*domain.Counter)}
}

// Allocate issues the next ordinal for scope.
func (r *CounterRepository) Allocate(_ context.Context, scope string, now time.Time) (int, int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	c, ok := r.counters[scope]
	if !ok {
		c = &domain.Counter{Scope: scope}
		r.counters[scope] = c
	}
	c.Year, c.LastNumber = domain.NextAllocation(c.Year, c.LastNumber, now.Year())
	c.UpdatedAt = now
	return c.Year, c.LastNumber, nil
}

// SubscriptionRepository is an in-memory domain.SubscriptionRepository.
type SubscriptionRepository struct {
	mu   sync.Mutex
	subs map[string]*domain.Subscription
}

// NewSubscriptionRepository creates an empty subscription store.
func NewSubscriptionRepository() *SubscriptionRepository {
	return &SubscriptionRepository{subs: make(map[string]*domain.Subscription)}
}

// Get fetches the stored record without applying any period reset.
func (r *SubscriptionRepository) Get(_ context.Context, accountID string) (*domain.Subscription, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	sub, ok := r.subs[accountID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return cloneSub(sub), nil
}

// CreateDefault inserts the record unless the account already has one.
func (r *SubscriptionRepository) CreateDefault(_ context.Context, sub *domain.Subscription) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.subs[sub.AccountID]; !ok {
		r.subs[sub.AccountID] = cloneSub(sub)
	}
	return nil
}

// Refresh returns the current record, creating the default when absent and
// resetting the period when stale.
func (r *SubscriptionRepository) Refresh(_ context.Context, accountID string, now time.Time) (*domain.Subscription, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	sub := r.lockedEnsure(accountID, now)
	if sub.PeriodStale(now) {
		sub.ResetPeriod(now)
		sub.UpdatedAt = now
	}
	return cloneSub(sub), nil
}

// Reserve atomically consumes one posting slot.
func (r *SubscriptionRepository) Reserve(_ context.Context, accountID string, now time.Time) (*domain.Subscription, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	sub := r.lockedEnsure(accountID, now)
	if sub.PeriodStale(now) {
		sub.ResetPeriod(now)
	}
	if sub.PostsUsed >= sub.PostLimit {
		return nil, domain.ErrQuotaExceeded
	}
	sub.PostsUsed++
	sub.UpdatedAt = now
	return cloneSub(sub), nil
}

// Release hands back one reserved slot, never going below zero.
func (r *SubscriptionRepository) Release(_ context.Context, accountID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if sub, ok := r.subs[accountID]; ok && sub.PostsUsed > 0 {
		sub.PostsUsed--
	}
	return nil
}

// SetPlan applies an upgrade, leaving PostsUsed untouched.
func (r *SubscriptionRepository) SetPlan(_ context.Context, accountID string, plan domain.Plan, limit int, activeUntil *time.Time, periodStart time.Time) (*domain.Subscription, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	sub, ok := r.subs[accountID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	sub.Plan = plan
	sub.PostLimit = limit
	sub.ActiveUntil = nil
	if activeUntil != nil {
		until := *activeUntil
		sub.ActiveUntil = &until
	}
	sub.PeriodStart = periodStart
	sub.UpdatedAt = periodStart
	return cloneSub(sub), nil
}

func (r *SubscriptionRepository) lockedEnsure(accountID string, now time.Time) *domain.Subscription {
	sub, ok := r.subs[accountID]
	if !ok {
		sub = domain.NewDefaultSubscription(accountID, now)
		sub.CreatedAt = now
		sub.UpdatedAt = now
		r.subs[accountID] = sub
	}
	return sub
}

func cloneSub(s *domain.Subscription) *domain.Subscription {
	out := *s
	if s.ActiveUntil != nil {
		until := *s.ActiveUntil
		out.ActiveUntil = &until
	}
	return &out
}

// ApplicationRepository is an in-memory domain.ApplicationRepository.
type ApplicationRepository struct {
	mu   sync.Mutex
	apps map[string]*domain.Application
}

// NewApplicationRepository creates an empty application ledger.
func NewApplicationRepository() *ApplicationRepository {
	return &ApplicationRepository{apps: make(map[string]*domain.Application)}
}

// Upsert records the application; repeats for the same pair are no-ops.
func (r *ApplicationRepository) Upsert(_ context.Context, app *domain.Application) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.apps[app.ID]; ok {
		return nil
	}
	stored := *app
	r.apps[app.ID] = &stored
	return nil
}

// ListJobIDs returns the job IDs the account has applied to, newest first.
func (r *ApplicationRepository) ListJobIDs(_ context.Context, accountID string) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var apps []*domain.Application
	for _, app := range r.apps {
		if app.AccountID == accountID {
			apps = append(apps, app)
		}
	}
	sort.Slice(apps, func(i, j int) bool { return apps[i].AppliedAt.After(apps[j].AppliedAt) })

	ids := make([]string, 0, len(apps))
	for _, app := range apps {
		ids = append(ids, app.JobID)
	}
	return ids, nil
}

// Count reports the number of stored applications. Test helper.
func (r *ApplicationRepository) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.apps)
}

// GetByID returns a stored application. Test helper.
func (r *ApplicationRepository) GetByID(id string) (*domain.Application, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	app, ok := r.apps[id]
	if !ok {
		return nil, false
	}
	stored := *app
	return &stored, true
}

// JobPostingRepository is an in-memory domain.JobPostingRepository.
type JobPostingRepository struct {
	mu       sync.Mutex
	postings map[string]*domain.JobPosting
}

// NewJobPostingRepository creates an empty posting store.
func NewJobPostingRepository() *JobPostingRepository {
	return &JobPostingRepository{postings: make(map[string]*domain.JobPosting)}
}

// Create inserts a posting keyed by its public ID.
func (r *JobPostingRepository) Create(_ context.Context, p *domain.JobPosting) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored := *p
	r.postings[p.PublicID] = &stored
	return nil
}

// GetByPublicID fetches a posting by its public identifier.
func (r *JobPostingRepository) GetByPublicID(_ context.Context, publicID string) (*domain.JobPosting, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.postings[publicID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	stored := *p
	return &stored, nil
}

// List returns open postings, newest first, honoring the optional filters.
func (r *JobPostingRepository) List(_ context.Context, filter domain.PostingFilter) ([]domain.JobPosting, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []domain.JobPosting
	for _, p := range r.postings {
		if p.Status != domain.PostingStatusOpen {
			continue
		}
		if filter.Location != "" && p.Location != filter.Location {
			continue
		}
		if filter.Country != "" && p.Country != filter.Country {
			continue
		}
		if filter.Category != "" && p.Category != filter.Category {
			continue
		}
		out = append(out, *p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })

	limit := filter.Limit
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}
