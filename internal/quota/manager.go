// Package quota gates job-posting actions against a per-account,
// calendar-month subscription limit. Enforcement happens inside the
// repository's reservation transaction; everything here is orchestration
// around that contract.
package quota

import (
	"context"
	"time"

	"jobdesk/internal/domain"
)

// Decision is the outcome of an admission check. A false Allowed is a normal
// value, not an error, so callers can show an upgrade prompt without
// special-casing.
type Decision struct {
	Allowed      bool
	Subscription *domain.Subscription
}

// Manager is the quota layer over the subscription store.
type Manager struct {
	subs domain.SubscriptionRepository
	now  func() time.Time
}

// NewManager creates a Manager.
func NewManager(subs domain.SubscriptionRepository) *Manager {
	return &Manager{subs: subs, now: time.Now}
}

// EnsureExists creates the default free subscription for the account if none
// exists. Idempotent.
func (m *Manager) EnsureExists(ctx context.Context, accountID string) error {
	return m.subs.CreateDefault(ctx, domain.NewDefaultSubscription(accountID, m.now()))
}

// GetCurrent returns the subscription as stored. The monthly reset is applied
// lazily by CanPost and RecordPost only, so PostsUsed here can be stale;
// never use this for enforcement decisions.
func (m *Manager) GetCurrent(ctx context.Context, accountID string) (*domain.Subscription, error) {
	return m.subs.Get(ctx, accountID)
}

// CanPost reports whether the account may post right now. It creates the
// default subscription when absent and persists the calendar-month reset, but
// reserves nothing: the binding check happens again inside RecordPost.
func (m *Manager) CanPost(ctx context.Context, accountID string) (Decision, error) {
	sub, err := m.subs.Refresh(ctx, accountID, m.now())
	if err != nil {
		return Decision{}, err
	}
	return Decision{Allowed: sub.PostsUsed < sub.PostLimit, Subscription: sub}, nil
}

// RecordPost consumes one posting slot. Check and increment run in a single
// storage transaction, so two racing requests against a limit of N admit at
// most N posts; the loser gets domain.ErrQuotaExceeded.
func (m *Manager) RecordPost(ctx context.Context, accountID string) (*domain.Subscription, error) {
	return m.subs.Reserve(ctx, accountID, m.now())
}

// ReleasePost hands back a slot reserved by RecordPost when the posting write
// that followed it failed.
func (m *Manager) ReleasePost(ctx context.Context, accountID string) error {
	return m.subs.Release(ctx, accountID)
}

// Upgrade moves the account to the given plan: new limit from the plan
// table, 30 days of paid access (none when the target is free), a fresh
// period start. PostsUsed carries over unchanged.
func (m *Manager) Upgrade(ctx context.Context, accountID string, plan domain.Plan) (*domain.Subscription, error) {
	limit, err := domain.PostLimitFor(plan)
	if err != nil {
		return nil, err
	}

	now := m.now()
	var activeUntil *time.Time
	if plan != domain.PlanFree {
		until := now.Add(domain.PaidPlanDuration)
		activeUntil = &until
	}

	// Make sure the row exists before the plan update; first-contact
	// accounts can upgrade straight away.
	if _, err := m.subs.Refresh(ctx, accountID, now); err != nil {
		return nil, err
	}
	return m.subs.SetPlan(ctx, accountID, plan, limit, activeUntil, now)
}
