package domain

import (
	"fmt"
	"time"
)

// Plan enumerates billing plans.
type Plan string

const (
	PlanFree       Plan = "free"
	PlanPro        Plan = "pro"
	PlanEnterprise Plan = "enterprise"
)

// planLimits is the closed plan→monthly-post-limit table. Adding a plan means
// extending this table, never special-casing at call sites.
var planLimits = map[Plan]int{
	PlanFree:       1,
	PlanPro:        10,
	PlanEnterprise: 100,
}

// PaidPlanDuration is how long an upgraded plan stays active.
const PaidPlanDuration = 30 * 24 * time.Hour

// ParsePlan validates a plan name coming from the outside.
func ParsePlan(s string) (Plan, error) {
	p := Plan(s)
	if _, ok := planLimits[p]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedPlan, s)
	}
	return p, nil
}

// PostLimitFor returns the monthly post limit for a plan.
func PostLimitFor(p Plan) (int, error) {
	limit, ok := planLimits[p]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnsupportedPlan, p)
	}
	return limit, nil
}

// Subscription is the per-account quota record. PostsUsed counts postings in
// the current calendar-month period starting at PeriodStart; ActiveUntil is
// set for paid plans only.
type Subscription struct {
	AccountID   string
	Plan        Plan
	PostLimit   int
	PostsUsed   int
	PeriodStart time.Time
	ActiveUntil *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// NewDefaultSubscription is the record created on first access: free plan,
// one post per month, nothing used yet.
func NewDefaultSubscription(accountID string, now time.Time) *Subscription {
	return &Subscription{
		AccountID:   accountID,
		Plan:        PlanFree,
		PostLimit:   planLimits[PlanFree],
		PostsUsed:   0,
		PeriodStart: now,
	}
}

// SamePeriod reports whether two instants fall in the same quota period,
// i.e. the same calendar month of the same year.
func SamePeriod(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month()
}

// PeriodStale reports whether the subscription's usage window has lapsed and
// must be reset before the record is evaluated or incremented.
func (s *Subscription) PeriodStale(now time.Time) bool {
	return !SamePeriod(s.PeriodStart, now)
}

// ResetPeriod starts a fresh quota period. It does not touch the plan.
func (s *Subscription) ResetPeriod(now time.Time) {
	s.PostsUsed = 0
	s.PeriodStart = now
}

// Remaining returns how many posts the account may still create this period.
func (s *Subscription) Remaining() int {
	if s.PostsUsed >= s.PostLimit {
		return 0
	}
	return s.PostLimit - s.PostsUsed
}
