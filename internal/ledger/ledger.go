// Package ledger records job applications exactly once per (account, job)
// pair. Idempotency comes from the deterministic key derived from the pair,
// not from catching duplicate errors: concurrent or repeated apply calls
// converge on the same row and the first write wins.
package ledger

import (
	"context"
	"fmt"
	"time"

	"jobdesk/internal/domain"
)

// Ledger is the application ledger over the application store.
type Ledger struct {
	apps domain.ApplicationRepository
	now  func() time.Time
}

// NewLedger creates a Ledger.
func NewLedger(apps domain.ApplicationRepository) *Ledger {
	return &Ledger{apps: apps, now: time.Now}
}

// Apply records that the account applied to the job in the snapshot. A
// repeat apply is absorbed silently; it is never an error.
func (l *Ledger) Apply(ctx context.Context, accountID string, snap domain.JobSnapshot) error {
	if accountID == "" {
		return domain.ErrNotAuthenticated
	}
	if snap.JobID == "" {
		return fmt.Errorf("apply: empty job id")
	}
	return l.apps.Upsert(ctx, domain.NewApplication(accountID, snap, l.now()))
}

// ListAppliedJobIDs returns the set of job IDs the account has applied to.
// The UI uses it to disable Apply buttons.
func (l *Ledger) ListAppliedJobIDs(ctx context.Context, accountID string) (map[string]struct{}, error) {
	ids, err := l.apps.ListJobIDs(ctx, accountID)
	if err != nil {
		return nil, err
	}
	set := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set, nil
}
