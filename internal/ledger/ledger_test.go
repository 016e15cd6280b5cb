package ledger

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"jobdesk/internal/adapter/memory"
	"jobdesk/internal/domain"
)

func TestApplyIdempotent(t *testing.T) {
	apps := memory.NewApplicationRepository()
	l := NewLedger(apps)

	first := time.Date(2025, time.June, 1, 8, 0, 0, 0, time.UTC)
	l.now = func() time.Time { return first }

	snap := domain.JobSnapshot{JobID: "JD2025-000003", Title: "QA Engineer", CompanyName: "Globex"}
	if err := l.Apply(context.Background(), "acct-7", snap); err != nil {
		t.Fatalf("Apply: %v", err)
	}

	// The second click arrives a day later; nothing may change.
	l.now = func() time.Time { return first.Add(24 * time.Hour) }
	if err := l.Apply(context.Background(), "acct-7", snap); err != nil {
		t.Fatalf("Apply repeat: %v", err)
	}

	if apps.Count() != 1 {
		t.Fatalf("ledger holds %d rows, want 1", apps.Count())
	}
	stored, ok := apps.GetByID(domain.ApplicationID("acct-7", "JD2025-000003"))
	if !ok {
		t.Fatal("application missing")
	}
	if !stored.AppliedAt.Equal(first) {
		t.Fatalf("AppliedAt = %v, want first-click %v", stored.AppliedAt, first)
	}

	set, err := l.ListAppliedJobIDs(context.Background(), "acct-7")
	if err != nil {
		t.Fatalf("ListAppliedJobIDs: %v", err)
	}
	if len(set) != 1 {
		t.Fatalf("set size = %d, want 1", len(set))
	}
	if _, ok := set["JD2025-000003"]; !ok {
		t.Fatalf("set missing job id: %v", set)
	}
}

func TestApplyConcurrentClicks(t *testing.T) {
	apps := memory.NewApplicationRepository()
	l := NewLedger(apps)

	snap := domain.JobSnapshot{JobID: "JD2025-000009", Title: "PM", CompanyName: "Initech"}

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := l.Apply(context.Background(), "acct-7", snap); err != nil {
				t.Errorf("Apply: %v", err)
			}
		}()
	}
	wg.Wait()

	if apps.Count() != 1 {
		t.Fatalf("ledger holds %d rows after concurrent clicks, want 1", apps.Count())
	}
}

func TestApplyDistinctPairs(t *testing.T) {
	apps := memory.NewApplicationRepository()
	l := NewLedger(apps)

	if err := l.Apply(context.Background(), "acct-1", domain.JobSnapshot{JobID: "JD2025-000001"}); err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if err := l.Apply(context.Background(), "acct-1", domain.JobSnapshot{JobID: "JD2025-000002"}); err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if err := l.Apply(context.Background(), "acct-2", domain.JobSnapshot{JobID: "JD2025-000001"}); err != nil {
		t.Fatalf("Apply: %v", err)
	}

	if apps.Count() != 3 {
		t.Fatalf("ledger holds %d rows, want 3", apps.Count())
	}
	set, err := l.ListAppliedJobIDs(context.Background(), "acct-1")
	if err != nil {
		t.Fatalf("ListAppliedJobIDs: %v", err)
	}
	if len(set) != 2 {
		t.Fatalf("acct-1 set = %v, want two jobs", set)
	}
}

func TestApplyValidation(t *testing.T) {
	l := NewLedger(memory.NewApplicationRepository())

	if err := l.Apply(context.Background(), "", domain.JobSnapshot{JobID: "JD2025-000001"}); !errors.Is(err, domain.ErrNotAuthenticated) {
		t.Fatalf("Apply without account error = %v, want ErrNotAuthenticated", err)
	}
	if err := l.Apply(context.Background(), "acct-1", domain.JobSnapshot{}); err == nil {
		t.Fatal("Apply without job id succeeded")
	}
}
