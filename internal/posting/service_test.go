package posting

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"jobdesk/internal/adapter/memory"
	"jobdesk/internal/domain"
	"jobdesk/internal/ledger"
	"jobdesk/internal/quota"
	"jobdesk/internal/sequence"
)

type fixture struct {
	svc      *Service
	subs     *memory.SubscriptionRepository
	apps     *memory.ApplicationRepository
	postings *memory.JobPostingRepository
}

func newFixture(now time.Time) *fixture {
	subs := memory.NewSubscriptionRepository()
	apps := memory.NewApplicationRepository()
	postings := memory.NewJobPostingRepository()

	q := quota.NewManager(subs)
	alloc := sequence.NewAllocator(memory.NewCounterRepository())
	l := ledger.NewLedger(apps)
	svc := NewService(q, alloc, l, postings, zerolog.Nop())
	svc.now = func() time.Time { return now }

	return &fixture{svc: svc, subs: subs, apps: apps, postings: postings}
}

func TestCreatePublishesWithSequentialID(t *testing.T) {
	now := time.Date(2025, time.June, 1, 0, 0, 0, 0, time.UTC)
	f := newFixture(now)

	// Pro plan so several creates fit in one period.
	if _, err := quota.NewManager(f.subs).Upgrade(context.Background(), "acct-1", domain.PlanPro); err != nil {
		t.Fatalf("Upgrade: %v", err)
	}

	first, err := f.svc.Create(context.Background(), CreateRequest{
		AccountID:   "acct-1",
		Title:       "Backend Engineer",
		CompanyName: "acme   corp",
		Location:    "jakarta",
		Category:    "Engineering",
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if first.PublicID == "" || first.Status != domain.PostingStatusOpen {
		t.Fatalf("posting = %+v", first)
	}
	if first.CompanyName != "Acme Corp" || first.Location != "Jakarta" || first.Category != "engineering" {
		t.Fatalf("normalization off: %+v", first)
	}

	second, err := f.svc.Create(context.Background(), CreateRequest{AccountID: "acct-1", Title: "Designer"})
	if err != nil {
		t.Fatalf("Create second: %v", err)
	}
	if second.PublicID == first.PublicID {
		t.Fatalf("public IDs collided: %s", second.PublicID)
	}

	stored, err := f.postings.GetByPublicID(context.Background(), first.PublicID)
	if err != nil {
		t.Fatalf("GetByPublicID: %v", err)
	}
	if stored.AccountID != "acct-1" {
		t.Fatalf("stored = %+v", stored)
	}
}

func TestCreateDeniedOverQuota(t *testing.T) {
	now := time.Date(2025, time.June, 1, 0, 0, 0, 0, time.UTC)
	f := newFixture(now)

	if _, err := f.svc.Create(context.Background(), CreateRequest{AccountID: "acct-1", Title: "One"}); err != nil {
		t.Fatalf("Create: %v", err)
	}
	_, err := f.svc.Create(context.Background(), CreateRequest{AccountID: "acct-1", Title: "Two"})
	if !errors.Is(err, domain.ErrQuotaExceeded) {
		t.Fatalf("Create over free limit error = %v, want ErrQuotaExceeded", err)
	}

	// The denied request must not have written a job.
	list, err := f.postings.List(context.Background(), domain.PostingFilter{})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(list) != 1 {
		t.Fatalf("postings = %d, want 1", len(list))
	}
}

func TestCreateRaceAdmitsExactlyOne(t *testing.T) {
	now := time.Date(2025, time.June, 1, 0, 0, 0, 0, time.UTC)
	f := newFixture(now)

	const n = 15
	var wg sync.WaitGroup
	created := make(chan string, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			p, err := f.svc.Create(context.Background(), CreateRequest{AccountID: "acct-1", Title: "Racer"})
			switch {
			case err == nil:
				created <- p.PublicID
			case errors.Is(err, domain.ErrQuotaExceeded):
			default:
				t.Errorf("Create: %v", err)
			}
		}()
	}
	wg.Wait()
	close(created)

	if got := len(created); got != 1 {
		t.Fatalf("free account published %d postings concurrently, want exactly 1", got)
	}

	sub, err := f.subs.Get(context.Background(), "acct-1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if sub.PostsUsed != 1 {
		t.Fatalf("PostsUsed = %d, want 1", sub.PostsUsed)
	}
}

type failingPostings struct {
	domain.JobPostingRepository
}

func (failingPostings) Create(context.Context, *domain.JobPosting) error {
	return errors.New("disk full")
}

func TestCreateReleasesSlotOnWriteFailure(t *testing.T) {
	now := time.Date(2025, time.June, 1, 0, 0, 0, 0, time.UTC)
	f := newFixture(now)
	f.svc.postings = failingPostings{f.postings}

	if _, err := f.svc.Create(context.Background(), CreateRequest{AccountID: "acct-1", Title: "Doomed"}); err == nil {
		t.Fatal("Create succeeded despite write failure")
	}

	// The reserved slot was handed back, so the next attempt is admitted.
	f.svc.postings = f.postings
	if _, err := f.svc.Create(context.Background(), CreateRequest{AccountID: "acct-1", Title: "Retry"}); err != nil {
		t.Fatalf("Create after failure: %v", err)
	}
}

func TestApplyThroughService(t *testing.T) {
	now := time.Date(2025, time.June, 1, 0, 0, 0, 0, time.UTC)
	f := newFixture(now)

	p, err := f.svc.Create(context.Background(), CreateRequest{
		AccountID:   "poster",
		Title:       "Data Analyst",
		CompanyName: "Globex",
		Location:    "Bandung",
		Category:    "data",
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	for i := 0; i < 2; i++ {
		if _, err := f.svc.Apply(context.Background(), "seeker", p.PublicID); err != nil {
			t.Fatalf("Apply #%d: %v", i+1, err)
		}
	}
	if f.apps.Count() != 1 {
		t.Fatalf("applications = %d, want 1", f.apps.Count())
	}

	app, ok := f.apps.GetByID(domain.ApplicationID("seeker", p.PublicID))
	if !ok {
		t.Fatal("application missing")
	}
	if app.Title != "Data Analyst" || app.CompanyName != "Globex" {
		t.Fatalf("snapshot = %+v", app)
	}

	if _, err := f.svc.Apply(context.Background(), "seeker", "JD2099-999999"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("Apply to missing job error = %v, want ErrNotFound", err)
	}
}
