package sequence

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"jobdesk/internal/adapter/memory"
	"jobdesk/internal/domain"
)

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func TestAllocateNextFormatsPublicID(t *testing.T) {
	alloc := NewAllocator(memory.NewCounterRepository())
	alloc.now = fixedClock(time.Date(2025, time.April, 1, 0, 0, 0, 0, time.UTC))

	got, err := alloc.AllocateNext(context.Background(), domain.CounterScopeJobPosts)
	if err != nil {
		t.Fatalf("AllocateNext: %v", err)
	}
	if got.Year != 2025 || got.Ordinal != 1 || got.PublicID != "JD2025-000001" {
		t.Fatalf("AllocateNext = %+v", got)
	}
}

func TestAllocateNextYearRollover(t *testing.T) {
	counters := memory.NewCounterRepository()
	alloc := NewAllocator(counters)
	alloc.now = fixedClock(time.Date(2024, time.December, 30, 0, 0, 0, 0, time.UTC))

	for i := 0; i < 5; i++ {
		if _, err := alloc.AllocateNext(context.Background(), "jobPosts"); err != nil {
			t.Fatalf("AllocateNext: %v", err)
		}
	}

	alloc.now = fixedClock(time.Date(2025, time.January, 2, 0, 0, 0, 0, time.UTC))
	got, err := alloc.AllocateNext(context.Background(), "jobPosts")
	if err != nil {
		t.Fatalf("AllocateNext after rollover: %v", err)
	}
	if got.Year != 2025 || got.Ordinal != 1 {
		t.Fatalf("after rollover got %+v, want year 2025 ordinal 1", got)
	}

	// The new year keeps counting from the reset point.
	got, err = alloc.AllocateNext(context.Background(), "jobPosts")
	if err != nil {
		t.Fatalf("AllocateNext: %v", err)
	}
	if got.Ordinal != 2 {
		t.Fatalf("second post-rollover ordinal = %d, want 2", got.Ordinal)
	}
}

func TestAllocateNextConcurrentUnique(t *testing.T) {
	alloc := NewAllocator(memory.NewCounterRepository())
	alloc.now = fixedClock(time.Date(2025, time.April, 1, 0, 0, 0, 0, time.UTC))

	const n = 40
	ids := make(chan string, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			got, err := alloc.AllocateNext(context.Background(), "jobPosts")
			if err != nil {
				t.Errorf("AllocateNext: %v", err)
				return
			}
			ids <- got.PublicID
		}()
	}
	wg.Wait()
	close(ids)

	seen := make(map[string]bool, n)
	for id := range ids {
		if seen[id] {
			t.Fatalf("duplicate public ID %s", id)
		}
		seen[id] = true
	}
	if len(seen) != n {
		t.Fatalf("issued %d distinct IDs, want %d", len(seen), n)
	}
}

type failingCounters struct{}

func (failingCounters) Allocate(context.Context, string, time.Time) (int, int, error) {
	return 0, 0, errors.New("connection reset")
}

func TestAllocateNextWrapsFailure(t *testing.T) {
	alloc := NewAllocator(failingCounters{})

	_, err := alloc.AllocateNext(context.Background(), "jobPosts")
	if !errors.Is(err, domain.ErrAllocationFailed) {
		t.Fatalf("error = %v, want ErrAllocationFailed", err)
	}
}
