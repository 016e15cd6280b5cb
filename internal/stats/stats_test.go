package stats

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func TestDayKey(t *testing.T) {
	// Buckets are UTC days regardless of the local zone of the input.
	loc := time.FixedZone("UTC+7", 7*3600)
	in := time.Date(2025, time.June, 2, 3, 0, 0, 0, loc)
	if got := DayKey(in); got != "2025-06-01" {
		t.Fatalf("DayKey = %q, want 2025-06-01", got)
	}
}

func TestMemoryRecorder(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	m.Incr(ctx, MetricJobsPosted)
	m.Incr(ctx, MetricJobsPosted)
	m.Incr(ctx, MetricQuotaDenied)

	totals, err := m.Totals(ctx)
	if err != nil {
		t.Fatalf("Totals: %v", err)
	}
	if totals[MetricJobsPosted] != 2 || totals[MetricQuotaDenied] != 1 {
		t.Fatalf("totals = %v", totals)
	}
	if totals[MetricApplications] != 0 {
		t.Fatalf("untouched metric = %d, want 0", totals[MetricApplications])
	}
}

func TestRedisRecorderKeys(t *testing.T) {
	r := NewRedisRecorder(nil, "", zerolog.Nop())
	at := time.Date(2025, time.June, 2, 10, 0, 0, 0, time.UTC)

	if got := r.totalKey(MetricApplications); got != "jobdesk:stats:applications:total" {
		t.Fatalf("totalKey = %q", got)
	}
	if got := r.dayBucketKey(MetricJobsPosted, at); got != "jobdesk:stats:jobs_posted:day:2025-06-02" {
		t.Fatalf("dayBucketKey = %q", got)
	}
}
