// Package stats keeps coarse activity counters for the operator dashboard:
// cumulative totals plus per-day buckets that expire. Counting is
// best-effort and must never fail a request.
package stats

import (
	"context"
	"sync"
	"time"
)

// Metric names recorded by the API.
const (
	MetricJobsPosted   = "jobs_posted"
	MetricApplications = "applications"
	MetricQuotaDenied  = "quota_denied"
)

// Recorder counts events and reports totals.
type Recorder interface {
	// Incr adds one to the metric for the current day.
	Incr(ctx context.Context, metric string)
	// Totals returns the cumulative counts per metric.
	Totals(ctx context.Context) (map[string]int64, error)
}

// DayKey renders the day bucket suffix for a counter key.
func DayKey(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}

// Noop discards all counts. Used when no stats backend is configured.
type Noop struct{}

func (Noop) Incr(context.Context, string) {}

func (Noop) Totals(context.Context) (map[string]int64, error) {
	return map[string]int64{}, nil
}

// Memory is an in-process Recorder for tests and local development.
type Memory struct {
	mu     sync.Mutex
	totals map[string]int64
	days   map[string]int64
	now    func() time.Time
}

// NewMemory creates an empty in-process recorder.
func NewMemory() *Memory {
	return &Memory{
		totals: make(map[string]int64),
		days:   make(map[string]int64),
		now:    time.Now,
	}
}

func (m *Memory) Incr(_ context.Context, metric string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.totals[metric]++
	m.days[metric+":"+DayKey(m.now())]++
}

func (m *Memory) Totals(context.Context) (map[string]int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(map[string]int64, len(m.totals))
	for k, v := range m.totals {
		out[k] = v
	}
	return out, nil
}
