package domain

import (
	"errors"
	"testing"
	"time"
)

func TestPostLimitFor(t *testing.T) {
	tests := []struct {
		plan Plan
		want int
	}{
		{PlanFree, 1},
		{PlanPro, 10},
		{PlanEnterprise, 100},
	}
	for _, tc := range tests {
		limit, err := PostLimitFor(tc.plan)
		if err != nil {
			t.Fatalf("PostLimitFor(%s) error: %v", tc.plan, err)
		}
		if limit != tc.want {
			t.Fatalf("PostLimitFor(%s) = %d, want %d", tc.plan, limit, tc.want)
		}
	}

	if _, err := PostLimitFor(Plan("platinum")); !errors.Is(err, ErrUnsupportedPlan) {
		t.Fatalf("PostLimitFor(platinum) error = %v, want ErrUnsupportedPlan", err)
	}
}

func TestParsePlan(t *testing.T) {
	if p, err := ParsePlan("pro"); err != nil || p != PlanPro {
		t.Fatalf("ParsePlan(pro) = (%v, %v)", p, err)
	}
	if _, err := ParsePlan("gold"); !errors.Is(err, ErrUnsupportedPlan) {
		t.Fatalf("ParsePlan(gold) error = %v, want ErrUnsupportedPlan", err)
	}
}

func TestSamePeriod(t *testing.T) {
	tests := []struct {
		name string
		a    time.Time
		b    time.Time
		want bool
	}{
		{
			name: "same month",
			a:    time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC),
			b:    time.Date(2025, time.March, 31, 23, 59, 59, 0, time.UTC),
			want: true,
		},
		{
			name: "next month",
			a:    time.Date(2025, time.March, 31, 0, 0, 0, 0, time.UTC),
			b:    time.Date(2025, time.April, 1, 0, 0, 0, 0, time.UTC),
			want: false,
		},
		{
			name: "same month different year",
			a:    time.Date(2024, time.May, 10, 0, 0, 0, 0, time.UTC),
			b:    time.Date(2025, time.May, 10, 0, 0, 0, 0, time.UTC),
			want: false,
		},
		{
			name: "december to january",
			a:    time.Date(2024, time.December, 31, 23, 0, 0, 0, time.UTC),
			b:    time.Date(2025, time.January, 1, 1, 0, 0, 0, time.UTC),
			want: false,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := SamePeriod(tc.a, tc.b); got != tc.want {
				t.Fatalf("SamePeriod() = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestSubscriptionResetPeriod(t *testing.T) {
	start := time.Date(2025, time.February, 12, 9, 0, 0, 0, time.UTC)
	now := time.Date(2025, time.March, 2, 9, 0, 0, 0, time.UTC)

	sub := NewDefaultSubscription("acct-1", start)
	sub.PostsUsed = 1

	if !sub.PeriodStale(now) {
		t.Fatal("expected period to be stale in the next month")
	}

	sub.ResetPeriod(now)
	if sub.PostsUsed != 0 {
		t.Fatalf("PostsUsed = %d after reset, want 0", sub.PostsUsed)
	}
	if !sub.PeriodStart.Equal(now) {
		t.Fatalf("PeriodStart = %v, want %v", sub.PeriodStart, now)
	}
	if sub.Plan != PlanFree || sub.PostLimit != 1 {
		t.Fatalf("reset touched plan fields: %+v", sub)
	}
}

func TestSubscriptionRemaining(t *testing.T) {
	sub := &Subscription{PostLimit: 10, PostsUsed: 7}
	if got := sub.Remaining(); got != 3 {
		t.Fatalf("Remaining() = %d, want 3", got)
	}
	sub.PostsUsed = 10
	if got := sub.Remaining(); got != 0 {
		t.Fatalf("Remaining() at limit = %d, want 0", got)
	}
	// A downgrade can leave usage above the limit; remaining clamps at zero.
	sub.PostsUsed = 12
	if got := sub.Remaining(); got != 0 {
		t.Fatalf("Remaining() over limit = %d, want 0", got)
	}
}
