package domain

import (
	"fmt"
	"time"
)

// CounterScopeJobPosts is the sequence used for public job-posting IDs.
const CounterScopeJobPosts = "jobPosts"

// Counter tracks the last ordinal issued for a named sequence within a
// calendar year. One row exists per scope; it is created lazily on the first
// allocation and never deleted.
type Counter struct {
	Scope      string
	Year       int
	LastNumber int
	UpdatedAt  time.Time
}

// NextAllocation computes the follow-up to a stored counter state. The
// ordinal restarts at 1 whenever the observed year differs from the stored
// one, which also covers the first-ever allocation (stored year 0).
func NextAllocation(storedYear, storedLast, currentYear int) (year, ordinal int) {
	if storedYear == currentYear {
		return currentYear, storedLast + 1
	}
	return currentYear, 1
}

// FormatPostingID renders the public identifier for an allocation, e.g.
// JD2025-000001. Ordinals are left-padded to six digits and grow past six
// digits naturally once a year exceeds 999999 allocations.
func FormatPostingID(year, ordinal int) string {
	return fmt.Sprintf("JD%d-%06d", year, ordinal)
}
