// Package sequence issues year-scoped sequential identifiers for public
// resources. It is the leaf component of the posting flow: nothing here
// depends on quotas or the ledger.
package sequence

import (
	"context"
	"fmt"
	"time"

	"jobdesk/internal/domain"
)

// Allocation is one issued identifier.
type Allocation struct {
	Year     int
	Ordinal  int
	PublicID string
}

// Allocator mints allocations from a counter store.
type Allocator struct {
	counters domain.CounterRepository
	now      func() time.Time
}

// NewAllocator creates an Allocator over the given counter store.
func NewAllocator(counters domain.CounterRepository) *Allocator {
	return &Allocator{counters: counters, now: time.Now}
}

// AllocateNext issues the next identifier for scope. Failures to commit the
// underlying transaction surface as domain.ErrAllocationFailed; the caller
// may retry the whole operation.
func (a *Allocator) AllocateNext(ctx context.Context, scope string) (Allocation, error) {
	year, ordinal, err := a.counters.Allocate(ctx, scope, a.now())
	if err != nil {
		return Allocation{}, fmt.Errorf("%w: scope %q: %v", domain.ErrAllocationFailed, scope, err)
	}
	return Allocation{
		Year:     year,
		Ordinal:  ordinal,
		PublicID: domain.FormatPostingID(year, ordinal),
	}, nil
}
