// Package posting orchestrates job creation: it reserves a quota slot,
// mints the public identifier, and writes the job record. The reservation
// happens first so that no job row can exist without a consumed slot; if a
// later step fails the slot is handed back.
package posting

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"jobdesk/internal/domain"
	"jobdesk/internal/ledger"
	"jobdesk/internal/quota"
	"jobdesk/internal/sequence"
)

// ErrInvalidRequest is returned when a create request fails validation.
var ErrInvalidRequest = errors.New("posting: invalid request")

// CreateRequest carries the fields of a new posting.
type CreateRequest struct {
	AccountID   string
	Title       string
	CompanyName string
	Location    string
	Country     string
	Category    string
	Description string
}

// Service is the posting flow over the quota manager, sequence allocator,
// application ledger, and posting store.
type Service struct {
	quota    *quota.Manager
	alloc    *sequence.Allocator
	ledger   *ledger.Ledger
	postings domain.JobPostingRepository
	logger   zerolog.Logger
	newID    func() string
	now      func() time.Time
}

// NewService creates a posting Service.
func NewService(q *quota.Manager, alloc *sequence.Allocator, l *ledger.Ledger, postings domain.JobPostingRepository, logger zerolog.Logger) *Service {
	return &Service{
		quota:    q,
		alloc:    alloc,
		ledger:   l,
		postings: postings,
		logger:   logger,
		newID:    uuid.NewString,
		now:      time.Now,
	}
}

// Create publishes a job posting. Quota denial surfaces as
// domain.ErrQuotaExceeded; allocation conflicts as domain.ErrAllocationFailed
// (retryable by the caller).
func (s *Service) Create(ctx context.Context, req CreateRequest) (*domain.JobPosting, error) {
	if req.AccountID == "" {
		return nil, domain.ErrNotAuthenticated
	}
	if strings.TrimSpace(req.Title) == "" {
		return nil, fmt.Errorf("%w: empty title", ErrInvalidRequest)
	}

	if _, err := s.quota.RecordPost(ctx, req.AccountID); err != nil {
		return nil, err
	}

	alloc, err := s.alloc.AllocateNext(ctx, domain.CounterScopeJobPosts)
	if err != nil {
		s.releaseSlot(ctx, req.AccountID)
		return nil, err
	}

	p := &domain.JobPosting{
		ID:          s.newID(),
		PublicID:    alloc.PublicID,
		AccountID:   req.AccountID,
		Title:       req.Title,
		CompanyName: normalizeName(req.CompanyName),
		Location:    normalizeName(req.Location),
		Country:     strings.ToUpper(strings.TrimSpace(req.Country)),
		Category:    normalizeCategory(req.Category),
		Description: req.Description,
		Status:      domain.PostingStatusOpen,
		CreatedAt:   s.now(),
	}
	if err := s.postings.Create(ctx, p); err != nil {
		s.releaseSlot(ctx, req.AccountID)
		return nil, fmt.Errorf("write posting: %w", err)
	}

	s.logger.Info().
		Str("account_id", req.AccountID).
		Str("public_id", p.PublicID).
		Msg("job posting published")
	return p, nil
}

// Apply records an application to the posting identified by publicID.
func (s *Service) Apply(ctx context.Context, accountID, publicID string) (*domain.JobPosting, error) {
	p, err := s.postings.GetByPublicID(ctx, publicID)
	if err != nil {
		return nil, err
	}
	if err := s.ledger.Apply(ctx, accountID, p.Snapshot()); err != nil {
		return nil, err
	}
	return p, nil
}

// Get fetches a posting by public ID.
func (s *Service) Get(ctx context.Context, publicID string) (*domain.JobPosting, error) {
	return s.postings.GetByPublicID(ctx, publicID)
}

// List returns open postings matching the filter, newest first.
func (s *Service) List(ctx context.Context, filter domain.PostingFilter) ([]domain.JobPosting, error) {
	return s.postings.List(ctx, filter)
}

func (s *Service) releaseSlot(ctx context.Context, accountID string) {
	if err := s.quota.ReleasePost(ctx, accountID); err != nil {
		// The slot stays consumed until the monthly reset; log loudly so
		// operators can reconcile.
		s.logger.Error().Err(err).
			Str("account_id", accountID).
			Msg("failed to release posting slot")
	}
}
