package domain

import "time"

// PostingStatus enumerates job-posting lifecycle states.
type PostingStatus string

const (
	PostingStatusOpen   PostingStatus = "open"
	PostingStatusClosed PostingStatus = "closed"
)

// JobPosting is a published job. PublicID is the human-readable sequential
// identifier minted by the sequence allocator (JD2025-000001); ID is the
// internal row key.
type JobPosting struct {
	ID          string
	PublicID    string
	AccountID   string
	Title       string
	CompanyName string
	Location    string
	Country     string
	Category    string
	Description string
	Status      PostingStatus
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Snapshot returns the denormalized metadata an application captures.
func (p *JobPosting) Snapshot() JobSnapshot {
	return JobSnapshot{
		JobID:       p.PublicID,
		Title:       p.Title,
		CompanyName: p.CompanyName,
		Location:    p.Location,
		Category:    p.Category,
	}
}

// PostingFilter narrows a posting listing. Zero values mean "no filter";
// Limit caps the page size. Country is an ISO code, defaulted from the
// visitor's IP when the caller sends no explicit filter.
type PostingFilter struct {
	Location string
	Country  string
	Category string
	Limit    int
}
