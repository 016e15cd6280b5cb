package domain

import "time"

// ApplicationStatus enumerates application lifecycle states. Only "applied"
// is produced by this flow; withdrawal is out of scope.
type ApplicationStatus string

const ApplicationStatusApplied ApplicationStatus = "applied"

// ApplicationID derives the deterministic key for an (account, job) pair.
// The derived key is the idempotency mechanism: concurrent or repeated apply
// calls for the same pair converge on the same row.
func ApplicationID(accountID, jobID string) string {
	return accountID + "_" + jobID
}

// JobSnapshot is the slice of job metadata denormalized onto an application
// at apply time, so the applicant's list survives later edits to the posting.
type JobSnapshot struct {
	JobID       string
	Title       string
	CompanyName string
	Location    string
	Category    string
}

// Application records that an account applied to a job. At most one row
// exists per (account, job) pair; snapshot fields and AppliedAt are fixed at
// first creation.
type Application struct {
	ID          string
	AccountID   string
	JobID       string
	Title       string
	CompanyName string
	Location    string
	Category    string
	Status      ApplicationStatus
	AppliedAt   time.Time
}

// NewApplication builds the row an apply call writes.
func NewApplication(accountID string, snap JobSnapshot, now time.Time) *Application {
	return &Application{
		ID:          ApplicationID(accountID, snap.JobID),
		AccountID:   accountID,
		JobID:       snap.JobID,
		Title:       snap.Title,
		CompanyName: snap.CompanyName,
		Location:    snap.Location,
		Category:    snap.Category,
		Status:      ApplicationStatusApplied,
		AppliedAt:   now,
	}
}
