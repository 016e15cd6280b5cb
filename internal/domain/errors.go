package domain

import "errors"

var (
	ErrNotFound         = errors.New("not found")
	ErrNotAuthenticated = errors.New("not authenticated")
	ErrQuotaExceeded    = errors.New("quota exceeded")
	ErrUnsupportedPlan  = errors.New("unsupported plan")
	ErrAllocationFailed = errors.New("allocation failed")
	ErrStoreUnavailable = errors.New("store unavailable")
)
