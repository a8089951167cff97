package domain

import "errors"

// Sentinel errors for tracker operations
var (
	// ErrMissingBookID indicates an observation arrived without a stable
	// book identifier and cannot be tracked
	ErrMissingBookID = errors.New("observation has no book id")

	// ErrInvalidPageCount indicates a manual page-count entry was not a
	// positive number
	ErrInvalidPageCount = errors.New("page count must be positive")

	// ErrSourceUnavailable indicates the external book source could not be
	// reached for a sync cycle
	ErrSourceUnavailable = errors.New("book source is unavailable")
)
