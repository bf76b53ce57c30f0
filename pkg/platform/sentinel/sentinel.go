package sentinel

import "errors"

// Sentinel errors for persistence facts. Stores return these (optionally
// wrapped) and services translate them into domain errors:
//   - ErrNotFound: no row/record for the key
//   - ErrAlreadyUsed: a unique key (email, job+applicant pair) is already taken
//   - ErrInvalidState: the record is in the wrong state for the operation
//   - ErrUnavailable: backing store temporarily unreachable
//
// For validation errors (bad input, missing fields), use pkg/domain-errors directly.
var (
	ErrNotFound     = errors.New("not found")
	ErrAlreadyUsed  = errors.New("already used")
	ErrInvalidState = errors.New("invalid state")
	ErrUnavailable  = errors.New("unavailable")
)
