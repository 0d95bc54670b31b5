package sentinel

import "errors"

// Sentinel errors for storage facts. Stores return these (optionally wrapped)
// and services translate them into domain errors with entity-specific messages.
//
//   - ErrNotFound: row does not exist, or is soft-deleted where the caller asked for live rows
//   - ErrConflict: write would violate a uniqueness or state constraint
//   - ErrInvalidState: row is in the wrong state for the requested write
//   - ErrUnavailable: backing store temporarily unreachable
var (
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
	ErrInvalidState = errors.New("invalid state")
	ErrUnavailable  = errors.New("unavailable")
)
