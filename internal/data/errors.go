package data

import "errors"

var (
	// ErrNotFound is returned when an operation requires an existing record
	// (e.g. logout of an unknown username) and none matches.
	ErrNotFound = errors.New("record not found")

	// ErrStoreUnavailable wraps failures to reach the underlying store. All
	// operations fail fast on it; no retry or backoff is attempted.
	ErrStoreUnavailable = errors.New("store unavailable")
)
