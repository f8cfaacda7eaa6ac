package core

// errors.go defines the closed error taxonomy of the preprocessing core.
//
// Handlers validate parameters against the current snapshot before doing any
// work and fail fast with one of these sentinels, usually wrapped with
// context via fmt.Errorf and %w. The version manager propagates handler
// errors unchanged and leaves history untouched on failure. Callers test
// with errors.Is.

import "errors"

var (
	// ErrSessionNotFound is returned when a session id does not resolve,
	// either because it never existed or because it was evicted.
	ErrSessionNotFound = errors.New("session not found")

	// ErrColumnNotFound is returned when a request names a column absent
	// from the current snapshot.
	ErrColumnNotFound = errors.New("column not found")

	// ErrInvalidStrategy is returned for an unknown missing-value strategy.
	ErrInvalidStrategy = errors.New("invalid strategy")

	// ErrInvalidMethod is returned for an unknown encoding, scaling,
	// outlier or sampling method, or a method applied to a column of the
	// wrong kind.
	ErrInvalidMethod = errors.New("invalid method")

	// ErrAlreadyEncoded is returned when a single request would encode the
	// same column twice.
	ErrAlreadyEncoded = errors.New("column already encoded")

	// ErrNoHistory is returned by undo at version zero and by redo at the
	// history tail.
	ErrNoHistory = errors.New("no history")

	// ErrEmptySelection is returned when an operation is given an
	// explicitly empty set of columns to work on.
	ErrEmptySelection = errors.New("empty selection")
)
