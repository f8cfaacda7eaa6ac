package core

// handlers.go holds the plumbing shared by every operation handler.
//
// A handler is a pure function from (snapshot, typed params) to an opResult.
// Handlers never touch the version manager, transform registry or audit log;
// the service commits their result atomically. A handler that fails returns
// a typed error and leaves no partial state behind.

import (
	"fmt"

	"github.com/prepforge/prepforge/internal/dataset"
)

// opResult is what a successful handler hands back to the service for
// committing.
type opResult struct {
	table       *dataset.Table
	states      []TransformState // fitted parameters to store, in order
	invalidate  []string         // columns whose prior transform states are void
	description string           // human-readable version description
	outcome     string           // audit outcome summary
}

// resolveColumns validates an explicit column selection, or falls back to a
// default set when the request names none.
//
// A nil selection means "use the default"; an explicitly empty one is an
// error. Every named column must exist in the snapshot.
func resolveColumns(t *dataset.Table, requested []string, fallback []string) ([]string, error) {
	if requested == nil {
		return fallback, nil
	}
	if len(requested) == 0 {
		return nil, fmt.Errorf("no columns selected: %w", ErrEmptySelection)
	}
	for _, name := range requested {
		if !t.HasColumn(name) {
			return nil, fmt.Errorf("column %q: %w", name, ErrColumnNotFound)
		}
	}
	return requested, nil
}

// requireColumns is resolveColumns for operations where the selection must be
// explicit.
func requireColumns(t *dataset.Table, requested []string) ([]string, error) {
	if len(requested) == 0 {
		return nil, fmt.Errorf("no columns selected: %w", ErrEmptySelection)
	}
	return resolveColumns(t, requested, nil)
}

// uniqueName returns base if taken reports it free, otherwise the first of
// base_2, base_3, ... that is. Derived columns must never overwrite an
// unrelated column that happens to share the generated name.
func uniqueName(taken func(string) bool, base string) string {
	if !taken(base) {
		return base
	}
	for i := 2; ; i++ {
		candidate := fmt.Sprintf("%s_%d", base, i)
		if !taken(candidate) {
			return candidate
		}
	}
}

// plural returns "s" for counts other than one, for log-style summaries.
func plural(n int) string {
	if n == 1 {
		return ""
	}
	return "s"
}
