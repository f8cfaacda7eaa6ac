package core

// version.go implements the linear version history with branch-discard
// undo/redo.
//
// Every Version retains its full snapshot, so undo and redo are O(1) pointer
// moves over the history slice; nothing is ever replayed. A new commit always
// branches from the current pointer: any forward (redo) versions are
// discarded first, keeping the history strictly linear.

import (
	"time"

	"github.com/prepforge/prepforge/internal/dataset"
)

// Family identifies an operation family for versioning and auditing.
type Family string

const (
	FamilyIngest     Family = "ingest"
	FamilyMissing    Family = "missing_values"
	FamilyDuplicates Family = "duplicates"
	FamilyConstant   Family = "constant_columns"
	FamilyEncoding   Family = "encoding"
	FamilyScaling    Family = "scaling"
	FamilyOutliers   Family = "outliers"
	FamilySampling   Family = "sampling"
)

// Version is one snapshot of the working table plus metadata describing how
// it was reached. Version 0 is the originally ingested table.
type Version struct {
	ID          int            `json:"version_id"`
	ParentID    int            `json:"parent_version_id"`
	Family      Family         `json:"operation"`
	Description string         `json:"description"`
	CreatedAt   time.Time      `json:"created_at"`
	Table       *dataset.Table `json:"-"`
}

// VersionManager owns the version history of one session.
//
// Invariant: 0 <= current < len(history), and history[0] is the original
// ingest version, which is never discarded.
type VersionManager struct {
	history []Version
	current int
	nextID  int
}

// NewVersionManager starts a history at version 0 with the ingested table.
func NewVersionManager(original *dataset.Table, description string) *VersionManager {
	return &VersionManager{
		history: []Version{{
			ID:          0,
			ParentID:    -1,
			Family:      FamilyIngest,
			Description: description,
			CreatedAt:   time.Now(),
			Table:       original,
		}},
		nextID: 1,
	}
}

// Current returns the version at the undo/redo pointer.
func (m *VersionManager) Current() Version {
	return m.history[m.current]
}

// Original returns version 0.
func (m *VersionManager) Original() Version {
	return m.history[0]
}

// Commit truncates any redo branch, appends a new version built from the
// given table, and advances the pointer to it.
func (m *VersionManager) Commit(table *dataset.Table, family Family, description string) Version {
	v := Version{
		ID:          m.nextID,
		ParentID:    m.history[m.current].ID,
		Family:      family,
		Description: description,
		CreatedAt:   time.Now(),
		Table:       table,
	}
	m.nextID++
	m.history = append(m.history[:m.current+1], v)
	m.current = len(m.history) - 1
	return v
}

// Undo moves the pointer one version back. Fails with ErrNoHistory at
// version 0.
func (m *VersionManager) Undo() (Version, error) {
	if !m.CanUndo() {
		return Version{}, ErrNoHistory
	}
	m.current--
	return m.history[m.current], nil
}

// Redo moves the pointer one version forward. Fails with ErrNoHistory at the
// history tail.
func (m *VersionManager) Redo() (Version, error) {
	if !m.CanRedo() {
		return Version{}, ErrNoHistory
	}
	m.current++
	return m.history[m.current], nil
}

// Reset truncates the history to version 0 and returns it.
func (m *VersionManager) Reset() Version {
	m.history = m.history[:1]
	m.current = 0
	return m.history[0]
}

// CanUndo reports whether the pointer can move back.
func (m *VersionManager) CanUndo() bool { return m.current > 0 }

// CanRedo reports whether the pointer can move forward.
func (m *VersionManager) CanRedo() bool { return m.current < len(m.history)-1 }

// History returns the versions up to and including the current pointer, in
// order. Versions beyond the pointer are an undone branch and are not listed.
func (m *VersionManager) History() []Version {
	out := make([]Version, m.current+1)
	copy(out, m.history[:m.current+1])
	return out
}

// Len returns the total number of versions including any redo branch.
func (m *VersionManager) Len() int { return len(m.history) }
