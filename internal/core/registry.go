package core

// registry.go implements the TransformRegistry: fitted encoder/scaler
// parameters keyed by (column, operation family).
//
// States are plain data (mappings and scalars), so they serialize cleanly
// for a downstream training stage instead of carrying opaque fitted objects.
// Re-application overwrites, never merges. The service invalidates a column's
// entries whenever a later operation drops or re-encodes it.

import (
	"sort"
	"sync"
)

// TransformState holds the fitted parameters of one encoder or scaler,
// sufficient to deterministically re-apply or invert the transform.
type TransformState struct {
	Column string `json:"column"`
	Family Family `json:"family"`
	Method string `json:"method"`

	// Encoding parameters.
	Categories  []string           `json:"categories,omitempty"`   // code order: Categories[i] -> i
	Codes       map[string]int     `json:"codes,omitempty"`        // category -> code
	TargetMeans map[string]float64 `json:"target_means,omitempty"` // category -> mean target
	OverallMean float64            `json:"overall_mean,omitempty"`

	// Scaling parameters.
	Mean   float64 `json:"mean,omitempty"`
	Std    float64 `json:"std,omitempty"`
	Min    float64 `json:"min,omitempty"`
	Max    float64 `json:"max,omitempty"`
	Median float64 `json:"median,omitempty"`
	IQR    float64 `json:"iqr,omitempty"`
}

type transformKey struct {
	column string
	family Family
}

// TransformRegistry stores TransformState records for one session.
type TransformRegistry struct {
	mu     sync.RWMutex
	states map[transformKey]TransformState
}

// NewTransformRegistry returns an empty registry.
func NewTransformRegistry() *TransformRegistry {
	return &TransformRegistry{states: make(map[transformKey]TransformState)}
}

// Put stores a state, overwriting any previous state for the same column and
// family.
func (r *TransformRegistry) Put(state TransformState) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.states[transformKey{state.Column, state.Family}] = state
}

// Get returns the state for a column and family.
// Returns false if not found.
func (r *TransformRegistry) Get(column string, family Family) (TransformState, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	st, ok := r.states[transformKey{column, family}]
	return st, ok
}

// Invalidate drops every family's state for the given column.
func (r *TransformRegistry) Invalidate(column string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for k := range r.states {
		if k.column == column {
			delete(r.states, k)
		}
	}
}

// Serialize returns all states in a portable form for a downstream training
// stage, sorted by column then family for stable output.
func (r *TransformRegistry) Serialize() []TransformState {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]TransformState, 0, len(r.states))
	for _, st := range r.states {
		out = append(out, st)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Column != out[j].Column {
			return out[i].Column < out[j].Column
		}
		return out[i].Family < out[j].Family
	})
	return out
}

// Len returns the number of stored states.
func (r *TransformRegistry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.states)
}

// Clear removes every state.
func (r *TransformRegistry) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.states = make(map[transformKey]TransformState)
}
