package core

// audit.go implements the append-only audit log of applied operations.
// Entries are never edited; only a full reset clears the log.

import (
	"sync"
	"time"
)

// AuditSeverity represents the severity level of an audit entry.
type AuditSeverity string

const (
	SeverityLow      AuditSeverity = "low"
	SeverityMedium   AuditSeverity = "medium"
	SeverityHigh     AuditSeverity = "high"
	SeverityCritical AuditSeverity = "critical"
)

// AuditEntry records one applied operation.
type AuditEntry struct {
	VersionID int           `json:"version_id"`
	Family    Family        `json:"operation"`
	Severity  AuditSeverity `json:"severity"`
	Params    string        `json:"params"`
	Outcome   string        `json:"outcome"`
	CreatedAt time.Time     `json:"created_at"`
}

// determineSeverity returns the appropriate severity for an operation family.
// Row-removing and row-synthesizing families rank higher because they change
// what the dataset contains, not just how it is represented.
func determineSeverity(family Family) AuditSeverity {
	switch family {
	case FamilyDuplicates, FamilyOutliers, FamilySampling, FamilyConstant:
		return SeverityHigh
	case FamilyIngest:
		return SeverityLow
	default:
		return SeverityMedium
	}
}

// AuditLog is the append-only operation record for one session.
type AuditLog struct {
	mu      sync.RWMutex
	entries []AuditEntry
}

// NewAuditLog returns an empty log.
func NewAuditLog() *AuditLog {
	return &AuditLog{}
}

// Append records an entry. Severity is derived from the operation family and
// the timestamp is set here.
func (l *AuditLog) Append(versionID int, family Family, params, outcome string) AuditEntry {
	entry := AuditEntry{
		VersionID: versionID,
		Family:    family,
		Severity:  determineSeverity(family),
		Params:    params,
		Outcome:   outcome,
		CreatedAt: time.Now(),
	}
	l.mu.Lock()
	l.entries = append(l.entries, entry)
	l.mu.Unlock()
	return entry
}

// List returns entries in append order. A limit above zero returns only the
// most recent entries.
func (l *AuditLog) List(limit int) []AuditEntry {
	l.mu.RLock()
	defer l.mu.RUnlock()
	entries := l.entries
	if limit > 0 && len(entries) > limit {
		entries = entries[len(entries)-limit:]
	}
	out := make([]AuditEntry, len(entries))
	copy(out, entries)
	return out
}

// Summary returns entry counts per operation family.
func (l *AuditLog) Summary() map[Family]int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make(map[Family]int)
	for _, e := range l.entries {
		out[e.Family]++
	}
	return out
}

// Len returns the number of entries.
func (l *AuditLog) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.entries)
}

// Reset clears the log entirely.
func (l *AuditLog) Reset() {
	l.mu.Lock()
	l.entries = nil
	l.mu.Unlock()
}
