package core

// session.go implements the session store: one session per ingested dataset,
// owning its version history, transform registry and audit log.
//
// Concurrency model: at most one in-flight operation mutates a given
// session's state at a time. Each session carries its own mutex; the service
// holds it for the full handler-commit cycle so two concurrent applies can
// never both extend the same branch. Different sessions are fully
// independent. Idle sessions are reclaimed by a background eviction loop;
// late-arriving operations against an evicted session fail with
// ErrSessionNotFound.

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/prepforge/prepforge/internal/dataset"
)

// Session holds all per-dataset state.
type Session struct {
	ID        string
	Name      string
	CreatedAt time.Time

	// mu serializes every mutating operation on this session.
	mu       sync.Mutex
	lastUsed time.Time
	// closed is set when the session leaves the store, so an operation
	// that resolved the session just before removal or eviction still
	// fails instead of committing against a detached session.
	closed     bool
	versions   *VersionManager
	transforms *TransformRegistry
	audit      *AuditLog
}

// touch marks the session as recently used. Callers hold mu.
func (s *Session) touch() {
	s.lastUsed = time.Now()
}

// SessionStore maps session ids to sessions. The zero value is not usable;
// construct with NewSessionStore.
type SessionStore struct {
	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewSessionStore returns an empty store.
func NewSessionStore() *SessionStore {
	return &SessionStore{sessions: make(map[string]*Session)}
}

// Create registers a new session around an ingested table and returns it.
func (st *SessionStore) Create(table *dataset.Table, name string) *Session {
	id := uuid.New().String()
	if name == "" {
		name = "dataset_" + id[:8]
	}
	now := time.Now()
	s := &Session{
		ID:         id,
		Name:       name,
		CreatedAt:  now,
		lastUsed:   now,
		versions:   NewVersionManager(table, fmt.Sprintf("Ingested %s (%d rows, %d columns)", name, table.Rows(), table.Cols())),
		transforms: NewTransformRegistry(),
		audit:      NewAuditLog(),
	}
	s.audit.Append(0, FamilyIngest, fmt.Sprintf("name=%s", name), fmt.Sprintf("%d rows, %d columns", table.Rows(), table.Cols()))

	st.mu.Lock()
	st.sessions[id] = s
	st.mu.Unlock()
	return s
}

// Get resolves a session id. Fails with ErrSessionNotFound for unknown or
// evicted sessions.
func (st *SessionStore) Get(id string) (*Session, error) {
	st.mu.RLock()
	s, ok := st.sessions[id]
	st.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("session %q: %w", id, ErrSessionNotFound)
	}
	return s, nil
}

// Remove closes a session explicitly. Removing an unknown session fails with
// ErrSessionNotFound.
func (st *SessionStore) Remove(id string) error {
	st.mu.Lock()
	defer st.mu.Unlock()
	s, ok := st.sessions[id]
	if !ok {
		return fmt.Errorf("session %q: %w", id, ErrSessionNotFound)
	}
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
	delete(st.sessions, id)
	return nil
}

// Len returns the number of live sessions.
func (st *SessionStore) Len() int {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return len(st.sessions)
}

// EvictIdle removes sessions idle for longer than ttl and returns how many
// were evicted.
func (st *SessionStore) EvictIdle(ttl time.Duration) int {
	cutoff := time.Now().Add(-ttl)

	st.mu.Lock()
	defer st.mu.Unlock()
	evicted := 0
	for id, s := range st.sessions {
		s.mu.Lock()
		idle := s.lastUsed.Before(cutoff)
		if idle {
			s.closed = true
		}
		s.mu.Unlock()
		if idle {
			delete(st.sessions, id)
			evicted++
		}
	}
	return evicted
}

// StartEvictionLoop runs idle-session eviction every interval until the
// context is cancelled. Eviction failures cannot happen; the loop only logs
// what it reclaimed.
func (st *SessionStore) StartEvictionLoop(ctx context.Context, interval, ttl time.Duration) {
	slog.Info("session eviction loop started", "interval", interval, "idle_ttl", ttl)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Info("session eviction loop stopped")
			return
		case <-ticker.C:
			if n := st.EvictIdle(ttl); n > 0 {
				slog.Info("evicted idle sessions", "count", n, "remaining", st.Len())
			}
		}
	}
}
