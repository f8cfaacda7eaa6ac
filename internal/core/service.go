package core

// service.go is the facade the transport layer talks to. Every session
// operation resolves the session, takes its mutex for the full
// handler-commit cycle, and either commits atomically or fails with no
// visible partial state.

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/prepforge/prepforge/internal/dataset"
)

// Service provides the preprocessing operations over a session store.
type Service struct {
	store *SessionStore
}

// NewService creates a Service backed by the given store.
func NewService(store *SessionStore) *Service {
	return &Service{store: store}
}

// Store exposes the underlying session store for lifecycle management.
func (s *Service) Store() *SessionStore { return s.store }

// Stats summarizes the current version of a session.
type Stats struct {
	DatasetName     string `json:"dataset_name"`
	VersionID       int    `json:"version_id"`
	CurrentRows     int    `json:"current_rows"`
	CurrentColumns  int    `json:"current_columns"`
	OriginalRows    int    `json:"original_rows"`
	OriginalColumns int    `json:"original_columns"`
	CanUndo         bool   `json:"can_undo"`
	CanRedo         bool   `json:"can_redo"`
}

// ColumnsInfo lists the current columns by kind.
type ColumnsInfo struct {
	Columns            []string `json:"columns"`
	NumericalColumns   []string `json:"numerical_columns"`
	CategoricalColumns []string `json:"categorical_columns"`
}

// SessionInfo is returned on session creation.
type SessionInfo struct {
	SessionID string      `json:"session_id"`
	CreatedAt time.Time   `json:"created_at"`
	Stats     Stats       `json:"stats"`
	Columns   ColumnsInfo `json:"columns"`
}

// ApplyResult is returned by every mutating operation.
type ApplyResult struct {
	VersionID   int    `json:"version_id"`
	Description string `json:"description"`
	Stats       Stats  `json:"stats"`
}

// Summary bundles everything a downstream training stage needs.
type Summary struct {
	Stats                 Stats            `json:"stats"`
	History               []Version        `json:"history"`
	Transforms            []TransformState `json:"transforms"`
	AuditSummary          map[Family]int   `json:"audit_summary"`
	PreprocessingComplete bool             `json:"preprocessing_complete"`
}

// CreateSession ingests delimited text and opens a session around it.
func (s *Service) CreateSession(r io.Reader, name string) (SessionInfo, error) {
	table, err := dataset.Read(r)
	if err != nil {
		return SessionInfo{}, fmt.Errorf("ingest dataset: %w", err)
	}
	sess := s.store.Create(table, name)
	sess.mu.Lock()
	defer sess.mu.Unlock()
	return SessionInfo{
		SessionID: sess.ID,
		CreatedAt: sess.CreatedAt,
		Stats:     statsLocked(sess),
		Columns:   columnsLocked(sess),
	}, nil
}

// CloseSession destroys a session explicitly.
func (s *Service) CloseSession(id string) error {
	return s.store.Remove(id)
}

// withSession resolves the session and runs fn under its mutex.
func (s *Service) withSession(id string, fn func(*Session) error) error {
	sess, err := s.store.Get(id)
	if err != nil {
		return err
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()
	// Eviction may have raced with the lookup above; a closed session
	// must not accept a commit.
	if sess.closed {
		return fmt.Errorf("session %q: %w", id, ErrSessionNotFound)
	}
	sess.touch()
	return fn(sess)
}

// apply runs a handler against the current snapshot and commits its result:
// truncate any redo branch, append the new version, update the transform
// registry, record an audit entry. On handler failure nothing changes and
// the error propagates unchanged.
func (s *Service) apply(id string, family Family, params string, handler func(*dataset.Table) (*opResult, error)) (ApplyResult, error) {
	var out ApplyResult
	err := s.withSession(id, func(sess *Session) error {
		res, err := handler(sess.versions.Current().Table)
		if err != nil {
			return err
		}
		v := sess.versions.Commit(res.table, family, res.description)
		for _, column := range res.invalidate {
			sess.transforms.Invalidate(column)
		}
		for _, state := range res.states {
			sess.transforms.Put(state)
		}
		sess.audit.Append(v.ID, family, params, res.outcome)
		out = ApplyResult{
			VersionID:   v.ID,
			Description: v.Description,
			Stats:       statsLocked(sess),
		}
		return nil
	})
	return out, err
}

func statsLocked(sess *Session) Stats {
	cur := sess.versions.Current()
	orig := sess.versions.Original()
	return Stats{
		DatasetName:     sess.Name,
		VersionID:       cur.ID,
		CurrentRows:     cur.Table.Rows(),
		CurrentColumns:  cur.Table.Cols(),
		OriginalRows:    orig.Table.Rows(),
		OriginalColumns: orig.Table.Cols(),
		CanUndo:         sess.versions.CanUndo(),
		CanRedo:         sess.versions.CanRedo(),
	}
}

func columnsLocked(sess *Session) ColumnsInfo {
	t := sess.versions.Current().Table
	return ColumnsInfo{
		Columns:            t.Names(),
		NumericalColumns:   t.NumericNames(),
		CategoricalColumns: t.CategoricalNames(),
	}
}

// Stats returns the current dataset statistics.
func (s *Service) Stats(id string) (Stats, error) {
	var out Stats
	err := s.withSession(id, func(sess *Session) error {
		out = statsLocked(sess)
		return nil
	})
	return out, err
}

// Columns returns the current columns grouped by kind.
func (s *Service) Columns(id string) (ColumnsInfo, error) {
	var out ColumnsInfo
	err := s.withSession(id, func(sess *Session) error {
		out = columnsLocked(sess)
		return nil
	})
	return out, err
}

// History returns the versions leading to the current pointer.
func (s *Service) History(id string) ([]Version, error) {
	var out []Version
	err := s.withSession(id, func(sess *Session) error {
		out = sess.versions.History()
		return nil
	})
	return out, err
}

// AuditTrail returns audit entries, most recent last. A limit above zero
// returns only the most recent entries.
func (s *Service) AuditTrail(id string, limit int) ([]AuditEntry, error) {
	var out []AuditEntry
	err := s.withSession(id, func(sess *Session) error {
		out = sess.audit.List(limit)
		return nil
	})
	return out, err
}

// Transforms returns the fitted transform states in portable form.
func (s *Service) Transforms(id string) ([]TransformState, error) {
	var out []TransformState
	err := s.withSession(id, func(sess *Session) error {
		out = sess.transforms.Serialize()
		return nil
	})
	return out, err
}

// Summary returns stats, history and serialized transforms in one shot.
func (s *Service) Summary(id string) (Summary, error) {
	var out Summary
	err := s.withSession(id, func(sess *Session) error {
		history := sess.versions.History()
		out = Summary{
			Stats:                 statsLocked(sess),
			History:               history,
			Transforms:            sess.transforms.Serialize(),
			AuditSummary:          sess.audit.Summary(),
			PreprocessingComplete: len(history) > 1,
		}
		return nil
	})
	return out, err
}

// Undo moves the session one version back.
func (s *Service) Undo(id string) (Stats, error) {
	var out Stats
	err := s.withSession(id, func(sess *Session) error {
		if _, err := sess.versions.Undo(); err != nil {
			return fmt.Errorf("undo: %w", err)
		}
		out = statsLocked(sess)
		return nil
	})
	return out, err
}

// Redo moves the session one version forward.
func (s *Service) Redo(id string) (Stats, error) {
	var out Stats
	err := s.withSession(id, func(sess *Session) error {
		if _, err := sess.versions.Redo(); err != nil {
			return fmt.Errorf("redo: %w", err)
		}
		out = statsLocked(sess)
		return nil
	})
	return out, err
}

// Reset truncates the session back to the originally ingested table and
// clears the transform registry and audit log.
func (s *Service) Reset(id string) (Stats, error) {
	var out Stats
	err := s.withSession(id, func(sess *Session) error {
		sess.versions.Reset()
		sess.transforms.Clear()
		sess.audit.Reset()
		out = statsLocked(sess)
		return nil
	})
	return out, err
}

// Export writes the current version as CSV.
func (s *Service) Export(id string, w io.Writer) error {
	return s.withSession(id, func(sess *Session) error {
		return dataset.Write(w, sess.versions.Current().Table)
	})
}

// EDA profiles the current version: per-column descriptive statistics and
// numeric correlations.
func (s *Service) EDA(id string) (EDAReport, error) {
	var out EDAReport
	err := s.withSession(id, func(sess *Session) error {
		out = AnalyzeEDA(sess.versions.Current().Table)
		return nil
	})
	return out, err
}

// AnalyzeMissing reports the null situation of the current version.
func (s *Service) AnalyzeMissing(id string) (MissingAnalysis, error) {
	var out MissingAnalysis
	err := s.withSession(id, func(sess *Session) error {
		out = AnalyzeMissing(sess.versions.Current().Table)
		return nil
	})
	return out, err
}

// ApplyMissing imputes or drops missing values.
func (s *Service) ApplyMissing(id string, p MissingParams) (ApplyResult, error) {
	params := fmt.Sprintf("strategy=%s columns=%s", p.Strategy, columnList(p.Columns))
	return s.apply(id, FamilyMissing, params, func(t *dataset.Table) (*opResult, error) {
		return applyMissing(t, p)
	})
}

// AnalyzeDuplicates reports duplicate rows in the current version.
func (s *Service) AnalyzeDuplicates(id string) (DuplicateAnalysis, error) {
	var out DuplicateAnalysis
	err := s.withSession(id, func(sess *Session) error {
		out = AnalyzeDuplicates(sess.versions.Current().Table)
		return nil
	})
	return out, err
}

// ApplyDuplicates removes duplicate rows.
func (s *Service) ApplyDuplicates(id string, p DuplicateParams) (ApplyResult, error) {
	return s.apply(id, FamilyDuplicates, "keep="+p.Keep, func(t *dataset.Table) (*opResult, error) {
		return applyDuplicates(t, p)
	})
}

// DetectConstantColumns reports constant columns in the current version.
func (s *Service) DetectConstantColumns(id string) (ConstantAnalysis, error) {
	var out ConstantAnalysis
	err := s.withSession(id, func(sess *Session) error {
		out = DetectConstantColumns(sess.versions.Current().Table)
		return nil
	})
	return out, err
}

// RemoveConstantColumns drops an explicit list of columns.
func (s *Service) RemoveConstantColumns(id string, columns []string) (ApplyResult, error) {
	return s.apply(id, FamilyConstant, "columns="+columnList(columns), func(t *dataset.Table) (*opResult, error) {
		return applyRemoveColumns(t, columns)
	})
}

// ApplyEncoding encodes categorical columns.
func (s *Service) ApplyEncoding(id string, p EncodingParams) (ApplyResult, error) {
	params := fmt.Sprintf("method=%s columns=%s", p.Method, columnList(p.Columns))
	if p.Method == EncodeTarget {
		params += " target=" + p.TargetColumn
	}
	return s.apply(id, FamilyEncoding, params, func(t *dataset.Table) (*opResult, error) {
		return applyEncoding(t, p)
	})
}

// ApplyScaling rescales numeric columns.
func (s *Service) ApplyScaling(id string, p ScalingParams) (ApplyResult, error) {
	params := fmt.Sprintf("method=%s columns=%s", p.Method, columnList(p.Columns))
	return s.apply(id, FamilyScaling, params, func(t *dataset.Table) (*opResult, error) {
		return applyScaling(t, p)
	})
}

// AnalyzeOutliers reports outliers without touching history.
func (s *Service) AnalyzeOutliers(id string, p OutlierParams) (OutlierAnalysis, error) {
	var out OutlierAnalysis
	err := s.withSession(id, func(sess *Session) error {
		var err error
		out, err = AnalyzeOutliers(sess.versions.Current().Table, p)
		return err
	})
	return out, err
}

// ApplyOutliers treats outliers according to the action.
func (s *Service) ApplyOutliers(id string, p OutlierParams) (ApplyResult, error) {
	params := fmt.Sprintf("method=%s action=%s columns=%s", p.Method, p.Action, columnList(p.Columns))
	return s.apply(id, FamilyOutliers, params, func(t *dataset.Table) (*opResult, error) {
		return applyOutliers(t, p)
	})
}

// ClassDistribution reports the class balance of a target column.
func (s *Service) ClassDistribution(id, targetColumn string) (ClassDistribution, error) {
	var out ClassDistribution
	err := s.withSession(id, func(sess *Session) error {
		var err error
		out, err = AnalyzeDistribution(sess.versions.Current().Table, targetColumn)
		return err
	})
	return out, err
}

// ApplySampling rebalances classes of a target column.
func (s *Service) ApplySampling(id string, p SamplingParams) (ApplyResult, error) {
	params := fmt.Sprintf("method=%s target=%s", p.Method, p.TargetColumn)
	return s.apply(id, FamilySampling, params, func(t *dataset.Table) (*opResult, error) {
		return applySampling(t, p)
	})
}

// columnList renders a column selection for audit summaries.
func columnList(columns []string) string {
	if columns == nil {
		return "all"
	}
	return strings.Join(columns, ",")
}
