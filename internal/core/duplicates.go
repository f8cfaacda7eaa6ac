package core

// duplicates.go implements whole-row duplicate detection and removal.
//
// Rows equal across every column are duplicates. keep selects the survivor
// per group by original row order: first keeps the smallest-index row, last
// keeps the largest. Survivors retain their relative order.

import (
	"fmt"

	"github.com/prepforge/prepforge/internal/dataset"
)

// Duplicate keep modes.
const (
	KeepFirst = "first"
	KeepLast  = "last"
)

// duplicatePreviewLimit caps how many duplicate rows an analysis returns.
const duplicatePreviewLimit = 10

// DuplicateParams configures duplicate removal.
type DuplicateParams struct {
	Keep string `json:"keep"`
}

// DuplicatePreview shows the first few duplicate rows for the UI.
type DuplicatePreview struct {
	Columns []string   `json:"columns"`
	Rows    [][]string `json:"rows"`
	Indices []int      `json:"indices"`
}

// DuplicateAnalysis is the read-only duplicate report for a snapshot.
type DuplicateAnalysis struct {
	DuplicateRowCount   int               `json:"duplicate_row_count"`
	DuplicateGroupCount int               `json:"duplicate_group_count"`
	TotalRows           int               `json:"total_rows"`
	Preview             *DuplicatePreview `json:"preview,omitempty"`
}

// AnalyzeDuplicates counts rows belonging to any identical-row group of size
// greater than one, and previews the first of them.
func AnalyzeDuplicates(t *dataset.Table) DuplicateAnalysis {
	counts := make(map[string]int)
	for r := 0; r < t.Rows(); r++ {
		counts[t.RowKey(r)]++
	}

	out := DuplicateAnalysis{TotalRows: t.Rows()}
	for _, n := range counts {
		if n > 1 {
			out.DuplicateGroupCount++
			out.DuplicateRowCount += n
		}
	}
	if out.DuplicateRowCount == 0 {
		return out
	}

	preview := &DuplicatePreview{Columns: t.Names()}
	cols := t.Columns()
	for r := 0; r < t.Rows() && len(preview.Rows) < duplicatePreviewLimit; r++ {
		if counts[t.RowKey(r)] <= 1 {
			continue
		}
		row := make([]string, len(cols))
		for i, c := range cols {
			row[i] = c.CellString(r)
		}
		preview.Rows = append(preview.Rows, row)
		preview.Indices = append(preview.Indices, r)
	}
	out.Preview = preview
	return out
}

// applyDuplicates removes non-surviving duplicate rows.
func applyDuplicates(t *dataset.Table, p DuplicateParams) (*opResult, error) {
	if p.Keep != KeepFirst && p.Keep != KeepLast {
		return nil, fmt.Errorf("keep %q: %w", p.Keep, ErrInvalidMethod)
	}

	// Survivor index per row key.
	chosen := make(map[string]int)
	for r := 0; r < t.Rows(); r++ {
		key := t.RowKey(r)
		if _, seen := chosen[key]; !seen || p.Keep == KeepLast {
			chosen[key] = r
		}
	}

	var keep []int
	for r := 0; r < t.Rows(); r++ {
		if chosen[t.RowKey(r)] == r {
			keep = append(keep, r)
		}
	}
	removed := t.Rows() - len(keep)

	return &opResult{
		table:       t.TakeRows(keep),
		description: fmt.Sprintf("Removed duplicates (keep=%s), %d row%s removed", p.Keep, removed, plural(removed)),
		outcome:     fmt.Sprintf("removed %d row%s", removed, plural(removed)),
	}, nil
}
