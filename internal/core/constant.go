package core

// constant.go implements constant-column detection and removal.
//
// A column is constant when it has exactly one distinct non-missing value, or
// is entirely missing. Detection is read-only; removal takes an explicit
// caller-selected list so the user stays in control of what disappears.

import (
	"fmt"

	"github.com/prepforge/prepforge/internal/dataset"
)

// ConstantColumnInfo describes one detected constant column.
type ConstantColumnInfo struct {
	Column          string `json:"column"`
	DataType        string `json:"data_type"`
	ConstantValue   string `json:"constant_value"`
	EntirelyMissing bool   `json:"entirely_missing"`
}

// ConstantAnalysis is the read-only constant-column report.
type ConstantAnalysis struct {
	ConstantColumnCount int                  `json:"constant_column_count"`
	ConstantColumns     []ConstantColumnInfo `json:"constant_columns"`
}

// DetectConstantColumns finds columns with at most one distinct non-missing
// value.
func DetectConstantColumns(t *dataset.Table) ConstantAnalysis {
	var out ConstantAnalysis
	for _, c := range t.Columns() {
		value, distinct := singleValue(c)
		if distinct > 1 {
			continue
		}
		out.ConstantColumns = append(out.ConstantColumns, ConstantColumnInfo{
			Column:          c.Name,
			DataType:        c.Kind.String(),
			ConstantValue:   value,
			EntirelyMissing: distinct == 0,
		})
	}
	out.ConstantColumnCount = len(out.ConstantColumns)
	return out
}

// singleValue returns the rendered constant value and the count of distinct
// non-missing values, stopping early once a second one is found.
func singleValue(c *dataset.Column) (string, int) {
	var value string
	distinct := 0
	for i := 0; i < c.Len(); i++ {
		if c.IsMissing(i) {
			continue
		}
		s := c.CellString(i)
		if distinct == 0 {
			value, distinct = s, 1
			continue
		}
		if s != value {
			return "", 2
		}
	}
	return value, distinct
}

// applyRemoveColumns drops an explicit list of columns.
func applyRemoveColumns(t *dataset.Table, columns []string) (*opResult, error) {
	targets, err := requireColumns(t, columns)
	if err != nil {
		return nil, err
	}
	return &opResult{
		table:       t.DropColumns(targets...),
		invalidate:  targets,
		description: fmt.Sprintf("Removed %d constant column%s", len(targets), plural(len(targets))),
		outcome:     fmt.Sprintf("removed %d column%s", len(targets), plural(len(targets))),
	}, nil
}
