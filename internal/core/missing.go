package core

// missing.go implements missing-value analysis and imputation.
//
// Numerical strategies: mean, median, constant, drop. Categorical strategies:
// mode, constant, drop. A strategy applied without an explicit column list
// targets all columns of the relevant kind; drop and constant target every
// column. Columns of the wrong kind for a strategy are skipped, matching the
// behavior of selecting "all columns" in the UI.

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/prepforge/prepforge/internal/dataset"
)

// Missing-value strategies.
const (
	StrategyMean     = "mean"
	StrategyMedian   = "median"
	StrategyMode     = "mode"
	StrategyConstant = "constant"
	StrategyDrop     = "drop"
)

// MissingParams configures one imputation request.
type MissingParams struct {
	// Columns limits the operation; nil targets all columns of the kind
	// the strategy applies to.
	Columns  []string `json:"columns"`
	Strategy string   `json:"strategy"`

	// ConstantValue fills numeric columns under the constant strategy.
	ConstantValue *float64 `json:"constant_value"`
	// ConstantString fills categorical columns under the constant strategy.
	ConstantString string `json:"constant_string"`
}

// MissingColumnStats describes the null situation of one column.
type MissingColumnStats struct {
	Column         string  `json:"column"`
	DataType       string  `json:"data_type"`
	NullCount      int     `json:"null_count"`
	NullPercentage float64 `json:"null_percentage"`
	NonNullCount   int     `json:"non_null_count"`
}

// MissingAnalysis is the read-only null report for a snapshot.
type MissingAnalysis struct {
	TotalNullCount      int                  `json:"total_null_count"`
	TotalNullPercentage float64              `json:"total_null_percentage"`
	TotalCells          int                  `json:"total_cells"`
	TotalRows           int                  `json:"total_rows"`
	Columns             []MissingColumnStats `json:"columns"`
}

// AnalyzeMissing reports null counts per column, sorted by null percentage
// descending.
func AnalyzeMissing(t *dataset.Table) MissingAnalysis {
	rows := t.Rows()
	out := MissingAnalysis{
		TotalCells: rows * t.Cols(),
		TotalRows:  rows,
	}
	for _, c := range t.Columns() {
		nulls := c.MissingCount()
		out.TotalNullCount += nulls
		pct := 0.0
		if rows > 0 {
			pct = float64(nulls) / float64(rows) * 100
		}
		out.Columns = append(out.Columns, MissingColumnStats{
			Column:         c.Name,
			DataType:       c.Kind.String(),
			NullCount:      nulls,
			NullPercentage: pct,
			NonNullCount:   rows - nulls,
		})
	}
	if out.TotalCells > 0 {
		out.TotalNullPercentage = float64(out.TotalNullCount) / float64(out.TotalCells) * 100
	}
	sort.SliceStable(out.Columns, func(i, j int) bool {
		return out.Columns[i].NullPercentage > out.Columns[j].NullPercentage
	})
	return out
}

// applyMissing fills or drops missing values according to the strategy.
func applyMissing(t *dataset.Table, p MissingParams) (*opResult, error) {
	var fallback []string
	switch p.Strategy {
	case StrategyMean, StrategyMedian:
		fallback = t.NumericNames()
	case StrategyMode:
		fallback = t.CategoricalNames()
	case StrategyConstant, StrategyDrop:
		fallback = t.Names()
	default:
		return nil, fmt.Errorf("strategy %q: %w", p.Strategy, ErrInvalidStrategy)
	}
	if p.Strategy == StrategyConstant && p.ConstantValue == nil && p.ConstantString == "" {
		return nil, fmt.Errorf("constant strategy needs constant_value or constant_string: %w", ErrInvalidStrategy)
	}

	targets, err := resolveColumns(t, p.Columns, fallback)
	if err != nil {
		return nil, err
	}

	if p.Strategy == StrategyDrop {
		return dropMissingRows(t, targets, p)
	}

	filled := 0
	touched := 0
	var updated []*dataset.Column
	for _, name := range targets {
		col, _ := t.Column(name)
		n := col.MissingCount()
		if n == 0 {
			continue
		}
		repl := fillColumn(col, p)
		if repl == nil {
			continue // strategy does not apply to this column kind
		}
		updated = append(updated, repl)
		filled += n
		touched++
	}

	return &opResult{
		table:       t.WithColumns(updated...),
		description: fmt.Sprintf("Missing values: %s on %d column%s", p.Strategy, len(targets), plural(len(targets))),
		outcome:     fmt.Sprintf("filled %d cell%s in %d column%s", filled, plural(filled), touched, plural(touched)),
	}, nil
}

// dropMissingRows removes every row with a missing value in any targeted
// column.
func dropMissingRows(t *dataset.Table, targets []string, p MissingParams) (*opResult, error) {
	cols := make([]*dataset.Column, len(targets))
	for i, name := range targets {
		cols[i], _ = t.Column(name)
	}
	var keep []int
	for r := 0; r < t.Rows(); r++ {
		ok := true
		for _, c := range cols {
			if c.IsMissing(r) {
				ok = false
				break
			}
		}
		if ok {
			keep = append(keep, r)
		}
	}
	removed := t.Rows() - len(keep)
	return &opResult{
		table:       t.TakeRows(keep),
		description: fmt.Sprintf("Missing values: drop rows on %d column%s", len(targets), plural(len(targets))),
		outcome:     fmt.Sprintf("removed %d row%s", removed, plural(removed)),
	}, nil
}

// fillColumn returns a filled copy of col, or nil when the strategy does not
// apply to the column's kind or no fill value is available.
func fillColumn(col *dataset.Column, p MissingParams) *dataset.Column {
	switch p.Strategy {
	case StrategyMean, StrategyMedian:
		if col.Kind != dataset.Numeric {
			return nil
		}
		vals := col.Values()
		if len(vals) == 0 {
			return nil
		}
		var fill float64
		if p.Strategy == StrategyMean {
			fill = stat.Mean(vals, nil)
		} else {
			sort.Float64s(vals)
			fill = stat.Quantile(0.5, stat.LinInterp, vals, nil)
		}
		return fillNumeric(col, fill)

	case StrategyMode:
		if col.Kind != dataset.Categorical {
			return nil
		}
		mode, ok := categoricalMode(col)
		if !ok {
			return nil
		}
		return fillCategorical(col, mode)

	case StrategyConstant:
		if col.Kind == dataset.Numeric {
			if p.ConstantValue == nil {
				return nil
			}
			return fillNumeric(col, *p.ConstantValue)
		}
		if p.ConstantString == "" {
			return nil
		}
		return fillCategorical(col, p.ConstantString)
	}
	return nil
}

func fillNumeric(col *dataset.Column, fill float64) *dataset.Column {
	vals := make([]float64, len(col.Nums))
	copy(vals, col.Nums)
	for i, v := range vals {
		if math.IsNaN(v) {
			vals[i] = fill
		}
	}
	return dataset.NewNumeric(col.Name, vals)
}

func fillCategorical(col *dataset.Column, fill string) *dataset.Column {
	vals := make([]string, len(col.Cats))
	copy(vals, col.Cats)
	miss := make([]bool, len(col.Miss))
	for i := range vals {
		if col.Miss[i] {
			vals[i] = fill
		}
	}
	return dataset.NewCategorical(col.Name, vals, miss)
}

// categoricalMode returns the most frequent non-missing value; ties break to
// the lexicographically smallest value so the result is deterministic.
func categoricalMode(col *dataset.Column) (string, bool) {
	counts := make(map[string]int)
	for i, v := range col.Cats {
		if !col.Miss[i] {
			counts[v]++
		}
	}
	best, bestN := "", 0
	for v, n := range counts {
		if n > bestN || (n == bestN && v < best) {
			best, bestN = v, n
		}
	}
	return best, bestN > 0
}
