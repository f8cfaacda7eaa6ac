package core

// outliers.go implements outlier detection and treatment on numeric columns.
//
// Detection methods: iqr (outside q1 - 1.5*iqr to q3 + 1.5*iqr) and zscore
// (abs(value - mean) / std above a threshold, default 3). Each targeted column is
// evaluated independently. Actions: remove drops any row outlying in at
// least one targeted column, cap clips values to the detection boundary, and
// flag appends a derived 0/1 column while keeping every row.

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/prepforge/prepforge/internal/dataset"
)

// Outlier detection methods.
const (
	OutlierIQR    = "iqr"
	OutlierZScore = "zscore"
)

// Outlier actions.
const (
	ActionRemove = "remove"
	ActionCap    = "cap"
	ActionFlag   = "flag"
)

// DefaultZScoreThreshold is used when a request leaves the threshold unset.
const DefaultZScoreThreshold = 3.0

// OutlierParams configures detection and treatment. A nil column list
// targets every numeric column.
type OutlierParams struct {
	Columns   []string `json:"columns"`
	Method    string   `json:"method"`
	Action    string   `json:"action"`
	Threshold float64  `json:"threshold"`
}

// OutlierColumnStats describes detection results for one column.
type OutlierColumnStats struct {
	Column            string  `json:"column"`
	OutlierCount      int     `json:"outlier_count"`
	OutlierPercentage float64 `json:"outlier_percentage"`
	LowerBound        float64 `json:"lower_bound"`
	UpperBound        float64 `json:"upper_bound"`
}

// OutlierAnalysis is the read-only detection report.
type OutlierAnalysis struct {
	Method            string               `json:"method"`
	Threshold         float64              `json:"threshold"`
	TotalOutlierRows  int                  `json:"total_outlier_rows"`
	OutlierPercentage float64              `json:"outlier_percentage"`
	Columns           []OutlierColumnStats `json:"columns"`
}

// columnBounds fits the detection method on the non-missing values of a
// numeric column and returns the inlier interval. ok is false when the
// column has no values or no spread to detect against.
func columnBounds(col *dataset.Column, method string, threshold float64) (lower, upper float64, ok bool) {
	vals := col.Values()
	if len(vals) == 0 {
		return 0, 0, false
	}
	switch method {
	case OutlierIQR:
		sorted := make([]float64, len(vals))
		copy(sorted, vals)
		sort.Float64s(sorted)
		q1 := stat.Quantile(0.25, stat.LinInterp, sorted, nil)
		q3 := stat.Quantile(0.75, stat.LinInterp, sorted, nil)
		iqr := q3 - q1
		return q1 - 1.5*iqr, q3 + 1.5*iqr, true
	default: // OutlierZScore
		mean := stat.Mean(vals, nil)
		std := stat.PopStdDev(vals, nil)
		if std == 0 {
			return 0, 0, false
		}
		return mean - threshold*std, mean + threshold*std, true
	}
}

// AnalyzeOutliers reports per-column outlier counts without touching history.
func AnalyzeOutliers(t *dataset.Table, p OutlierParams) (OutlierAnalysis, error) {
	if err := validateOutlierMethod(p.Method); err != nil {
		return OutlierAnalysis{}, err
	}
	threshold := p.Threshold
	if threshold <= 0 {
		threshold = DefaultZScoreThreshold
	}
	targets, err := resolveColumns(t, p.Columns, t.NumericNames())
	if err != nil {
		return OutlierAnalysis{}, err
	}

	out := OutlierAnalysis{Method: p.Method, Threshold: threshold}
	rows := t.Rows()
	outlying := make([]bool, rows)
	for _, name := range targets {
		col, _ := t.Column(name)
		if col.Kind != dataset.Numeric {
			continue
		}
		lower, upper, ok := columnBounds(col, p.Method, threshold)
		stats := OutlierColumnStats{Column: name, LowerBound: lower, UpperBound: upper}
		if ok {
			for r, v := range col.Nums {
				if math.IsNaN(v) || (v >= lower && v <= upper) {
					continue
				}
				stats.OutlierCount++
				outlying[r] = true
			}
			if rows > 0 {
				stats.OutlierPercentage = float64(stats.OutlierCount) / float64(rows) * 100
			}
		}
		out.Columns = append(out.Columns, stats)
	}
	for _, o := range outlying {
		if o {
			out.TotalOutlierRows++
		}
	}
	if rows > 0 {
		out.OutlierPercentage = float64(out.TotalOutlierRows) / float64(rows) * 100
	}
	return out, nil
}

// applyOutliers treats detected outliers according to the action.
func applyOutliers(t *dataset.Table, p OutlierParams) (*opResult, error) {
	if err := validateOutlierMethod(p.Method); err != nil {
		return nil, err
	}
	if p.Action != ActionRemove && p.Action != ActionCap && p.Action != ActionFlag {
		return nil, fmt.Errorf("outlier action %q: %w", p.Action, ErrInvalidMethod)
	}
	threshold := p.Threshold
	if threshold <= 0 {
		threshold = DefaultZScoreThreshold
	}
	targets, err := resolveColumns(t, p.Columns, t.NumericNames())
	if err != nil {
		return nil, err
	}

	rows := t.Rows()
	outlying := make([]bool, rows)
	affected := 0
	out := t
	var updated []*dataset.Column
	flagNames := make(map[string]bool)
	for _, name := range targets {
		col, _ := out.Column(name)
		if col.Kind != dataset.Numeric {
			continue
		}
		lower, upper, ok := columnBounds(col, p.Method, threshold)
		if !ok {
			continue
		}

		switch p.Action {
		case ActionRemove:
			for r, v := range col.Nums {
				if !math.IsNaN(v) && (v < lower || v > upper) {
					outlying[r] = true
				}
			}

		case ActionCap:
			vals := make([]float64, len(col.Nums))
			for r, v := range col.Nums {
				switch {
				case math.IsNaN(v):
					vals[r] = v
				case v < lower:
					vals[r] = lower
					affected++
				case v > upper:
					vals[r] = upper
					affected++
				default:
					vals[r] = v
				}
			}
			updated = append(updated, dataset.NewNumeric(name, vals))

		case ActionFlag:
			flags := make([]float64, len(col.Nums))
			for r, v := range col.Nums {
				if !math.IsNaN(v) && (v < lower || v > upper) {
					flags[r] = 1
					affected++
				}
			}
			// Flag columns must not overwrite an existing column that
			// already carries the generated name.
			flagName := uniqueName(func(n string) bool {
				return out.HasColumn(n) || flagNames[n]
			}, name+"_outlier")
			flagNames[flagName] = true
			updated = append(updated, dataset.NewNumeric(flagName, flags))
		}
	}

	res := &opResult{
		description: fmt.Sprintf("Outliers: %s using %s on %d column%s", p.Action, p.Method, len(targets), plural(len(targets))),
	}
	if p.Action == ActionRemove {
		var keep []int
		for r := 0; r < rows; r++ {
			if !outlying[r] {
				keep = append(keep, r)
			}
		}
		removed := rows - len(keep)
		res.table = out.TakeRows(keep)
		res.outcome = fmt.Sprintf("removed %d row%s", removed, plural(removed))
		return res, nil
	}

	res.table = out.WithColumns(updated...)
	if p.Action == ActionCap {
		res.outcome = fmt.Sprintf("capped %d value%s", affected, plural(affected))
	} else {
		res.outcome = fmt.Sprintf("flagged %d value%s", affected, plural(affected))
	}
	return res, nil
}

func validateOutlierMethod(method string) error {
	if method != OutlierIQR && method != OutlierZScore {
		return fmt.Errorf("outlier method %q: %w", method, ErrInvalidMethod)
	}
	return nil
}
