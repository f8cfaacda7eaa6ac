package core

// scaling.go implements numeric feature scaling: standard, min-max and
// robust. Fitted parameters per column are recorded as TransformStates.
//
// Degenerate columns are handled without failing: standard scaling with zero
// standard deviation is a recorded no-op, min-max with zero range maps every
// value to 0, and robust with zero IQR behaves like the zero-range case.

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/prepforge/prepforge/internal/dataset"
)

// Scaling methods.
const (
	ScaleStandard = "standard"
	ScaleMinMax   = "minmax"
	ScaleRobust   = "robust"
)

// ScalingParams configures one scaling request. A nil column list targets
// every numeric column.
type ScalingParams struct {
	Columns []string `json:"columns"`
	Method  string   `json:"method"`
}

// applyScaling rescales the targeted numeric columns.
func applyScaling(t *dataset.Table, p ScalingParams) (*opResult, error) {
	switch p.Method {
	case ScaleStandard, ScaleMinMax, ScaleRobust:
	default:
		return nil, fmt.Errorf("scaling method %q: %w", p.Method, ErrInvalidMethod)
	}
	targets, err := resolveColumns(t, p.Columns, t.NumericNames())
	if err != nil {
		return nil, err
	}

	res := &opResult{
		description: fmt.Sprintf("%s scaling on %d column%s", titleMethod(p.Method), len(targets), plural(len(targets))),
	}
	scaled := 0
	var updated []*dataset.Column
	for _, name := range targets {
		col, _ := t.Column(name)
		if col.Kind != dataset.Numeric {
			continue
		}
		vals := col.Values()
		if len(vals) == 0 {
			continue
		}
		repl, state := scaleColumn(col, vals, p.Method)
		updated = append(updated, repl)
		res.states = append(res.states, state)
		scaled++
	}
	res.table = t.WithColumns(updated...)
	res.outcome = fmt.Sprintf("scaled %d column%s", scaled, plural(scaled))
	return res, nil
}

// scaleColumn fits the chosen scaler on the non-missing values and applies
// it. Missing cells stay missing.
func scaleColumn(col *dataset.Column, vals []float64, method string) (*dataset.Column, TransformState) {
	state := TransformState{
		Column: col.Name,
		Family: FamilyScaling,
		Method: method,
	}

	var apply func(v float64) float64
	switch method {
	case ScaleStandard:
		mean := stat.Mean(vals, nil)
		std := stat.PopStdDev(vals, nil)
		state.Mean, state.Std = mean, std
		if std == 0 {
			// Recorded no-op: nothing meaningful to scale by.
			apply = func(v float64) float64 { return v }
		} else {
			apply = func(v float64) float64 { return (v - mean) / std }
		}

	case ScaleMinMax:
		min := floats.Min(vals)
		max := floats.Max(vals)
		state.Min, state.Max = min, max
		if max == min {
			apply = func(float64) float64 { return 0 }
		} else {
			apply = func(v float64) float64 { return (v - min) / (max - min) }
		}

	case ScaleRobust:
		sorted := make([]float64, len(vals))
		copy(sorted, vals)
		sort.Float64s(sorted)
		q1 := stat.Quantile(0.25, stat.LinInterp, sorted, nil)
		median := stat.Quantile(0.5, stat.LinInterp, sorted, nil)
		q3 := stat.Quantile(0.75, stat.LinInterp, sorted, nil)
		iqr := q3 - q1
		state.Median, state.IQR = median, iqr
		if iqr == 0 {
			apply = func(float64) float64 { return 0 }
		} else {
			apply = func(v float64) float64 { return (v - median) / iqr }
		}
	}

	out := make([]float64, len(col.Nums))
	for i, v := range col.Nums {
		if math.IsNaN(v) {
			out[i] = v
			continue
		}
		out[i] = apply(v)
	}
	return dataset.NewNumeric(col.Name, out), state
}

// titleMethod renders a method name for descriptions ("standard" →
// "Standard", "minmax" → "Min-max").
func titleMethod(method string) string {
	switch method {
	case ScaleMinMax:
		return "Min-max"
	case ScaleRobust:
		return "Robust"
	default:
		return "Standard"
	}
}
