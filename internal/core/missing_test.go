package core

import (
	"errors"
	"math"
	"testing"

	"github.com/prepforge/prepforge/internal/dataset"
)

func TestAnalyzeMissing(t *testing.T) {
	tbl := testTable(t,
		dataset.NewNumeric("age", []float64{25, math.NaN(), 35, math.NaN()}),
		dataset.NewCategorical("city", []string{"NYC", "LA", "", "NYC"}, []bool{false, false, true, false}),
	)

	a := AnalyzeMissing(tbl)
	if a.TotalNullCount != 3 {
		t.Errorf("TotalNullCount = %d, want 3", a.TotalNullCount)
	}
	if a.TotalCells != 8 {
		t.Errorf("TotalCells = %d, want 8", a.TotalCells)
	}
	// Sorted by null percentage descending: age (50%) before city (25%).
	if a.Columns[0].Column != "age" {
		t.Errorf("first column = %q, want age", a.Columns[0].Column)
	}
	if a.Columns[0].NullPercentage != 50 {
		t.Errorf("age null pct = %v, want 50", a.Columns[0].NullPercentage)
	}
	if a.Columns[1].NonNullCount != 3 {
		t.Errorf("city non-null = %d, want 3", a.Columns[1].NonNullCount)
	}
}

func TestApplyMissing_Mean(t *testing.T) {
	tbl := testTable(t, dataset.NewNumeric("age", []float64{10, math.NaN(), 30}))

	res, err := applyMissing(tbl, MissingParams{Strategy: StrategyMean})
	if err != nil {
		t.Fatalf("applyMissing() error = %v", err)
	}

	col, _ := res.table.Column("age")
	if col.Nums[1] != 20 {
		t.Errorf("filled value = %v, want 20", col.Nums[1])
	}
	// The input snapshot must be untouched.
	orig, _ := tbl.Column("age")
	if !math.IsNaN(orig.Nums[1]) {
		t.Error("input snapshot was mutated")
	}
}

func TestApplyMissing_Median(t *testing.T) {
	tbl := testTable(t, dataset.NewNumeric("v", []float64{1, 2, 100, math.NaN()}))

	res, err := applyMissing(tbl, MissingParams{Strategy: StrategyMedian})
	if err != nil {
		t.Fatalf("applyMissing() error = %v", err)
	}
	col, _ := res.table.Column("v")
	if col.Nums[3] != 2 {
		t.Errorf("median fill = %v, want 2", col.Nums[3])
	}
}

func TestApplyMissing_ModeTieBreaksLexicographically(t *testing.T) {
	tbl := testTable(t, dataset.NewCategorical("c",
		[]string{"b", "a", "b", "a", ""},
		[]bool{false, false, false, false, true}))

	res, err := applyMissing(tbl, MissingParams{Strategy: StrategyMode})
	if err != nil {
		t.Fatalf("applyMissing() error = %v", err)
	}
	col, _ := res.table.Column("c")
	if col.Cats[4] != "a" {
		t.Errorf("mode fill = %q, want a (tie broken lexicographically)", col.Cats[4])
	}
	if col.IsMissing(4) {
		t.Error("filled cell should no longer be missing")
	}
}

func TestApplyMissing_Constant(t *testing.T) {
	fill := 0.0
	tbl := testTable(t,
		dataset.NewNumeric("n", []float64{1, math.NaN()}),
		dataset.NewCategorical("c", []string{"x", ""}, []bool{false, true}),
	)

	res, err := applyMissing(tbl, MissingParams{
		Strategy:       StrategyConstant,
		ConstantValue:  &fill,
		ConstantString: "unknown",
	})
	if err != nil {
		t.Fatalf("applyMissing() error = %v", err)
	}
	n, _ := res.table.Column("n")
	if n.Nums[1] != 0 {
		t.Errorf("numeric fill = %v, want 0", n.Nums[1])
	}
	c, _ := res.table.Column("c")
	if c.Cats[1] != "unknown" {
		t.Errorf("categorical fill = %q, want unknown", c.Cats[1])
	}
}

func TestApplyMissing_DropRows(t *testing.T) {
	tbl := testTable(t,
		dataset.NewNumeric("n", []float64{1, math.NaN(), 3}),
		dataset.NewCategorical("c", []string{"x", "y", ""}, []bool{false, false, true}),
	)

	res, err := applyMissing(tbl, MissingParams{Strategy: StrategyDrop})
	if err != nil {
		t.Fatalf("applyMissing() error = %v", err)
	}
	if res.table.Rows() != 1 {
		t.Fatalf("Rows() = %d, want 1", res.table.Rows())
	}
	n, _ := res.table.Column("n")
	if n.Nums[0] != 1 {
		t.Errorf("surviving row n = %v, want 1", n.Nums[0])
	}
}

func TestApplyMissing_WrongKindColumnsSkipped(t *testing.T) {
	tbl := testTable(t,
		dataset.NewNumeric("n", []float64{1, math.NaN()}),
		dataset.NewCategorical("c", []string{"x", ""}, []bool{false, true}),
	)

	// Mean on all columns must leave the categorical column alone.
	res, err := applyMissing(tbl, MissingParams{Strategy: StrategyMean, Columns: []string{"n", "c"}})
	if err != nil {
		t.Fatalf("applyMissing() error = %v", err)
	}
	c, _ := res.table.Column("c")
	if !c.IsMissing(1) {
		t.Error("categorical column should be untouched by a numeric strategy")
	}
}

func TestApplyMissing_Errors(t *testing.T) {
	tbl := testTable(t, dataset.NewNumeric("n", []float64{1}))

	if _, err := applyMissing(tbl, MissingParams{Strategy: "wat"}); !errors.Is(err, ErrInvalidStrategy) {
		t.Errorf("unknown strategy error = %v, want ErrInvalidStrategy", err)
	}
	if _, err := applyMissing(tbl, MissingParams{Strategy: StrategyMean, Columns: []string{}}); !errors.Is(err, ErrEmptySelection) {
		t.Errorf("empty selection error = %v, want ErrEmptySelection", err)
	}
	if _, err := applyMissing(tbl, MissingParams{Strategy: StrategyMean, Columns: []string{"nope"}}); !errors.Is(err, ErrColumnNotFound) {
		t.Errorf("unknown column error = %v, want ErrColumnNotFound", err)
	}
}

func TestApplyMissing_ConstantWithoutValue(t *testing.T) {
	tbl := testTable(t, dataset.NewNumeric("n", []float64{1, math.NaN()}))

	_, err := applyMissing(tbl, MissingParams{Strategy: StrategyConstant})
	if !errors.Is(err, ErrInvalidStrategy) {
		t.Fatalf("constant without a fill value error = %v, want ErrInvalidStrategy", err)
	}
}
