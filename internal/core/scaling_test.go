package core

import (
	"errors"
	"math"
	"testing"

	"github.com/prepforge/prepforge/internal/dataset"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestApplyScaling_Standard(t *testing.T) {
	tbl := testTable(t, dataset.NewNumeric("v", []float64{2, 4, 6}))

	res, err := applyScaling(tbl, ScalingParams{Method: ScaleStandard})
	if err != nil {
		t.Fatalf("applyScaling() error = %v", err)
	}

	col, _ := res.table.Column("v")
	// mean 4, population std sqrt(8/3).
	std := math.Sqrt(8.0 / 3.0)
	want := []float64{-2 / std, 0, 2 / std}
	for i, w := range want {
		if !almostEqual(col.Nums[i], w) {
			t.Errorf("v[%d] = %v, want %v", i, col.Nums[i], w)
		}
	}

	st := res.states[0]
	if st.Mean != 4 || !almostEqual(st.Std, std) {
		t.Errorf("state mean/std = %v/%v, want 4/%v", st.Mean, st.Std, std)
	}
}

func TestApplyScaling_MinMax(t *testing.T) {
	tbl := testTable(t, dataset.NewNumeric("v", []float64{10, 15, 20}))

	res, err := applyScaling(tbl, ScalingParams{Method: ScaleMinMax})
	if err != nil {
		t.Fatalf("applyScaling() error = %v", err)
	}
	col, _ := res.table.Column("v")
	want := []float64{0, 0.5, 1}
	for i, w := range want {
		if !almostEqual(col.Nums[i], w) {
			t.Errorf("v[%d] = %v, want %v", i, col.Nums[i], w)
		}
	}
	st := res.states[0]
	if st.Min != 10 || st.Max != 20 {
		t.Errorf("state min/max = %v/%v, want 10/20", st.Min, st.Max)
	}
}

func TestApplyScaling_Robust(t *testing.T) {
	tbl := testTable(t, dataset.NewNumeric("v", []float64{1, 2, 3, 4, 100}))

	res, err := applyScaling(tbl, ScalingParams{Method: ScaleRobust})
	if err != nil {
		t.Fatalf("applyScaling() error = %v", err)
	}
	st := res.states[0]
	if st.Median != 3 {
		t.Errorf("state median = %v, want 3", st.Median)
	}
	if st.IQR <= 0 {
		t.Errorf("state IQR = %v, want positive", st.IQR)
	}
	col, _ := res.table.Column("v")
	if !almostEqual(col.Nums[2], 0) {
		t.Errorf("median row scales to %v, want 0", col.Nums[2])
	}
}

func TestApplyScaling_ZeroVariance(t *testing.T) {
	tbl := testTable(t, dataset.NewNumeric("v", []float64{5, 5, 5}))

	for _, method := range []string{ScaleStandard, ScaleMinMax, ScaleRobust} {
		res, err := applyScaling(tbl, ScalingParams{Method: method})
		if err != nil {
			t.Fatalf("applyScaling(%s) error = %v", method, err)
		}
		col, _ := res.table.Column("v")
		want := 0.0
		if method == ScaleStandard {
			want = 5 // zero std is a recorded no-op
		}
		if col.Nums[0] != want {
			t.Errorf("%s zero-variance v[0] = %v, want %v", method, col.Nums[0], want)
		}
	}
}

func TestApplyScaling_PreservesMissing(t *testing.T) {
	tbl := testTable(t, dataset.NewNumeric("v", []float64{0, math.NaN(), 10}))

	res, err := applyScaling(tbl, ScalingParams{Method: ScaleMinMax})
	if err != nil {
		t.Fatalf("applyScaling() error = %v", err)
	}
	col, _ := res.table.Column("v")
	if !math.IsNaN(col.Nums[1]) {
		t.Errorf("missing cell scaled to %v, want NaN", col.Nums[1])
	}
}

func TestApplyScaling_SkipsCategorical(t *testing.T) {
	tbl := testTable(t,
		dataset.NewNumeric("n", []float64{1, 2}),
		dataset.NewCategorical("c", []string{"x", "y"}, nil),
	)

	res, err := applyScaling(tbl, ScalingParams{Method: ScaleStandard, Columns: []string{"n", "c"}})
	if err != nil {
		t.Fatalf("applyScaling() error = %v", err)
	}
	c, _ := res.table.Column("c")
	if c.Kind != dataset.Categorical {
		t.Error("categorical column should be skipped, not scaled")
	}
	if len(res.states) != 1 {
		t.Errorf("states = %d, want 1 (numeric column only)", len(res.states))
	}
}

func TestApplyScaling_InvalidMethod(t *testing.T) {
	tbl := testTable(t, dataset.NewNumeric("v", []float64{1}))
	if _, err := applyScaling(tbl, ScalingParams{Method: "log"}); !errors.Is(err, ErrInvalidMethod) {
		t.Errorf("error = %v, want ErrInvalidMethod", err)
	}
}
