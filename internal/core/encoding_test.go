package core

import (
	"errors"
	"math"
	"testing"

	"github.com/prepforge/prepforge/internal/dataset"
)

func cityTable(t *testing.T) *dataset.Table {
	return testTable(t,
		dataset.NewCategorical("city", []string{"NYC", "LA", "NYC", "SF"}, nil),
		dataset.NewNumeric("price", []float64{10, 20, 30, 40}),
	)
}

func TestEncodeLabel(t *testing.T) {
	res, err := applyEncoding(cityTable(t), EncodingParams{
		Method:  EncodeLabel,
		Columns: []string{"city"},
	})
	if err != nil {
		t.Fatalf("applyEncoding() error = %v", err)
	}

	col, _ := res.table.Column("city")
	if col.Kind != dataset.Numeric {
		t.Fatal("label encoding should turn the column numeric")
	}
	// Codes follow first-seen order: NYC=0, LA=1, SF=2.
	want := []float64{0, 1, 0, 2}
	for i, w := range want {
		if col.Nums[i] != w {
			t.Errorf("city[%d] = %v, want %v", i, col.Nums[i], w)
		}
	}

	if len(res.states) != 1 {
		t.Fatalf("states = %d, want 1", len(res.states))
	}
	st := res.states[0]
	if st.Codes["SF"] != 2 {
		t.Errorf("Codes[SF] = %d, want 2", st.Codes["SF"])
	}
	if len(res.invalidate) != 1 || res.invalidate[0] != "city" {
		t.Errorf("invalidate = %v, want [city]", res.invalidate)
	}
}

func TestEncodeLabel_MissingStaysMissing(t *testing.T) {
	tbl := testTable(t, dataset.NewCategorical("c",
		[]string{"a", "", "b"}, []bool{false, true, false}))

	res, err := applyEncoding(tbl, EncodingParams{Method: EncodeLabel, Columns: []string{"c"}})
	if err != nil {
		t.Fatalf("applyEncoding() error = %v", err)
	}
	col, _ := res.table.Column("c")
	if !math.IsNaN(col.Nums[1]) {
		t.Errorf("missing cell encoded as %v, want NaN", col.Nums[1])
	}
}

func TestEncodeOneHot(t *testing.T) {
	res, err := applyEncoding(cityTable(t), EncodingParams{
		Method:  EncodeOneHot,
		Columns: []string{"city"},
	})
	if err != nil {
		t.Fatalf("applyEncoding() error = %v", err)
	}

	if res.table.HasColumn("city") {
		t.Error("source column should be dropped")
	}
	// Dummy columns follow sorted category order: LA, NYC, SF.
	for _, name := range []string{"city_LA", "city_NYC", "city_SF"} {
		if !res.table.HasColumn(name) {
			t.Fatalf("missing dummy column %s, have %v", name, res.table.Names())
		}
	}
	nyc, _ := res.table.Column("city_NYC")
	want := []float64{1, 0, 1, 0}
	for i, w := range want {
		if nyc.Nums[i] != w {
			t.Errorf("city_NYC[%d] = %v, want %v", i, nyc.Nums[i], w)
		}
	}
}

func TestEncodeOneHot_DropFirst(t *testing.T) {
	res, err := applyEncoding(cityTable(t), EncodingParams{
		Method:    EncodeOneHot,
		Columns:   []string{"city"},
		DropFirst: true,
	})
	if err != nil {
		t.Fatalf("applyEncoding() error = %v", err)
	}
	// LA is first in sorted order and gets dropped.
	if res.table.HasColumn("city_LA") {
		t.Error("drop_first should remove the first sorted category")
	}
	if !res.table.HasColumn("city_NYC") || !res.table.HasColumn("city_SF") {
		t.Errorf("remaining dummies wrong: %v", res.table.Names())
	}
}

func TestEncodeOneHot_HandleBinary(t *testing.T) {
	tbl := testTable(t, dataset.NewCategorical("sex", []string{"m", "f", "m"}, nil))

	res, err := applyEncoding(tbl, EncodingParams{
		Method:       EncodeOneHot,
		Columns:      []string{"sex"},
		HandleBinary: true,
	})
	if err != nil {
		t.Fatalf("applyEncoding() error = %v", err)
	}
	col, ok := res.table.Column("sex")
	if !ok {
		t.Fatal("binary column should stay in place, label encoded")
	}
	// Sorted order: f=0, m=1.
	want := []float64{1, 0, 1}
	for i, w := range want {
		if col.Nums[i] != w {
			t.Errorf("sex[%d] = %v, want %v", i, col.Nums[i], w)
		}
	}
}

func TestEncodeOrdinal_ExplicitOrder(t *testing.T) {
	tbl := testTable(t, dataset.NewCategorical("size",
		[]string{"small", "large", "medium", "huge"}, nil))

	res, err := applyEncoding(tbl, EncodingParams{
		Method:     EncodeOrdinal,
		Columns:    []string{"size"},
		Categories: []string{"small", "medium", "large"},
	})
	if err != nil {
		t.Fatalf("applyEncoding() error = %v", err)
	}
	col, _ := res.table.Column("size")
	// huge is outside the declared order and codes as -1.
	want := []float64{0, 2, 1, -1}
	for i, w := range want {
		if col.Nums[i] != w {
			t.Errorf("size[%d] = %v, want %v", i, col.Nums[i], w)
		}
	}
}

func TestEncodeOrdinal_AutomaticOrder(t *testing.T) {
	tbl := testTable(t, dataset.NewCategorical("c", []string{"b", "a", "c"}, nil))

	res, err := applyEncoding(tbl, EncodingParams{Method: EncodeOrdinal, Columns: []string{"c"}})
	if err != nil {
		t.Fatalf("applyEncoding() error = %v", err)
	}
	col, _ := res.table.Column("c")
	want := []float64{1, 0, 2}
	for i, w := range want {
		if col.Nums[i] != w {
			t.Errorf("c[%d] = %v, want %v", i, col.Nums[i], w)
		}
	}
}

func TestEncodeTarget(t *testing.T) {
	res, err := applyEncoding(cityTable(t), EncodingParams{
		Method:       EncodeTarget,
		Columns:      []string{"city"},
		TargetColumn: "price",
	})
	if err != nil {
		t.Fatalf("applyEncoding() error = %v", err)
	}

	col, _ := res.table.Column("city")
	// NYC rows have prices 10 and 30, mean 20. LA 20, SF 40.
	want := []float64{20, 20, 20, 40}
	for i, w := range want {
		if col.Nums[i] != w {
			t.Errorf("city[%d] = %v, want %v", i, col.Nums[i], w)
		}
	}
	st := res.states[0]
	if st.TargetMeans["NYC"] != 20 {
		t.Errorf("TargetMeans[NYC] = %v, want 20", st.TargetMeans["NYC"])
	}
	if st.OverallMean != 25 {
		t.Errorf("OverallMean = %v, want 25", st.OverallMean)
	}
}

func TestEncodeTarget_MissingFallsBackToOverallMean(t *testing.T) {
	tbl := testTable(t,
		dataset.NewCategorical("c", []string{"a", "", "a"}, []bool{false, true, false}),
		dataset.NewNumeric("y", []float64{10, 20, 30}),
	)

	res, err := applyEncoding(tbl, EncodingParams{
		Method: EncodeTarget, Columns: []string{"c"}, TargetColumn: "y",
	})
	if err != nil {
		t.Fatalf("applyEncoding() error = %v", err)
	}
	col, _ := res.table.Column("c")
	if col.Nums[1] != 20 {
		t.Errorf("missing cell encoded as %v, want overall mean 20", col.Nums[1])
	}
}

func TestApplyEncoding_Errors(t *testing.T) {
	tbl := cityTable(t)

	if _, err := applyEncoding(tbl, EncodingParams{Method: EncodeLabel}); !errors.Is(err, ErrEmptySelection) {
		t.Errorf("no columns error = %v, want ErrEmptySelection", err)
	}
	if _, err := applyEncoding(tbl, EncodingParams{Method: EncodeLabel, Columns: []string{"city", "city"}}); !errors.Is(err, ErrAlreadyEncoded) {
		t.Errorf("double listing error = %v, want ErrAlreadyEncoded", err)
	}
	if _, err := applyEncoding(tbl, EncodingParams{Method: EncodeLabel, Columns: []string{"price"}}); !errors.Is(err, ErrInvalidMethod) {
		t.Errorf("non-categorical error = %v, want ErrInvalidMethod", err)
	}
	if _, err := applyEncoding(tbl, EncodingParams{Method: "base64", Columns: []string{"city"}}); !errors.Is(err, ErrInvalidMethod) {
		t.Errorf("unknown method error = %v, want ErrInvalidMethod", err)
	}
	if _, err := applyEncoding(tbl, EncodingParams{Method: EncodeTarget, Columns: []string{"city"}, TargetColumn: "ghost"}); !errors.Is(err, ErrColumnNotFound) {
		t.Errorf("unknown target error = %v, want ErrColumnNotFound", err)
	}
}

func TestEncodeOneHot_DummyNameCollision(t *testing.T) {
	tbl := testTable(t,
		dataset.NewCategorical("c", []string{"A", "B", "A"}, nil),
		dataset.NewNumeric("c_A", []float64{10, 20, 30}),
	)

	res, err := applyEncoding(tbl, EncodingParams{Method: EncodeOneHot, Columns: []string{"c"}})
	if err != nil {
		t.Fatalf("applyEncoding() error = %v", err)
	}

	// The pre-existing c_A keeps its data.
	orig, ok := res.table.Column("c_A")
	if !ok {
		t.Fatalf("pre-existing column lost, have %v", res.table.Names())
	}
	for i, w := range []float64{10, 20, 30} {
		if orig.Nums[i] != w {
			t.Fatalf("c_A[%d] = %v, want %v", i, orig.Nums[i], w)
		}
	}

	// The indicator for category A moves to a suffixed name.
	dummy, ok := res.table.Column("c_A_2")
	if !ok {
		t.Fatalf("suffixed indicator missing, have %v", res.table.Names())
	}
	for i, w := range []float64{1, 0, 1} {
		if dummy.Nums[i] != w {
			t.Errorf("c_A_2[%d] = %v, want %v", i, dummy.Nums[i], w)
		}
	}
	if _, ok := res.table.Column("c_B"); !ok {
		t.Errorf("uncontested indicator should keep its name, have %v", res.table.Names())
	}
}
