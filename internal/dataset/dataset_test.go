package dataset

import (
	"math"
	"testing"
)

func numCol(name string, vals ...float64) *Column {
	return NewNumeric(name, vals)
}

func catCol(name string, vals ...string) *Column {
	return NewCategorical(name, vals, nil)
}

func mustTable(t *testing.T, cols ...*Column) *Table {
	t.Helper()
	tbl, err := New(cols...)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return tbl
}

func TestNew_DuplicateName(t *testing.T) {
	_, err := New(numCol("a", 1), numCol("a", 2))
	if err == nil {
		t.Fatal("expected error for duplicate column name")
	}
}

func TestNew_LengthMismatch(t *testing.T) {
	_, err := New(numCol("a", 1, 2), catCol("b", "x"))
	if err == nil {
		t.Fatal("expected error for mismatched column lengths")
	}
}

func TestTable_Shape(t *testing.T) {
	tbl := mustTable(t, numCol("a", 1, 2, 3), catCol("b", "x", "y", "z"))

	if tbl.Rows() != 3 {
		t.Errorf("Rows() = %d, want 3", tbl.Rows())
	}
	if tbl.Cols() != 2 {
		t.Errorf("Cols() = %d, want 2", tbl.Cols())
	}
	if got := tbl.NumericNames(); len(got) != 1 || got[0] != "a" {
		t.Errorf("NumericNames() = %v, want [a]", got)
	}
	if got := tbl.CategoricalNames(); len(got) != 1 || got[0] != "b" {
		t.Errorf("CategoricalNames() = %v, want [b]", got)
	}
}

func TestColumn_Missing(t *testing.T) {
	num := numCol("a", 1, math.NaN(), 3)
	if !num.IsMissing(1) {
		t.Error("NaN cell should be missing")
	}
	if num.MissingCount() != 1 {
		t.Errorf("MissingCount() = %d, want 1", num.MissingCount())
	}
	if got := num.Values(); len(got) != 2 {
		t.Errorf("Values() length = %d, want 2", len(got))
	}

	cat := NewCategorical("b", []string{"x", "", "z"}, []bool{false, true, false})
	if !cat.IsMissing(1) {
		t.Error("masked cell should be missing")
	}
	if cat.CellString(1) != "" {
		t.Errorf("CellString(1) = %q, want empty", cat.CellString(1))
	}
}

func TestWithColumns_ReplaceAndAppend(t *testing.T) {
	tbl := mustTable(t, numCol("a", 1, 2), catCol("b", "x", "y"))

	out := tbl.WithColumns(numCol("a", 10, 20), numCol("c", 5, 6))

	if out.Cols() != 3 {
		t.Fatalf("Cols() = %d, want 3", out.Cols())
	}
	names := out.Names()
	if names[0] != "a" || names[1] != "b" || names[2] != "c" {
		t.Errorf("Names() = %v, want [a b c]", names)
	}
	a, _ := out.Column("a")
	if a.Nums[0] != 10 {
		t.Errorf("replaced column a[0] = %v, want 10", a.Nums[0])
	}

	// The original table must be untouched.
	origA, _ := tbl.Column("a")
	if origA.Nums[0] != 1 {
		t.Errorf("original table was mutated: a[0] = %v", origA.Nums[0])
	}
}

func TestWithColumns_SharesUntouchedColumns(t *testing.T) {
	tbl := mustTable(t, numCol("a", 1, 2), catCol("b", "x", "y"))
	out := tbl.WithColumns(numCol("a", 10, 20))

	origB, _ := tbl.Column("b")
	newB, _ := out.Column("b")
	if origB != newB {
		t.Error("untouched column should be shared, not copied")
	}
}

func TestDropColumns(t *testing.T) {
	tbl := mustTable(t, numCol("a", 1), catCol("b", "x"), numCol("c", 2))
	out := tbl.DropColumns("b")

	if out.Cols() != 2 {
		t.Fatalf("Cols() = %d, want 2", out.Cols())
	}
	if out.HasColumn("b") {
		t.Error("dropped column should be gone")
	}
	if !tbl.HasColumn("b") {
		t.Error("original table was mutated")
	}
}

func TestTakeRows_RepeatAndFilter(t *testing.T) {
	tbl := mustTable(t, numCol("a", 1, 2, 3), catCol("b", "x", "y", "z"))

	out := tbl.TakeRows([]int{2, 0, 0})
	if out.Rows() != 3 {
		t.Fatalf("Rows() = %d, want 3", out.Rows())
	}
	a, _ := out.Column("a")
	if a.Nums[0] != 3 || a.Nums[1] != 1 || a.Nums[2] != 1 {
		t.Errorf("TakeRows values = %v, want [3 1 1]", a.Nums)
	}
	b, _ := out.Column("b")
	if b.Cats[0] != "z" {
		t.Errorf("TakeRows cats[0] = %q, want z", b.Cats[0])
	}
}

func TestRowKey_DistinguishesMissing(t *testing.T) {
	tbl := mustTable(t,
		NewCategorical("a", []string{"", ""}, []bool{true, false}),
	)
	if tbl.RowKey(0) == tbl.RowKey(1) {
		t.Error("missing cell should key differently from empty string")
	}
}

func TestRowKey_EqualRows(t *testing.T) {
	tbl := mustTable(t, numCol("a", 1, 1, 2), catCol("b", "x", "x", "x"))
	if tbl.RowKey(0) != tbl.RowKey(1) {
		t.Error("identical rows should share a key")
	}
	if tbl.RowKey(0) == tbl.RowKey(2) {
		t.Error("different rows should not share a key")
	}
}

func TestEqual(t *testing.T) {
	a := mustTable(t, numCol("a", 1, math.NaN()), catCol("b", "x", "y"))
	b := mustTable(t, numCol("a", 1, math.NaN()), catCol("b", "x", "y"))
	c := mustTable(t, numCol("a", 1, 2), catCol("b", "x", "y"))

	if !a.Equal(b) {
		t.Error("identical tables should be equal (NaN cells included)")
	}
	if a.Equal(c) {
		t.Error("tables with different cells should not be equal")
	}
}

func TestFormatNum(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{1, "1"},
		{1.5, "1.5"},
		{-3, "-3"},
		{0.1, "0.1"},
	}
	for _, tt := range tests {
		if got := FormatNum(tt.in); got != tt.want {
			t.Errorf("FormatNum(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
