package dataset

import (
	"bytes"
	"strings"
	"testing"
)

func TestRead_InfersKinds(t *testing.T) {
	in := "age,city,score\n25,NYC,1.5\n30,LA,2.5\n35,NYC,3.5\n"
	tbl, err := Read(strings.NewReader(in))
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}

	if tbl.Rows() != 3 {
		t.Fatalf("Rows() = %d, want 3", tbl.Rows())
	}
	age, _ := tbl.Column("age")
	if age.Kind != Numeric {
		t.Errorf("age kind = %v, want numerical", age.Kind)
	}
	city, _ := tbl.Column("city")
	if city.Kind != Categorical {
		t.Errorf("city kind = %v, want categorical", city.Kind)
	}
	if age.Nums[1] != 30 {
		t.Errorf("age[1] = %v, want 30", age.Nums[1])
	}
}

func TestRead_NullTokens(t *testing.T) {
	in := "a,b\n1,x\nNA,null\n,None\nn/a,y\n"
	tbl, err := Read(strings.NewReader(in))
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}

	a, _ := tbl.Column("a")
	if a.Kind != Numeric {
		t.Fatalf("a should stay numeric despite null tokens")
	}
	if a.MissingCount() != 3 {
		t.Errorf("a missing count = %d, want 3", a.MissingCount())
	}
	b, _ := tbl.Column("b")
	if b.MissingCount() != 2 {
		t.Errorf("b missing count = %d, want 2", b.MissingCount())
	}
}

func TestRead_BOM(t *testing.T) {
	in := "\xEF\xBB\xBFa,b\n1,x\n"
	tbl, err := Read(strings.NewReader(in))
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	if !tbl.HasColumn("a") {
		t.Errorf("BOM should be stripped from the first header name, got %v", tbl.Names())
	}
}

func TestRead_Empty(t *testing.T) {
	_, err := Read(strings.NewReader(""))
	if err == nil {
		t.Fatal("expected error for empty input")
	}
}

func TestRead_MixedColumnIsCategorical(t *testing.T) {
	in := "v\n1\ntwo\n3\n"
	tbl, err := Read(strings.NewReader(in))
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	v, _ := tbl.Column("v")
	if v.Kind != Categorical {
		t.Error("column with non-numeric cells should be categorical")
	}
}

func TestIsNullToken(t *testing.T) {
	for _, s := range []string{"", "NA", "n/a", "NULL", "None", "nan", "  na  "} {
		if !IsNullToken(s) {
			t.Errorf("IsNullToken(%q) = false, want true", s)
		}
	}
	for _, s := range []string{"0", "x", "n.a"} {
		if IsNullToken(s) {
			t.Errorf("IsNullToken(%q) = true, want false", s)
		}
	}
}

func TestWrite_MissingCellsEmpty(t *testing.T) {
	in := "a,b\n1,x\nNA,None\n"
	tbl, err := Read(strings.NewReader(in))
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}

	var buf bytes.Buffer
	if err := Write(&buf, tbl); err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	want := "a,b\n1,x\n,\n"
	if buf.String() != want {
		t.Errorf("Write() = %q, want %q", buf.String(), want)
	}
}
