// Package dataset provides the immutable columnar table model used by the
// preprocessing core.
//
// A Table is a snapshot of the working dataset at one point in time. Every
// transformation builds a new Table; columns that an operation does not touch
// are shared between the old and new snapshot rather than copied. Callers
// must therefore never mutate a Column obtained from a Table.
package dataset

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Kind classifies a column as numerical or categorical.
type Kind int

const (
	Numeric Kind = iota
	Categorical
)

func (k Kind) String() string {
	switch k {
	case Numeric:
		return "numerical"
	case Categorical:
		return "categorical"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Column holds one named value sequence. Exactly one of Nums or Cats is
// populated depending on Kind. For numeric columns NaN marks a missing cell;
// for categorical columns the Miss mask does.
type Column struct {
	Name string
	Kind Kind
	Nums []float64
	Cats []string
	Miss []bool
}

// NewNumeric builds a numeric column. The slice is used as-is, not copied.
func NewNumeric(name string, vals []float64) *Column {
	return &Column{Name: name, Kind: Numeric, Nums: vals}
}

// NewCategorical builds a categorical column. miss may be nil, meaning no
// missing cells.
func NewCategorical(name string, vals []string, miss []bool) *Column {
	if miss == nil {
		miss = make([]bool, len(vals))
	}
	return &Column{Name: name, Kind: Categorical, Cats: vals, Miss: miss}
}

// Len returns the number of rows in the column.
func (c *Column) Len() int {
	if c.Kind == Numeric {
		return len(c.Nums)
	}
	return len(c.Cats)
}

// IsMissing reports whether the cell at row i is missing.
func (c *Column) IsMissing(i int) bool {
	if c.Kind == Numeric {
		return math.IsNaN(c.Nums[i])
	}
	return c.Miss[i]
}

// MissingCount returns the number of missing cells.
func (c *Column) MissingCount() int {
	n := 0
	for i := 0; i < c.Len(); i++ {
		if c.IsMissing(i) {
			n++
		}
	}
	return n
}

// Values returns the non-missing numeric values of a numeric column.
func (c *Column) Values() []float64 {
	out := make([]float64, 0, len(c.Nums))
	for _, v := range c.Nums {
		if !math.IsNaN(v) {
			out = append(out, v)
		}
	}
	return out
}

// CellString renders the cell at row i the way export does: missing cells
// render as the empty string.
func (c *Column) CellString(i int) string {
	if c.IsMissing(i) {
		return ""
	}
	if c.Kind == Numeric {
		return FormatNum(c.Nums[i])
	}
	return c.Cats[i]
}

// take returns a new column containing the rows of c at idx, in order.
// Indices may repeat.
func (c *Column) take(idx []int) *Column {
	out := &Column{Name: c.Name, Kind: c.Kind}
	if c.Kind == Numeric {
		out.Nums = make([]float64, len(idx))
		for i, j := range idx {
			out.Nums[i] = c.Nums[j]
		}
		return out
	}
	out.Cats = make([]string, len(idx))
	out.Miss = make([]bool, len(idx))
	for i, j := range idx {
		out.Cats[i] = c.Cats[j]
		out.Miss[i] = c.Miss[j]
	}
	return out
}

// FormatNum renders a float the way export and row keys need it: shortest
// round-trip representation, integers without a trailing ".0".
func FormatNum(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// Table is an immutable, ordered collection of equal-length columns with
// unique names.
type Table struct {
	cols   []*Column
	byName map[string]int
}

// New builds a Table from the given columns, validating that names are unique
// and lengths agree.
func New(cols ...*Column) (*Table, error) {
	t := &Table{
		cols:   cols,
		byName: make(map[string]int, len(cols)),
	}
	rows := -1
	for i, c := range cols {
		if c.Name == "" {
			return nil, fmt.Errorf("column %d has an empty name", i)
		}
		if _, dup := t.byName[c.Name]; dup {
			return nil, fmt.Errorf("duplicate column name %q", c.Name)
		}
		t.byName[c.Name] = i
		if rows == -1 {
			rows = c.Len()
		} else if c.Len() != rows {
			return nil, fmt.Errorf("column %q has %d rows, want %d", c.Name, c.Len(), rows)
		}
	}
	return t, nil
}

// mustNew is for internal builders that start from an already-valid table.
func mustNew(cols []*Column) *Table {
	t, err := New(cols...)
	if err != nil {
		panic(err)
	}
	return t
}

// Rows returns the row count. An empty table has zero rows.
func (t *Table) Rows() int {
	if len(t.cols) == 0 {
		return 0
	}
	return t.cols[0].Len()
}

// Cols returns the column count.
func (t *Table) Cols() int { return len(t.cols) }

// Columns returns the columns in order. The returned slice is fresh but the
// columns themselves are shared; callers must not mutate them.
func (t *Table) Columns() []*Column {
	out := make([]*Column, len(t.cols))
	copy(out, t.cols)
	return out
}

// Column returns the named column, or false if absent.
func (t *Table) Column(name string) (*Column, bool) {
	i, ok := t.byName[name]
	if !ok {
		return nil, false
	}
	return t.cols[i], true
}

// HasColumn reports whether a column with the given name exists.
func (t *Table) HasColumn(name string) bool {
	_, ok := t.byName[name]
	return ok
}

// Names returns all column names in order.
func (t *Table) Names() []string {
	out := make([]string, len(t.cols))
	for i, c := range t.cols {
		out[i] = c.Name
	}
	return out
}

// NumericNames returns the names of numeric columns in order.
func (t *Table) NumericNames() []string {
	var out []string
	for _, c := range t.cols {
		if c.Kind == Numeric {
			out = append(out, c.Name)
		}
	}
	return out
}

// CategoricalNames returns the names of categorical columns in order.
func (t *Table) CategoricalNames() []string {
	var out []string
	for _, c := range t.cols {
		if c.Kind == Categorical {
			out = append(out, c.Name)
		}
	}
	return out
}

// WithColumns returns a new table where each given column replaces the
// existing column of the same name in place, or is appended at the end if no
// column with that name exists. Untouched columns are shared.
func (t *Table) WithColumns(cols ...*Column) *Table {
	out := make([]*Column, len(t.cols), len(t.cols)+len(cols))
	copy(out, t.cols)
	byName := make(map[string]int, len(out))
	for i, c := range out {
		byName[c.Name] = i
	}
	for _, c := range cols {
		if i, ok := byName[c.Name]; ok {
			out[i] = c
		} else {
			byName[c.Name] = len(out)
			out = append(out, c)
		}
	}
	return mustNew(out)
}

// DropColumns returns a new table without the named columns. Names that do
// not exist are ignored; callers validate existence beforehand.
func (t *Table) DropColumns(names ...string) *Table {
	drop := make(map[string]bool, len(names))
	for _, n := range names {
		drop[n] = true
	}
	out := make([]*Column, 0, len(t.cols))
	for _, c := range t.cols {
		if !drop[c.Name] {
			out = append(out, c)
		}
	}
	return mustNew(out)
}

// TakeRows returns a new table containing the rows at idx, in order. Indices
// may repeat (oversampling) or omit rows (filtering). Every column is copied.
func (t *Table) TakeRows(idx []int) *Table {
	out := make([]*Column, len(t.cols))
	for i, c := range t.cols {
		out[i] = c.take(idx)
	}
	return mustNew(out)
}

// RowKey returns a canonical identity string for row i across every column,
// used for whole-row duplicate detection. Missing cells key differently from
// any real value.
func (t *Table) RowKey(i int) string {
	var b strings.Builder
	for j, c := range t.cols {
		if j > 0 {
			b.WriteByte(0x1f)
		}
		if c.IsMissing(i) {
			b.WriteByte(0x00)
			continue
		}
		if c.Kind == Numeric {
			b.WriteString(FormatNum(c.Nums[i]))
		} else {
			b.WriteString(c.Cats[i])
		}
	}
	return b.String()
}

// Equal reports whether two tables have identical structure and cell values.
// Missing cells compare equal to missing cells.
func (t *Table) Equal(o *Table) bool {
	if t.Cols() != o.Cols() || t.Rows() != o.Rows() {
		return false
	}
	for i, c := range t.cols {
		d := o.cols[i]
		if c.Name != d.Name || c.Kind != d.Kind {
			return false
		}
		for r := 0; r < c.Len(); r++ {
			if c.IsMissing(r) != d.IsMissing(r) {
				return false
			}
			if c.IsMissing(r) {
				continue
			}
			if c.Kind == Numeric {
				if c.Nums[r] != d.Nums[r] {
					return false
				}
			} else if c.Cats[r] != d.Cats[r] {
				return false
			}
		}
	}
	return true
}
