package dataset

// csv.go handles ingestion of delimited text into a Table and export back out.
//
// Ingestion handles the messy reality of user-provided CSV data:
//   - UTF-8 BOM prepended by Windows programs
//   - Many spellings of "no value" (NA, n/a, null, None, blank cells)
//   - Numeric columns that must be recognized without a declared schema
//
// Column kinds are inferred: a column is numeric when every non-null cell
// parses as a float and at least one such cell exists; otherwise it is
// categorical.

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
)

// nullTokens are cell spellings treated as a missing value during ingestion.
// Matching is done after trimming surrounding whitespace.
var nullTokens = map[string]bool{
	"":     true,
	"nan":  true,
	"none": true,
	"na":   true,
	"n/a":  true,
	"null": true,
}

// IsNullToken reports whether a raw cell represents a missing value.
func IsNullToken(s string) bool {
	return nullTokens[strings.ToLower(strings.TrimSpace(s))]
}

// Read parses delimited text into a Table. The first record is the header;
// header names must be unique and non-empty.
func Read(r io.Reader) (*Table, error) {
	cr := csv.NewReader(skipBOM(r))
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err == io.EOF {
		return nil, errors.New("empty file: no header row")
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}

	var records [][]string
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row %d: %w", len(records)+2, err)
		}
		records = append(records, rec)
	}

	cols := make([]*Column, len(header))
	for i, name := range header {
		cols[i] = inferColumn(name, records, i)
	}
	t, err := New(cols...)
	if err != nil {
		return nil, fmt.Errorf("invalid header: %w", err)
	}
	return t, nil
}

// inferColumn builds the column at position idx, deciding its kind from the
// observed cells.
func inferColumn(name string, records [][]string, idx int) *Column {
	numeric := false
	for _, rec := range records {
		cell := strings.TrimSpace(rec[idx])
		if IsNullToken(cell) {
			continue
		}
		if _, err := strconv.ParseFloat(cell, 64); err != nil {
			numeric = false
			break
		}
		numeric = true
	}

	n := len(records)
	if numeric {
		vals := make([]float64, n)
		for r, rec := range records {
			cell := strings.TrimSpace(rec[idx])
			if IsNullToken(cell) {
				vals[r] = math.NaN()
				continue
			}
			v, _ := strconv.ParseFloat(cell, 64)
			vals[r] = v
		}
		return NewNumeric(name, vals)
	}

	vals := make([]string, n)
	miss := make([]bool, n)
	for r, rec := range records {
		cell := strings.TrimSpace(rec[idx])
		if IsNullToken(cell) {
			miss[r] = true
			continue
		}
		vals[r] = cell
	}
	return NewCategorical(name, vals, miss)
}

// Write renders the table as CSV: a header row of column names followed by
// one record per row. Missing cells render as empty fields.
func Write(w io.Writer, t *Table) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(t.Names()); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	cols := t.Columns()
	record := make([]string, len(cols))
	for r := 0; r < t.Rows(); r++ {
		for i, c := range cols {
			record[i] = c.CellString(r)
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("write row %d: %w", r, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// skipBOM wraps r so the UTF-8 BOM (0xEF 0xBB 0xBF), commonly added by
// Windows programs, is dropped if present.
func skipBOM(r io.Reader) io.Reader {
	return &bomReader{r: r}
}

type bomReader struct {
	r       io.Reader
	checked bool
	pending []byte
}

func (b *bomReader) Read(p []byte) (int, error) {
	if !b.checked {
		b.checked = true
		buf := make([]byte, 3)
		n, err := io.ReadFull(b.r, buf)
		if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
			return 0, err
		}
		buf = buf[:n]
		if n == 3 && buf[0] == 0xEF && buf[1] == 0xBB && buf[2] == 0xBF {
			buf = buf[:0]
		}
		b.pending = buf
	}
	if len(b.pending) > 0 {
		n := copy(p, b.pending)
		b.pending = b.pending[n:]
		return n, nil
	}
	return b.r.Read(p)
}
