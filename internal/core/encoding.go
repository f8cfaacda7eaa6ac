package core

// encoding.go implements categorical encoding: label, one-hot, ordinal and
// target encoding. The method set is a closed variant; dispatch is exhaustive
// and anything else fails with ErrInvalidMethod.
//
// Every encoder records its fitted parameters as a TransformState so a
// downstream training stage can re-apply or invert the transform without
// refitting.

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/prepforge/prepforge/internal/dataset"
)

// EncodingMethod is the closed set of supported encoders.
type EncodingMethod string

const (
	EncodeLabel   EncodingMethod = "label"
	EncodeOneHot  EncodingMethod = "onehot"
	EncodeOrdinal EncodingMethod = "ordinal"
	EncodeTarget  EncodingMethod = "target"
)

// EncodingParams configures one encoding request.
type EncodingParams struct {
	Method  EncodingMethod `json:"method"`
	Columns []string       `json:"columns"`

	// One-hot options.
	DropFirst bool `json:"drop_first"`
	// HandleBinary label-encodes exactly-two-category columns instead of
	// expanding them into two redundant indicator columns.
	HandleBinary bool `json:"handle_binary"`

	// Ordinal options: explicit category order, lowest first. Empty means
	// automatic lexicographic order.
	Categories []string `json:"categories"`

	// Target encoding: the numeric column whose per-category mean becomes
	// the code.
	TargetColumn string `json:"target_column"`
}

// applyEncoding validates the request and dispatches to the encoder.
func applyEncoding(t *dataset.Table, p EncodingParams) (*opResult, error) {
	targets, err := requireColumns(t, p.Columns)
	if err != nil {
		return nil, err
	}
	seen := make(map[string]bool, len(targets))
	for _, name := range targets {
		if seen[name] {
			return nil, fmt.Errorf("column %q listed twice: %w", name, ErrAlreadyEncoded)
		}
		seen[name] = true
		col, _ := t.Column(name)
		if col.Kind != dataset.Categorical {
			return nil, fmt.Errorf("column %q is not categorical: %w", name, ErrInvalidMethod)
		}
	}

	switch p.Method {
	case EncodeLabel:
		return encodeLabel(t, targets)
	case EncodeOneHot:
		return encodeOneHot(t, targets, p.DropFirst, p.HandleBinary)
	case EncodeOrdinal:
		return encodeOrdinal(t, targets, p.Categories)
	case EncodeTarget:
		return encodeTarget(t, targets, p.TargetColumn)
	default:
		return nil, fmt.Errorf("encoding method %q: %w", p.Method, ErrInvalidMethod)
	}
}

// labelCodes assigns stable 0..k-1 codes to the column's categories in
// first-seen order.
func labelCodes(col *dataset.Column) ([]string, map[string]int) {
	var order []string
	codes := make(map[string]int)
	for i, v := range col.Cats {
		if col.Miss[i] {
			continue
		}
		if _, ok := codes[v]; !ok {
			codes[v] = len(order)
			order = append(order, v)
		}
	}
	return order, codes
}

// labelColumn replaces a categorical column with its integer codes. Missing
// cells stay missing.
func labelColumn(col *dataset.Column, codes map[string]int) *dataset.Column {
	vals := make([]float64, len(col.Cats))
	for i, v := range col.Cats {
		if col.Miss[i] {
			vals[i] = math.NaN()
			continue
		}
		vals[i] = float64(codes[v])
	}
	return dataset.NewNumeric(col.Name, vals)
}

func encodeLabel(t *dataset.Table, targets []string) (*opResult, error) {
	res := &opResult{
		description: fmt.Sprintf("Label encoding on %d column%s", len(targets), plural(len(targets))),
		outcome:     fmt.Sprintf("encoded %d column%s", len(targets), plural(len(targets))),
	}
	var updated []*dataset.Column
	for _, name := range targets {
		col, _ := t.Column(name)
		order, codes := labelCodes(col)
		updated = append(updated, labelColumn(col, codes))
		res.invalidate = append(res.invalidate, name)
		res.states = append(res.states, TransformState{
			Column:     name,
			Family:     FamilyEncoding,
			Method:     string(EncodeLabel),
			Categories: order,
			Codes:      codes,
		})
	}
	res.table = t.WithColumns(updated...)
	return res, nil
}

func encodeOneHot(t *dataset.Table, targets []string, dropFirst, handleBinary bool) (*opResult, error) {
	res := &opResult{
		description: fmt.Sprintf("One-hot encoding on %d column%s", len(targets), plural(len(targets))),
	}
	out := t
	newCols := 0
	for _, name := range targets {
		col, _ := out.Column(name)
		categories := sortedCategories(col)
		res.invalidate = append(res.invalidate, name)

		if handleBinary && len(categories) == 2 {
			// Two indicator columns would be redundant; a single 0/1
			// code carries the same information.
			codes := map[string]int{categories[0]: 0, categories[1]: 1}
			out = out.WithColumns(labelColumn(col, codes))
			res.states = append(res.states, TransformState{
				Column:     name,
				Family:     FamilyEncoding,
				Method:     string(EncodeLabel),
				Categories: categories,
				Codes:      codes,
			})
			continue
		}

		kept := categories
		if dropFirst && len(kept) > 0 {
			kept = kept[1:]
		}
		// Indicator names can collide with unrelated pre-existing columns
		// (a table with "c" and "c_A" one-hot encoding "c"); those get a
		// numeric suffix instead of overwriting the existing data.
		remaining := out.DropColumns(name)
		batch := make(map[string]bool, len(kept))
		codes := make(map[string]int, len(kept))
		dummies := make([]*dataset.Column, len(kept))
		for i, cat := range kept {
			codes[cat] = i
			vals := make([]float64, col.Len())
			for r, v := range col.Cats {
				if !col.Miss[r] && v == cat {
					vals[r] = 1
				}
			}
			dummyName := uniqueName(func(n string) bool {
				return remaining.HasColumn(n) || batch[n]
			}, name+"_"+cat)
			batch[dummyName] = true
			dummies[i] = dataset.NewNumeric(dummyName, vals)
		}
		out = remaining.WithColumns(dummies...)
		newCols += len(dummies)
		res.states = append(res.states, TransformState{
			Column:     name,
			Family:     FamilyEncoding,
			Method:     string(EncodeOneHot),
			Categories: categories,
			Codes:      codes,
		})
	}
	res.table = out
	res.outcome = fmt.Sprintf("encoded %d column%s, %d new column%s", len(targets), plural(len(targets)), newCols, plural(newCols))
	return res, nil
}

func encodeOrdinal(t *dataset.Table, targets []string, explicit []string) (*opResult, error) {
	res := &opResult{
		description: fmt.Sprintf("Ordinal encoding on %d column%s", len(targets), plural(len(targets))),
		outcome:     fmt.Sprintf("encoded %d column%s", len(targets), plural(len(targets))),
	}
	var updated []*dataset.Column
	for _, name := range targets {
		col, _ := t.Column(name)
		order := explicit
		if len(order) == 0 {
			order = sortedCategories(col)
		}
		codes := make(map[string]int, len(order))
		for i, cat := range order {
			codes[cat] = i
		}

		// Cells outside the declared order code as -1 rather than failing,
		// so an explicit partial ordering still goes through.
		vals := make([]float64, col.Len())
		for r, v := range col.Cats {
			if col.Miss[r] {
				vals[r] = -1
				continue
			}
			code, ok := codes[v]
			if !ok {
				code = -1
			}
			vals[r] = float64(code)
		}
		updated = append(updated, dataset.NewNumeric(name, vals))
		res.invalidate = append(res.invalidate, name)
		res.states = append(res.states, TransformState{
			Column:     name,
			Family:     FamilyEncoding,
			Method:     string(EncodeOrdinal),
			Categories: order,
			Codes:      codes,
		})
	}
	res.table = t.WithColumns(updated...)
	return res, nil
}

func encodeTarget(t *dataset.Table, targets []string, targetColumn string) (*opResult, error) {
	target, ok := t.Column(targetColumn)
	if !ok {
		return nil, fmt.Errorf("target column %q: %w", targetColumn, ErrColumnNotFound)
	}
	if target.Kind != dataset.Numeric {
		return nil, fmt.Errorf("target column %q is not numerical: %w", targetColumn, ErrInvalidMethod)
	}

	overall := stat.Mean(target.Values(), nil)
	res := &opResult{
		description: fmt.Sprintf("Target encoding on %d column%s", len(targets), plural(len(targets))),
		outcome:     fmt.Sprintf("encoded %d column%s against %s", len(targets), plural(len(targets)), targetColumn),
	}
	var updated []*dataset.Column
	for _, name := range targets {
		if name == targetColumn {
			return nil, fmt.Errorf("target column %q cannot encode itself: %w", targetColumn, ErrInvalidMethod)
		}
		col, _ := t.Column(name)

		// Whole-table category means. No fold-splitting happens here;
		// callers doing model evaluation split before encoding.
		sums := make(map[string]float64)
		counts := make(map[string]int)
		for r, v := range col.Cats {
			if col.Miss[r] || target.IsMissing(r) {
				continue
			}
			sums[v] += target.Nums[r]
			counts[v]++
		}
		means := make(map[string]float64, len(sums))
		for cat, sum := range sums {
			means[cat] = sum / float64(counts[cat])
		}

		vals := make([]float64, col.Len())
		for r, v := range col.Cats {
			if m, ok := means[v]; ok && !col.Miss[r] {
				vals[r] = m
			} else {
				vals[r] = overall
			}
		}
		updated = append(updated, dataset.NewNumeric(name, vals))
		res.invalidate = append(res.invalidate, name)
		res.states = append(res.states, TransformState{
			Column:      name,
			Family:      FamilyEncoding,
			Method:      string(EncodeTarget),
			TargetMeans: means,
			OverallMean: overall,
		})
	}
	res.table = t.WithColumns(updated...)
	return res, nil
}

// sortedCategories returns the distinct non-missing values of a categorical
// column in lexicographic order.
func sortedCategories(col *dataset.Column) []string {
	seen := make(map[string]bool)
	var out []string
	for i, v := range col.Cats {
		if col.Miss[i] || seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}
