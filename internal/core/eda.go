package core

// eda.go implements the read-only dataset profile: descriptive statistics
// per column plus pairwise correlations between numeric columns. The report
// feeds frontend visualization and never touches history.
//
// Correlations are computed pairwise over rows where both cells are present,
// so columns with missing values still correlate against the data they have.

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/prepforge/prepforge/internal/dataset"
)

// topCorrelationCount limits the strongest-pairs list in the report.
const topCorrelationCount = 5

// NumericColumnStats is the profile of one numeric column.
type NumericColumnStats struct {
	Column   string  `json:"column"`
	Count    int     `json:"count"`
	Mean     float64 `json:"mean"`
	Median   float64 `json:"median"`
	Std      float64 `json:"std"`
	Min      float64 `json:"min"`
	Max      float64 `json:"max"`
	Q25      float64 `json:"q25"`
	Q75      float64 `json:"q75"`
	Skewness float64 `json:"skewness"`
	Kurtosis float64 `json:"kurtosis"`
}

// CategoricalColumnStats is the profile of one categorical column.
type CategoricalColumnStats struct {
	Column          string  `json:"column"`
	UniqueValues    int     `json:"unique_values"`
	TopCategory     string  `json:"top_category"`
	TopFrequency    int     `json:"top_frequency"`
	TopFrequencyPct float64 `json:"top_frequency_pct"`
	LowFrequencyPct float64 `json:"low_frequency_pct"`
	MissingCount    int     `json:"missing_count"`
	MissingPct      float64 `json:"missing_pct"`
	Cardinality     string  `json:"cardinality"`
}

// CorrelationPair is one entry of the strongest-correlations list.
type CorrelationPair struct {
	Column1     string  `json:"column1"`
	Column2     string  `json:"column2"`
	Correlation float64 `json:"correlation"`
}

// EDAReport is the full read-only dataset profile.
type EDAReport struct {
	Rows               int                           `json:"rows"`
	Cols               int                           `json:"columns"`
	NumericalColumns   []string                      `json:"numerical_columns"`
	CategoricalColumns []string                      `json:"categorical_columns"`
	NumericalStats     []NumericColumnStats          `json:"numerical_stats"`
	CategoricalStats   []CategoricalColumnStats      `json:"categorical_stats"`
	CorrelationMatrix  map[string]map[string]float64 `json:"correlation_matrix,omitempty"`
	TopCorrelations    []CorrelationPair             `json:"top_correlations,omitempty"`
}

// AnalyzeEDA profiles every column of the snapshot.
func AnalyzeEDA(t *dataset.Table) EDAReport {
	out := EDAReport{
		Rows:               t.Rows(),
		Cols:               t.Cols(),
		NumericalColumns:   t.NumericNames(),
		CategoricalColumns: t.CategoricalNames(),
	}
	for _, c := range t.Columns() {
		if c.Kind == dataset.Numeric {
			if stats, ok := numericStats(c); ok {
				out.NumericalStats = append(out.NumericalStats, stats)
			}
			continue
		}
		out.CategoricalStats = append(out.CategoricalStats, categoricalStats(c))
	}
	if len(out.NumericalColumns) > 1 {
		out.CorrelationMatrix, out.TopCorrelations = correlations(t, out.NumericalColumns)
	}
	return out
}

// numericStats profiles one numeric column over its non-missing values.
// ok is false for an entirely missing column, which has nothing to report.
func numericStats(c *dataset.Column) (NumericColumnStats, bool) {
	vals := c.Values()
	if len(vals) == 0 {
		return NumericColumnStats{}, false
	}
	sorted := make([]float64, len(vals))
	copy(sorted, vals)
	sort.Float64s(sorted)

	out := NumericColumnStats{
		Column: c.Name,
		Count:  len(vals),
		Mean:   stat.Mean(vals, nil),
		Median: stat.Quantile(0.5, stat.LinInterp, sorted, nil),
		Min:    floats.Min(sorted),
		Max:    floats.Max(sorted),
		Q25:    stat.Quantile(0.25, stat.LinInterp, sorted, nil),
		Q75:    stat.Quantile(0.75, stat.LinInterp, sorted, nil),
	}
	if len(vals) > 1 {
		out.Std = stat.StdDev(vals, nil)
	}
	// Shape statistics need at least three points to mean anything; below
	// that they report as zero rather than NaN.
	if len(vals) > 2 && out.Std > 0 {
		out.Skewness = stat.Skew(vals, nil)
		out.Kurtosis = stat.ExKurtosis(vals, nil)
	}
	return out, true
}

// categoricalStats profiles one categorical column: cardinality, dominant
// category and the share of rare categories (under 1% of non-missing rows).
func categoricalStats(c *dataset.Column) CategoricalColumnStats {
	counts := make(map[string]int)
	for i, v := range c.Cats {
		if !c.Miss[i] {
			counts[v]++
		}
	}
	total := c.Len()
	missing := c.MissingCount()
	nonNull := total - missing

	top, topN := "N/A", 0
	lowFreq := 0
	threshold := float64(nonNull) * 0.01
	for v, n := range counts {
		if n > topN || (n == topN && v < top) {
			top, topN = v, n
		}
		if float64(n) < threshold {
			lowFreq++
		}
	}

	out := CategoricalColumnStats{
		Column:       c.Name,
		UniqueValues: len(counts),
		TopCategory:  top,
		TopFrequency: topN,
		MissingCount: missing,
	}
	if nonNull > 0 {
		out.TopFrequencyPct = float64(topN) / float64(nonNull) * 100
	}
	if len(counts) > 0 {
		out.LowFrequencyPct = float64(lowFreq) / float64(len(counts)) * 100
	}
	if total > 0 {
		out.MissingPct = float64(missing) / float64(total) * 100
	}
	switch {
	case len(counts) <= 5:
		out.Cardinality = "low"
	case len(counts) <= 20:
		out.Cardinality = "medium"
	default:
		out.Cardinality = "high"
	}
	return out
}

// correlations builds the pairwise Pearson matrix over the numeric columns
// and the strongest-pairs list. Pairs without enough overlapping data, or
// with no variance, are left out of the matrix rather than reported as NaN.
func correlations(t *dataset.Table, numeric []string) (map[string]map[string]float64, []CorrelationPair) {
	matrix := make(map[string]map[string]float64, len(numeric))
	for _, name := range numeric {
		matrix[name] = map[string]float64{name: 1}
	}

	var pairs []CorrelationPair
	for i := 0; i < len(numeric); i++ {
		for j := i + 1; j < len(numeric); j++ {
			a, _ := t.Column(numeric[i])
			b, _ := t.Column(numeric[j])
			r, ok := pairwiseCorrelation(a, b)
			if !ok {
				continue
			}
			matrix[numeric[i]][numeric[j]] = r
			matrix[numeric[j]][numeric[i]] = r
			pairs = append(pairs, CorrelationPair{
				Column1:     numeric[i],
				Column2:     numeric[j],
				Correlation: r,
			})
		}
	}

	sort.SliceStable(pairs, func(i, j int) bool {
		return pairs[i].Correlation > pairs[j].Correlation
	})
	if len(pairs) > topCorrelationCount {
		pairs = pairs[:topCorrelationCount]
	}
	return matrix, pairs
}

// pairwiseCorrelation is the Pearson correlation over rows where both cells
// are present. ok is false with fewer than two overlapping rows or when
// either side has no variance.
func pairwiseCorrelation(a, b *dataset.Column) (float64, bool) {
	var x, y []float64
	for r := range a.Nums {
		va, vb := a.Nums[r], b.Nums[r]
		if math.IsNaN(va) || math.IsNaN(vb) {
			continue
		}
		x = append(x, va)
		y = append(y, vb)
	}
	if len(x) < 2 {
		return 0, false
	}
	r := stat.Correlation(x, y, nil)
	if math.IsNaN(r) {
		return 0, false
	}
	return r, true
}
