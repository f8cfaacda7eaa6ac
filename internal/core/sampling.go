package core

// sampling.go implements class rebalancing over a categorical target column.
//
// Methods: oversample duplicates minority rows up to the majority count,
// undersample subsamples majority classes down to the minority count, and
// smote synthesizes minority rows by interpolating between nearest same-class
// neighbors in numeric feature space. Sampling operates on the full current
// table; callers wanting an honest evaluation split before resampling.
//
// Resampling uses a fixed seed so a given snapshot always resamples the same
// way; undo and redo must land on bit-identical tables.

import (
	"fmt"
	"math"
	"math/rand"
	"sort"

	"github.com/prepforge/prepforge/internal/dataset"
)

// Sampling methods.
const (
	SampleOver  = "oversample"
	SampleUnder = "undersample"
	SampleSMOTE = "smote"
)

// samplingSeed makes resampling deterministic per snapshot.
const samplingSeed = 42

// smoteNeighbors is the neighborhood size for synthetic interpolation.
const smoteNeighbors = 5

// SamplingParams configures one rebalancing request.
type SamplingParams struct {
	TargetColumn string `json:"target_column"`
	Method       string `json:"method"`
}

// ClassCount is one class of the target column.
type ClassCount struct {
	Class      string  `json:"class"`
	Count      int     `json:"count"`
	Percentage float64 `json:"percentage"`
}

// ClassDistribution is the read-only class balance report.
type ClassDistribution struct {
	TotalSamples   int          `json:"total_samples"`
	NumClasses     int          `json:"num_classes"`
	Classes        []ClassCount `json:"class_distribution"`
	ImbalanceRatio float64      `json:"imbalance_ratio"`
	IsBalanced     bool         `json:"is_balanced"`
}

// AnalyzeDistribution reports the class balance of a categorical target
// column. Rows with a missing target are not part of any class.
func AnalyzeDistribution(t *dataset.Table, targetColumn string) (ClassDistribution, error) {
	col, err := samplingTarget(t, targetColumn)
	if err != nil {
		return ClassDistribution{}, err
	}

	counts := classCounts(col)
	out := ClassDistribution{
		TotalSamples: t.Rows(),
		NumClasses:   len(counts),
	}
	classes := sortedClasses(counts)
	minCount, maxCount := math.MaxInt, 0
	for _, class := range classes {
		n := counts[class]
		pct := 0.0
		if out.TotalSamples > 0 {
			pct = float64(n) / float64(out.TotalSamples) * 100
		}
		out.Classes = append(out.Classes, ClassCount{Class: class, Count: n, Percentage: pct})
		if n < minCount {
			minCount = n
		}
		if n > maxCount {
			maxCount = n
		}
	}
	out.ImbalanceRatio = 1.0
	if len(counts) > 1 && minCount > 0 {
		out.ImbalanceRatio = float64(maxCount) / float64(minCount)
	}
	out.IsBalanced = out.ImbalanceRatio <= 2.0
	return out, nil
}

// applySampling rebalances classes according to the method.
func applySampling(t *dataset.Table, p SamplingParams) (*opResult, error) {
	col, err := samplingTarget(t, p.TargetColumn)
	if err != nil {
		return nil, err
	}

	byClass := classIndices(col)
	if len(byClass) == 0 {
		return nil, fmt.Errorf("target column %q has no classes: %w", p.TargetColumn, ErrEmptySelection)
	}
	rng := rand.New(rand.NewSource(samplingSeed))

	var table *dataset.Table
	switch p.Method {
	case SampleOver:
		table = oversample(t, byClass, rng)
	case SampleUnder:
		table = undersample(t, byClass, rng)
	case SampleSMOTE:
		table, err = smote(t, p.TargetColumn, byClass, rng)
		if err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("sampling method %q: %w", p.Method, ErrInvalidMethod)
	}

	delta := table.Rows() - t.Rows()
	outcome := fmt.Sprintf("added %d row%s", delta, plural(delta))
	if delta < 0 {
		outcome = fmt.Sprintf("removed %d row%s", -delta, plural(-delta))
	}
	return &opResult{
		table:       table,
		description: fmt.Sprintf("%s sampling on %s", titleSampling(p.Method), p.TargetColumn),
		outcome:     outcome,
	}, nil
}

// samplingTarget validates that the target column exists and is categorical.
func samplingTarget(t *dataset.Table, name string) (*dataset.Column, error) {
	col, ok := t.Column(name)
	if !ok {
		return nil, fmt.Errorf("target column %q: %w", name, ErrColumnNotFound)
	}
	if col.Kind != dataset.Categorical {
		return nil, fmt.Errorf("target column %q is not categorical: %w", name, ErrInvalidMethod)
	}
	return col, nil
}

func classCounts(col *dataset.Column) map[string]int {
	counts := make(map[string]int)
	for i, v := range col.Cats {
		if !col.Miss[i] {
			counts[v]++
		}
	}
	return counts
}

// classIndices groups row indices by class, preserving row order within each
// class. Rows with a missing target belong to no class.
func classIndices(col *dataset.Column) map[string][]int {
	out := make(map[string][]int)
	for i, v := range col.Cats {
		if !col.Miss[i] {
			out[v] = append(out[v], i)
		}
	}
	return out
}

func sortedClasses[T any](m map[string]T) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func maxClassSize(byClass map[string][]int) int {
	max := 0
	for _, idx := range byClass {
		if len(idx) > max {
			max = len(idx)
		}
	}
	return max
}

// oversample keeps every original row in order, then appends
// sampled-with-replacement duplicates of each minority class until all
// classes match the majority count.
func oversample(t *dataset.Table, byClass map[string][]int, rng *rand.Rand) *dataset.Table {
	max := maxClassSize(byClass)
	idx := classMemberIndices(byClass)
	for _, class := range sortedClasses(byClass) {
		members := byClass[class]
		for n := len(members); n < max; n++ {
			idx = append(idx, members[rng.Intn(len(members))])
		}
	}
	return t.TakeRows(idx)
}

// undersample subsamples every class down to the minority count, keeping the
// chosen rows in original order.
func undersample(t *dataset.Table, byClass map[string][]int, rng *rand.Rand) *dataset.Table {
	min := math.MaxInt
	for _, idx := range byClass {
		if len(idx) < min {
			min = len(idx)
		}
	}

	keep := make(map[int]bool)
	for _, class := range sortedClasses(byClass) {
		members := byClass[class]
		if len(members) <= min {
			for _, i := range members {
				keep[i] = true
			}
			continue
		}
		for _, j := range rng.Perm(len(members))[:min] {
			keep[members[j]] = true
		}
	}

	var idx []int
	for r := 0; r < t.Rows(); r++ {
		if keep[r] {
			idx = append(idx, r)
		}
	}
	return t.TakeRows(idx)
}

// classMemberIndices flattens class membership back to original row order.
func classMemberIndices(byClass map[string][]int) []int {
	var idx []int
	for _, members := range byClass {
		idx = append(idx, members...)
	}
	sort.Ints(idx)
	return idx
}

// smote equalizes minority classes to the majority count with synthetic rows
// interpolated between nearest same-class neighbors in numeric feature
// space. Categorical features copy from the base row. With no numeric
// features or a single-member class there is nothing to interpolate, so the
// needed rows fall back to duplication.
func smote(t *dataset.Table, targetColumn string, byClass map[string][]int, rng *rand.Rand) (*dataset.Table, error) {
	numeric := t.NumericNames()
	max := maxClassSize(byClass)

	base := classMemberIndices(byClass)
	var extraBase []int // rows duplicated as a fallback
	var synth []synthRow

	for _, class := range sortedClasses(byClass) {
		members := byClass[class]
		need := max - len(members)
		if need == 0 {
			continue
		}
		if len(numeric) == 0 || len(members) < 2 {
			for n := 0; n < need; n++ {
				extraBase = append(extraBase, members[rng.Intn(len(members))])
			}
			continue
		}
		for n := 0; n < need; n++ {
			from := members[rng.Intn(len(members))]
			to := nearestNeighbor(t, numeric, from, members, rng)
			synth = append(synth, synthRow{from: from, to: to, gap: rng.Float64()})
		}
	}

	out := t.TakeRows(append(base, extraBase...))
	if len(synth) == 0 {
		return out, nil
	}

	// Extend every column with the interpolated rows.
	cols := out.Columns()
	for i, c := range cols {
		src, _ := t.Column(c.Name)
		cols[i] = extendColumn(c, src, synth)
	}
	return dataset.New(cols...)
}

// nearestNeighbor picks one of the k nearest same-class rows to from in
// numeric feature space.
func nearestNeighbor(t *dataset.Table, numeric []string, from int, members []int, rng *rand.Rand) int {
	type candidate struct {
		row  int
		dist float64
	}
	cands := make([]candidate, 0, len(members)-1)
	for _, m := range members {
		if m == from {
			continue
		}
		cands = append(cands, candidate{row: m, dist: rowDistance(t, numeric, from, m)})
	}
	sort.Slice(cands, func(i, j int) bool { return cands[i].dist < cands[j].dist })
	k := smoteNeighbors
	if k > len(cands) {
		k = len(cands)
	}
	return cands[rng.Intn(k)].row
}

// rowDistance is squared Euclidean distance over the numeric columns,
// skipping dimensions where either cell is missing.
func rowDistance(t *dataset.Table, numeric []string, a, b int) float64 {
	var d float64
	for _, name := range numeric {
		col, _ := t.Column(name)
		va, vb := col.Nums[a], col.Nums[b]
		if math.IsNaN(va) || math.IsNaN(vb) {
			continue
		}
		d += (va - vb) * (va - vb)
	}
	return d
}

// synthRow is the recipe for one interpolated row: a base row, a neighbor,
// and how far along the segment between them the new row sits.
type synthRow struct {
	from, to int
	gap      float64
}

// extendColumn appends the synthetic rows to a column. Numeric cells
// interpolate between the endpoints; categorical cells copy the base row.
func extendColumn(c, src *dataset.Column, synth []synthRow) *dataset.Column {
	if c.Kind == dataset.Numeric {
		vals := make([]float64, len(c.Nums), len(c.Nums)+len(synth))
		copy(vals, c.Nums)
		for _, s := range synth {
			va, vb := src.Nums[s.from], src.Nums[s.to]
			vals = append(vals, va+s.gap*(vb-va))
		}
		return dataset.NewNumeric(c.Name, vals)
	}
	vals := make([]string, len(c.Cats), len(c.Cats)+len(synth))
	miss := make([]bool, len(c.Miss), len(c.Miss)+len(synth))
	copy(vals, c.Cats)
	copy(miss, c.Miss)
	for _, s := range synth {
		vals = append(vals, src.Cats[s.from])
		miss = append(miss, src.Miss[s.from])
	}
	return dataset.NewCategorical(c.Name, vals, miss)
}

func titleSampling(method string) string {
	switch method {
	case SampleOver:
		return "Oversample"
	case SampleUnder:
		return "Undersample"
	default:
		return "SMOTE"
	}
}
