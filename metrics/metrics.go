// Package metrics implements the information-theoretic quantities the
// structure learners and feature selectors share: weighted entropy, mutual
// information, conditional mutual information, symmetrical uncertainty, the
// conditional-edge weight matrix used by TAN/K-DB, and K-best feature/pair
// ranking. All logs are natural; weighted histograms are accumulated as
// flat dense slices rather than per-cell maps, since this is the dominant
// inner loop of structure learning.
package metrics

import (
	"math"
	"sort"

	"github.com/invertedv/bayesnet/internal/xtensor"
)

// Metrics computes information-theoretic quantities over a fixed sample
// matrix: row i<n_features is feature i's codes, the last row is the class.
type Metrics struct {
	samples        *xtensor.IntMatrix
	features       []string
	className      string
	classNumStates int

	scoresKBest    []float64
	featuresKBest  []int
	kBestWeights   []float64
	kBestAscending bool
}

// New builds a Metrics instance over samples (shape n_features+1 x n_samples).
func New(samples *xtensor.IntMatrix, features []string, className string, classNumStates int) *Metrics {
	return &Metrics{samples: samples, features: features, className: className, classNumStates: classNumStates}
}

// row returns a copy of row i of the samples matrix (the class row when
// i == -1, matching the convention used throughout the reference model).
func (m *Metrics) row(i int) []int {
	if i < 0 {
		return m.samples.Row(m.samples.Rows() - 1)
	}
	return m.samples.Row(i)
}

// NumFeatures returns the number of non-class features.
func (m *Metrics) NumFeatures() int { return len(m.features) }

// Features returns the feature names, in order.
func (m *Metrics) Features() []string { return append([]string(nil), m.features...) }

// ClassRow returns the class codes (the last row of the sample matrix).
func (m *Metrics) ClassRow() []int { return m.row(-1) }

// FeatureRow returns feature i's codes.
func (m *Metrics) FeatureRow(i int) []int { return m.row(i) }

// weightedCounts accumulates weight mass per distinct value of x into a
// dense map keyed by the value itself; values are assumed small dense
// nonnegative codes, so a slice indexed by value is used instead of a map.
func weightedCounts(x []int, w []float64) (counts []float64, total float64) {
	maxV := -1
	for _, v := range x {
		if v > maxV {
			maxV = v
		}
	}
	counts = make([]float64, maxV+1)
	for i, v := range x {
		counts[v] += w[i]
		total += w[i]
	}
	return counts, total
}

// Entropy returns the Shannon entropy (natural log) of the discrete
// variable x under nonnegative weights w. Returns 0 for an empty or
// single-valued variable.
func (m *Metrics) Entropy(x []int, w []float64) float64 {
	return entropy(x, w)
}

func entropy(x []int, w []float64) float64 {
	if len(x) == 0 {
		return 0
	}
	counts, total := weightedCounts(x, w)
	if total == 0 {
		return 0
	}
	h := 0.0
	for _, c := range counts {
		if c <= 0 {
			continue
		}
		p := c / total
		h -= p * math.Log(p)
	}
	return h
}

// jointEntropy computes H(x,y) under weights w, treating (x[i], y[i]) pairs
// as a single joint variable via a dense 2-D flat accumulator.
func jointEntropy(x, y []int, w []float64) float64 {
	if len(x) == 0 {
		return 0
	}
	maxX, maxY := -1, -1
	for i := range x {
		if x[i] > maxX {
			maxX = x[i]
		}
		if y[i] > maxY {
			maxY = y[i]
		}
	}
	ny := maxY + 1
	counts := make([]float64, (maxX+1)*ny)
	total := 0.0
	for i := range x {
		counts[x[i]*ny+y[i]] += w[i]
		total += w[i]
	}
	if total == 0 {
		return 0
	}
	h := 0.0
	for _, c := range counts {
		if c <= 0 {
			continue
		}
		p := c / total
		h -= p * math.Log(p)
	}
	return h
}

// jointEntropy3 computes H(x,y,z) under weights w via a dense 3-D flat
// accumulator, used by ConditionalMutualInformation's chain-rule form.
func jointEntropy3(x, y, z []int, w []float64) float64 {
	if len(x) == 0 {
		return 0
	}
	maxX, maxY, maxZ := -1, -1, -1
	for i := range x {
		if x[i] > maxX {
			maxX = x[i]
		}
		if y[i] > maxY {
			maxY = y[i]
		}
		if z[i] > maxZ {
			maxZ = z[i]
		}
	}
	ny, nz := maxY+1, maxZ+1
	counts := make([]float64, (maxX+1)*ny*nz)
	total := 0.0
	for i := range x {
		counts[(x[i]*ny+y[i])*nz+z[i]] += w[i]
		total += w[i]
	}
	if total == 0 {
		return 0
	}
	h := 0.0
	for _, c := range counts {
		if c <= 0 {
			continue
		}
		p := c / total
		h -= p * math.Log(p)
	}
	return h
}

// MutualInformation returns I(x;y) = H(x) + H(y) - H(x,y) under weights w.
func (m *Metrics) MutualInformation(x, y []int, w []float64) float64 {
	return mutualInformation(x, y, w)
}

func mutualInformation(x, y []int, w []float64) float64 {
	mi := entropy(x, w) + entropy(y, w) - jointEntropy(x, y, w)
	if mi < 0 {
		// guard against floating-point noise pushing a true-zero result
		// slightly negative.
		return 0
	}
	return mi
}

// ConditionalEntropy returns H(x|y,z) = H(x,y,z) - H(y,z) under weights w.
func (m *Metrics) ConditionalEntropy(x, y, z []int, w []float64) float64 {
	return jointEntropy3(x, y, z, w) - jointEntropy(y, z, w)
}

// conditionalEntropyXY returns H(x|y) = H(x,y) - H(y), the two-variable form
// used internally by ConditionalMutualInformation.
func conditionalEntropyXY(x, y []int, w []float64) float64 {
	return jointEntropy(x, y, w) - entropy(y, w)
}

// ConditionalMutualInformation returns I(x;y|z) = H(x|z) - H(x|y,z).
func (m *Metrics) ConditionalMutualInformation(x, y, z []int, w []float64) float64 {
	hxz := conditionalEntropyXY(x, z, w)
	hxyz := m.ConditionalEntropy(x, y, z, w)
	cmi := hxz - hxyz
	if cmi < 0 {
		return 0
	}
	return cmi
}

// SymmetricalUncertainty returns 2*MI(a,b)/(H(a)+H(b)), 0 when the
// denominator is 0. Row index -1 means the class row.
func (m *Metrics) SymmetricalUncertainty(a, b int, w []float64) float64 {
	x, y := m.row(a), m.row(b)
	ha, hb := entropy(x, w), entropy(y, w)
	denom := ha + hb
	if denom == 0 {
		return 0
	}
	return 2 * mutualInformation(x, y, w) / denom
}

// ConditionalEdge returns an (n_features x n_features) symmetric matrix
// whose (i,j) entry is I(Xi;Xj|C) weighted by w; the diagonal is 0.
func (m *Metrics) ConditionalEdge(w []float64) *xtensor.FloatMatrix {
	n := len(m.features)
	out := xtensor.NewFloatMatrix(n, n)
	classRow := m.ClassRow()
	rows := make([][]int, n)
	for i := 0; i < n; i++ {
		rows[i] = m.FeatureRow(i)
	}
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			cmi := m.ConditionalMutualInformation(rows[i], rows[j], classRow, w)
			out.Set(i, j, cmi)
			out.Set(j, i, cmi)
		}
	}
	return out
}

// SelectKBestWeighted returns the k feature indices with highest (or, if
// ascending, lowest) MI(Xi;C|w); ties keep insertion order. The full sorted
// ranking is cached so later calls with the same weights and direction (and
// a larger k) skip recomputation; a change in w or ascending invalidates the
// cache, since boosting reweights samples between calls.
// k == 0 means "all features"; k outside [0, n_features] is an error.
func (m *Metrics) SelectKBestWeighted(w []float64, ascending bool, k int) ([]int, error) {
	n := len(m.features)
	if k < 0 || k > n {
		return nil, ErrInvalidK
	}
	if k == 0 {
		k = n
	}
	if m.featuresKBest == nil || m.kBestAscending != ascending || !floatsEqual(m.kBestWeights, w) {
		classRow := m.ClassRow()
		type scored struct {
			idx   int
			score float64
		}
		scores := make([]scored, n)
		for i := 0; i < n; i++ {
			scores[i] = scored{idx: i, score: mutualInformation(m.FeatureRow(i), classRow, w)}
		}
		sort.SliceStable(scores, func(i, j int) bool {
			if ascending {
				return scores[i].score < scores[j].score
			}
			return scores[i].score > scores[j].score
		})
		m.featuresKBest = make([]int, n)
		m.scoresKBest = make([]float64, n)
		for i, s := range scores {
			m.featuresKBest[i] = s.idx
			m.scoresKBest[i] = s.score
		}
		m.kBestWeights = append([]float64(nil), w...)
		m.kBestAscending = ascending
	}
	out := make([]int, k)
	copy(out, m.featuresKBest[:k])
	return out, nil
}

// floatsEqual reports whether a and b hold the same values in the same
// order; used to detect when boosting's reweighted w invalidates the
// SelectKBestWeighted cache.
func floatsEqual(a, b []float64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// ScoresKBest returns the cached per-feature scores from the last
// SelectKBestWeighted call, in the same order as its result.
func (m *Metrics) ScoresKBest() []float64 {
	out := make([]float64, len(m.scoresKBest))
	copy(out, m.scoresKBest)
	return out
}

// Pair is an unordered feature-index pair with i < j.
type Pair struct{ I, J int }

// SelectKPairs returns the k feature-index pairs (i<j) sorted by
// CMI(Xi;Xj|C), excluding any pair touching a feature in excluded.
func (m *Metrics) SelectKPairs(w []float64, excluded []int, ascending bool, k int) ([]Pair, error) {
	n := len(m.features)
	excludedSet := make(map[int]bool, len(excluded))
	for _, e := range excluded {
		excludedSet[e] = true
	}
	classRow := m.ClassRow()
	type scored struct {
		pair  Pair
		score float64
	}
	var scores []scored
	for i := 0; i < n; i++ {
		if excludedSet[i] {
			continue
		}
		for j := i + 1; j < n; j++ {
			if excludedSet[j] {
				continue
			}
			cmi := m.ConditionalMutualInformation(m.FeatureRow(i), m.FeatureRow(j), classRow, w)
			scores = append(scores, scored{pair: Pair{I: i, J: j}, score: cmi})
		}
	}
	sort.SliceStable(scores, func(i, j int) bool {
		if ascending {
			return scores[i].score < scores[j].score
		}
		return scores[i].score > scores[j].score
	})
	if k <= 0 || k > len(scores) {
		k = len(scores)
	}
	out := make([]Pair, k)
	for i := 0; i < k; i++ {
		out[i] = scores[i].pair
	}
	return out, nil
}
