// Package discretize converts a single continuous feature into dense
// integer codes, fit against the feature's relationship with a (possibly
// multi-column, post-factorization) label. It is deliberately thin: the
// tensor/array runtime and the one-dimensional cut-point search are
// treated as the Proposal's external collaborators, not as a home for
// elaborate numerical optimization.
package discretize

import (
	"math"
	"sort"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/stat"
)

// ErrNotFitted is returned by Transform/GetCutPoints before Fit.
var ErrNotFitted = errors.New("discretize: not fitted")

// Discretizer fits cut points against paired continuous values and labels,
// then maps new continuous values to the resulting integer bins.
type Discretizer interface {
	Fit(x []float64, y []int) error
	Transform(x []float64) ([]int, error)
	GetCutPoints() ([]float64, error)
}

func codeOf(cuts []float64, v float64) int {
	// The code is the number of cut points <= v; values equal to a cut
	// point fall into the bin above it, matching a half-open [cut, +inf) bin.
	return sort.Search(len(cuts), func(i int) bool { return cuts[i] > v })
}

func transformWith(cuts []float64, x []float64) []int {
	out := make([]int, len(x))
	for i, v := range x {
		out[i] = codeOf(cuts, v)
	}
	return out
}

// BinU is a uniform-width discretizer: the feature's observed range is
// split into n equal-width bins.
type BinU struct {
	N     int
	cuts  []float64
	ready bool
}

// Fit computes n-1 equal-width cut points spanning x's observed range.
func (d *BinU) Fit(x []float64, y []int) error {
	if d.N < 1 {
		return errors.New("discretize: BinU.N must be >= 1")
	}
	lo, hi := minMax(x)
	d.cuts = nil
	if d.N > 1 && hi > lo {
		width := (hi - lo) / float64(d.N)
		for i := 1; i < d.N; i++ {
			d.cuts = append(d.cuts, lo+width*float64(i))
		}
	}
	d.ready = true
	return nil
}

// Transform maps continuous values to bin codes.
func (d *BinU) Transform(x []float64) ([]int, error) {
	if !d.ready {
		return nil, ErrNotFitted
	}
	return transformWith(d.cuts, x), nil
}

// GetCutPoints returns the fitted cut points.
func (d *BinU) GetCutPoints() ([]float64, error) {
	if !d.ready {
		return nil, ErrNotFitted
	}
	return append([]float64(nil), d.cuts...), nil
}

// BinQ is a quantile discretizer: bin boundaries are placed at the
// n-1 empirical quantiles of x.
type BinQ struct {
	N     int
	cuts  []float64
	ready bool
}

// Fit computes n-1 empirical quantile cut points.
func (d *BinQ) Fit(x []float64, y []int) error {
	if d.N < 1 {
		return errors.New("discretize: BinQ.N must be >= 1")
	}
	sorted := append([]float64(nil), x...)
	sort.Float64s(sorted)
	d.cuts = nil
	for i := 1; i < d.N; i++ {
		d.cuts = append(d.cuts, stat.Quantile(float64(i)/float64(d.N), stat.Empirical, sorted, nil))
	}
	d.ready = true
	return nil
}

// Transform maps continuous values to bin codes.
func (d *BinQ) Transform(x []float64) ([]int, error) {
	if !d.ready {
		return nil, ErrNotFitted
	}
	return transformWith(d.cuts, x), nil
}

// GetCutPoints returns the fitted cut points.
func (d *BinQ) GetCutPoints() ([]float64, error) {
	if !d.ready {
		return nil, ErrNotFitted
	}
	return append([]float64(nil), d.cuts...), nil
}

// MDLP is a Fayyad-Irani minimum-description-length entropy discretizer:
// recursively split the range at the boundary minimizing class entropy,
// accepting the split only while the MDL gain criterion holds, bounded by
// MinLength (smallest allowed bin, in samples) and MaxDepth (recursion cap).
type MDLP struct {
	MinLength int
	MaxDepth  int
	cuts      []float64
	ready     bool
}

type mdlpPoint struct {
	x float64
	y int
}

// Fit runs the recursive MDLP split search over (x, y).
func (d *MDLP) Fit(x []float64, y []int) error {
	if len(x) != len(y) {
		return errors.New("discretize: MDLP x and y must have the same length")
	}
	minLength := d.MinLength
	if minLength < 2 {
		minLength = 2
	}
	maxDepth := d.MaxDepth
	if maxDepth < 1 {
		maxDepth = 10
	}

	points := make([]mdlpPoint, len(x))
	for i := range x {
		points[i] = mdlpPoint{x: x[i], y: y[i]}
	}
	sort.Slice(points, func(i, j int) bool { return points[i].x < points[j].x })

	var cuts []float64
	var split func(pts []mdlpPoint, depth int)
	split = func(pts []mdlpPoint, depth int) {
		if depth >= maxDepth || len(pts) < 2*minLength {
			return
		}
		bestIdx, bestGain, bestCut := -1, 0.0, 0.0
		baseEntropy := classEntropy(pts)
		n := len(pts)
		for i := minLength; i <= n-minLength; i++ {
			if pts[i-1].x == pts[i].x {
				continue
			}
			left, right := pts[:i], pts[i:]
			weighted := float64(len(left))/float64(n)*classEntropy(left) + float64(len(right))/float64(n)*classEntropy(right)
			gain := baseEntropy - weighted
			if mdlCriterion(baseEntropy, classEntropy(left), classEntropy(right), n, len(left), distinctClasses(pts), distinctClasses(left), distinctClasses(right)) && gain > bestGain {
				bestIdx, bestGain, bestCut = i, gain, (pts[i-1].x+pts[i].x)/2
			}
		}
		if bestIdx == -1 {
			return
		}
		cuts = append(cuts, bestCut)
		split(pts[:bestIdx], depth+1)
		split(pts[bestIdx:], depth+1)
	}
	split(points, 0)
	sort.Float64s(cuts)
	d.cuts = cuts
	d.ready = true
	return nil
}

func classEntropy(pts []mdlpPoint) float64 {
	counts := map[int]int{}
	for _, p := range pts {
		counts[p.y]++
	}
	n := float64(len(pts))
	h := 0.0
	for _, c := range counts {
		p := float64(c) / n
		h -= p * math.Log2(p)
	}
	return h
}

func distinctClasses(pts []mdlpPoint) int {
	seen := map[int]bool{}
	for _, p := range pts {
		seen[p.y] = true
	}
	return len(seen)
}

// mdlCriterion implements the Fayyad-Irani acceptance test: a split is
// accepted only if the entropy gain exceeds the MDL-encoded cost of
// describing the split itself.
func mdlCriterion(baseEntropy, leftEntropy, rightEntropy float64, n, nLeft, kBase, kLeft, kRight int) bool {
	gain := baseEntropy - (float64(nLeft)/float64(n)*leftEntropy + float64(n-nLeft)/float64(n)*rightEntropy)
	delta := math.Log2(math.Pow(3, float64(kBase))-2) - (float64(kBase)*baseEntropy - float64(kLeft)*leftEntropy - float64(kRight)*rightEntropy)
	threshold := (math.Log2(float64(n-1)) + delta) / float64(n)
	return gain > threshold
}

// Transform maps continuous values to bin codes.
func (d *MDLP) Transform(x []float64) ([]int, error) {
	if !d.ready {
		return nil, ErrNotFitted
	}
	return transformWith(d.cuts, x), nil
}

// GetCutPoints returns the fitted cut points.
func (d *MDLP) GetCutPoints() ([]float64, error) {
	if !d.ready {
		return nil, ErrNotFitted
	}
	return append([]float64(nil), d.cuts...), nil
}

func minMax(x []float64) (float64, float64) {
	if len(x) == 0 {
		return 0, 0
	}
	lo, hi := x[0], x[0]
	for _, v := range x {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	return lo, hi
}
