package metrics

import (
	"math"
	"testing"

	"github.com/invertedv/bayesnet/internal/xtensor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func uniform(n int) []float64 {
	w := make([]float64, n)
	for i := range w {
		w[i] = 1.0 / float64(n)
	}
	return w
}

func TestEntropyConstantIsZero(t *testing.T) {
	x := []int{0, 0, 0, 0}
	assert.Equal(t, 0.0, entropy(x, uniform(len(x))))
}

func TestEntropyNonNegative(t *testing.T) {
	x := []int{0, 1, 1, 2, 2, 2}
	assert.GreaterOrEqual(t, entropy(x, uniform(len(x))), 0.0)
}

func TestEntropyFairCoin(t *testing.T) {
	x := []int{0, 1, 0, 1}
	assert.InDelta(t, math.Log(2), entropy(x, uniform(len(x))), 1e-9)
}

func TestMutualInformationSelfEqualsEntropy(t *testing.T) {
	x := []int{0, 1, 1, 2, 0, 2, 1}
	w := uniform(len(x))
	assert.InDelta(t, entropy(x, w), mutualInformation(x, x, w), 1e-9)
}

func TestMutualInformationNonNegative(t *testing.T) {
	x := []int{0, 1, 0, 1, 1, 0}
	y := []int{1, 0, 1, 0, 0, 1}
	w := uniform(len(x))
	assert.GreaterOrEqual(t, mutualInformation(x, y, w), 0.0)
}

func TestSymmetricalUncertaintyRangeAndSelf(t *testing.T) {
	samples := xtensor.NewIntMatrixFromRows([][]int{
		{0, 1, 0, 1, 1, 0},
		{0, 0, 1, 1, 0, 1},
	})
	m := New(samples, []string{"a"}, "class", 2)
	w := uniform(6)
	su := m.SymmetricalUncertainty(0, 0, w)
	assert.InDelta(t, 1.0, su, 1e-9)

	suAB := m.SymmetricalUncertainty(0, -1, w)
	assert.GreaterOrEqual(t, suAB, 0.0)
	assert.LessOrEqual(t, suAB, 1.0+1e-9)
}

func TestSelectKBestWeightedValidatesK(t *testing.T) {
	samples := xtensor.NewIntMatrixFromRows([][]int{
		{0, 1, 0, 1},
		{1, 0, 1, 0},
		{0, 0, 1, 1},
	})
	m := New(samples, []string{"a", "b"}, "class", 2)
	_, err := m.SelectKBestWeighted(uniform(4), false, 5)
	require.ErrorIs(t, err, ErrInvalidK)

	_, err = m.SelectKBestWeighted(uniform(4), false, -1)
	require.ErrorIs(t, err, ErrInvalidK)
}

func TestSelectKBestWeightedCaches(t *testing.T) {
	samples := xtensor.NewIntMatrixFromRows([][]int{
		{0, 1, 0, 1, 1, 0},
		{1, 0, 1, 0, 0, 1},
		{0, 0, 1, 1, 1, 0},
	})
	m := New(samples, []string{"a", "b"}, "class", 2)
	w := uniform(6)
	first, err := m.SelectKBestWeighted(w, false, 1)
	require.NoError(t, err)
	require.Len(t, first, 1)

	all, err := m.SelectKBestWeighted(w, false, 0)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, first[0], all[0])
}

// TestSelectKBestWeightedInvalidatesOnReweight is a regression test for a
// bug where the cached ranking was reused verbatim regardless of changes to
// w, silently ignoring boosting's per-iteration reweighting.
func TestSelectKBestWeightedInvalidatesOnReweight(t *testing.T) {
	samples := xtensor.NewIntMatrixFromRows([][]int{
		{0, 1, 0, 1, 1, 0},
		{0, 0, 0, 1, 0, 1},
		{0, 0, 1, 1, 1, 0},
	})
	m := New(samples, []string{"a", "b"}, "class", 2)

	uniformW := uniform(6)
	_, err := m.SelectKBestWeighted(uniformW, false, 0)
	require.NoError(t, err)
	uniformScores := m.ScoresKBest()

	// a heavily skewed weighting should change the computed scores, proving
	// the second call actually recomputed rather than returning the cache.
	skewed := []float64{0.9, 0.02, 0.02, 0.02, 0.02, 0.02}
	_, err = m.SelectKBestWeighted(skewed, false, 0)
	require.NoError(t, err)
	skewedScores := m.ScoresKBest()

	assert.NotEqual(t, uniformScores, skewedScores)

	// switching ascending with the same weights must also invalidate.
	descOrder, err := m.SelectKBestWeighted(skewed, false, 0)
	require.NoError(t, err)
	ascOrder, err := m.SelectKBestWeighted(skewed, true, 0)
	require.NoError(t, err)
	assert.NotEqual(t, descOrder, ascOrder)
}

func TestConditionalEdgeSymmetricZeroDiagonal(t *testing.T) {
	samples := xtensor.NewIntMatrixFromRows([][]int{
		{0, 1, 0, 1, 1, 0, 1, 0},
		{1, 0, 1, 0, 0, 1, 1, 0},
		{0, 1, 1, 0, 1, 0, 0, 1},
	})
	m := New(samples, []string{"a", "b"}, "class", 2)
	w := uniform(8)
	edges := m.ConditionalEdge(w)
	n, _ := edges.Dims()
	for i := 0; i < n; i++ {
		assert.Equal(t, 0.0, edges.At(i, i))
		for j := 0; j < n; j++ {
			assert.InDelta(t, edges.At(i, j), edges.At(j, i), 1e-12)
		}
	}
}
