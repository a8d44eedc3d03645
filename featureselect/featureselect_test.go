package featureselect

import (
	"testing"

	"github.com/invertedv/bayesnet/internal/xtensor"
	"github.com/invertedv/bayesnet/metrics"
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

func sampleMetrics() *metrics.Metrics {
	samples := xtensor.NewIntMatrixFromRows([][]int{
		{0, 1, 0, 1, 1, 0, 1, 0},
		{1, 0, 1, 0, 0, 1, 1, 0},
		{0, 0, 1, 1, 0, 1, 0, 1},
		{0, 1, 0, 1, 1, 0, 1, 0}, // class, correlated with feature 0
	})
	return metrics.New(samples, []string{"a", "b", "c"}, "class", 2)
}

func TestSelectorsFailBeforeFit(t *testing.T) {
	cfs := &CFSSelector{}
	_, err := cfs.GetFeatures()
	require.Error(t, err)
	_, err = cfs.GetScores()
	require.Error(t, err)
}

func TestCFSSelectsNonEmptySubset(t *testing.T) {
	m := sampleMetrics()
	cfs := &CFSSelector{}
	require.NoError(t, cfs.Fit(m, uniform(8)))
	features, err := cfs.GetFeatures()
	require.NoError(t, err)
	assert.NotEmpty(t, features)
	assert.Contains(t, features, 0) // feature "a" is perfectly correlated with class
}

func TestFCBFRejectsTooSmallThreshold(t *testing.T) {
	m := sampleMetrics()
	fcbf := &FCBFSelector{Threshold: 1e-9}
	err := fcbf.Fit(m, uniform(8))
	require.ErrorIs(t, err, ErrInvalidArgument)
}

func TestFCBFKeepsStronglyRelevantFeature(t *testing.T) {
	m := sampleMetrics()
	fcbf := &FCBFSelector{Threshold: 0.5}
	require.NoError(t, fcbf.Fit(m, uniform(8)))
	features, err := fcbf.GetFeatures()
	require.NoError(t, err)
	assert.Contains(t, features, 0)
}

func TestIWSSRejectsOutOfRangeThreshold(t *testing.T) {
	m := sampleMetrics()
	iwss := &IWSSSelector{Threshold: 0.9}
	err := iwss.Fit(m, uniform(8))
	require.ErrorIs(t, err, ErrInvalidArgument)
}

func TestIWSSSelectsAtLeastTwoFeatures(t *testing.T) {
	m := sampleMetrics()
	iwss := &IWSSSelector{Threshold: 0.1}
	require.NoError(t, iwss.Fit(m, uniform(8)))
	features, err := iwss.GetFeatures()
	require.NoError(t, err)
	assert.GreaterOrEqual(t, len(features), 2)
}
