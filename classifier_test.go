package bayesnet

import (
	"testing"

	"github.com/invertedv/bayesnet/internal/xtensor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckFitParametersRejectsShapeMismatches(t *testing.T) {
	c := NewClassifier()
	x := xtensor.NewIntMatrixFromRows([][]int{{0, 1, 0}})
	y := []int{0, 1, 0}
	states := map[string][]int{"f1": {0, 1}}

	require.NoError(t, c.checkFitParameters(x, y, []string{"f1"}, states))

	err := c.checkFitParameters(x, y, []string{"f1", "f2"}, states)
	require.Error(t, err)

	err = c.checkFitParameters(x, []int{0, 1}, []string{"f1"}, states)
	require.Error(t, err)

	err = c.checkFitParameters(x, y, []string{"f1"}, map[string][]int{})
	require.Error(t, err)

	err = c.checkFitParameters(x, y, nil, map[string][]int{})
	require.Error(t, err)
}

func TestBuildDatasetSortsClassStatesAndAppendsRow(t *testing.T) {
	c := NewClassifier()
	x := xtensor.NewIntMatrixFromRows([][]int{{0, 1, 0, 1}})
	y := []int{1, 0, 1, 0}
	states := map[string][]int{"f1": {0, 1}}

	out := c.buildDataset(x, y, []string{"f1"}, states, "y")
	rows, cols := out.Dims()
	assert.Equal(t, 2, rows)
	assert.Equal(t, 4, cols)
	assert.Equal(t, y, out.Row(1))
	assert.Equal(t, []int{0, 1}, c.states["y"])
	assert.Equal(t, "y", c.className)
	assert.Equal(t, []string{"f1"}, c.features)
}

func TestDefaultWeightsFillsUniformWhenNil(t *testing.T) {
	w := defaultWeights(nil, 4)
	require.Equal(t, 4, w.Len())
	for i := 0; i < 4; i++ {
		assert.InDelta(t, 0.25, w.At(i), 1e-9)
	}

	given := xtensor.NewFloatVectorFromSlice([]float64{1, 2, 3})
	assert.Same(t, given, defaultWeights(given, 3))
}

func TestDecodeHyperparametersRoundTrips(t *testing.T) {
	type cfg struct {
		K     int     `json:"k"`
		Theta float64 `json:"theta"`
	}
	var out cfg
	require.NoError(t, decodeHyperparameters(map[string]any{"k": 2.0, "theta": 0.5}, &out))
	assert.Equal(t, 2, out.K)
	assert.InDelta(t, 0.5, out.Theta, 1e-9)
}

func TestUnknownHyperparametersRejectsUnrecognizedKeys(t *testing.T) {
	err := unknownHyperparameters(map[string]any{"k": 1.0, "bogus": true}, []string{"k", "theta"})
	require.Error(t, err)

	require.NoError(t, unknownHyperparameters(map[string]any{"k": 1.0}, []string{"k", "theta"}))
}

func TestClassifierAccessorsBeforeFitReportNotFitted(t *testing.T) {
	c := NewClassifier()
	assert.Equal(t, StatusNotFitted, c.GetStatus())
	assert.Equal(t, 0, c.GetNumFeatures())
	assert.Empty(t, c.GetFeatures())
	assert.Empty(t, c.GetNotes())
}
