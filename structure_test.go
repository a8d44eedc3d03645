package bayesnet

import (
	"testing"

	"github.com/invertedv/bayesnet/internal/xtensor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// threeFeatureFixture returns a tiny 3-feature, 8-sample dataset where the
// first feature is perfectly predictive of the class, grounded on the
// structure-learner laws every learner is expected to satisfy regardless
// of the actual conditional mutual information values (edge/node counts).
func threeFeatureFixture() (x *xtensor.IntMatrix, y []int, featureNames []string, states map[string][]int) {
	rows := [][]int{
		{0, 0, 0, 0, 1, 1, 1, 1}, // f1: == y
		{0, 1, 0, 1, 0, 1, 0, 1}, // f2
		{0, 1, 1, 0, 0, 1, 1, 0}, // f3
	}
	x = xtensor.NewIntMatrixFromRows(rows)
	y = []int{0, 0, 0, 0, 1, 1, 1, 1}
	featureNames = []string{"f1", "f2", "f3"}
	states = map[string][]int{"f1": {0, 1}, "f2": {0, 1}, "f3": {0, 1}}
	return
}

func TestNaiveBayesStructure(t *testing.T) {
	x, y, featureNames, states := threeFeatureFixture()
	nb := NewNaiveBayes()
	require.NoError(t, nb.Fit(x, y, featureNames, "y", states, nil))
	assert.Equal(t, len(featureNames), nb.GetNumEdges())
	assert.Equal(t, StatusNormal, nb.GetStatus())
	preds, err := nb.Predict(x)
	require.NoError(t, err)
	assert.Len(t, preds, len(y))
}

func TestTANProducesTwoNMinusOneEdges(t *testing.T) {
	x, y, featureNames, states := threeFeatureFixture()
	tan := NewTAN()
	require.NoError(t, tan.Fit(x, y, featureNames, "y", states, nil))
	n := len(featureNames)
	assert.Equal(t, 2*n-1, tan.GetNumEdges())
}

func TestTANRejectsOutOfRangeRoot(t *testing.T) {
	x, y, featureNames, states := threeFeatureFixture()
	tan := NewTAN()
	require.NoError(t, tan.SetHyperparameters(map[string]any{"parent": 5.0}))
	err := tan.Fit(x, y, featureNames, "y", states, nil)
	require.Error(t, err)
}

func TestKDBWithZeroKProducesNEdges(t *testing.T) {
	x, y, featureNames, states := threeFeatureFixture()
	kdb := NewKDB(0, 0.0)
	require.NoError(t, kdb.Fit(x, y, featureNames, "y", states, nil))
	assert.Equal(t, len(featureNames), kdb.GetNumEdges())
}

func TestKDBWithLargeKBoundedByAvailableParents(t *testing.T) {
	x, y, featureNames, states := threeFeatureFixture()
	kdb := NewKDB(5, -1.0)
	require.NoError(t, kdb.Fit(x, y, featureNames, "y", states, nil))
	n := len(featureNames)
	// every feature gains at most all previously-ranked features as parents,
	// so edges stay between n and n + n(n-1)/2, inside the n*n bound checked here.
	assert.GreaterOrEqual(t, kdb.GetNumEdges(), n)
	assert.LessOrEqual(t, kdb.GetNumEdges(), n*n)
}

func TestSPODEProducesTwoNMinusOneEdges(t *testing.T) {
	x, y, featureNames, states := threeFeatureFixture()
	spode := NewSPODE(0)
	require.NoError(t, spode.Fit(x, y, featureNames, "y", states, nil))
	n := len(featureNames)
	assert.Equal(t, 2*n-1, spode.GetNumEdges())
	assert.Equal(t, 0, spode.Root())
}

func TestAODEProducesOneSpodePerFeature(t *testing.T) {
	x, y, featureNames, states := threeFeatureFixture()
	aode := NewAODE()
	require.NoError(t, aode.Fit(x, y, featureNames, "y", states, nil))
	assert.Equal(t, len(featureNames), aode.NumModels())
	n := len(featureNames)
	assert.Equal(t, n*(2*n-1), aode.GetNumEdges())

	preds, err := aode.Predict(x)
	require.NoError(t, err)
	assert.Len(t, preds, len(y))
}

func TestAODEPropagatesSmoothing(t *testing.T) {
	x, y, featureNames, states := threeFeatureFixture()
	aode := NewAODE()
	require.NoError(t, aode.SetHyperparameters(map[string]any{"smoothing": "NONE"}))
	require.NoError(t, aode.Fit(x, y, featureNames, "y", states, nil))
	for _, m := range aode.models {
		spode := m.(*SPODE)
		assert.Equal(t, SmoothingNone, spode.smoothing)
	}
}

// TestStructureLearnersPlaceClassLast is a regression test for a bug where
// every learner added its class node before its feature nodes, putting it
// at index 0 in Network.features while the sample matrix (built by
// Classifier.buildDataset via x.AppendRow(y)) carries the class in the last
// row; the mismatch fed every node the wrong row when estimating CPTs. f1
// equals y exactly in this fixture, so any learner rooted on or including
// f1 with the class aligned to the right row should score perfectly; a
// recurrence of the ordering bug would make this fail.
func TestStructureLearnersPlaceClassLast(t *testing.T) {
	x, y, featureNames, states := threeFeatureFixture()

	nb := NewNaiveBayes()
	require.NoError(t, nb.Fit(x, y, featureNames, "y", states, nil))
	require.Equal(t, append(append([]string(nil), featureNames...), "y"), nb.GetNetwork().Features())
	acc, err := nb.Score(x, y)
	require.NoError(t, err)
	assert.Equal(t, 1.0, acc)

	tan := NewTAN()
	require.NoError(t, tan.Fit(x, y, featureNames, "y", states, nil))
	require.Equal(t, append(append([]string(nil), featureNames...), "y"), tan.GetNetwork().Features())
	acc, err = tan.Score(x, y)
	require.NoError(t, err)
	assert.Equal(t, 1.0, acc)

	kdb := NewKDB(1, -1.0)
	require.NoError(t, kdb.Fit(x, y, featureNames, "y", states, nil))
	require.Equal(t, append(append([]string(nil), featureNames...), "y"), kdb.GetNetwork().Features())
	acc, err = kdb.Score(x, y)
	require.NoError(t, err)
	assert.Equal(t, 1.0, acc)

	spode := NewSPODE(0)
	require.NoError(t, spode.Fit(x, y, featureNames, "y", states, nil))
	require.Equal(t, append(append([]string(nil), featureNames...), "y"), spode.GetNetwork().Features())
	acc, err = spode.Score(x, y)
	require.NoError(t, err)
	assert.Equal(t, 1.0, acc)
}
