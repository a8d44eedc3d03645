package bayesnet

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fittedSPODE(t *testing.T, root int) *SPODE {
	t.Helper()
	x, y, featureNames, states := threeFeatureFixture()
	spode := NewSPODE(root)
	require.NoError(t, spode.Fit(x, y, featureNames, "y", states, nil))
	return spode
}

func TestEnsemblePredictProbaRequiresModels(t *testing.T) {
	e := NewEnsemble()
	x, _, _, _ := threeFeatureFixture()
	_, err := e.PredictProba(x)
	require.Error(t, err)
}

func TestEnsembleProbabilityModeNormalizes(t *testing.T) {
	e := NewEnsemble()
	e.AddModel(fittedSPODE(t, 0), 1.0)
	e.AddModel(fittedSPODE(t, 1), 2.0)

	x, y, _, _ := threeFeatureFixture()
	proba, err := e.PredictProba(x)
	require.NoError(t, err)
	rows, cols := proba.Dims()
	assert.Equal(t, len(y), rows)
	for s := 0; s < rows; s++ {
		sum := 0.0
		for c := 0; c < cols; c++ {
			sum += proba.At(s, c)
		}
		assert.InDelta(t, 1.0, sum, 1e-9)
	}
}

func TestEnsembleVotingModeCountsWeightedVotes(t *testing.T) {
	e := NewEnsemble()
	e.AddModel(fittedSPODE(t, 0), 1.0)
	e.AddModel(fittedSPODE(t, 0), 3.0)
	e.SetVoting(true)

	x, y, _, _ := threeFeatureFixture()
	preds, err := e.Predict(x)
	require.NoError(t, err)
	assert.Len(t, preds, len(y))
}

func TestEnsemblePopModelsRollsBack(t *testing.T) {
	e := NewEnsemble()
	e.AddModel(fittedSPODE(t, 0), 1.0)
	e.AddModel(fittedSPODE(t, 1), 1.0)
	e.AddModel(fittedSPODE(t, 2), 1.0)
	assert.Equal(t, 3, e.NumModels())

	e.PopModels(2)
	assert.Equal(t, 1, e.NumModels())

	e.PopModels(10)
	assert.Equal(t, 0, e.NumModels())
}

func TestEnsembleScoreComputesAccuracy(t *testing.T) {
	e := NewEnsemble()
	e.AddModel(fittedSPODE(t, 0), 1.0)

	x, y, _, _ := threeFeatureFixture()
	acc, err := e.Score(x, y)
	require.NoError(t, err)
	// f1 == y exactly, so a SPODE rooted at f1 should fit the training
	// data perfectly.
	assert.Equal(t, 1.0, acc)
}
