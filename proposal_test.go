package bayesnet

import (
	"testing"

	"github.com/invertedv/bayesnet/internal/xtensor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// continuousFixture returns a 2-continuous-feature, 8-sample dataset where
// f1 is a noisy-but-monotone proxy for the class and f2 is independent
// noise, suitable for exercising local discretization.
func continuousFixture() (xCont *xtensor.FloatMatrix, y []int, featureNames []string) {
	f1 := []float64{0.1, 0.2, 0.3, 0.4, 0.6, 0.7, 0.8, 0.9}
	f2 := []float64{5.0, 1.0, 4.0, 2.0, 3.0, 6.0, 0.0, 7.0}
	xCont = xtensor.NewFloatMatrix(2, 8)
	for s := range f1 {
		xCont.Set(0, s, f1[s])
		xCont.Set(1, s, f2[s])
	}
	y = []int{0, 0, 0, 0, 1, 1, 1, 1}
	featureNames = []string{"f1", "f2"}
	return
}

func TestProposalFitsTANOnContinuousData(t *testing.T) {
	xCont, y, featureNames := continuousFixture()
	p := NewProposal[TAN, *TAN]()
	model, err := p.Fit(xCont, y, featureNames, "y", map[string][]int{}, nil)
	require.NoError(t, err)
	require.NotNil(t, model)
	assert.Equal(t, StatusNormal, model.GetStatus())
	assert.Equal(t, 2*len(featureNames)-1, model.GetNumEdges())
}

func TestProposalDefaultsAreApplied(t *testing.T) {
	p := NewProposal[TAN, *TAN]()
	assert.Equal(t, "MDLP", p.LdAlgorithm)
	assert.Equal(t, 5, p.ProposedCuts)
	assert.Equal(t, 10, p.MaxIterations)
}

func TestProposalConfigureHookSetsRoot(t *testing.T) {
	xCont, y, featureNames := continuousFixture()
	p := NewProposal[TAN, *TAN]()
	p.Configure = func(t *TAN) { t.root = 1 }
	model, err := p.Fit(xCont, y, featureNames, "y", map[string][]int{}, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, model.root)
}

func TestProposalRespectsCategoricalFeature(t *testing.T) {
	xCont, y, featureNames := continuousFixture()
	// mark f2 as already-categorical with two states; Fit should copy it
	// through rather than discretize it.
	states := map[string][]int{"f2": {0, 1}}
	for s := 0; s < 8; s++ {
		if s%2 == 1 {
			xCont.Set(1, s, 1)
		} else {
			xCont.Set(1, s, 0)
		}
	}
	p := NewProposal[TAN, *TAN]()
	model, err := p.Fit(xCont, y, featureNames, "y", states, nil)
	require.NoError(t, err)
	assert.Equal(t, StatusNormal, model.GetStatus())
}

func TestTANLdFitAndClassifier(t *testing.T) {
	xCont, y, featureNames := continuousFixture()
	ld := NewTANLd(0)
	require.NoError(t, ld.Fit(xCont, y, featureNames, "y", map[string][]int{}, nil))
	model := ld.Classifier()
	require.NotNil(t, model)
	assert.Equal(t, StatusNormal, model.GetStatus())
}

func TestKDBLdFitAndClassifier(t *testing.T) {
	xCont, y, featureNames := continuousFixture()
	ld := NewKDBLd(1, 0.0)
	require.NoError(t, ld.Fit(xCont, y, featureNames, "y", map[string][]int{}, nil))
	model := ld.Classifier()
	require.NotNil(t, model)
	assert.Equal(t, StatusNormal, model.GetStatus())
}

func TestSPODELdFitAndClassifier(t *testing.T) {
	xCont, y, featureNames := continuousFixture()
	ld := NewSPODELd(0)
	require.NoError(t, ld.Fit(xCont, y, featureNames, "y", map[string][]int{}, nil))
	model := ld.Classifier()
	require.NotNil(t, model)
	assert.Equal(t, StatusNormal, model.GetStatus())
}

func TestAODELdFitDiscretizesOnceAndBuildsAllSubmodels(t *testing.T) {
	xCont, y, featureNames := continuousFixture()
	ld := NewAODELd()
	require.NoError(t, ld.Fit(xCont, y, featureNames, "y", map[string][]int{}, nil))
	model := ld.Classifier()
	require.NotNil(t, model)
	assert.Equal(t, len(featureNames), model.NumModels())
}

func TestFactorizeLabelCombinesClassAndParents(t *testing.T) {
	y := []int{0, 1}
	parent := [][]int{{2, 3}}
	out := factorizeLabel(y, parent)
	assert.Equal(t, 0*31+2, out[0])
	assert.Equal(t, 1*31+3, out[1])
}

func TestCodeRangeCoversMax(t *testing.T) {
	assert.Equal(t, []int{0, 1, 2}, codeRange([]int{0, 2, 1, 2}))
}

func TestIndexOfFeatureFindsName(t *testing.T) {
	names := []string{"a", "b", "c"}
	assert.Equal(t, 1, indexOfFeature(names, "b"))
	assert.Equal(t, -1, indexOfFeature(names, "z"))
}
