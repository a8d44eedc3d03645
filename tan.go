package bayesnet

import (
	"strconv"

	"github.com/invertedv/bayesnet/internal/xtensor"
	"github.com/invertedv/bayesnet/metrics"
	"github.com/invertedv/bayesnet/mst"
)

// TAN fits a tree-augmented naive Bayes network: the class parents every
// feature, and a maximum-weight spanning tree over conditional mutual
// information (conditioned on the class) adds one parent feature to every
// non-root feature.
type TAN struct {
	*Classifier
	root int
}

// NewTAN returns an unfit TAN classifier rooted at feature index 0.
func NewTAN() *TAN {
	return &TAN{Classifier: NewClassifier(), root: 0}
}

func (t *TAN) init() { t.Classifier = NewClassifier() }

// Fit builds the TAN structure and estimates its CPTs.
func (t *TAN) Fit(x *xtensor.IntMatrix, y []int, featureNames []string, className string, states map[string][]int, weights *xtensor.FloatVector) error {
	if err := t.checkFitParameters(x, y, featureNames, states); err != nil {
		return err
	}
	if t.root < 0 || t.root >= len(featureNames) {
		return Wrapperf(ErrInvalidArgument, "root %d out of range [0,%d)", t.root, len(featureNames))
	}
	samples := t.buildDataset(x, y, featureNames, states, className)
	w := defaultWeights(weights, len(y))

	t.Net = NewNetwork()
	for _, f := range featureNames {
		if err := t.Net.AddNode(f); err != nil {
			return err
		}
	}
	if err := t.Net.AddNode(className); err != nil {
		return err
	}
	for _, f := range featureNames {
		if err := t.Net.AddEdge(className, f); err != nil {
			return err
		}
	}

	m := metrics.New(samples, featureNames, className, len(t.states[className]))
	weightData := w.Data()
	edgeWeights := m.ConditionalEdge(weightData)
	for _, e := range mst.Kruskal(edgeWeights, t.root) {
		if err := t.Net.AddEdge(featureNames[e.Parent], featureNames[e.Child]); err != nil {
			return err
		}
	}

	if err := t.Net.Fit(samples, w, featureNames, className, t.states, t.smoothing); err != nil {
		return err
	}
	t.status = StatusNormal
	t.addNote("TAN tree rooted at feature index " + strconv.Itoa(t.root))
	return nil
}

// GetValidHyperparameters returns the hyperparameter keys TAN accepts.
func (t *TAN) GetValidHyperparameters() []string { return []string{"smoothing", "parent"} }

// SetHyperparameters accepts {"smoothing": ..., "parent": <feature index>}.
func (t *TAN) SetHyperparameters(params map[string]any) error {
	if err := unknownHyperparameters(params, t.GetValidHyperparameters()); err != nil {
		return err
	}
	if raw, ok := params["parent"]; ok {
		f, ok := raw.(float64)
		if !ok {
			return Wrapper(ErrInvalidArgument, "parent must be a number")
		}
		t.root = int(f)
	}
	return applySmoothingParam(params, &t.smoothing)
}
