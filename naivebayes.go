package bayesnet

import "github.com/invertedv/bayesnet/internal/xtensor"

// NaiveBayes fits a network where the class is the sole parent of every
// feature and features have no edges between themselves.
type NaiveBayes struct {
	*Classifier
}

// NewNaiveBayes returns an unfit NaiveBayes classifier.
func NewNaiveBayes() *NaiveBayes {
	return &NaiveBayes{Classifier: NewClassifier()}
}

func (nb *NaiveBayes) init() { nb.Classifier = NewClassifier() }

// Fit builds the naive Bayes structure (class -> every feature) and
// estimates its CPTs.
func (nb *NaiveBayes) Fit(x *xtensor.IntMatrix, y []int, featureNames []string, className string, states map[string][]int, weights *xtensor.FloatVector) error {
	if err := nb.checkFitParameters(x, y, featureNames, states); err != nil {
		return err
	}
	samples := nb.buildDataset(x, y, featureNames, states, className)

	nb.Net = NewNetwork()
	for _, f := range featureNames {
		if err := nb.Net.AddNode(f); err != nil {
			return err
		}
	}
	if err := nb.Net.AddNode(className); err != nil {
		return err
	}
	for _, f := range featureNames {
		if err := nb.Net.AddEdge(className, f); err != nil {
			return err
		}
	}

	w := defaultWeights(weights, len(y))
	if err := nb.Net.Fit(samples, w, featureNames, className, nb.states, nb.smoothing); err != nil {
		return err
	}
	nb.status = StatusNormal
	nb.addNote("naive Bayes structure: class is sole parent of every feature")
	return nil
}

// GetValidHyperparameters returns the hyperparameter keys NaiveBayes accepts.
func (nb *NaiveBayes) GetValidHyperparameters() []string { return []string{"smoothing"} }

// SetHyperparameters accepts {"smoothing": "NONE"|"ORIGINAL"|"LAPLACE"|"CESTNIK"}.
func (nb *NaiveBayes) SetHyperparameters(params map[string]any) error {
	if err := unknownHyperparameters(params, nb.GetValidHyperparameters()); err != nil {
		return err
	}
	return applySmoothingParam(params, &nb.smoothing)
}

func applySmoothingParam(params map[string]any, target *Smoothing) error {
	raw, ok := params["smoothing"]
	if !ok {
		return nil
	}
	s, ok := raw.(string)
	if !ok {
		return Wrapper(ErrInvalidArgument, "smoothing must be a string")
	}
	switch s {
	case "NONE":
		*target = SmoothingNone
	case "ORIGINAL":
		*target = SmoothingOriginal
	case "LAPLACE":
		*target = SmoothingLaplace
	case "CESTNIK":
		*target = SmoothingCestnik
	default:
		return Wrapperf(ErrInvalidArgument, "unknown smoothing %q", s)
	}
	return nil
}
