package bayesnet

import "github.com/invertedv/bayesnet/internal/xtensor"

// SPODE fits a super-parent one-dependence estimator: the class and a
// single designated root feature both parent every other feature.
type SPODE struct {
	*Classifier
	root int
}

// NewSPODE returns an unfit SPODE classifier with the given super-parent
// feature index.
func NewSPODE(root int) *SPODE {
	return &SPODE{Classifier: NewClassifier(), root: root}
}

func (s *SPODE) init() { s.Classifier = NewClassifier() }

// Root returns the super-parent feature index.
func (s *SPODE) Root() int { return s.root }

// Fit builds the SPODE structure and estimates its CPTs.
func (s *SPODE) Fit(x *xtensor.IntMatrix, y []int, featureNames []string, className string, states map[string][]int, weights *xtensor.FloatVector) error {
	if err := s.checkFitParameters(x, y, featureNames, states); err != nil {
		return err
	}
	if s.root < 0 || s.root >= len(featureNames) {
		return Wrapperf(ErrInvalidArgument, "root %d out of range [0,%d)", s.root, len(featureNames))
	}
	samples := s.buildDataset(x, y, featureNames, states, className)
	w := defaultWeights(weights, len(y))

	s.Net = NewNetwork()
	for _, f := range featureNames {
		if err := s.Net.AddNode(f); err != nil {
			return err
		}
	}
	if err := s.Net.AddNode(className); err != nil {
		return err
	}
	rootName := featureNames[s.root]
	for _, f := range featureNames {
		if err := s.Net.AddEdge(className, f); err != nil {
			return err
		}
		if f != rootName {
			if err := s.Net.AddEdge(rootName, f); err != nil {
				return err
			}
		}
	}

	if err := s.Net.Fit(samples, w, featureNames, className, s.states, s.smoothing); err != nil {
		return err
	}
	s.status = StatusNormal
	return nil
}

// GetValidHyperparameters returns the hyperparameter keys SPODE accepts.
func (s *SPODE) GetValidHyperparameters() []string { return []string{"smoothing", "parent"} }

// SetHyperparameters accepts {"smoothing": ..., "parent": <feature index>}.
func (s *SPODE) SetHyperparameters(params map[string]any) error {
	if err := unknownHyperparameters(params, s.GetValidHyperparameters()); err != nil {
		return err
	}
	if raw, ok := params["parent"]; ok {
		f, ok := raw.(float64)
		if !ok {
			return Wrapper(ErrInvalidArgument, "parent must be a number")
		}
		s.root = int(f)
	}
	return applySmoothingParam(params, &s.smoothing)
}
