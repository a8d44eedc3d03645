package bayesnet

import (
	"github.com/invertedv/bayesnet/internal/xtensor"
	"github.com/invertedv/bayesnet/metrics"
)

// KDB fits a K-dependence Bayesian network: the class parents every
// feature, and each feature gains up to k additional feature parents,
// chosen greedily from the already-added features by conditional mutual
// information, subject to a minimum-weight threshold theta.
type KDB struct {
	*Classifier
	k     int
	theta float64
}

// NewKDB returns an unfit KDB classifier with the given k and theta.
func NewKDB(k int, theta float64) *KDB {
	return &KDB{Classifier: NewClassifier(), k: k, theta: theta}
}

func (kdb *KDB) init() { kdb.Classifier = NewClassifier() }

// Fit builds the K-DB structure and estimates its CPTs.
func (kdb *KDB) Fit(x *xtensor.IntMatrix, y []int, featureNames []string, className string, states map[string][]int, weights *xtensor.FloatVector) error {
	if err := kdb.checkFitParameters(x, y, featureNames, states); err != nil {
		return err
	}
	samples := kdb.buildDataset(x, y, featureNames, states, className)
	w := defaultWeights(weights, len(y))
	weightData := w.Data()

	kdb.Net = NewNetwork()
	for _, f := range featureNames {
		if err := kdb.Net.AddNode(f); err != nil {
			return err
		}
	}
	if err := kdb.Net.AddNode(className); err != nil {
		return err
	}

	m := metrics.New(samples, featureNames, className, len(kdb.states[className]))
	order, err := m.SelectKBestWeighted(weightData, false, 0)
	if err != nil {
		return err
	}
	edgeWeights := m.ConditionalEdge(weightData)

	var added []int
	for _, idx := range order {
		feature := featureNames[idx]
		if err := kdb.Net.AddEdge(className, feature); err != nil {
			return err
		}

		row := edgeWeights.Row(idx)
		budget := kdb.k
		if budget > len(added) {
			budget = len(added)
		}
		for c := 0; c < budget; c++ {
			best, bestWeight := -1, kdb.theta
			for _, cand := range added {
				if row[cand] > bestWeight {
					best, bestWeight = cand, row[cand]
				}
			}
			if best == -1 {
				break
			}
			if err := kdb.Net.AddEdge(featureNames[best], feature); err != nil {
				// a cycle-forming candidate is skipped, not counted.
				row[best] = 0
				c--
				continue
			}
			row[best] = 0
		}
		added = append(added, idx)
	}

	if err := kdb.Net.Fit(samples, w, featureNames, className, kdb.states, kdb.smoothing); err != nil {
		return err
	}
	kdb.status = StatusNormal
	return nil
}

// GetValidHyperparameters returns the hyperparameter keys KDB accepts.
func (kdb *KDB) GetValidHyperparameters() []string { return []string{"smoothing", "k", "theta"} }

// SetHyperparameters accepts {"smoothing": ..., "k": <int>, "theta": <float>}.
func (kdb *KDB) SetHyperparameters(params map[string]any) error {
	if err := unknownHyperparameters(params, kdb.GetValidHyperparameters()); err != nil {
		return err
	}
	if raw, ok := params["k"]; ok {
		f, ok := raw.(float64)
		if !ok {
			return Wrapper(ErrInvalidArgument, "k must be a number")
		}
		kdb.k = int(f)
	}
	if raw, ok := params["theta"]; ok {
		f, ok := raw.(float64)
		if !ok {
			return Wrapper(ErrInvalidArgument, "theta must be a number")
		}
		kdb.theta = f
	}
	return applySmoothingParam(params, &kdb.smoothing)
}
