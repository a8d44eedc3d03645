package bayesnet

import "github.com/invertedv/bayesnet/internal/xtensor"

// submodel is the subset of BaseClassifier an ensemble member needs:
// probability and class predictions over a dense feature matrix.
type submodel interface {
	Predict(x *xtensor.IntMatrix) ([]int, error)
	PredictProba(x *xtensor.IntMatrix) (*xtensor.FloatMatrix, error)
	GetClassNumStates() int
}

// Ensemble aggregates a set of sub-classifiers (SPODEs, for AODE and
// BoostAODE) into one predictor, either by a significance-weighted sum of
// their probability outputs (the default) or by a significance-weighted
// vote over their argmax predictions.
type Ensemble struct {
	models              []submodel
	significanceModels  []float64
	voting              bool
	classNumStates      int
}

// NewEnsemble returns an empty ensemble.
func NewEnsemble() *Ensemble {
	return &Ensemble{}
}

// AddModel appends a fitted sub-classifier with its significance weight.
func (e *Ensemble) AddModel(m submodel, significance float64) {
	e.models = append(e.models, m)
	e.significanceModels = append(e.significanceModels, significance)
	e.classNumStates = m.GetClassNumStates()
}

// NumModels returns the number of sub-classifiers in the ensemble.
func (e *Ensemble) NumModels() int { return len(e.models) }

// PopModels removes the last n models from the ensemble, used to roll back
// an aborted boosting pack.
func (e *Ensemble) PopModels(n int) {
	if n > len(e.models) {
		n = len(e.models)
	}
	e.models = e.models[:len(e.models)-n]
	e.significanceModels = e.significanceModels[:len(e.significanceModels)-n]
}

// SetVoting switches the ensemble between probability-weighted-sum
// (false, default) and voting (true) prediction modes.
func (e *Ensemble) SetVoting(voting bool) { e.voting = voting }

// PredictProba returns the significance-weighted, normalized sum of every
// sub-model's probability output (probability mode), or the
// significance-weighted vote share for each class's argmax count (voting
// mode).
func (e *Ensemble) PredictProba(x *xtensor.IntMatrix) (*xtensor.FloatMatrix, error) {
	if len(e.models) == 0 {
		return nil, Wrapper(ErrLogicError, "ensemble has no models; fit before predicting")
	}
	_, cols := x.Dims()
	result := xtensor.NewFloatMatrix(cols, e.classNumStates)

	if e.voting {
		for i, m := range e.models {
			preds, err := m.Predict(x)
			if err != nil {
				return nil, err
			}
			weight := e.significanceModels[i]
			for s, p := range preds {
				result.Set(s, p, result.At(s, p)+weight)
			}
		}
	} else {
		for i, m := range e.models {
			proba, err := m.PredictProba(x)
			if err != nil {
				return nil, err
			}
			weight := e.significanceModels[i]
			for s := 0; s < cols; s++ {
				for c := 0; c < e.classNumStates; c++ {
					result.Set(s, c, result.At(s, c)+weight*proba.At(s, c))
				}
			}
		}
	}

	for s := 0; s < cols; s++ {
		sum := 0.0
		for c := 0; c < e.classNumStates; c++ {
			sum += result.At(s, c)
		}
		if sum == 0 {
			continue
		}
		for c := 0; c < e.classNumStates; c++ {
			result.Set(s, c, result.At(s, c)/sum)
		}
	}
	return result, nil
}

// Predict returns the argmax class per sample.
func (e *Ensemble) Predict(x *xtensor.IntMatrix) ([]int, error) {
	proba, err := e.PredictProba(x)
	if err != nil {
		return nil, err
	}
	rows, _ := proba.Dims()
	out := make([]int, rows)
	for s := 0; s < rows; s++ {
		best, bestVal := 0, proba.At(s, 0)
		for c := 1; c < e.classNumStates; c++ {
			if v := proba.At(s, c); v > bestVal {
				best, bestVal = c, v
			}
		}
		out[s] = best
	}
	return out, nil
}

// Score returns accuracy on (x, y).
func (e *Ensemble) Score(x *xtensor.IntMatrix, y []int) (float64, error) {
	preds, err := e.Predict(x)
	if err != nil {
		return 0, err
	}
	correct := 0
	for i, p := range preds {
		if p == y[i] {
			correct++
		}
	}
	return float64(correct) / float64(len(preds)), nil
}
