package bayesnet

import "github.com/invertedv/bayesnet/internal/xtensor"

// AODE is an averaged one-dependence estimator: one SPODE per feature,
// each rooted at that feature and trained independently on the same data,
// combined by an unweighted Ensemble.
type AODE struct {
	*Ensemble
	features       []string
	className      string
	classNumStates int
	notes          []string
	status         string
	smoothing      Smoothing
}

// NewAODE returns an unfit AODE classifier.
func NewAODE() *AODE {
	return &AODE{Ensemble: NewEnsemble(), status: StatusNotFitted, smoothing: SmoothingLaplace}
}

// Fit trains one SPODE per feature (as root) and assembles them into the
// ensemble with equal significance.
func (a *AODE) Fit(x *xtensor.IntMatrix, y []int, featureNames []string, className string, states map[string][]int, weights *xtensor.FloatVector) error {
	if len(featureNames) == 0 {
		return Wrapper(ErrInvalidArgument, "no features given")
	}
	a.features = append([]string(nil), featureNames...)
	a.className = className
	a.Ensemble = NewEnsemble()

	for root := range featureNames {
		spode := NewSPODE(root)
		spode.smoothing = a.smoothing
		if err := spode.Fit(x, y, featureNames, className, states, weights); err != nil {
			return err
		}
		a.AddModel(spode, 1.0)
		a.classNumStates = spode.GetClassNumStates()
	}

	a.status = StatusNormal
	a.notes = append(a.notes, "AODE: one SPODE per feature as super-parent")
	return nil
}

// GetNumFeatures returns the number of features AODE was fit on.
func (a *AODE) GetNumFeatures() int { return len(a.features) }

// GetNumNodes returns the total node count across all sub-models.
func (a *AODE) GetNumNodes() int { return (len(a.features) + 1) * len(a.features) }

// GetNumEdges returns the total edge count across all sub-models
// (2n-1 per SPODE, one SPODE per feature).
func (a *AODE) GetNumEdges() int {
	n := len(a.features)
	return n * (2*n - 1)
}

// GetNumStates sums every sub-model's node cardinalities.
func (a *AODE) GetNumStates() int {
	total := 0
	for _, m := range a.models {
		if c, ok := m.(*SPODE); ok {
			total += c.GetNumStates()
		}
	}
	return total
}

// GetClassNumStates returns the class node's cardinality.
func (a *AODE) GetClassNumStates() int { return a.classNumStates }

// GetFeatures returns the feature names AODE was fit on.
func (a *AODE) GetFeatures() []string { return append([]string(nil), a.features...) }

// GetNotes returns the diagnostic notes accumulated while fitting.
func (a *AODE) GetNotes() []string { return append([]string(nil), a.notes...) }

// GetStatus reports the fit status.
func (a *AODE) GetStatus() string { return a.status }

// GetVersion reports the library version.
func (a *AODE) GetVersion() string { return Version }

// Show lists each sub-model's adjacency, prefixed by its root feature.
func (a *AODE) Show() []string {
	var lines []string
	for _, m := range a.models {
		spode := m.(*SPODE)
		lines = append(lines, "--- SPODE root="+a.features[spode.Root()]+" ---")
		lines = append(lines, spode.Show()...)
	}
	return lines
}

// Graph concatenates every sub-model's Graphviz description.
func (a *AODE) Graph(title string) []string {
	var lines []string
	for _, m := range a.models {
		spode := m.(*SPODE)
		lines = append(lines, spode.Graph(title+" ("+a.features[spode.Root()]+")")...)
	}
	return lines
}

// TopologicalOrder returns the first sub-model's topological order, since
// every SPODE shares the same two-level structure up to its root.
func (a *AODE) TopologicalOrder() []string {
	if len(a.models) == 0 {
		return nil
	}
	return a.models[0].(*SPODE).TopologicalOrder()
}

// DumpCPT concatenates every sub-model's CPT dump.
func (a *AODE) DumpCPT() string {
	out := ""
	for _, m := range a.models {
		spode := m.(*SPODE)
		out += spode.DumpCPT()
	}
	return out
}

// GetValidHyperparameters returns the hyperparameter keys AODE accepts.
func (a *AODE) GetValidHyperparameters() []string { return []string{"smoothing", "predict_voting"} }

// SetHyperparameters accepts {"smoothing": ..., "predict_voting": <bool>}.
func (a *AODE) SetHyperparameters(params map[string]any) error {
	if err := unknownHyperparameters(params, a.GetValidHyperparameters()); err != nil {
		return err
	}
	if raw, ok := params["predict_voting"]; ok {
		v, ok := raw.(bool)
		if !ok {
			return Wrapper(ErrInvalidArgument, "predict_voting must be a bool")
		}
		a.SetVoting(v)
	}
	return applySmoothingParam(params, &a.smoothing)
}
