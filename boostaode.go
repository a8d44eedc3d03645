package bayesnet

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/google/uuid"

	"github.com/invertedv/bayesnet/featureselect"
	"github.com/invertedv/bayesnet/internal/xtensor"
	"github.com/invertedv/bayesnet/metrics"
)

// BoostAODE is a SAMME-style boosted ensemble of SPODEs: an optional
// filter-selected initialization pack, then repeated packs of SPODEs whose
// roots are ranked by weighted mutual information with the class, added
// until the feature pool is exhausted or a training-accuracy plateau
// triggers early stopping.
type BoostAODE struct {
	*Ensemble
	features       []string
	className      string
	classNumStates int
	notes          []string
	status         string
	smoothing      Smoothing
	runID          string
	accuracyTrace  []float64

	order           string // "asc" | "desc" | "rand"
	convergence     bool
	convergenceBest bool
	bisection       bool
	maxTolerance    int
	selectFeatures  string // "CFS" | "FCBF" | "IWSS" | "" (none)
	threshold       float64
	predictVoting   bool
	blockUpdate     bool
	alphaBlock      bool
	seed            int64
}

// NewBoostAODE returns an unfit BoostAODE classifier with its default
// hyperparameters: ascending feature order, no convergence check, no
// bisection, maxTolerance 4, no feature selection.
func NewBoostAODE() *BoostAODE {
	return &BoostAODE{
		Ensemble:     NewEnsemble(),
		status:       StatusNotFitted,
		smoothing:    SmoothingLaplace,
		order:        "asc",
		maxTolerance: 4,
		threshold:    0.05,
	}
}

// GetValidHyperparameters returns the hyperparameter keys BoostAODE accepts.
func (b *BoostAODE) GetValidHyperparameters() []string {
	return []string{
		"smoothing", "order", "convergence", "convergence_best", "bisection",
		"maxTolerance", "select_features", "threshold", "predict_voting",
		"block_update", "alpha_block", "seed",
	}
}

// SetHyperparameters validates and applies BoostAODE's hyperparameters.
// Validation happens entirely here, before Fit ever runs: unknown keys
// are rejected up front and params is not modified.
func (b *BoostAODE) SetHyperparameters(params map[string]any) error {
	if err := unknownHyperparameters(params, b.GetValidHyperparameters()); err != nil {
		return err
	}
	if raw, ok := params["order"]; ok {
		s, ok := raw.(string)
		if !ok || (s != "asc" && s != "desc" && s != "rand") {
			return Wrapper(ErrInvalidArgument, "order must be one of asc, desc, rand")
		}
		b.order = s
	}
	if raw, ok := params["convergence"]; ok {
		v, ok := raw.(bool)
		if !ok {
			return Wrapper(ErrInvalidArgument, "convergence must be a bool")
		}
		b.convergence = v
	}
	if raw, ok := params["convergence_best"]; ok {
		v, ok := raw.(bool)
		if !ok {
			return Wrapper(ErrInvalidArgument, "convergence_best must be a bool")
		}
		b.convergenceBest = v
	}
	if raw, ok := params["bisection"]; ok {
		v, ok := raw.(bool)
		if !ok {
			return Wrapper(ErrInvalidArgument, "bisection must be a bool")
		}
		b.bisection = v
	}
	if raw, ok := params["maxTolerance"]; ok {
		f, ok := raw.(float64)
		if !ok {
			return Wrapper(ErrInvalidArgument, "maxTolerance must be a number")
		}
		t := int(f)
		if t < 1 || t > 4 {
			return Wrapper(ErrInvalidArgument, "maxTolerance must be in [1, 4]")
		}
		b.maxTolerance = t
	}
	if raw, ok := params["select_features"]; ok {
		s, ok := raw.(string)
		if !ok || (s != "CFS" && s != "FCBF" && s != "IWSS" && s != "" && s != "none") {
			return Wrapper(ErrInvalidArgument, "select_features must be one of CFS, FCBF, IWSS, none")
		}
		if s == "none" {
			s = ""
		}
		b.selectFeatures = s
	}
	if raw, ok := params["threshold"]; ok {
		f, ok := raw.(float64)
		if !ok {
			return Wrapper(ErrInvalidArgument, "threshold must be a number")
		}
		b.threshold = f
	}
	if raw, ok := params["predict_voting"]; ok {
		v, ok := raw.(bool)
		if !ok {
			return Wrapper(ErrInvalidArgument, "predict_voting must be a bool")
		}
		b.predictVoting = v
	}
	if raw, ok := params["block_update"]; ok {
		v, ok := raw.(bool)
		if !ok {
			return Wrapper(ErrInvalidArgument, "block_update must be a bool")
		}
		b.blockUpdate = v
	}
	if raw, ok := params["alpha_block"]; ok {
		v, ok := raw.(bool)
		if !ok {
			return Wrapper(ErrInvalidArgument, "alpha_block must be a bool")
		}
		b.alphaBlock = v
	}
	if raw, ok := params["seed"]; ok {
		f, ok := raw.(float64)
		if !ok {
			return Wrapper(ErrInvalidArgument, "seed must be a number")
		}
		b.seed = int64(f)
	}
	if b.selectFeatures == "FCBF" && b.threshold < 1e-7 {
		return Wrapper(ErrInvalidArgument, "FCBF threshold must be >= 1e-7")
	}
	if b.selectFeatures == "IWSS" && (b.threshold < 0 || b.threshold > 0.5) {
		return Wrapper(ErrInvalidArgument, "IWSS threshold must be in [0, 0.5]")
	}
	return applySmoothingParam(params, &b.smoothing)
}

func weightedError(w []float64, y, preds []int) float64 {
	num, den := 0.0, 0.0
	for i := range y {
		den += w[i]
		if preds[i] != y[i] {
			num += w[i]
		}
	}
	if den == 0 {
		return 0
	}
	return num / den
}

func updateBoostWeights(w []float64, y, preds []int, alpha float64) {
	sum := 0.0
	for i := range y {
		if preds[i] != y[i] {
			w[i] *= math.Exp(alpha)
		}
		sum += w[i]
	}
	if sum == 0 {
		return
	}
	for i := range w {
		w[i] /= sum
	}
}

func alphaSAMME(eps float64, numClasses int) float64 {
	if eps <= 0 {
		eps = 1e-10
	}
	if eps >= 1 {
		eps = 1 - 1e-10
	}
	return 0.5*math.Log((1-eps)/eps) + math.Log(float64(numClasses-1))
}

// Fit runs the BoostAODE training loop: an optional filter-selected
// initialization pack, then repeated packs of boosted SPODEs until the
// feature pool is exhausted, a flip guard trips (weighted error > 0.5), or
// an accuracy plateau exceeds maxTolerance. The convergence check scores
// the training data passed to Fit; no separate validation split is held out.
func (b *BoostAODE) Fit(x *xtensor.IntMatrix, y []int, featureNames []string, className string, states map[string][]int, weights *xtensor.FloatVector) error {
	b.runID = uuid.New().String()
	b.accuracyTrace = nil
	if len(featureNames) == 0 {
		return Wrapper(ErrInvalidArgument, "no features given")
	}
	n := len(featureNames)
	b.features = append([]string(nil), featureNames...)
	b.className = className
	b.Ensemble = NewEnsemble()

	tmp := &Classifier{}
	samples := tmp.buildDataset(x, y, featureNames, states, className)
	b.classNumStates = len(tmp.states[className])
	numClasses := b.classNumStates

	w := xtensor.NewUniformWeights(len(y)).Data()
	m := metrics.New(samples, featureNames, className, numClasses)

	selected := make(map[int]bool, n)
	var notes []string
	rng := rand.New(rand.NewSource(b.seed))

	trainSPODE := func(root int, wData []float64) (*SPODE, error) {
		spode := NewSPODE(root)
		spode.smoothing = b.smoothing
		weightVec := xtensor.NewFloatVectorFromSlice(wData)
		if err := spode.Fit(x, y, featureNames, className, states, weightVec); err != nil {
			return nil, err
		}
		return spode, nil
	}

	if b.selectFeatures != "" {
		var selector featureselect.Selector
		switch b.selectFeatures {
		case "CFS":
			selector = &featureselect.CFSSelector{}
		case "FCBF":
			selector = &featureselect.FCBFSelector{Threshold: b.threshold}
		case "IWSS":
			selector = &featureselect.IWSSSelector{Threshold: b.threshold}
		}
		if err := selector.Fit(m, w); err != nil {
			return err
		}
		picked, err := selector.GetFeatures()
		if err != nil {
			return err
		}
		notes = append(notes, fmt.Sprintf("Used features in initialization: %d of %d with %s", len(picked), n, b.selectFeatures))
		for _, fi := range picked {
			spode, err := trainSPODE(fi, w)
			if err != nil {
				return err
			}
			preds, err := spode.Predict(x)
			if err != nil {
				return err
			}
			eps := weightedError(w, y, preds)
			alpha := alphaSAMME(eps, numClasses)
			b.AddModel(spode, alpha)
			updateBoostWeights(w, y, preds, alpha)
			selected[fi] = true
		}
	}

	tolerance := 0
	bestValAcc := -1.0

	for len(selected) < n {
		ascending := b.order == "asc"
		ranked, err := m.SelectKBestWeighted(w, ascending, 0)
		if err != nil {
			return err
		}
		var candidates []int
		for _, idx := range ranked {
			if !selected[idx] {
				candidates = append(candidates, idx)
			}
		}
		if len(candidates) == 0 {
			break
		}

		k := 1
		if b.bisection {
			k = 1 << uint(tolerance)
		}
		if k > len(candidates) {
			k = len(candidates)
		}
		pack := append([]int(nil), candidates[:k]...)
		if b.order == "rand" {
			rng.Shuffle(len(pack), func(i, j int) { pack[i], pack[j] = pack[j], pack[i] })
		}

		packAdded := 0
		flip := false
		var lastAlpha float64
		var lastPreds []int
		for _, fi := range pack {
			spode, err := trainSPODE(fi, w)
			if err != nil {
				return err
			}

			var preds []int
			if b.alphaBlock {
				b.AddModel(spode, 1.0)
				preds, err = b.Predict(x)
				b.PopModels(1)
			} else {
				preds, err = spode.Predict(x)
			}
			if err != nil {
				return err
			}

			eps := weightedError(w, y, preds)
			if eps > 0.5 {
				flip = true
				break
			}
			alpha := alphaSAMME(eps, numClasses)
			b.AddModel(spode, alpha)
			selected[fi] = true
			packAdded++
			lastAlpha, lastPreds = alpha, preds

			if !b.blockUpdate {
				updateBoostWeights(w, y, preds, alpha)
			}
		}
		if b.blockUpdate && packAdded > 0 {
			updateBoostWeights(w, y, lastPreds, lastAlpha)
		}

		if flip {
			break
		}

		if b.convergence && packAdded > 0 {
			valAcc, err := b.Score(x, y)
			if err != nil {
				return err
			}
			b.accuracyTrace = append(b.accuracyTrace, valAcc)
			if valAcc-bestValAcc < 1e-4 {
				tolerance++
			} else {
				tolerance = 0
			}
			if b.convergenceBest {
				if valAcc > bestValAcc {
					bestValAcc = valAcc
				}
			} else {
				bestValAcc = valAcc
			}
			if tolerance > b.maxTolerance {
				b.PopModels(packAdded)
				notes = append(notes, fmt.Sprintf("Convergence threshold reached & %d models eliminated", packAdded))
				break
			}
		}
	}

	notes = append(notes, fmt.Sprintf("Number of models: %d", b.NumModels()))
	b.notes = notes
	b.status = StatusNormal
	b.SetVoting(b.predictVoting)
	return nil
}

// GetNumFeatures returns the number of features BoostAODE was fit on.
func (b *BoostAODE) GetNumFeatures() int { return len(b.features) }

// GetNumNodes sums every sub-model's node count.
func (b *BoostAODE) GetNumNodes() int {
	total := 0
	for _, mod := range b.models {
		if s, ok := mod.(*SPODE); ok {
			total += s.GetNumNodes()
		}
	}
	return total
}

// GetNumEdges sums every sub-model's edge count.
func (b *BoostAODE) GetNumEdges() int {
	total := 0
	for _, mod := range b.models {
		if s, ok := mod.(*SPODE); ok {
			total += s.GetNumEdges()
		}
	}
	return total
}

// GetNumStates sums every sub-model's node cardinalities.
func (b *BoostAODE) GetNumStates() int {
	total := 0
	for _, mod := range b.models {
		if s, ok := mod.(*SPODE); ok {
			total += s.GetNumStates()
		}
	}
	return total
}

// GetClassNumStates returns the class node's cardinality.
func (b *BoostAODE) GetClassNumStates() int { return b.classNumStates }

// GetFeatures returns the feature names BoostAODE was fit on.
func (b *BoostAODE) GetFeatures() []string { return append([]string(nil), b.features...) }

// GetNotes returns the diagnostic notes accumulated while fitting:
// feature-selection outcome, models eliminated on convergence, and final
// model count.
func (b *BoostAODE) GetNotes() []string { return append([]string(nil), b.notes...) }

// GetRunID returns the unique identifier assigned to the most recent
// call to Fit, for correlating saved models with their diagnostic plots.
func (b *BoostAODE) GetRunID() string { return b.runID }

// AccuracyPlot renders the pack-by-pack training accuracy recorded
// during Fit to an HTML file (or a browser, per pd.Show) when the
// convergence hyperparameter was enabled; it is a no-op returning nil
// when no accuracy trace was recorded.
func (b *BoostAODE) AccuracyPlot(pd *PlotDef) error {
	if len(b.accuracyTrace) == 0 {
		return nil
	}
	fig := accuracyFigure(b.accuracyTrace)
	if pd.Title == "" {
		pd.Title = fmt.Sprintf("BoostAODE convergence (%s)", b.runID)
	}
	if pd.XTitle == "" {
		pd.XTitle = "pack"
	}
	if pd.YTitle == "" {
		pd.YTitle = "training accuracy"
	}
	return Plotter(fig, nil, pd)
}

// GetStatus reports the fit status.
func (b *BoostAODE) GetStatus() string { return b.status }

// GetVersion reports the library version.
func (b *BoostAODE) GetVersion() string { return Version }

// Show lists each sub-model's adjacency, prefixed by its root feature.
func (b *BoostAODE) Show() []string {
	var lines []string
	for _, mod := range b.models {
		s := mod.(*SPODE)
		lines = append(lines, "--- SPODE root="+b.features[s.Root()]+" ---")
		lines = append(lines, s.Show()...)
	}
	return lines
}

// Graph concatenates every sub-model's Graphviz description.
func (b *BoostAODE) Graph(title string) []string {
	var lines []string
	for _, mod := range b.models {
		s := mod.(*SPODE)
		lines = append(lines, s.Graph(title+" ("+b.features[s.Root()]+")")...)
	}
	return lines
}

// TopologicalOrder returns the first sub-model's topological order.
func (b *BoostAODE) TopologicalOrder() []string {
	if len(b.models) == 0 {
		return nil
	}
	return b.models[0].(*SPODE).TopologicalOrder()
}

// DumpCPT concatenates every sub-model's CPT dump.
func (b *BoostAODE) DumpCPT() string {
	out := ""
	for _, mod := range b.models {
		out += mod.(*SPODE).DumpCPT()
	}
	return out
}
