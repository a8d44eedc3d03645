package bayesnet

import "github.com/invertedv/bayesnet/internal/xtensor"

// TANLd, KDBLd, SPODELd, and AODELd pair a structure learner with local
// discretization: each continuous feature is binned, the classifier is
// fit, and every feature that acquired a non-class parent is rebinned
// against its parents' joint codes and refit, iterating until the
// learned structure stops changing. AODE has no single network to refine
// parent-stratified cuts against, so it runs discretization once,
// up front, with no refinement loop.

// TANLd is TAN with local discretization of continuous features.
type TANLd struct {
	proposal *Proposal[TAN, *TAN]
	model    *TAN
}

// NewTANLd returns a TANLd rooted at root, with default discretization
// hyperparameters.
func NewTANLd(root int) *TANLd {
	p := NewProposal[TAN, *TAN]()
	p.Configure = func(t *TAN) { t.root = root }
	return &TANLd{proposal: p}
}

// SetDiscretization configures the discretization algorithm and its
// hyperparameters; see Proposal's field docs.
func (t *TANLd) SetDiscretization(algorithm string, proposedCuts, mdlpMinLength, mdlpMaxDepth, maxIterations int, verbose bool) {
	t.proposal.LdAlgorithm = algorithm
	t.proposal.ProposedCuts = proposedCuts
	t.proposal.MdlpMinLength = mdlpMinLength
	t.proposal.MdlpMaxDepth = mdlpMaxDepth
	t.proposal.MaxIterations = maxIterations
	t.proposal.VerboseConvergence = verbose
}

// Fit runs iterative local discretization, then fits TAN's structure and
// parameters on the resulting bins. xCont holds the continuous feature
// values; states should omit entries for features that are to be
// discretized (a present, non-empty states entry marks a feature as
// already categorical).
func (t *TANLd) Fit(xCont *xtensor.FloatMatrix, y []int, featureNames []string, className string, states map[string][]int, weights *xtensor.FloatVector) error {
	model, err := t.proposal.Fit(xCont, y, featureNames, className, states, weights)
	if err != nil {
		return err
	}
	t.model = model
	return nil
}

// Classifier returns the fitted TAN model.
func (t *TANLd) Classifier() *TAN { return t.model }

// KDBLd is K-DB with local discretization of continuous features.
type KDBLd struct {
	proposal *Proposal[KDB, *KDB]
	model    *KDB
}

// NewKDBLd returns a KDBLd with the given max-parents k and conditional
// mutual information threshold theta, and default discretization
// hyperparameters.
func NewKDBLd(k int, theta float64) *KDBLd {
	p := NewProposal[KDB, *KDB]()
	p.Configure = func(m *KDB) { m.k, m.theta = k, theta }
	return &KDBLd{proposal: p}
}

// SetDiscretization configures the discretization algorithm and its
// hyperparameters; see Proposal's field docs.
func (k *KDBLd) SetDiscretization(algorithm string, proposedCuts, mdlpMinLength, mdlpMaxDepth, maxIterations int, verbose bool) {
	k.proposal.LdAlgorithm = algorithm
	k.proposal.ProposedCuts = proposedCuts
	k.proposal.MdlpMinLength = mdlpMinLength
	k.proposal.MdlpMaxDepth = mdlpMaxDepth
	k.proposal.MaxIterations = maxIterations
	k.proposal.VerboseConvergence = verbose
}

// Fit runs iterative local discretization, then fits K-DB's structure and
// parameters on the resulting bins.
func (k *KDBLd) Fit(xCont *xtensor.FloatMatrix, y []int, featureNames []string, className string, states map[string][]int, weights *xtensor.FloatVector) error {
	model, err := k.proposal.Fit(xCont, y, featureNames, className, states, weights)
	if err != nil {
		return err
	}
	k.model = model
	return nil
}

// Classifier returns the fitted KDB model.
func (k *KDBLd) Classifier() *KDB { return k.model }

// SPODELd is SPODE with local discretization of continuous features.
type SPODELd struct {
	proposal *Proposal[SPODE, *SPODE]
	model    *SPODE
}

// NewSPODELd returns a SPODELd rooted at root, with default discretization
// hyperparameters.
func NewSPODELd(root int) *SPODELd {
	p := NewProposal[SPODE, *SPODE]()
	p.Configure = func(m *SPODE) { m.root = root }
	return &SPODELd{proposal: p}
}

// SetDiscretization configures the discretization algorithm and its
// hyperparameters; see Proposal's field docs.
func (s *SPODELd) SetDiscretization(algorithm string, proposedCuts, mdlpMinLength, mdlpMaxDepth, maxIterations int, verbose bool) {
	s.proposal.LdAlgorithm = algorithm
	s.proposal.ProposedCuts = proposedCuts
	s.proposal.MdlpMinLength = mdlpMinLength
	s.proposal.MdlpMaxDepth = mdlpMaxDepth
	s.proposal.MaxIterations = maxIterations
	s.proposal.VerboseConvergence = verbose
}

// Fit runs iterative local discretization, then fits SPODE's structure
// and parameters on the resulting bins.
func (s *SPODELd) Fit(xCont *xtensor.FloatMatrix, y []int, featureNames []string, className string, states map[string][]int, weights *xtensor.FloatVector) error {
	model, err := s.proposal.Fit(xCont, y, featureNames, className, states, weights)
	if err != nil {
		return err
	}
	s.model = model
	return nil
}

// Classifier returns the fitted SPODE model.
func (s *SPODELd) Classifier() *SPODE { return s.model }

// AODELd is AODE with local discretization of continuous features. AODE
// is an ensemble of SPODEs with no single network to refine cuts
// against, so it discretizes once, up front, using the class label only,
// and fits the ensemble on the resulting bins.
type AODELd struct {
	LdAlgorithm   string
	ProposedCuts  int
	MdlpMinLength int
	MdlpMaxDepth  int
	model         *AODE
}

// NewAODELd returns an AODELd with default discretization hyperparameters.
func NewAODELd() *AODELd {
	return &AODELd{LdAlgorithm: "MDLP", ProposedCuts: 5}
}

// Fit discretizes every continuous feature against the class label, then
// fits an AODE ensemble on the resulting bins.
func (a *AODELd) Fit(xCont *xtensor.FloatMatrix, y []int, featureNames []string, className string, states map[string][]int, weights *xtensor.FloatVector) error {
	pX, pStates, err := discretizeOnce(xCont, y, featureNames, states, a.LdAlgorithm, a.ProposedCuts, a.MdlpMinLength, a.MdlpMaxDepth)
	if err != nil {
		return err
	}

	model := NewAODE()
	if err := model.Fit(pX, y, featureNames, className, pStates, weights); err != nil {
		return err
	}
	a.model = model
	return nil
}

// Classifier returns the fitted AODE model.
func (a *AODELd) Classifier() *AODE { return a.model }
