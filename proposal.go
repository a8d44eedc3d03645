package bayesnet

import (
	"fmt"

	"github.com/invertedv/bayesnet/discretize"
	"github.com/invertedv/bayesnet/internal/xtensor"
)

// NetworkClassifier is the subset of structure learners the local
// discretization proposal can drive: any BaseClassifier that also exposes
// its underlying Network, class name, and fitted states, which rules out
// the ensemble classifiers (AODE, BoostAODE have no single Network to
// inspect parent structure on).
type NetworkClassifier interface {
	BaseClassifier
	GetNetwork() *Network
	ClassName() string
	States() map[string][]int

	// init resets the classifier to a freshly constructed state, since
	// Proposal builds each refit candidate with new(C), which leaves the
	// embedded *Classifier nil.
	init()
}

// Proposal drives iterative local discretization for a single structure
// learner C (NaiveBayes, TAN, KDB, or SPODE): it fits an initial
// per-feature discretization, fits C on the result, then refines every
// discretized feature that gained a parent in C's learned structure,
// using the parent's values to stratify the refit, until C's topology
// stops changing or MaxIterations is reached.
//
// C is a struct type (e.g. TAN) and PC = *C must implement
// NetworkClassifier; this is the Go generics realization of what the
// reference model expressed as an explicit per-classifier template
// instantiation (KDBLd, TANLd, SPODELd), generalized to any qualifying
// structure learner rather than a fixed enumeration of three.
type Proposal[C any, PC interface {
	*C
	NetworkClassifier
}] struct {
	LdAlgorithm        string // "MDLP" (default), "BINQ", "BINU"
	ProposedCuts       int    // bin count for BINQ/BINU; ignored by MDLP
	MdlpMinLength      int
	MdlpMaxDepth       int
	MaxIterations      int // default 10
	VerboseConvergence bool

	// Configure, if set, runs against each freshly constructed model
	// before it is fit, for hyperparameters (SPODE's root, TAN's root,
	// K-DB's k/theta) that must be set before Fit is called rather than
	// through SetHyperparameters.
	Configure func(PC)
}

// NewProposal returns a Proposal with its default hyperparameters.
func NewProposal[C any, PC interface {
	*C
	NetworkClassifier
}]() *Proposal[C, PC] {
	return &Proposal[C, PC]{LdAlgorithm: "MDLP", ProposedCuts: 5, MaxIterations: 10}
}

func (p *Proposal[C, PC]) newDiscretizer() discretize.Discretizer {
	return newDiscretizerOf(p.LdAlgorithm, p.ProposedCuts, p.MdlpMinLength, p.MdlpMaxDepth)
}

func newDiscretizerOf(algorithm string, proposedCuts, mdlpMinLength, mdlpMaxDepth int) discretize.Discretizer {
	switch algorithm {
	case "BINQ":
		return &discretize.BinQ{N: proposedCuts}
	case "BINU":
		return &discretize.BinU{N: proposedCuts}
	default:
		return &discretize.MDLP{MinLength: mdlpMinLength, MaxDepth: mdlpMaxDepth}
	}
}

// discretizeOnce bins every continuous feature (one without a non-empty
// states entry) against the class label y, with no parent-stratified
// refinement. AODELd uses this directly since AODE has no single network
// whose learned parents could drive a refinement pass.
func discretizeOnce(xCont *xtensor.FloatMatrix, y []int, featureNames []string, states map[string][]int, algorithm string, proposedCuts, mdlpMinLength, mdlpMaxDepth int) (*xtensor.IntMatrix, map[string][]int, error) {
	nFeatures, nSamples := xCont.Dims()
	if nFeatures != len(featureNames) {
		return nil, nil, Wrapperf(ErrInvalidArgument, "xCont has %d feature rows but %d feature names were given", nFeatures, len(featureNames))
	}
	pDataset := xtensor.NewIntMatrix(nFeatures, nSamples)
	workingStates := make(map[string][]int, len(states))
	for k, v := range states {
		workingStates[k] = v
	}
	for i, f := range featureNames {
		row := xCont.Row(i)
		if len(states[f]) != 0 {
			for s, v := range row {
				pDataset.Set(i, s, int(v))
			}
			continue
		}
		d := newDiscretizerOf(algorithm, proposedCuts, mdlpMinLength, mdlpMaxDepth)
		if err := d.Fit(row, y); err != nil {
			return nil, nil, Wrapperf(ErrRuntimeError, "discretizing feature %q: %v", f, err)
		}
		codes, err := d.Transform(row)
		if err != nil {
			return nil, nil, err
		}
		for s, c := range codes {
			pDataset.Set(i, s, c)
		}
		workingStates[f] = codeRange(codes)
	}
	return pDataset, workingStates, nil
}

// Fit runs the iterative local discretization algorithm over xCont (a
// dense n_features x n_samples continuous matrix) and integer labels y,
// returning the fitted structure learner. A feature whose states entry is
// already non-empty is treated as categorical and copied through
// (converted to an integer by truncation) rather than discretized.
func (p *Proposal[C, PC]) Fit(xCont *xtensor.FloatMatrix, y []int, featureNames []string, className string, states map[string][]int, weights *xtensor.FloatVector) (PC, error) {
	maxIter := p.MaxIterations
	if maxIter <= 0 {
		maxIter = 10
	}
	nFeatures := len(featureNames)
	continuous := make([]bool, nFeatures)
	for i, f := range featureNames {
		continuous[i] = len(states[f]) == 0
	}

	pDataset, workingStates, err0 := discretizeOnce(xCont, y, featureNames, states, p.LdAlgorithm, p.ProposedCuts, p.MdlpMinLength, p.MdlpMaxDepth)
	if err0 != nil {
		return nil, err0
	}

	pX := pDataset
	fitOne := func() (PC, error) {
		model := PC(new(C))
		model.init()
		if p.Configure != nil {
			p.Configure(model)
		}
		if err := model.Fit(pX, y, featureNames, className, workingStates, weights); err != nil {
			return nil, err
		}
		return model, nil
	}

	model, err := fitOne()
	if err != nil {
		return nil, err
	}
	prevNet := model.GetNetwork().Clone()

	for iter := 0; iter < maxIter; iter++ {
		changed := false
		for i, f := range featureNames {
			if !continuous[i] {
				continue
			}
			node := model.GetNetwork().GetNode(f)
			var parentCodes [][]int
			for _, parent := range node.Parents() {
				if parent.Name() == className {
					continue
				}
				parentCodes = append(parentCodes, pDataset.Row(indexOfFeature(featureNames, parent.Name())))
			}
			if len(parentCodes) == 0 {
				continue
			}

			stratified := factorizeLabel(y, parentCodes)
			row := xCont.Row(i)
			d := p.newDiscretizer()
			if err := d.Fit(row, stratified); err != nil {
				return nil, Wrapperf(ErrRuntimeError, "refining feature %q: %v", f, err)
			}
			codes, err := d.Transform(row)
			if err != nil {
				return nil, err
			}
			for s, c := range codes {
				pDataset.Set(i, s, c)
			}
			workingStates[f] = codeRange(codes)
			changed = true
		}

		if !changed {
			break
		}

		model, err = fitOne()
		if err != nil {
			return nil, err
		}
		newNet := model.GetNetwork()
		converged := newNet.Equal(prevNet)
		if p.VerboseConvergence {
			fmt.Printf("local discretization iteration %d: converged=%v\n", iter+1, converged)
		}
		if converged {
			break
		}
		prevNet = newNet.Clone()
	}

	return model, nil
}

func indexOfFeature(featureNames []string, name string) int {
	for i, f := range featureNames {
		if f == name {
			return i
		}
	}
	return -1
}

func codeRange(codes []int) []int {
	maxV := 0
	for _, c := range codes {
		if c > maxV {
			maxV = c
		}
	}
	out := make([]int, maxV+1)
	for i := range out {
		out[i] = i
	}
	return out
}

// factorizeLabel concatenates the class label with one or more parent
// code rows into a single integer label (base-31 positional, so codes
// need not be contiguous), used to stratify a
// discretizer refit by the network's learned parent structure.
func factorizeLabel(y []int, parentCodes [][]int) []int {
	out := make([]int, len(y))
	for s := range y {
		code := y[s]
		for _, row := range parentCodes {
			code = code*31 + row[s]
		}
		out[s] = code
	}
	return out
}
