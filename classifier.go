package bayesnet

import (
	"encoding/json"
	"sort"

	"github.com/invertedv/bayesnet/internal/xtensor"
)

// BaseClassifier is the shared contract every structure learner (naive
// Bayes, TAN, K-DB, SPODE, AODE, BoostAODE) and every local-discretization
// wrapper satisfies.
type BaseClassifier interface {
	// Fit trains the classifier on a dense feature matrix, integer labels,
	// feature names, the class variable's name, each feature's (and the
	// class's) state list, and optional per-sample weights (nil means
	// uniform).
	Fit(x *xtensor.IntMatrix, y []int, featureNames []string, className string, states map[string][]int, weights *xtensor.FloatVector) error

	Predict(x *xtensor.IntMatrix) ([]int, error)
	PredictProba(x *xtensor.IntMatrix) (*xtensor.FloatMatrix, error)
	Score(x *xtensor.IntMatrix, y []int) (float64, error)

	GetNumFeatures() int
	GetNumEdges() int
	GetNumStates() int
	GetNumNodes() int
	GetClassNumStates() int
	GetFeatures() []string
	GetNotes() []string
	GetStatus() string
	GetVersion() string

	Show() []string
	Graph(title string) []string
	TopologicalOrder() []string
	DumpCPT() string

	SetHyperparameters(params map[string]any) error
	GetValidHyperparameters() []string
}

// Fit status, reported by GetStatus.
const (
	StatusNormal            = "NORMAL"
	StatusWarning           = "WARNING"
	StatusOptimized         = "OPTIMIZED"
	StatusFeatureSelection  = "FEATURE_SELECTION"
	StatusNotFitted         = "NOT_FITTED"
)

// Classifier provides the fields and fit/build machinery shared by every
// concrete structure learner: Network ownership, fit-parameter
// bookkeeping, diagnostic notes, and default uniform weighting. Concrete
// learners embed it and supply their own Fit, which builds the structure
// and then fits the Network.
type Classifier struct {
	Net          *Network
	features     []string
	className    string
	states       map[string][]int
	smoothing    Smoothing
	notes        []string
	status       string
	hyperparams  map[string]any
}

// NewClassifier returns a Classifier with an empty, uninitialized network.
func NewClassifier() *Classifier {
	return &Classifier{Net: NewNetwork(), status: StatusNotFitted, smoothing: SmoothingLaplace}
}

func (c *Classifier) addNote(note string) { c.notes = append(c.notes, note) }

// checkFitParameters validates shapes shared by every classifier before
// structure learning begins.
func (c *Classifier) checkFitParameters(x *xtensor.IntMatrix, y []int, featureNames []string, states map[string][]int) error {
	rows, cols := x.Dims()
	if rows != len(featureNames) {
		return Wrapperf(ErrInvalidArgument, "X has %d feature rows but %d feature names were given", rows, len(featureNames))
	}
	if cols != len(y) {
		return Wrapperf(ErrInvalidArgument, "X has %d samples but y has %d labels", cols, len(y))
	}
	for _, f := range featureNames {
		if _, ok := states[f]; !ok {
			return Wrapperf(ErrInvalidArgument, "feature %q is missing from states", f)
		}
	}
	if len(featureNames) == 0 {
		return Wrapper(ErrInvalidArgument, "no features given")
	}
	return nil
}

// defaultWeights returns uniform per-sample weights when weights is nil.
func defaultWeights(weights *xtensor.FloatVector, n int) *xtensor.FloatVector {
	if weights != nil {
		return weights
	}
	return xtensor.NewUniformWeights(n)
}

// buildDataset assembles the shared (n_features+1) x n_samples sample
// matrix bayesnet.Network.Fit expects, appending y as the class row, and
// records the feature/class bookkeeping on the Classifier.
func (c *Classifier) buildDataset(x *xtensor.IntMatrix, y []int, featureNames []string, states map[string][]int, className string) *xtensor.IntMatrix {
	c.features = append([]string(nil), featureNames...)
	c.className = className
	classStates := make([]int, 0)
	seen := map[int]bool{}
	for _, v := range y {
		if !seen[v] {
			seen[v] = true
			classStates = append(classStates, v)
		}
	}
	sort.Ints(classStates)
	c.states = make(map[string][]int, len(states)+1)
	for k, v := range states {
		c.states[k] = v
	}
	c.states[className] = classStates
	return x.AppendRow(y)
}

// Predict delegates to the underlying Network, translating the dense
// feature matrix into per-feature rows.
func (c *Classifier) Predict(x *xtensor.IntMatrix) ([]int, error) {
	return c.Net.Predict(matrixToFeatureRows(x))
}

// PredictProba delegates to the underlying Network.
func (c *Classifier) PredictProba(x *xtensor.IntMatrix) (*xtensor.FloatMatrix, error) {
	return c.Net.PredictTensor(x, true)
}

// Score delegates to the underlying Network.
func (c *Classifier) Score(x *xtensor.IntMatrix, y []int) (float64, error) {
	return c.Net.Score(matrixToFeatureRows(x), y)
}

func matrixToFeatureRows(x *xtensor.IntMatrix) [][]int {
	rows, _ := x.Dims()
	out := make([][]int, rows)
	for i := 0; i < rows; i++ {
		out[i] = x.Row(i)
	}
	return out
}

// GetNumFeatures returns the number of non-class features.
func (c *Classifier) GetNumFeatures() int { return len(c.features) }

// GetNumEdges returns the number of directed edges in the network.
func (c *Classifier) GetNumEdges() int { return c.Net.GetNumEdges() }

// GetNumStates returns the sum of every node's cardinality.
func (c *Classifier) GetNumStates() int { return c.Net.GetStates() }

// GetNumNodes returns the number of nodes (features plus class).
func (c *Classifier) GetNumNodes() int { return len(c.Net.Features()) }

// GetClassNumStates returns the class node's cardinality.
func (c *Classifier) GetClassNumStates() int { return c.Net.ClassNumStates() }

// GetFeatures returns the feature names, excluding the class.
func (c *Classifier) GetFeatures() []string { return append([]string(nil), c.features...) }

// GetNotes returns the diagnostic notes accumulated while fitting.
func (c *Classifier) GetNotes() []string { return append([]string(nil), c.notes...) }

// GetStatus reports the fit status.
func (c *Classifier) GetStatus() string { return c.status }

// GetVersion reports the library version.
func (c *Classifier) GetVersion() string { return Version }

// Show delegates to the underlying Network.
func (c *Classifier) Show() []string { return c.Net.Show() }

// Graph delegates to the underlying Network.
func (c *Classifier) Graph(title string) []string { return c.Net.Graph(title) }

// TopologicalOrder delegates to the underlying Network.
func (c *Classifier) TopologicalOrder() []string { return c.Net.TopologicalSort() }

// DumpCPT delegates to the underlying Network.
func (c *Classifier) DumpCPT() string { return c.Net.DumpCPT() }

// GetNetwork returns the underlying Network, for callers (the local
// discretization proposal) that need to inspect its parent structure
// directly rather than through the BaseClassifier surface.
func (c *Classifier) GetNetwork() *Network { return c.Net }

// ClassName returns the class variable's name.
func (c *Classifier) ClassName() string { return c.className }

// States returns the fitted variable -> legal-codes map, including the
// class.
func (c *Classifier) States() map[string][]int { return c.states }

// decodeHyperparameters unmarshals params into target via a JSON
// round-trip. Keys with no matching field in target are ignored, and
// params itself is left unchanged.
func decodeHyperparameters(params map[string]any, target any) error {
	raw, err := json.Marshal(params)
	if err != nil {
		return Wrapperf(ErrInvalidArgument, "hyperparameters could not be marshaled: %v", err)
	}
	if err := json.Unmarshal(raw, target); err != nil {
		return Wrapperf(ErrInvalidArgument, "hyperparameters could not be decoded: %v", err)
	}
	return nil
}

func unknownHyperparameters(params map[string]any, valid []string) error {
	validSet := make(map[string]bool, len(valid))
	for _, v := range valid {
		validSet[v] = true
	}
	var bad []string
	for k := range params {
		if !validSet[k] {
			bad = append(bad, k)
		}
	}
	if len(bad) > 0 {
		sort.Strings(bad)
		return Wrapperf(ErrInvalidArgument, "unknown hyperparameters: %v", bad)
	}
	return nil
}
