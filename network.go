package bayesnet

import (
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/invertedv/bayesnet/internal/xtensor"
)

// Edge is a directed (parent, child) edge between two node names.
type Edge struct {
	Parent string
	Child  string
}

// Network is a DAG of Nodes plus the shared sample matrix, fit in parallel
// and queried by exact inference. Nodes are owned by the Network; parent
// and child pointers are reattached by name lookup on every copy, never
// aliased across instances.
type Network struct {
	features       []string // insertion order, ends with className after fit
	className      string
	classNumStates int
	nodes          map[string]*Node
	samples        *xtensor.IntMatrix
	fitted         bool
}

// NewNetwork returns an empty network, ready for addNode/addEdge.
func NewNetwork() *Network {
	return &Network{nodes: make(map[string]*Node)}
}

// Initialize resets the network to its just-constructed, empty state.
func (net *Network) Initialize() {
	net.features = nil
	net.className = ""
	net.classNumStates = 0
	net.nodes = make(map[string]*Node)
	net.samples = nil
	net.fitted = false
}

// Fitted reports whether the network has been fit.
func (net *Network) Fitted() bool { return net.fitted }

// Features returns the insertion-ordered feature list (including the class
// name, once fit).
func (net *Network) Features() []string {
	out := make([]string, len(net.features))
	copy(out, net.features)
	return out
}

// ClassName returns the class node's name.
func (net *Network) ClassName() string { return net.className }

// ClassNumStates returns the class node's cardinality.
func (net *Network) ClassNumStates() int { return net.classNumStates }

// GetNode returns the node with the given name, or nil.
func (net *Network) GetNode(name string) *Node { return net.nodes[name] }

// Nodes returns the name -> Node map. Callers must not mutate it directly.
func (net *Network) Nodes() map[string]*Node { return net.nodes }

// AddNode creates an empty node with the given name. Fails if the network
// is already fit or the name is empty; a duplicate name is a silent no-op,
// matching the reference implementation.
func (net *Network) AddNode(name string) error {
	if net.fitted {
		return Wrapper(ErrInvalidArgument, "cannot add node to a fitted network; call Initialize first")
	}
	if name == "" {
		return Wrapper(ErrInvalidArgument, "node name cannot be empty")
	}
	if _, exists := net.nodes[name]; exists {
		return nil
	}
	net.features = append(net.features, name)
	net.nodes[name] = NewNode(name)
	return nil
}

// AddEdge attaches parent -> child. Fails if the network is fit, either
// endpoint is missing, the edge already exists, or adding it would close a
// cycle (the candidate edge is inserted, checked by DFS, and rolled back on
// failure, per the transactional insertion the reference model uses).
func (net *Network) AddEdge(parent, child string) error {
	if net.fitted {
		return Wrapper(ErrInvalidArgument, "cannot add edge to a fitted network; call Initialize first")
	}
	pNode, ok := net.nodes[parent]
	if !ok {
		return Wrapperf(ErrInvalidArgument, "parent node %q does not exist", parent)
	}
	cNode, ok := net.nodes[child]
	if !ok {
		return Wrapperf(ErrInvalidArgument, "child node %q does not exist", child)
	}
	for _, existing := range pNode.children {
		if existing.name == child {
			return Wrapperf(ErrInvalidArgument, "edge %s -> %s already exists", parent, child)
		}
	}

	pNode.addChild(cNode)
	cNode.addParent(pNode)
	if net.isCyclicFrom(child) {
		pNode.removeChild(cNode)
		cNode.removeParent(pNode)
		return Wrapper(ErrInvalidArgument, "adding this edge forms a cycle in the graph")
	}
	return nil
}

// isCyclicFrom runs a DFS from nodeName with a global visited set and a
// recursion stack, reporting whether a cycle is reachable.
func (net *Network) isCyclicFrom(nodeName string) bool {
	visited := make(map[string]bool)
	recStack := make(map[string]bool)
	var dfs func(string) bool
	dfs = func(name string) bool {
		if visited[name] {
			return false
		}
		visited[name] = true
		recStack[name] = true
		for _, child := range net.nodes[name].children {
			if !visited[child.name] && dfs(child.name) {
				return true
			}
			if recStack[child.name] {
				return true
			}
		}
		recStack[name] = false
		return false
	}
	return dfs(nodeName)
}

// checkFitData validates the inputs to fit before mutating any state.
func (net *Network) checkFitData(nSamples, nFeatures, nSamplesY int, featureNames []string, className string, states map[string][]int, weights *xtensor.FloatVector) error {
	if weights.Len() != nSamples {
		return Wrapperf(ErrInvalidArgument, "weights (%d) must match sample count (%d)", weights.Len(), nSamples)
	}
	if nSamples != nSamplesY {
		return Wrapperf(ErrInvalidArgument, "X and y must have the same number of samples (%d != %d)", nSamples, nSamplesY)
	}
	if nFeatures != len(featureNames) {
		return Wrapperf(ErrInvalidArgument, "X and features must have the same number of features (%d != %d)", nFeatures, len(featureNames))
	}
	if len(net.features) == 0 {
		return Wrapper(ErrInvalidArgument, "the network has not been initialized; call AddNode before Fit")
	}
	if nFeatures != len(net.features)-1 {
		return Wrapperf(ErrInvalidArgument, "X and network features must have the same number of features (%d != %d)", nFeatures, len(net.features)-1)
	}
	if !contains(net.features, className) {
		return Wrapper(ErrInvalidArgument, "class name not found in network features")
	}
	for _, f := range featureNames {
		if !contains(net.features, f) {
			return Wrapperf(ErrInvalidArgument, "feature %q not found in network features", f)
		}
		if _, ok := states[f]; !ok {
			return Wrapperf(ErrInvalidArgument, "feature %q not found in states", f)
		}
	}
	return nil
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}

// setStates assigns each node's cardinality from states.
func (net *Network) setStates(states map[string][]int) {
	for _, f := range net.features {
		net.nodes[f].SetNumStates(len(states[f]))
	}
	net.classNumStates = net.nodes[net.className].NumStates()
}

// Fit estimates the network's CPTs from a dense (n_features+1, n_samples)
// sample matrix and per-sample weights.
func (net *Network) Fit(samples *xtensor.IntMatrix, weights *xtensor.FloatVector, featureNames []string, className string, states map[string][]int, smoothing Smoothing) error {
	rows, cols := samples.Dims()
	if err := net.checkFitData(cols, rows-1, cols, featureNames, className, states, weights); err != nil {
		return err
	}
	net.className = className
	net.samples = samples
	return net.completeFit(states, weights, smoothing)
}

// FitXY estimates the network's CPTs from a (n_features, n_samples) feature
// matrix, an (n_samples)-length label row, and per-sample weights.
func (net *Network) FitXY(x *xtensor.IntMatrix, y []int, weights *xtensor.FloatVector, featureNames []string, className string, states map[string][]int, smoothing Smoothing) error {
	if err := net.checkFitData(x.Cols(), x.Rows(), len(y), featureNames, className, states, weights); err != nil {
		return err
	}
	net.className = className
	net.samples = x.AppendRow(y)
	return net.completeFit(states, weights, smoothing)
}

func (net *Network) completeFit(states map[string][]int, weights *xtensor.FloatVector, smoothing Smoothing) error {
	net.setStates(states)

	sem := sharedSemaphore()
	var wg sync.WaitGroup
	for _, name := range net.features {
		node := net.nodes[name]
		sem.acquire()
		wg.Add(1)
		go func(node *Node) {
			defer wg.Done()
			defer sem.release()
			factor := smoothing.factor(net.samples.Cols(), node.NumStates())
			node.computeCPT(net.samples, net.features, factor, weights)
		}(node)
	}
	wg.Wait()
	net.fitted = true
	return nil
}

// PredictSample computes P(class | evidence), normalized to sum to 1, by
// exact inference: the product of every node's factor value, evaluated at
// each candidate class value.
func (net *Network) PredictSample(evidence map[string]int) []float64 {
	result := make([]float64, net.classNumStates)
	complete := make(map[string]int, len(evidence)+1)
	for k, v := range evidence {
		complete[k] = v
	}
	for c := 0; c < net.classNumStates; c++ {
		complete[net.className] = c
		partial := 1.0
		for _, name := range net.features {
			partial *= net.nodes[name].GetFactorValue(complete)
		}
		result[c] = partial
	}
	sum := 0.0
	for _, v := range result {
		sum += v
	}
	if sum != 0 {
		for i := range result {
			result[i] /= sum
		}
	}
	return result
}

func (net *Network) evidenceFromRow(row []int) map[string]int {
	evidence := make(map[string]int, len(row))
	for i, v := range row {
		evidence[net.features[i]] = v
	}
	return evidence
}

// PredictTensor runs exact inference over every column of samples (an
// n_features x n_samples matrix), returning either the full probability
// matrix (proba=true) or the argmax class per sample (proba=false, one
// column). Workers are bounded by the shared counting semaphore; each
// writes a disjoint row of the result so the mutex exists only to satisfy
// the result matrix's aliasing contract.
func (net *Network) PredictTensor(samples *xtensor.IntMatrix, proba bool) (*xtensor.FloatMatrix, error) {
	if !net.fitted {
		return nil, Wrapper(ErrLogicError, "you must call Fit before Predict")
	}
	rows, cols := samples.Dims()
	if rows != len(net.features)-1 {
		return nil, Wrapperf(ErrInvalidArgument, "sample size (%d) does not match the number of features (%d)", rows, len(net.features)-1)
	}

	result := xtensor.NewFloatMatrix(cols, net.classNumStates)
	var mtx sync.Mutex
	sem := sharedSemaphore()
	var wg sync.WaitGroup
	for i := 0; i < cols; i++ {
		col := make([]int, rows)
		for r := 0; r < rows; r++ {
			col[r] = samples.At(r, i)
		}
		sem.acquire()
		wg.Add(1)
		go func(i int, col []int) {
			defer wg.Done()
			defer sem.release()
			proba := net.PredictSample(net.evidenceFromRow(col))
			mtx.Lock()
			for c, p := range proba {
				result.Set(i, c, p)
			}
			mtx.Unlock()
		}(i, col)
	}
	wg.Wait()

	if proba {
		return result, nil
	}
	argmax := xtensor.NewFloatMatrix(cols, 1)
	for i := 0; i < cols; i++ {
		best, bestVal := 0, result.At(i, 0)
		for c := 1; c < net.classNumStates; c++ {
			if v := result.At(i, c); v > bestVal {
				best, bestVal = c, v
			}
		}
		argmax.Set(i, 0, float64(best))
	}
	return argmax, nil
}

// Predict returns the predicted class for each of the m samples in
// tsamples (an n_features x m slice-of-slices, feature-major).
func (net *Network) Predict(tsamples [][]int) ([]int, error) {
	if !net.fitted {
		return nil, Wrapper(ErrLogicError, "you must call Fit before Predict")
	}
	if len(tsamples) != len(net.features)-1 {
		return nil, Wrapperf(ErrInvalidArgument, "sample size (%d) does not match the number of features (%d)", len(tsamples), len(net.features)-1)
	}
	m := len(tsamples[0])
	predictions := make([]int, m)
	sem := sharedSemaphore()
	var wg sync.WaitGroup
	for row := 0; row < m; row++ {
		sample := make([]int, len(tsamples))
		for col := range tsamples {
			sample[col] = tsamples[col][row]
		}
		sem.acquire()
		wg.Add(1)
		go func(row int, sample []int) {
			defer wg.Done()
			defer sem.release()
			proba := net.PredictSample(net.evidenceFromRow(sample))
			best, bestVal := 0, proba[0]
			for c := 1; c < len(proba); c++ {
				if proba[c] > bestVal {
					best, bestVal = c, proba[c]
				}
			}
			predictions[row] = best
		}(row, sample)
	}
	wg.Wait()
	return predictions, nil
}

// PredictProbaVec returns the class-probability vector for each of the m
// samples in tsamples (an n_features x m slice-of-slices, feature-major).
func (net *Network) PredictProbaVec(tsamples [][]int) ([][]float64, error) {
	if !net.fitted {
		return nil, Wrapper(ErrLogicError, "you must call Fit before PredictProba")
	}
	if len(tsamples) != len(net.features)-1 {
		return nil, Wrapperf(ErrInvalidArgument, "sample size (%d) does not match the number of features (%d)", len(tsamples), len(net.features)-1)
	}
	m := len(tsamples[0])
	predictions := make([][]float64, m)
	sem := sharedSemaphore()
	var wg sync.WaitGroup
	for row := 0; row < m; row++ {
		sample := make([]int, len(tsamples))
		for col := range tsamples {
			sample[col] = tsamples[col][row]
		}
		sem.acquire()
		wg.Add(1)
		go func(row int, sample []int) {
			defer wg.Done()
			defer sem.release()
			predictions[row] = net.PredictSample(net.evidenceFromRow(sample))
		}(row, sample)
	}
	wg.Wait()
	return predictions, nil
}

// Score returns accuracy: mean(Predict(tsamples) == labels).
func (net *Network) Score(tsamples [][]int, labels []int) (float64, error) {
	preds, err := net.Predict(tsamples)
	if err != nil {
		return 0, err
	}
	correct := 0
	for i, p := range preds {
		if p == labels[i] {
			correct++
		}
	}
	return float64(correct) / float64(len(preds)), nil
}

// TopologicalSort returns the features (excluding the class) ordered so
// every parent precedes its children, via repeated-pass correction:
// whenever a feature's parent appears after it, the parent is moved just
// before it; the pass repeats until a full scan makes no change.
func (net *Network) TopologicalSort() []string {
	result := make([]string, 0, len(net.features))
	for _, f := range net.features {
		if f != net.className {
			result = append(result, f)
		}
	}
	indexOf := func(name string) int {
		for i, v := range result {
			if v == name {
				return i
			}
		}
		return -1
	}
	for {
		changed := false
		for _, feature := range net.features {
			if feature == net.className {
				continue
			}
			for _, parent := range net.nodes[feature].Parents() {
				if parent.Name() == net.className {
					continue
				}
				pi := indexOf(parent.Name())
				fi := indexOf(feature)
				if pi == -1 || fi == -1 {
					continue
				}
				if fi-pi < 0 {
					// parent sits after feature: move it just before.
					result = append(result[:pi], result[pi+1:]...)
					fi = indexOf(feature)
					result = append(result[:fi], append([]string{parent.Name()}, result[fi:]...)...)
					changed = true
				}
			}
		}
		if !changed {
			break
		}
	}
	return result
}

// GetEdges returns every directed edge in the network.
func (net *Network) GetEdges() []Edge {
	var edges []Edge
	for _, name := range net.features {
		for _, c := range net.nodes[name].Children() {
			edges = append(edges, Edge{Parent: name, Child: c.Name()})
		}
	}
	return edges
}

// GetNumEdges returns the number of directed edges in the network.
func (net *Network) GetNumEdges() int { return len(net.GetEdges()) }

// GetStates returns the sum of every node's cardinality.
func (net *Network) GetStates() int {
	total := 0
	for _, n := range net.nodes {
		total += n.NumStates()
	}
	return total
}

// Show returns "node -> child, child, ..." lines for every node.
func (net *Network) Show() []string {
	names := make([]string, 0, len(net.nodes))
	for name := range net.nodes {
		names = append(names, name)
	}
	sort.Strings(names)
	lines := make([]string, 0, len(names))
	for _, name := range names {
		children := make([]string, 0, len(net.nodes[name].Children()))
		for _, c := range net.nodes[name].Children() {
			children = append(children, c.Name())
		}
		lines = append(lines, name+" -> "+strings.Join(children, ", "))
	}
	return lines
}

// DumpCPT returns a textual dump of every node's CPT tensor.
func (net *Network) DumpCPT() string {
	names := make([]string, 0, len(net.nodes))
	for name := range net.nodes {
		names = append(names, name)
	}
	sort.Strings(names)
	var b strings.Builder
	for _, name := range names {
		n := net.nodes[name]
		b.WriteString("* " + name + ": (" + strconv.Itoa(n.NumStates()) + ")")
		if n.CPT() != nil {
			b.WriteString(" : " + n.CPT().String())
		}
		b.WriteString("\n")
	}
	return b.String()
}

// Equal compares topology only: same node-name set and same unordered edge
// set (the `==` operator of the reference model).
func (net *Network) Equal(other *Network) bool {
	if other == nil {
		return false
	}
	if len(net.nodes) != len(other.nodes) {
		return false
	}
	for name := range net.nodes {
		if _, ok := other.nodes[name]; !ok {
			return false
		}
	}
	mine, theirs := net.GetEdges(), other.GetEdges()
	if len(mine) != len(theirs) {
		return false
	}
	toSet := func(edges []Edge) map[Edge]bool {
		s := make(map[Edge]bool, len(edges))
		for _, e := range edges {
			s[e] = true
		}
		return s
	}
	mySet, theirSet := toSet(mine), toSet(theirs)
	for e := range mySet {
		if !theirSet[e] {
			return false
		}
	}
	return true
}

// Clone deep-copies the network: a fresh samples tensor, fresh Node
// instances, and parent/child links reattached by name lookup in the new
// node map. No pointer is ever shared with the original.
func (net *Network) Clone() *Network {
	out := &Network{
		features:       append([]string(nil), net.features...),
		className:      net.className,
		classNumStates: net.classNumStates,
		fitted:         net.fitted,
		nodes:          make(map[string]*Node, len(net.nodes)),
	}
	if net.samples != nil {
		out.samples = net.samples.Clone()
	}
	for name, n := range net.nodes {
		clone := NewNode(name)
		clone.SetNumStates(n.NumStates())
		if n.CPT() != nil {
			clone.cpt = n.CPT().Clone()
		}
		out.nodes[name] = clone
	}
	for name, n := range net.nodes {
		newNode := out.nodes[name]
		for _, p := range n.Parents() {
			newNode.addParent(out.nodes[p.Name()])
		}
		for _, c := range n.Children() {
			newNode.addChild(out.nodes[c.Name()])
		}
	}
	return out
}

// Graph emits a Graphviz description of the network with the given title.
func (net *Network) Graph(title string) []string {
	return buildGraph(title, net.features, net.nodes, net.className)
}
