package bayesnet

import (
	"github.com/invertedv/bayesnet/internal/xtensor"
)

// Node holds per-variable state within a Network: its parents and children
// (by pointer, reattached by name on every copy), cardinality, and
// conditional probability table. Index 0 of the CPT is always the node's
// own value; indices 1..k follow its parents in insertion order.
type Node struct {
	name      string
	parents   []*Node
	children  []*Node
	numStates int
	cpt       *xtensor.CPTTensor
}

// NewNode creates an empty, state-less node with the given name.
func NewNode(name string) *Node {
	return &Node{name: name}
}

// Name returns the node's name.
func (n *Node) Name() string { return n.name }

// Parents returns the node's parents, in insertion order.
func (n *Node) Parents() []*Node { return n.parents }

// Children returns the node's children, in insertion order.
func (n *Node) Children() []*Node { return n.children }

// NumStates returns the node's cardinality.
func (n *Node) NumStates() int { return n.numStates }

// SetNumStates sets the node's cardinality.
func (n *Node) SetNumStates(k int) { n.numStates = k }

// CPT returns the node's conditional probability table. Valid only after
// computeCPT has been called (i.e. after the owning Network has been fit).
func (n *Node) CPT() *xtensor.CPTTensor { return n.cpt }

func (n *Node) addParent(p *Node) { n.parents = append(n.parents, p) }
func (n *Node) addChild(c *Node)  { n.children = append(n.children, c) }

func (n *Node) removeParent(p *Node) {
	n.parents = removeNode(n.parents, p)
}

func (n *Node) removeChild(c *Node) {
	n.children = removeNode(n.children, c)
}

func removeNode(list []*Node, target *Node) []*Node {
	out := list[:0]
	for _, n := range list {
		if n != target {
			out = append(out, n)
		}
	}
	return out
}

// clear resets a node to its just-constructed state (name preserved).
func (n *Node) clear() {
	n.parents = nil
	n.children = nil
	n.cpt = nil
	n.numStates = 0
}

// computeCPT estimates the node's conditional probability table from the
// shared samples matrix: dimensions are (numStates, |p1|, ..., |pk|), the
// table is initialized to smoothingFactor everywhere, every sample scatters
// its weight into the cell its (self, parent1, ..., parentk) codes select,
// and every axis-0 column is then normalized to sum to 1.
func (n *Node) computeCPT(samples *xtensor.IntMatrix, features []string, smoothingFactor float64, weights *xtensor.FloatVector) {
	featureIndex := make(map[string]int, len(features))
	for i, f := range features {
		featureIndex[f] = i
	}

	dims := make([]int, 1+len(n.parents))
	dims[0] = n.numStates
	rows := make([][]int, 1+len(n.parents))
	rows[0] = samples.Row(featureIndex[n.name])
	for i, p := range n.parents {
		dims[i+1] = p.numStates
		rows[i+1] = samples.Row(featureIndex[p.name])
	}

	n.cpt = xtensor.NewCPTTensor(smoothingFactor, dims...)

	nSamples := samples.Cols()
	flatIndices := make([]int, nSamples)
	coords := make([]int, len(dims))
	for s := 0; s < nSamples; s++ {
		for d := range dims {
			coords[d] = rows[d][s]
		}
		flatIndices[s] = n.cpt.FlatIndex(coords)
	}
	n.cpt.ScatterAddFlat(flatIndices, weights.Data())
	n.cpt.NormalizeAxis0()
}

// GetFactorValue returns CPT[evidence[self], evidence[parent_1], ...].
func (n *Node) GetFactorValue(evidence map[string]int) float64 {
	coords := make([]int, 1+len(n.parents))
	coords[0] = evidence[n.name]
	for i, p := range n.parents {
		coords[i+1] = evidence[p.Name()]
	}
	return n.cpt.At(coords...)
}

// MinFill returns the number of unordered pairs over the node's
// neighborhood (parents union children), a variable-elimination heuristic
// not currently used on the inference path.
func (n *Node) MinFill() int {
	seen := make(map[string]bool)
	var names []string
	for _, c := range n.children {
		if !seen[c.name] {
			seen[c.name] = true
			names = append(names, c.name)
		}
	}
	for _, p := range n.parents {
		if !seen[p.name] {
			seen[p.name] = true
			names = append(names, p.name)
		}
	}
	k := len(names)
	return k * (k - 1) / 2
}

// graphLines emits this node's Graphviz declaration and outgoing edges.
func (n *Node) graphLines(className string) []string {
	var lines []string
	suffix := ""
	if n.name == className {
		suffix = ", fontcolor=red, fillcolor=lightblue, style=filled "
	}
	lines = append(lines, "\""+n.name+"\" [shape=circle"+suffix+"]")
	for _, c := range n.children {
		lines = append(lines, "\""+n.name+"\" -> \""+c.name+"\"")
	}
	return lines
}
