package bayesnet

import (
	"strings"
	"testing"

	"github.com/invertedv/bayesnet/internal/xtensor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func twoNodeSamples() *xtensor.IntMatrix {
	// feature "a" and class "y", 4 samples, perfectly correlated.
	return xtensor.NewIntMatrixFromRows([][]int{
		{0, 0, 1, 1},
		{0, 0, 1, 1},
	})
}

func buildTwoNodeNetwork(t *testing.T, smoothing Smoothing) *Network {
	t.Helper()
	net := NewNetwork()
	require.NoError(t, net.AddNode("a"))
	require.NoError(t, net.AddNode("y"))
	require.NoError(t, net.AddEdge("y", "a"))

	samples := twoNodeSamples()
	weights := xtensor.NewUniformWeights(4)
	states := map[string][]int{"a": {0, 1}, "y": {0, 1}}
	require.NoError(t, net.Fit(samples, weights, []string{"a"}, "y", states, smoothing))
	return net
}

func TestNetworkFitLaplaceSmoothing(t *testing.T) {
	net := buildTwoNodeNetwork(t, SmoothingLaplace)
	node := net.GetNode("a")
	require.NotNil(t, node.CPT())

	// Laplace: weighted counts (0.25 per sample) + 1 prior per cell,
	// normalized over axis 0. Column y=0: a=0 has weight 0.5, a=1 has
	// weight 0 -> (0.5+1)/(0.5+2)=3/5, (0+1)/2.5=2/5.
	got0 := node.CPT().At(0, 0)
	got1 := node.CPT().At(1, 0)
	assert.InDelta(t, 3.0/5.0, got0, 1e-9)
	assert.InDelta(t, 2.0/5.0, got1, 1e-9)
}

func TestNetworkAddEdgeRejectsCycle(t *testing.T) {
	net := NewNetwork()
	require.NoError(t, net.AddNode("a"))
	require.NoError(t, net.AddNode("b"))
	require.NoError(t, net.AddEdge("a", "b"))
	err := net.AddEdge("b", "a")
	require.Error(t, err)
}

func TestNetworkAddEdgeRejectsDuplicate(t *testing.T) {
	net := NewNetwork()
	require.NoError(t, net.AddNode("a"))
	require.NoError(t, net.AddNode("b"))
	require.NoError(t, net.AddEdge("a", "b"))
	err := net.AddEdge("a", "b")
	require.Error(t, err)
}

func TestNetworkPredictBeforeFitFails(t *testing.T) {
	net := NewNetwork()
	require.NoError(t, net.AddNode("a"))
	require.NoError(t, net.AddNode("y"))
	_, err := net.Predict([][]int{{0, 1}})
	require.Error(t, err)
}

func TestNetworkPredictFollowsEvidence(t *testing.T) {
	net := buildTwoNodeNetwork(t, SmoothingLaplace)
	preds, err := net.Predict([][]int{{0, 1}})
	require.NoError(t, err)
	require.Len(t, preds, 2)
	assert.Equal(t, 0, preds[0])
	assert.Equal(t, 1, preds[1])
}

func TestNetworkScorePerfectFit(t *testing.T) {
	net := buildTwoNodeNetwork(t, SmoothingLaplace)
	acc, err := net.Score([][]int{{0, 1}}, []int{0, 1})
	require.NoError(t, err)
	assert.Equal(t, 1.0, acc)
}

func TestNetworkCloneIsIndependent(t *testing.T) {
	net := buildTwoNodeNetwork(t, SmoothingLaplace)
	clone := net.Clone()
	assert.True(t, net.Equal(clone))

	// Mutating the clone's CPT must not affect the original.
	clone.nodes["a"].cpt.Data()[0] = 999
	assert.NotEqual(t, net.GetNode("a").CPT().Data()[0], clone.GetNode("a").CPT().Data()[0])
}

func TestNetworkEqualIgnoresNodeOrderButNotTopology(t *testing.T) {
	a := NewNetwork()
	require.NoError(t, a.AddNode("x"))
	require.NoError(t, a.AddNode("y"))
	require.NoError(t, a.AddEdge("x", "y"))

	b := NewNetwork()
	require.NoError(t, b.AddNode("y"))
	require.NoError(t, b.AddNode("x"))
	require.NoError(t, b.AddEdge("x", "y"))

	assert.True(t, a.Equal(b))

	c := NewNetwork()
	require.NoError(t, c.AddNode("x"))
	require.NoError(t, c.AddNode("y"))
	assert.False(t, a.Equal(c))
}

func TestNetworkTopologicalSortRespectsParents(t *testing.T) {
	net := NewNetwork()
	for _, n := range []string{"class", "a", "b", "c"} {
		require.NoError(t, net.AddNode(n))
	}
	require.NoError(t, net.AddEdge("class", "a"))
	require.NoError(t, net.AddEdge("class", "b"))
	require.NoError(t, net.AddEdge("class", "c"))
	require.NoError(t, net.AddEdge("a", "c"))
	// Fit normally records the class name; this network is never fit.
	net.className = "class"

	order := net.TopologicalSort()
	require.Len(t, order, 3)
	posA, posC := -1, -1
	for i, name := range order {
		if name == "a" {
			posA = i
		}
		if name == "c" {
			posC = i
		}
	}
	assert.Less(t, posA, posC)
}

func TestNetworkGraphIncludesClassStyling(t *testing.T) {
	net := buildTwoNodeNetwork(t, SmoothingLaplace)
	lines := net.Graph("test")
	found := false
	for _, l := range lines {
		if strings.Contains(l, "fillcolor") {
			found = true
		}
	}
	assert.True(t, found, "expected class node styling in graph output: %v", lines)
}

func TestNetworkDumpCPTIncludesNodeNames(t *testing.T) {
	net := buildTwoNodeNetwork(t, SmoothingLaplace)
	dump := net.DumpCPT()
	assert.Contains(t, dump, "a")
	assert.Contains(t, dump, "y")
}
