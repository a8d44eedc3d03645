package mst

import (
	"testing"

	"github.com/invertedv/bayesnet/internal/xtensor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func symmetric(n int, fill func(i, j int) float64) *xtensor.FloatMatrix {
	m := xtensor.NewFloatMatrix(n, n)
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			w := fill(i, j)
			m.Set(i, j, w)
			m.Set(j, i, w)
		}
	}
	return m
}

func TestKruskalProducesNMinus1Edges(t *testing.T) {
	w := symmetric(4, func(i, j int) float64 { return float64(i + j) })
	edges := Kruskal(w, 0)
	require.Len(t, edges, 3)
}

func TestKruskalRootHasNoIncomingEdge(t *testing.T) {
	w := symmetric(5, func(i, j int) float64 { return float64((i+1)*(j+1)%7) + 0.1 })
	edges := Kruskal(w, 2)
	for _, e := range edges {
		assert.NotEqual(t, 2, e.Child)
	}
}

func TestKruskalChainPrefersHeavyEdges(t *testing.T) {
	// 0-1 weight 5, 1-2 weight 3, 0-2 weight 1: MST keeps 0-1 and 1-2.
	w := xtensor.NewFloatMatrix(3, 3)
	w.Set(0, 1, 5)
	w.Set(1, 0, 5)
	w.Set(1, 2, 3)
	w.Set(2, 1, 3)
	w.Set(0, 2, 1)
	w.Set(2, 0, 1)

	edges := Kruskal(w, 0)
	require.Len(t, edges, 2)
	seen := map[[2]int]bool{}
	for _, e := range edges {
		seen[[2]int{e.Parent, e.Child}] = true
	}
	assert.True(t, seen[[2]int{0, 1}])
	assert.True(t, seen[[2]int{1, 2}])
}

func TestKruskalEveryFeatureReachable(t *testing.T) {
	w := symmetric(6, func(i, j int) float64 { return float64((i*7+j*3)%11) + 1 })
	edges := Kruskal(w, 0)
	reached := map[int]bool{0: true}
	changed := true
	for changed {
		changed = false
		for _, e := range edges {
			if reached[e.Parent] && !reached[e.Child] {
				reached[e.Child] = true
				changed = true
			}
		}
	}
	assert.Len(t, reached, 6)
}
