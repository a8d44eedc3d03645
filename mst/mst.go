// Package mst builds a maximum-weight spanning tree over a symmetric
// feature-weight matrix with Kruskal's algorithm, then reorients it into a
// DAG rooted at a caller-chosen feature, as used by TAN to turn a
// conditional mutual information matrix into a feature tree.
package mst

import (
	"sort"

	"github.com/invertedv/bayesnet/internal/xtensor"
)

// Edge is a directed (parent, child) feature-index pair.
type Edge struct {
	Parent int
	Child  int
}

type weightedEdge struct {
	u, v   int
	weight float64
}

// unionFind is a union-find structure with path compression, used by
// Kruskal to detect whether adding an edge would close a cycle.
type unionFind struct {
	parent []int
}

func newUnionFind(n int) *unionFind {
	uf := &unionFind{parent: make([]int, n)}
	for i := range uf.parent {
		uf.parent[i] = i
	}
	return uf
}

func (uf *unionFind) find(i int) int {
	if uf.parent[i] != i {
		uf.parent[i] = uf.find(uf.parent[i])
	}
	return uf.parent[i]
}

func (uf *unionFind) union(u, v int) {
	uf.parent[uf.find(u)] = uf.find(v)
}

// Kruskal builds the maximum-weight spanning tree over the n features
// described by weights (an n x n symmetric nonnegative matrix), breaking
// ties in descending-weight order by edge insertion order (i<j, i
// ascending then j ascending), then reorients the resulting undirected
// tree into directed (parent, child) edges rooted at root via BFS. Any
// edge the BFS never reaches keeps its MST orientation (u, v) -- this only
// arises for a disconnected input weight matrix.
func Kruskal(weights *xtensor.FloatMatrix, root int) []Edge {
	n, _ := weights.Dims()
	if n == 0 {
		return nil
	}

	edges := make([]weightedEdge, 0, n*(n-1)/2)
	for i := 0; i < n-1; i++ {
		for j := i + 1; j < n; j++ {
			edges = append(edges, weightedEdge{u: i, v: j, weight: weights.At(i, j)})
		}
	}
	sort.SliceStable(edges, func(a, b int) bool { return edges[a].weight > edges[b].weight })

	uf := newUnionFind(n)
	var tree []weightedEdge
	for _, e := range edges {
		if uf.find(e.u) != uf.find(e.v) {
			tree = append(tree, e)
			uf.union(e.u, e.v)
		}
	}

	return reorder(tree, root)
}

// reorder turns the undirected MST edges into a DAG rooted at root via BFS:
// for every edge traversed, the direction away from the current frontier
// node becomes (parent, child).
func reorder(tree []weightedEdge, root int) []Edge {
	remaining := make([]weightedEdge, len(tree))
	copy(remaining, tree)

	var result []Edge
	frontier := []int{root}
	visited := map[int]bool{root: true}

	for len(frontier) > 0 {
		node := frontier[0]
		frontier = frontier[1:]

		var keep []weightedEdge
		for _, e := range remaining {
			switch {
			case e.u == node:
				result = append(result, Edge{Parent: node, Child: e.v})
				if !visited[e.v] {
					visited[e.v] = true
					frontier = append(frontier, e.v)
				}
			case e.v == node:
				result = append(result, Edge{Parent: node, Child: e.u})
				if !visited[e.u] {
					visited[e.u] = true
					frontier = append(frontier, e.u)
				}
			default:
				keep = append(keep, e)
			}
		}
		remaining = keep
	}

	// Any edges the BFS never reached retain their recorded (u, v)
	// orientation; this only arises on a malformed (disconnected) input.
	for _, e := range remaining {
		result = append(result, Edge{Parent: e.u, Child: e.v})
	}

	return result
}
