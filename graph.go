package bayesnet

import (
	"fmt"
	"sort"
	"strings"

	"github.com/awalterschulze/gographviz"
)

// buildGraph renders a Graphviz "digraph" description of the network: the
// class node filled light blue with red text, every other node a plain
// circle, and one edge statement per (parent, child) pair. Nodes are added
// in the network's own feature insertion order and each node's edges in
// child-name order, not map iteration, so the output is deterministic
// across runs.
func buildGraph(title string, features []string, nodes map[string]*Node, className string) []string {
	g := gographviz.NewGraph()
	_ = g.SetName("G")
	_ = g.SetDir(true)
	_ = g.AddAttr("G", "label", quote(title))

	for _, name := range features {
		attrs := map[string]string{"shape": "circle"}
		if name == className {
			attrs["fontcolor"] = "red"
			attrs["fillcolor"] = "lightblue"
			attrs["style"] = "filled"
		}
		_ = g.AddNode("G", quote(name), attrs)
	}
	for _, name := range features {
		children := make([]string, 0, len(nodes[name].children))
		for _, c := range nodes[name].children {
			children = append(children, c.name)
		}
		sort.Strings(children)
		for _, child := range children {
			_ = g.AddEdge(quote(name), quote(child), true, nil)
		}
	}

	return strings.Split(g.String(), "\n")
}

func quote(s string) string {
	return fmt.Sprintf("%q", s)
}
