package cfa

import (
	"fmt"

	"github.com/cs-au-dk/gocpa/utils/dot"
	"github.com/cs-au-dk/gocpa/utils/graph"

	"golang.org/x/tools/go/ssa"
)

// ToDot creates a dot graph of the CFA. Error locations are drawn in red,
// and locations for which reached returns true are highlighted. If the
// CFA is compressed, partitions are drawn as clusters.
func (c *CFA) ToDot(reached func(*Node) bool) *dot.DotGraph {
	if reached == nil {
		reached = func(*Node) bool { return false }
	}

	cfg := &graph.VisualizationConfig[*Node]{
		NodeAttrs: func(n *Node) (string, dot.DotAttrs) {
			attrs := dot.DotAttrs{"label": n.Label()}
			switch {
			case n.isErr:
				attrs["fillcolor"] = "tomato"
			case reached(n):
				attrs["fillcolor"] = "lightblue"
			}
			if n == c.Entry() {
				attrs["shape"] = "box"
			}
			if n.isErr && reached(n) {
				attrs["penwidth"] = "3.0"
			}
			return fmt.Sprint(n.Index()), attrs
		},
		EdgeAttrs: func(from, to *Node) dot.DotAttrs {
			attrs := dot.DotAttrs{}
			// The true branch of an if is the first successor.
			if _, ok := from.block.Instrs[len(from.block.Instrs)-1].(*ssa.If); ok {
				if from.block.Succs[0] == to.block {
					attrs["label"] = "true"
				} else {
					attrs["label"] = "false"
				}
			}
			// Edges inside a loop.
			if comp := c.SCC().ComponentOf(from); comp != -1 && comp == c.SCC().ComponentOf(to) {
				attrs["style"] = "dashed"
			}
			return attrs
		},
	}

	if c.Compressed() {
		cfg.ClusterKey = func(n *Node) any {
			return c.PartitionOf(n)
		}
		cfg.ClusterAttrs = func(key any) (string, dot.DotAttrs) {
			return fmt.Sprint(key), dot.DotAttrs{
				"label": fmt.Sprintf("partition %d", key),
				"style": "dotted",
			}
		}
	}

	G := c.Graph().ToDotGraph(c.nodes, cfg)
	G.Title = c.fun.String()
	return G
}
