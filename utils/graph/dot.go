package graph

import (
	"fmt"

	"github.com/cs-au-dk/gocpa/utils"
	"github.com/cs-au-dk/gocpa/utils/dot"
)

var opts = utils.Opts()

// VisualizationConfig controls how nodes and edges are drawn. Every field
// is optional.
type VisualizationConfig[T comparable] struct {
	// ID and attributes of a node. The ID defaults to the printed node.
	NodeAttrs func(node T) (string, dot.DotAttrs)
	// Nodes with equal keys are drawn in the same cluster.
	ClusterKey func(node T) any
	// ID and attributes of the cluster for a key.
	ClusterAttrs func(key any) (string, dot.DotAttrs)
	EdgeAttrs    func(from, to T) dot.DotAttrs
}

// ToDotGraph draws the given nodes and the edges between them.
func (G Graph[T]) ToDotGraph(nodes []T, cfg *VisualizationConfig[T]) *dot.DotGraph {
	if cfg == nil {
		cfg = &VisualizationConfig[T]{}
	}

	dg := &dot.DotGraph{
		Options: map[string]string{
			"minlen":  fmt.Sprint(opts.Minlen()),
			"nodesep": fmt.Sprint(opts.Nodesep()),
			"rankdir": "TB",
		},
	}

	clusters := make(map[any]*dot.DotCluster)
	clusterOf := func(key any) *dot.DotCluster {
		cl, found := clusters[key]
		if !found {
			id, attrs := fmt.Sprint(key), dot.DotAttrs(nil)
			if cfg.ClusterAttrs != nil {
				id, attrs = cfg.ClusterAttrs(key)
			}
			cl = &dot.DotCluster{ID: id, Attrs: attrs}
			clusters[key] = cl
			dg.Clusters = append(dg.Clusters, cl)
		}
		return cl
	}

	drawn := make(map[T]*dot.DotNode, len(nodes))
	for _, n := range nodes {
		dn := &dot.DotNode{ID: fmt.Sprint(n)}
		if cfg.NodeAttrs != nil {
			dn.ID, dn.Attrs = cfg.NodeAttrs(n)
		}
		drawn[n] = dn

		if cfg.ClusterKey != nil {
			cl := clusterOf(cfg.ClusterKey(n))
			cl.Nodes = append(cl.Nodes, dn)
		} else {
			dg.Nodes = append(dg.Nodes, dn)
		}
	}

	for _, n := range nodes {
		for _, succ := range G.Edges(n) {
			to, found := drawn[succ]
			if !found {
				continue
			}
			e := &dot.DotEdge{From: drawn[n], To: to}
			if cfg.EdgeAttrs != nil {
				e.Attrs = cfg.EdgeAttrs(n, succ)
			}
			dg.Edges = append(dg.Edges, e)
		}
	}

	return dg
}
