package graph

import (
	"fmt"
	"testing"

	"github.com/cs-au-dk/gocpa/utils/dot"
	"github.com/stretchr/testify/assert"
)

func TestToDotGraph(t *testing.T) {
	G := graphOf(loop)
	nodes := []int{0, 1, 2, 3}

	t.Run("Plain", func(t *testing.T) {
		dg := G.ToDotGraph(nodes, nil)
		assert.Len(t, dg.Nodes, 4)
		assert.Empty(t, dg.Clusters)
		// The edge from the dead block 4 is not drawn.
		assert.Len(t, dg.Edges, 4)
		assert.Equal(t, "TB", dg.Options["rankdir"])
	})

	t.Run("Clustered", func(t *testing.T) {
		scc := G.SCC([]int{0})
		dg := G.ToDotGraph(nodes, &VisualizationConfig[int]{
			NodeAttrs: func(n int) (string, dot.DotAttrs) {
				return fmt.Sprintf("b%d", n), dot.DotAttrs{"label": fmt.Sprint(n)}
			},
			ClusterKey: func(n int) any { return scc.ComponentOf(n) },
			EdgeAttrs: func(from, to int) dot.DotAttrs {
				if scc.ComponentOf(from) == scc.ComponentOf(to) {
					return dot.DotAttrs{"style": "dashed"}
				}
				return nil
			},
		})

		assert.Empty(t, dg.Nodes)
		assert.Len(t, dg.Clusters, 3)
		assert.Equal(t, 4, dg.NodeCount())

		dashed := 0
		for _, e := range dg.Edges {
			if e.Attrs["style"] == "dashed" {
				dashed++
				assert.Contains(t, []string{"b1", "b2"}, e.From.ID)
			}
		}
		assert.Equal(t, 2, dashed, "both edges inside the loop are dashed")
	})
}
