package dot

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAttrsAreSorted(t *testing.T) {
	attrs := DotAttrs{"style": "dashed", "label": "true", "color": "red"}
	assert.Equal(t, `color="red"; label="true"; style="dashed";`, attrs.String())
	assert.Equal(t, "", DotAttrs(nil).String())
}

func TestWriteDot(t *testing.T) {
	entry := &DotNode{ID: "0", Attrs: DotAttrs{"shape": "box"}}
	body := &DotNode{ID: "1"}
	g := &DotGraph{
		Title: "main",
		Nodes: []*DotNode{entry},
		Clusters: []*DotCluster{
			{ID: "1", Nodes: []*DotNode{body}, Attrs: DotAttrs{"label": "partition 1"}},
		},
		Edges: []*DotEdge{
			{From: entry, To: body, Attrs: DotAttrs{"label": "true"}},
			{From: body, To: body},
		},
		Options: map[string]string{"minlen": "2", "nodesep": "0.3", "rankdir": "TB"},
	}

	var sb strings.Builder
	require.NoError(t, g.WriteDot(&sb))
	out := sb.String()

	assert.True(t, strings.HasPrefix(out, `digraph "main" {`), out)
	for _, line := range []string{
		`rankdir="TB";`,
		`edge [minlen="2"];`,
		`subgraph "cluster_1" {`,
		`label="partition 1";`,
		`"0" [ shape="box"; ]`,
		`"1" [  ]`,
		`"0" -> "1" [ label="true"; ]`,
		`"1" -> "1" [  ]`,
	} {
		assert.Contains(t, out, line)
	}
	assert.Equal(t, 2, g.NodeCount())
}

func TestRankdirDefault(t *testing.T) {
	var sb strings.Builder
	require.NoError(t, (&DotGraph{}).WriteDot(&sb))
	assert.Contains(t, sb.String(), `rankdir="LR";`)
}
