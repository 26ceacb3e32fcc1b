// Package dot writes graphs in the Graphviz dot language, and renders or
// displays them.
package dot

import (
	"bytes"
	"fmt"
	"io"
	"log"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"text/template"

	"github.com/goccy/go-graphviz"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// DotAttrs are the attributes of a graph element.
type DotAttrs map[string]string

// String renders the attributes sorted by key.
func (a DotAttrs) String() string {
	keys := maps.Keys(a)
	slices.Sort(keys)
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = fmt.Sprintf("%s=%q;", k, a[k])
	}
	return strings.Join(parts, " ")
}

type DotNode struct {
	ID    string
	Attrs DotAttrs
}

func (n *DotNode) String() string { return n.ID }

type DotEdge struct {
	From, To *DotNode
	Attrs    DotAttrs
}

// DotCluster groups nodes in a subgraph.
type DotCluster struct {
	ID    string
	Nodes []*DotNode
	Attrs DotAttrs
}

func (c *DotCluster) String() string { return "cluster_" + c.ID }

// DotGraph is a directed graph. Options supply the minlen, nodesep and
// rankdir layout settings.
type DotGraph struct {
	Title    string
	Clusters []*DotCluster
	Nodes    []*DotNode
	Edges    []*DotEdge
	Options  map[string]string
}

var graphTemplate = template.Must(template.New("dot").Option("missingkey=zero").Parse(
	`{{define "node"}}{{printf "%q [ %s ]" .ID .Attrs}}{{end -}}
digraph {{printf "%q" .Title}} {
	label={{printf "%q" .Title}};
	labeljust="l";
	fontname="Arial";
	rankdir="{{or .Options.rankdir "LR"}}";
	nodesep="{{.Options.nodesep}}";
	bgcolor="lightgray";

	node [shape="ellipse" style="filled" fillcolor="honeydew" fontname="Verdana"];
	edge [minlen="{{.Options.minlen}}"];
{{range .Clusters}}
	subgraph {{printf "%q" .String}} {
		{{.Attrs}}
{{- range .Nodes}}
		{{template "node" .}}
{{- end}}
	}
{{end}}
{{- range .Nodes}}
	{{template "node" .}}
{{- end}}
{{range .Edges}}
	{{printf "%q -> %q [ %s ]" .From.ID .To.ID .Attrs}}
{{- end}}
}
`))

// WriteDot writes the graph in the dot language.
func (g *DotGraph) WriteDot(w io.Writer) error {
	var buf bytes.Buffer
	if err := graphTemplate.Execute(&buf, g); err != nil {
		return err
	}
	_, err := buf.WriteTo(w)
	return err
}

// NodeCount counts the nodes of the graph, including those in clusters.
func (g *DotGraph) NodeCount() int {
	n := len(g.Nodes)
	for _, cl := range g.Clusters {
		n += len(cl.Nodes)
	}
	return n
}

// ShowDot opens the graph in xdot and blocks until xdot exits.
func (g *DotGraph) ShowDot() {
	xdot, err := exec.LookPath("xdot")
	if err != nil {
		log.Fatalln("unable to find program 'xdot', please install it or check your PATH")
	}

	f, err := os.CreateTemp("", "gocpa.*.dot")
	if err != nil {
		log.Fatalln(err)
	}
	defer os.Remove(f.Name())

	if err := g.WriteDot(f); err != nil {
		f.Close()
		log.Fatalln(err)
	} else if err := f.Close(); err != nil {
		log.Fatalln(err)
	}

	log.Printf("Showing %s (%d nodes, %d edges)", f.Name(), g.NodeCount(), len(g.Edges))
	if err := exec.Command(xdot, f.Name()).Run(); err != nil {
		log.Printf("xdot exited with error: %v", err)
	}
}

// DotToImage renders dot source to outfname with the format as extension,
// and returns the path of the image. An empty outfname renders into the
// temporary directory.
func DotToImage(outfname string, format string, src []byte) (string, error) {
	g := graphviz.New()
	defer g.Close()

	graph, err := graphviz.ParseBytes(src)
	if err != nil {
		return "", err
	}
	defer graph.Close()

	if outfname == "" {
		outfname = filepath.Join(os.TempDir(), "gocpa_export")
	}
	img := outfname + "." + format
	if err := g.RenderFilename(graph, graphviz.Format(format), img); err != nil {
		return "", err
	}
	return img, nil
}
