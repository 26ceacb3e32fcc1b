package main

import (
	"bytes"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"

	"github.com/cs-au-dk/gocpa/utils"
	"github.com/cs-au-dk/gocpa/utils/dot"
)

// cfaToDot renders the CFA of the target function, highlighting the
// locations reached by the analysis. With -visualize the graph is shown
// in xdot; with -format dot the dot source is written instead of an image.
func (p *pipeline) cfaToDot(res *reachResult) error {
	G := p.cfa.ToDot(res.isReached)

	if opts.Visualize() {
		G.ShowDot()
		return nil
	}

	var buf bytes.Buffer
	if err := G.WriteDot(&buf); err != nil {
		return err
	}

	name := filepath.Join(os.TempDir(), "gocpa_"+p.fun.Name())
	if opts.OutputFormat() == "dot" {
		name += ".dot"
		if err := os.WriteFile(name, buf.Bytes(), 0o644); err != nil {
			return err
		}
		log.Println("Wrote", name)
		return nil
	}

	img, err := dot.DotToImage(name, opts.OutputFormat(), buf.Bytes())
	if err != nil {
		return err
	}
	log.Println("Wrote", img)
	return nil
}

// positions prints every location of the CFA with the source positions
// of its instructions.
func (p *pipeline) positions(w io.Writer) {
	fset := p.prog.Fset
	for _, n := range p.cfa.Nodes() {
		fmt.Fprintf(w, "%s (%s) partition %d\n", n, n.Block().Comment, p.cfa.PartitionOf(n))
		for _, ins := range n.Block().Instrs {
			pos := "-"
			if ins.Pos().IsValid() {
				pos = fset.Position(ins.Pos()).String()
			}
			fmt.Fprintf(w, "  %-50s %s\n", utils.SSAInsString(ins), pos)
		}
	}
}
