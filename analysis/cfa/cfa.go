package cfa

import (
	"errors"
	"fmt"
	"go/token"

	uf "github.com/spakin/disjoint"

	"github.com/cs-au-dk/gocpa/utils"
	"github.com/cs-au-dk/gocpa/utils/graph"

	"golang.org/x/tools/go/ssa"
)

// ErrNoBody is returned when building the CFA of a function without
// SSA blocks, e.g. an external or assembly function.
var ErrNoBody = errors.New("function has no body")

// CFA is the control-flow automaton of a single function. Locations are
// the basic blocks of the function, and edges follow the control flow
// between blocks.
type CFA struct {
	fun   *ssa.Function
	nodes []*Node

	// Union-find elements of each node, populated by Compress.
	elems []*uf.Element
	reps  map[*uf.Element]int

	sccs *graph.SCCDecomposition[*Node]
}

// Node is a location of the CFA.
type Node struct {
	cfa   *CFA
	block *ssa.BasicBlock
	// Whether the block panics.
	isErr bool
}

// FromFunction builds the CFA of a function. Blocks containing a panic
// instruction are error locations.
func FromFunction(fun *ssa.Function) (*CFA, error) {
	if fun == nil || len(fun.Blocks) == 0 {
		name := "<nil>"
		if fun != nil {
			name = fun.Name()
		}
		return nil, fmt.Errorf("%w: %s", ErrNoBody, name)
	}

	c := &CFA{
		fun:   fun,
		nodes: make([]*Node, len(fun.Blocks)),
	}

	for i, blk := range fun.Blocks {
		n := &Node{cfa: c, block: blk}
		for _, ins := range blk.Instrs {
			if _, ok := ins.(*ssa.Panic); ok {
				n.isErr = true
				break
			}
		}
		c.nodes[i] = n
	}

	return c, nil
}

// Function returns the function the CFA was built from.
func (c *CFA) Function() *ssa.Function {
	return c.fun
}

// Entry returns the initial location.
func (c *CFA) Entry() *Node {
	return c.nodes[0]
}

// Nodes returns all locations ordered by block index.
func (c *CFA) Nodes() []*Node {
	return c.nodes
}

// Node returns the location of the block with the given index.
func (c *CFA) Node(index int) *Node {
	return c.nodes[index]
}

// ErrorNodes returns the error locations.
func (c *CFA) ErrorNodes() (res []*Node) {
	for _, n := range c.nodes {
		if n.isErr {
			res = append(res, n)
		}
	}
	return
}

func (c *CFA) nodeOf(blk *ssa.BasicBlock) *Node {
	return c.nodes[blk.Index]
}

// Compress groups straight-line chains of locations into partitions:
// a location with a single successor shares its partition with the
// successor, if the successor has no other predecessors.
func (c *CFA) Compress() {
	c.elems = make([]*uf.Element, len(c.nodes))
	for i := range c.nodes {
		c.elems[i] = uf.NewElement()
	}

	for _, n := range c.nodes {
		succs := n.block.Succs
		if len(succs) == 1 && succs[0] != n.block && len(succs[0].Preds) == 1 {
			uf.Union(c.elems[n.Index()], c.elems[succs[0].Index])
		}
	}

	// The representative of a partition is its lowest block index.
	c.reps = make(map[*uf.Element]int)
	for i, el := range c.elems {
		rep := el.Find()
		if cur, found := c.reps[rep]; !found || i < cur {
			c.reps[rep] = i
		}
	}
}

// Compressed checks whether Compress has been called.
func (c *CFA) Compressed() bool {
	return c.elems != nil
}

// PartitionOf returns the representative index of the partition of a
// location. Without compression every location is its own partition.
func (c *CFA) PartitionOf(n *Node) int {
	if c.elems == nil {
		return n.Index()
	}
	return c.reps[c.elems[n.Index()].Find()]
}

// Graph exposes the CFA to the graph utilities.
func (c *CFA) Graph() graph.Graph[*Node] {
	return graph.OfHashable(func(n *Node) []*Node {
		return n.Successors()
	})
}

// SCC decomposes the locations reachable from the entry into strongly
// connected components. The decomposition is computed once.
func (c *CFA) SCC() graph.SCCDecomposition[*Node] {
	if c.sccs == nil {
		sccs := c.Graph().SCC([]*Node{c.Entry()})
		c.sccs = &sccs
	}
	return *c.sccs
}

// Priority ranks locations in topological order of their components:
// the entry has the lowest rank. Unreachable locations are ranked -1.
func (c *CFA) Priority(n *Node) int {
	return c.SCC().Priority(n)
}

// Index returns the index of the block of the location.
func (n *Node) Index() int {
	return n.block.Index
}

func (n *Node) Block() *ssa.BasicBlock {
	return n.block
}

func (n *Node) CFA() *CFA {
	return n.cfa
}

// IsError checks whether the location is an error location.
func (n *Node) IsError() bool {
	return n.isErr
}

func (n *Node) Successors() []*Node {
	res := make([]*Node, 0, len(n.block.Succs))
	for _, succ := range n.block.Succs {
		res = append(res, n.cfa.nodeOf(succ))
	}
	return res
}

func (n *Node) Predecessors() []*Node {
	res := make([]*Node, 0, len(n.block.Preds))
	for _, pred := range n.block.Preds {
		res = append(res, n.cfa.nodeOf(pred))
	}
	return res
}

// Pos returns the position of the first instruction of the location
// with a valid position, or the position of the function otherwise.
func (n *Node) Pos() token.Pos {
	for _, ins := range n.block.Instrs {
		if pos := ins.Pos(); pos.IsValid() {
			return pos
		}
	}
	return n.cfa.fun.Pos()
}

// Position resolves Pos in the file set of the program.
func (n *Node) Position() token.Position {
	return n.cfa.fun.Prog.Fset.Position(n.Pos())
}

func (n *Node) String() string {
	return utils.SSABlockString(n.block)
}

// Label is a short description of the location, e.g. "2: if.then".
func (n *Node) Label() string {
	label := fmt.Sprintf("%d: %s", n.Index(), n.block.Comment)
	if n.isErr {
		label += " (panic)"
	}
	return label
}
