package location

import (
	"context"
	"errors"
	"fmt"

	"github.com/cs-au-dk/gocpa/analysis/cfa"
	"github.com/cs-au-dk/gocpa/analysis/cpa"
	"github.com/cs-au-dk/gocpa/utils"
)

// ErrNotAnEdge is returned when an edge is not a CFA node.
var ErrNotAnEdge = errors.New("not a CFA edge")

// State is the abstract state of the location analysis: the current
// location in the CFA of the analyzed function.
type State struct {
	node *cfa.Node
}

func StateOf(node *cfa.Node) State {
	return State{node}
}

func (s State) Node() *cfa.Node {
	return s.node
}

func (s State) Hash() uint32 {
	return utils.HashCombine(utils.HashString(s.node.CFA().Function().Name()), uint32(s.node.Index()))
}

func (s State) Equal(o cpa.AbstractState) bool {
	so, ok := o.(State)
	return ok && s.node == so.node
}

func (s State) String() string {
	return s.node.String()
}

// Partition groups states by the compression partition of their location.
func (s State) Partition() any {
	return s.node.CFA().PartitionOf(s.node)
}

// IsTarget holds at error locations.
func (s State) IsTarget() bool {
	return s.node.IsError()
}

// transfer follows the edges of the CFA.
type transfer struct{}

func (transfer) Successors(_ context.Context, s cpa.AbstractState, _ cpa.Precision) ([]cpa.AbstractState, error) {
	succs := s.(State).node.Successors()
	res := make([]cpa.AbstractState, 0, len(succs))
	for _, succ := range succs {
		res = append(res, State{succ})
	}
	return res, nil
}

// SuccessorsForEdge follows a single CFA edge, given by its target node.
// Edges that do not leave the location of the state yield no successors.
func (transfer) SuccessorsForEdge(_ context.Context, s cpa.AbstractState, _ cpa.Precision, edge any) ([]cpa.AbstractState, error) {
	target, ok := edge.(*cfa.Node)
	if !ok {
		return nil, fmt.Errorf("%w: %T", ErrNotAnEdge, edge)
	}

	for _, succ := range s.(State).node.Successors() {
		if succ == target {
			return []cpa.AbstractState{State{succ}}, nil
		}
	}
	return nil, nil
}

var _ cpa.EdgeTransferRelation = transfer{}

// Analysis is the location analysis of a single CFA. States are merged
// separately and covered by equality.
type Analysis struct {
	cpa.SimpleCPA
	cfa *cfa.CFA
}

// New creates the location analysis of a CFA. If stopAtTarget is set, the
// analysis signals BREAK when an error location is reached.
func New(c *cfa.CFA, stopAtTarget bool) Analysis {
	var adjustment cpa.PrecisionAdjustment = cpa.StaticPrecisionAdjustment
	if stopAtTarget {
		adjustment = cpa.BreakOnTargets{}
	}

	return Analysis{
		SimpleCPA: cpa.SimpleCPA{
			Transfer:   transfer{},
			Merge:      cpa.MergeSep,
			Stop:       cpa.StopSep,
			Adjustment: adjustment,
			Init:       State{c.Entry()},
		},
		cfa: c,
	}
}

func (a Analysis) CFA() *cfa.CFA {
	return a.cfa
}

// Priority ranks states for the topological waitlist order.
func (a Analysis) Priority(s cpa.AbstractState) int {
	return a.cfa.Priority(s.(State).node)
}
