package testutil

import (
	"context"
	"fmt"

	"github.com/cs-au-dk/gocpa/analysis/cpa"
	"github.com/cs-au-dk/gocpa/analysis/lattice"
	"github.com/cs-au-dk/gocpa/utils"
)

// RangeLoc is a location of the loop program analyzed by the range domain:
//
//	x := 0
//	for x < bound { x++ }  // LoopHead
//	assert(x <= bound)     // LoopExit
type RangeLoc int

const (
	LoopHead RangeLoc = iota
	LoopExit
)

func (l RangeLoc) String() string {
	if l == LoopHead {
		return "head"
	}
	return "exit"
}

// Range is a state of the range domain: a location and an interval
// over-approximating x.
type Range struct {
	Loc   RangeLoc
	X     lattice.Interval
	bound int
}

func (r Range) Hash() uint32 {
	return utils.HashCombine(uint32(r.Loc), r.X.Hash())
}

func (r Range) Equal(o cpa.AbstractState) bool {
	ro, ok := o.(Range)
	return ok && r.Loc == ro.Loc && r.bound == ro.bound && r.X.Eq(ro.X)
}

func (r Range) String() string {
	return fmt.Sprintf("%s: x ∈ %s", r.Loc, r.X)
}

func (r Range) Partition() any {
	return r.Loc
}

// IsTarget holds at the loop exit if x may exceed the bound.
func (r Range) IsTarget() bool {
	return r.Loc == LoopExit &&
		!r.X.Meet(lattice.NewInterval(lattice.FiniteBound(r.bound+1), lattice.PlusInfinity{})).IsBot()
}

func (r Range) LessOrEqual(o cpa.AbstractState) bool {
	ro := o.(Range)
	return r.Loc == ro.Loc && r.X.Leq(ro.X)
}

func (r Range) Join(o cpa.AbstractState) cpa.AbstractState {
	r.X = r.X.Join(o.(Range).X)
	return r
}

func (r Range) Widen(o cpa.AbstractState) cpa.AbstractState {
	r.X = r.X.Widen(o.(Range).X)
	return r
}

// RangeTransfer executes the loop program on intervals.
type RangeTransfer struct {
	Bound int
}

func (t RangeTransfer) Successors(_ context.Context, s cpa.AbstractState, _ cpa.Precision) ([]cpa.AbstractState, error) {
	r := s.(Range)
	if r.Loc == LoopExit {
		return nil, nil
	}

	var succs []cpa.AbstractState
	body := r.X.Meet(lattice.NewInterval(lattice.MinusInfinity{}, lattice.FiniteBound(t.Bound-1)))
	if !body.IsBot() {
		succs = append(succs, Range{LoopHead, body.Plus(lattice.Constant(1)), t.Bound})
	}
	exit := r.X.Meet(lattice.NewInterval(lattice.FiniteBound(t.Bound), lattice.PlusInfinity{}))
	if !exit.IsBot() {
		succs = append(succs, Range{LoopExit, exit, t.Bound})
	}
	return succs, nil
}

// InitialRange is the state at the loop head before the first iteration.
func InitialRange(bound int) Range {
	return Range{LoopHead, lattice.Constant(0), bound}
}

// RangeCPA analyzes the loop program with the given merge operator,
// stopping on interval inclusion.
func RangeCPA(bound int, merge cpa.MergeOperator) cpa.SimpleCPA {
	return cpa.SimpleCPA{
		Transfer: RangeTransfer{bound},
		Merge:    merge,
		Stop:     cpa.StopSep,
		Init:     InitialRange(bound),
	}
}
