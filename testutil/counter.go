package testutil

import (
	"context"
	"fmt"

	"github.com/cs-au-dk/gocpa/analysis/cpa"
)

// Count is a state of the counter domain: a natural number.
// Counts do not implement Partitionable, so they share one partition.
type Count int

func (n Count) Hash() uint32   { return uint32(n) }
func (n Count) String() string { return fmt.Sprintf("%d", int(n)) }

func (n Count) Equal(o cpa.AbstractState) bool {
	m, ok := o.(Count)
	return ok && n == m
}

// Counts converts integers to counter states.
func Counts(ns ...int) []cpa.AbstractState {
	res := make([]cpa.AbstractState, 0, len(ns))
	for _, n := range ns {
		res = append(res, Count(n))
	}
	return res
}

// CounterTransfer is the transfer relation of the counter domain:
// n ↦ {n+1} for n < Max, and no successors for n ≥ Max.
// With Branching set, n ↦ {2n+1, 2n+2}, dropping successors above Max.
type CounterTransfer struct {
	Max       int
	Branching bool

	// FailOn makes Successors fail for states it returns an error for.
	FailOn func(Count) error
	// OnExpand is called before successors are computed.
	OnExpand func(Count)

	// Expanded lists the states successors were computed for, in order.
	Expanded []Count
}

func (t *CounterTransfer) Successors(_ context.Context, s cpa.AbstractState, _ cpa.Precision) ([]cpa.AbstractState, error) {
	n := s.(Count)
	if t.OnExpand != nil {
		t.OnExpand(n)
	}
	if t.FailOn != nil {
		if err := t.FailOn(n); err != nil {
			return nil, err
		}
	}
	t.Expanded = append(t.Expanded, n)

	if !t.Branching {
		if int(n) >= t.Max {
			return nil, nil
		}
		return Counts(int(n) + 1), nil
	}

	var succs []cpa.AbstractState
	for _, m := range []int{2*int(n) + 1, 2*int(n) + 2} {
		if m <= t.Max {
			succs = append(succs, Count(m))
		}
	}
	return succs, nil
}

// CounterCPA is the counter domain with separate merging, equality
// stopping and static precision adjustment.
func CounterCPA(max int) (cpa.SimpleCPA, *CounterTransfer) {
	transfer := &CounterTransfer{Max: max}
	return cpa.SimpleCPA{
		Transfer: transfer,
		Init:     Count(0),
	}, transfer
}

// AdjustFunc adapts a function to a precision adjustment.
type AdjustFunc func(cpa.AbstractState, cpa.Precision) (cpa.PrecisionAdjustmentResult, bool, error)

func (f AdjustFunc) Adjust(
	s cpa.AbstractState,
	p cpa.Precision,
	_ cpa.UnmodifiableReachedSet,
	_ func(cpa.AbstractState) cpa.AbstractState,
	_ cpa.AbstractState,
) (cpa.PrecisionAdjustmentResult, bool, error) {
	return f(s, p)
}

// BreakAt signals BREAK for the given count.
func BreakAt(n int) cpa.PrecisionAdjustment {
	return AdjustFunc(func(s cpa.AbstractState, p cpa.Precision) (cpa.PrecisionAdjustmentResult, bool, error) {
		if s.Equal(Count(n)) {
			return cpa.Break(s, p), true, nil
		}
		return cpa.Continue(s, p), true, nil
	})
}

// StopFunc adapts a function to a stop operator.
type StopFunc func(cpa.AbstractState, []cpa.AbstractState) bool

func (f StopFunc) Stop(s cpa.AbstractState, candidates []cpa.AbstractState, _ cpa.Precision) (bool, error) {
	return f(s, candidates), nil
}

// StopIfAnyReached covers every state whose partition is non-empty.
var StopIfAnyReached = StopFunc(func(_ cpa.AbstractState, candidates []cpa.AbstractState) bool {
	return len(candidates) > 0
})

// CoverFunc adapts a function to a forced covering strategy.
type CoverFunc func(cpa.AbstractState) (bool, error)

func (f CoverFunc) TryCover(_ context.Context, s cpa.AbstractState, _ cpa.Precision, _ cpa.ReachedSet) (bool, error) {
	return f(s)
}
