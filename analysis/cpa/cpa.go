package cpa

import "context"

// AbstractState is an over-approximation of a set of concrete program
// configurations. States are immutable: operators always produce new states.
type AbstractState interface {
	Hash() uint32
	Equal(AbstractState) bool
	String() string
}

// Precision controls the granularity of abstraction for a state.
type Precision interface {
	String() string
}

// Partitionable states expose a key bounding merge and stop candidates to
// states that may interact. The key must be comparable. States that do not
// implement Partitionable all share one partition.
type Partitionable interface {
	Partition() any
}

// Targetable states may be target (error) states.
type Targetable interface {
	IsTarget() bool
}

// IsTarget checks whether the state is a target state.
func IsTarget(s AbstractState) bool {
	t, ok := s.(Targetable)
	return ok && t.IsTarget()
}

// Joinable states form a join semi-lattice.
type Joinable interface {
	AbstractState
	Join(AbstractState) AbstractState
}

// Coverable states can be compared by the lattice ordering.
type Coverable interface {
	AbstractState
	LessOrEqual(AbstractState) bool
}

type (
	// TransferRelation computes the abstract successors of a state.
	TransferRelation interface {
		Successors(ctx context.Context, state AbstractState, prec Precision) ([]AbstractState, error)
	}

	// EdgeTransferRelation can restrict successor computation to a single edge.
	EdgeTransferRelation interface {
		TransferRelation
		SuccessorsForEdge(ctx context.Context, state AbstractState, prec Precision, edge any) ([]AbstractState, error)
	}

	// MergeOperator combines a fresh successor with a reached state of the
	// same partition. Merging must be idempotent and may only widen.
	MergeOperator interface {
		Merge(state, reached AbstractState, prec Precision) (AbstractState, error)
	}

	// StopOperator decides whether a state is covered by the candidates.
	StopOperator interface {
		Stop(state AbstractState, candidates []AbstractState, prec Precision) (bool, error)
	}

	// PrecisionAdjustment may rewrite a successor and its precision, and
	// decides whether exploration continues. A false second result discards
	// the successor.
	PrecisionAdjustment interface {
		Adjust(
			state AbstractState,
			prec Precision,
			reached UnmodifiableReachedSet,
			projection func(AbstractState) AbstractState,
			fullState AbstractState,
		) (PrecisionAdjustmentResult, bool, error)
	}

	// ForcedCovering attempts to prove a popped state covered before it is
	// expanded. A true result means the state is not processed further.
	ForcedCovering interface {
		TryCover(ctx context.Context, state AbstractState, prec Precision, reached ReachedSet) (bool, error)
	}
)

// Optional capabilities of operators. They are inspected once, when the
// engine is constructed.
type (
	// TrivialMerge is implemented by merge operators that never combine
	// states, allowing the merge pass to be skipped.
	TrivialMerge interface {
		IsTrivial() bool
	}

	// ImpreciseMerge is implemented by merge operators whose results lose
	// precision. A run that replaced reached states with such a merge is
	// reported as imprecise.
	ImpreciseMerge interface {
		Imprecise() bool
	}

	// OnMergeCleanup is invoked after a merge pass replaced at least one
	// reached state.
	OnMergeCleanup interface {
		CleanUp(ReachedSet)
	}

	// UnsoundCovering is implemented by forced covering strategies whose
	// coverage claims are not proven. A run that used them is unsound.
	UnsoundCovering interface {
		Unsound() bool
	}
)

// ConfigurableProgramAnalysis bundles the operators of an abstract domain.
type ConfigurableProgramAnalysis interface {
	TransferRelation() TransferRelation
	MergeOperator() MergeOperator
	StopOperator() StopOperator
	PrecisionAdjustment() PrecisionAdjustment

	InitialState() AbstractState
	InitialPrecision() Precision
}

// StatePrecision pairs a state with its precision.
type StatePrecision struct {
	State     AbstractState
	Precision Precision
}

// UnmodifiableReachedSet is the read-only view of a reached set.
type UnmodifiableReachedSet interface {
	// HasWaitingState checks whether the waitlist is non-empty.
	HasWaitingState() bool
	// Precision retrieves the precision of a reached state.
	Precision(AbstractState) (Precision, bool)
	// Reached returns the reached states sharing the partition of the given
	// state, in insertion order.
	Reached(AbstractState) []AbstractState
	Contains(AbstractState) bool
	Size() int
	WaitlistSize() int
	// ForEach visits all reached states in insertion order.
	ForEach(func(AbstractState, Precision))
	// Waiting returns the waitlist contents in pop order.
	Waiting() []AbstractState
	// Targets returns all reached target states.
	Targets() []AbstractState
	String() string
}

// ReachedSet stores all explored (state, precision) pairs and the waitlist.
// Every waiting state is also reached.
type ReachedSet interface {
	UnmodifiableReachedSet

	// PopFromWaitlist removes and returns the next waiting state. It panics
	// if the waitlist is empty.
	PopFromWaitlist() (AbstractState, Precision)
	// Add inserts the state into the reached set and the waitlist. Adding a
	// present state updates its precision and enqueues it at most once.
	Add(AbstractState, Precision)
	AddAll([]StatePrecision)
	// AddToReached inserts the state without enqueuing it.
	AddToReached(AbstractState, Precision)
	// Remove deletes the state from the reached set and the waitlist.
	Remove(AbstractState)
	RemoveAll([]AbstractState)
	// ReAddToWaitlist enqueues a reached state again. The state must be in
	// the reached set.
	ReAddToWaitlist(AbstractState)
}
