package cpa

// Action tells the engine whether to keep exploring after a successor.
type Action int

const (
	CONTINUE Action = iota
	BREAK
)

func (a Action) String() string {
	switch a {
	case CONTINUE:
		return "CONTINUE"
	case BREAK:
		return "BREAK"
	}
	return "Action(?)"
}

// PrecisionAdjustmentResult is the outcome of adjusting one successor.
type PrecisionAdjustmentResult struct {
	State     AbstractState
	Precision Precision
	Action    Action
}

// Continue wraps a state and precision with the CONTINUE action.
func Continue(s AbstractState, p Precision) PrecisionAdjustmentResult {
	return PrecisionAdjustmentResult{s, p, CONTINUE}
}

// Break wraps a state and precision with the BREAK action.
func Break(s AbstractState, p Precision) PrecisionAdjustmentResult {
	return PrecisionAdjustmentResult{s, p, BREAK}
}
