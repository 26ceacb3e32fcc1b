package cpa

// SimpleCPA assembles a ConfigurableProgramAnalysis from individual
// operators. Missing operators default to MergeSep, StopSep and
// StaticPrecisionAdjustment, and a missing initial precision to NoPrecision.
type SimpleCPA struct {
	Transfer   TransferRelation
	Merge      MergeOperator
	Stop       StopOperator
	Adjustment PrecisionAdjustment

	Init     AbstractState
	InitPrec Precision
}

func (c SimpleCPA) TransferRelation() TransferRelation {
	return c.Transfer
}

func (c SimpleCPA) MergeOperator() MergeOperator {
	if c.Merge == nil {
		return MergeSep
	}
	return c.Merge
}

func (c SimpleCPA) StopOperator() StopOperator {
	if c.Stop == nil {
		return StopSep
	}
	return c.Stop
}

func (c SimpleCPA) PrecisionAdjustment() PrecisionAdjustment {
	if c.Adjustment == nil {
		return StaticPrecisionAdjustment
	}
	return c.Adjustment
}

func (c SimpleCPA) InitialState() AbstractState {
	return c.Init
}

func (c SimpleCPA) InitialPrecision() Precision {
	if c.InitPrec == nil {
		return NoPrecision{}
	}
	return c.InitPrec
}
