package cpa

import (
	"github.com/fatih/color"

	"github.com/cs-au-dk/gocpa/utils"
)

// AlgorithmStatus summarizes the confidence in an analysis result. Both
// flags start out true and, once cleared, stay cleared.
type AlgorithmStatus struct {
	unsound, imprecise bool
}

var (
	SOUND_AND_PRECISE     = AlgorithmStatus{}
	SOUND_AND_IMPRECISE   = AlgorithmStatus{imprecise: true}
	UNSOUND_AND_PRECISE   = AlgorithmStatus{unsound: true}
	UNSOUND_AND_IMPRECISE = AlgorithmStatus{unsound: true, imprecise: true}
)

func (s AlgorithmStatus) Sound() bool {
	return !s.unsound
}

func (s AlgorithmStatus) Precise() bool {
	return !s.imprecise
}

// Update computes the point-wise conjunction of both statuses.
func (s AlgorithmStatus) Update(o AlgorithmStatus) AlgorithmStatus {
	return AlgorithmStatus{
		unsound:   s.unsound || o.unsound,
		imprecise: s.imprecise || o.imprecise,
	}
}

// WithSound conjoins the soundness flag with the given value.
func (s AlgorithmStatus) WithSound(sound bool) AlgorithmStatus {
	s.unsound = s.unsound || !sound
	return s
}

// WithPrecise conjoins the precision flag with the given value.
func (s AlgorithmStatus) WithPrecise(precise bool) AlgorithmStatus {
	s.imprecise = s.imprecise || !precise
	return s
}

var statusColor = struct {
	good, bad func(...interface{}) string
}{
	good: func(is ...interface{}) string {
		return utils.CanColorize(color.New(color.FgGreen).SprintFunc())(is...)
	},
	bad: func(is ...interface{}) string {
		return utils.CanColorize(color.New(color.FgYellow).SprintFunc())(is...)
	},
}

func (s AlgorithmStatus) String() string {
	sound, precise := statusColor.good("sound"), statusColor.good("precise")
	if s.unsound {
		sound = statusColor.bad("unsound")
	}
	if s.imprecise {
		precise = statusColor.bad("imprecise")
	}
	return sound + " and " + precise
}
