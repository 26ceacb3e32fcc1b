package lattice

import (
	"fmt"
	"strconv"

	"github.com/cs-au-dk/gocpa/utils"
)

// Bound is an end point of an interval: a FiniteBound, PlusInfinity or
// MinusInfinity.
type Bound interface {
	fmt.Stringer
	// rank orders bounds lexicographically: the side of infinity first
	// (-1, 0 or 1), then the finite value.
	rank() (side int, value int)
}

type (
	FiniteBound   int
	PlusInfinity  struct{}
	MinusInfinity struct{}
)

func (b FiniteBound) rank() (int, int) { return 0, int(b) }
func (PlusInfinity) rank() (int, int)  { return 1, 0 }
func (MinusInfinity) rank() (int, int) { return -1, 0 }

func (b FiniteBound) String() string { return colorize.Element(strconv.Itoa(int(b))) }
func (PlusInfinity) String() string  { return colorize.Element("∞") }
func (MinusInfinity) String() string { return colorize.Element("-∞") }

// compareBounds returns a negative number if a < b, zero if a = b and a
// positive number if a > b.
func compareBounds(a, b Bound) int {
	as, av := a.rank()
	bs, bv := b.rank()
	if as != bs {
		return as - bs
	}
	switch {
	case av < bv:
		return -1
	case av > bv:
		return 1
	}
	return 0
}

func minBound(a, b Bound) Bound {
	if compareBounds(a, b) <= 0 {
		return a
	}
	return b
}

func maxBound(a, b Bound) Bound {
	if compareBounds(a, b) >= 0 {
		return a
	}
	return b
}

// addBounds adds two bounds. An infinite operand absorbs a finite one;
// ∞ + -∞ is undefined and panics.
func addBounds(a, b Bound) Bound {
	as, av := a.rank()
	bs, bv := b.rank()
	switch {
	case as == 0 && bs == 0:
		return FiniteBound(av + bv)
	case as == -bs:
		panic(fmt.Sprintf("lattice: %s + %s is undefined", a, b))
	case as != 0:
		return a
	}
	return b
}

func hashBound(b Bound) uint32 {
	side, value := b.rank()
	return utils.HashCombine(uint32(side+1), uint32(value))
}

// Interval is an element of the interval lattice over ℤ. An interval whose
// lower bound exceeds its upper bound is ⊥.
type Interval struct {
	low, high Bound
}

func NewInterval(low, high Bound) Interval {
	return Interval{low, high}
}

func FiniteInterval(low, high int) Interval {
	return Interval{FiniteBound(low), FiniteBound(high)}
}

// Constant is the interval [c, c].
func Constant(c int) Interval {
	return FiniteInterval(c, c)
}

func Top() Interval {
	return Interval{MinusInfinity{}, PlusInfinity{}}
}

func Bot() Interval {
	return Interval{PlusInfinity{}, MinusInfinity{}}
}

func (e Interval) IsBot() bool {
	return compareBounds(e.low, e.high) > 0
}

func (e Interval) String() string {
	if e.IsBot() {
		return colorize.Lattice("⊥")
	}
	return "[" + e.low.String() + ", " + e.high.String() + "]"
}

// Hash agrees with Eq: all empty intervals hash to 0.
func (e Interval) Hash() uint32 {
	if e.IsBot() {
		return 0
	}
	return utils.HashCombine(hashBound(e.low), hashBound(e.high))
}

// Leq computes e1 ⊑ e2.
func (e1 Interval) Leq(e2 Interval) bool {
	switch {
	case e1.IsBot():
		return true
	case e2.IsBot():
		return false
	}
	return compareBounds(e2.low, e1.low) <= 0 && compareBounds(e1.high, e2.high) <= 0
}

func (e1 Interval) Eq(e2 Interval) bool {
	return e1.Leq(e2) && e2.Leq(e1)
}

// Join computes e1 ⊔ e2.
func (e1 Interval) Join(e2 Interval) Interval {
	switch {
	case e1.IsBot():
		return e2
	case e2.IsBot():
		return e1
	}
	return Interval{minBound(e1.low, e2.low), maxBound(e1.high, e2.high)}
}

// Meet computes e1 ⊓ e2.
func (e1 Interval) Meet(e2 Interval) Interval {
	res := Interval{maxBound(e1.low, e2.low), minBound(e1.high, e2.high)}
	if res.IsBot() {
		return Bot()
	}
	return res
}

// Widen computes e1 ∇ e2: bounds that grow from e1 to e2 jump to infinity.
func (e1 Interval) Widen(e2 Interval) Interval {
	switch {
	case e1.IsBot():
		return e2
	case e2.IsBot():
		return e1
	}

	res := e1
	if compareBounds(e2.low, e1.low) < 0 {
		res.low = MinusInfinity{}
	}
	if compareBounds(e2.high, e1.high) > 0 {
		res.high = PlusInfinity{}
	}
	return res
}

// Plus computes {a + b | a ∈ e1, b ∈ e2}.
func (e1 Interval) Plus(e2 Interval) Interval {
	if e1.IsBot() || e2.IsBot() {
		return Bot()
	}
	return Interval{addBounds(e1.low, e2.low), addBounds(e1.high, e2.high)}
}
