package lattice

import "testing"

type (
	b = FiniteBound
	P = PlusInfinity
	M = MinusInfinity
)

var itv = NewInterval

func TestIntervalOperations(t *testing.T) {
	ops := map[string]func(Interval, Interval) Interval{
		"⊔": Interval.Join,
		"⊓": Interval.Meet,
		"∇": Interval.Widen,
		"+": Interval.Plus,
	}

	tests := []struct {
		op             string
		a, b, expected Interval
	}{
		{"⊔", Bot(), Top(), Top()},
		{"⊔", Constant(0), Bot(), Constant(0)},
		{"⊔", Constant(1), Constant(0), FiniteInterval(0, 1)},
		{"⊔", FiniteInterval(1, 2), FiniteInterval(3, 4), FiniteInterval(1, 4)},
		{"⊔", itv(b(0), b(1024)), itv(b(0), P{}), itv(b(0), P{})},
		{"⊔", itv(M{}, b(-1024)), itv(b(1024), P{}), Top()},

		{"⊓", Top(), Bot(), Bot()},
		{"⊓", Top(), FiniteInterval(0, 3), FiniteInterval(0, 3)},
		{"⊓", FiniteInterval(0, 3), FiniteInterval(2, 5), FiniteInterval(2, 3)},
		{"⊓", FiniteInterval(0, 1), FiniteInterval(2, 5), Bot()},
		{"⊓", itv(M{}, b(4)), itv(b(2), P{}), FiniteInterval(2, 4)},

		{"∇", Bot(), Constant(0), Constant(0)},
		{"∇", Constant(0), Constant(0), Constant(0)},
		{"∇", Constant(0), Constant(1), itv(b(0), P{})},
		{"∇", Constant(0), FiniteInterval(-1, 0), itv(M{}, b(0))},
		{"∇", FiniteInterval(0, 5), FiniteInterval(1, 3), FiniteInterval(0, 5)},
		{"∇", FiniteInterval(0, 5), FiniteInterval(-1, 6), Top()},

		{"+", FiniteInterval(0, 3), Constant(1), FiniteInterval(1, 4)},
		{"+", itv(b(0), P{}), Constant(-1), itv(b(-1), P{})},
		{"+", itv(M{}, b(2)), itv(b(1), P{}), Top()},
		{"+", Bot(), Constant(1), Bot()},
	}

	for _, test := range tests {
		res := ops[test.op](test.a, test.b)
		if !res.Eq(test.expected) {
			t.Errorf("%s %s %s = %s, expected %s", test.a, test.op, test.b, res, test.expected)
		}
		if test.op == "∇" && !test.a.Join(test.b).Leq(res) {
			t.Errorf("%s ∇ %s = %s is not an upper bound", test.a, test.b, res)
		}
	}
}

func TestIntervalLeq(t *testing.T) {
	tests := []struct {
		a, b     Interval
		expected bool
	}{
		{Bot(), Bot(), true},
		{Bot(), Constant(3), true},
		{Constant(3), Bot(), false},
		{Constant(3), FiniteInterval(0, 5), true},
		{FiniteInterval(0, 5), Constant(3), false},
		{itv(b(0), P{}), Top(), true},
		{Top(), itv(b(0), P{}), false},
	}

	for _, test := range tests {
		if res := test.a.Leq(test.b); res != test.expected {
			t.Errorf("%s ⊑ %s = %v, expected %v", test.a, test.b, res, test.expected)
		}
	}
}

func TestIntervalHashIsConsistent(t *testing.T) {
	if FiniteInterval(3, 1).Hash() != Bot().Hash() {
		t.Error("Empty intervals hash differently")
	}
	if Constant(2).Hash() != itv(b(2), b(2)).Hash() {
		t.Error("Equal intervals hash differently")
	}
	if itv(b(0), P{}).Hash() == itv(b(0), b(0)).Hash() {
		t.Error("Infinite and finite bounds collide")
	}
}

func TestAddingOppositeInfinitiesPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("Expected a panic")
		}
	}()
	addBounds(PlusInfinity{}, MinusInfinity{})
}
