package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// Block graphs as produced for small functions. Node 0 is the entry.
var (
	// if-else: 0 branches to 1 and 2, which join at 3.
	diamond = map[int][]int{0: {1, 2}, 1: {3}, 2: {3}, 3: {}}
	// for loop: 1 is the header, 2 the body, 3 the exit, 4 is dead code.
	loop = map[int][]int{0: {1}, 1: {2, 3}, 2: {1}, 3: {}, 4: {3}}
	// loop with a branch in its body that may jump out to a panic at 5.
	nested = map[int][]int{0: {1}, 1: {2, 4}, 2: {3, 5}, 3: {1}, 4: {}, 5: {}}
)

func graphOf(edges map[int][]int) Graph[int] {
	return OfHashable(func(n int) []int { return edges[n] })
}

func TestSCCComponents(t *testing.T) {
	tests := []struct {
		name       string
		edges      map[int][]int
		components int
		together   [][]int
	}{
		{"diamond", diamond, 4, nil},
		{"loop", loop, 3, [][]int{{1, 2}}},
		{"nested", nested, 4, [][]int{{1, 2, 3}}},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			scc := graphOf(test.edges).SCC([]int{0})
			assert.Len(t, scc.Components, test.components)
			for _, group := range test.together {
				for _, n := range group[1:] {
					assert.Equal(t, scc.ComponentOf(group[0]), scc.ComponentOf(n),
						"%d and %d are in the same loop", group[0], n)
				}
			}
		})
	}
}

func TestSCCIgnoresUnreachableNodes(t *testing.T) {
	scc := graphOf(loop).SCC([]int{0})
	assert.Equal(t, -1, scc.ComponentOf(4))
	assert.Equal(t, -1, scc.Priority(4))
	assert.Equal(t, -1, scc.Priority(100))
}

func TestSCCPriorityIsTopological(t *testing.T) {
	for name, edges := range map[string]map[int][]int{
		"diamond": diamond,
		"loop":    loop,
		"nested":  nested,
	} {
		t.Run(name, func(t *testing.T) {
			scc := graphOf(edges).SCC([]int{0})
			assert.Equal(t, 0, scc.Priority(0), "the entry comes first")

			for from, succs := range edges {
				if scc.ComponentOf(from) == -1 {
					continue
				}
				for _, to := range succs {
					if scc.ComponentOf(from) == scc.ComponentOf(to) {
						assert.Equal(t, scc.Priority(from), scc.Priority(to))
					} else {
						assert.Less(t, scc.Priority(from), scc.Priority(to))
					}
				}
			}
		})
	}
}

func TestEdgesAreCached(t *testing.T) {
	calls := 0
	G := OfHashable(func(n int) []int {
		calls++
		return diamond[n]
	})

	G.SCC([]int{0})
	G.SCC([]int{0})
	assert.Equal(t, len(diamond), calls)
}
