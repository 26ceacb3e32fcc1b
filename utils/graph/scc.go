package graph

// SCC is the index of a strongly connected component.
type SCC = int

// SCCDecomposition splits the part of a graph reachable from a set of roots
// into strongly connected components. Components are numbered in reverse
// topological order: edges leaving component i go to components j < i.
type SCCDecomposition[T comparable] struct {
	Components [][]T
	comp       map[T]SCC
}

// ComponentOf returns the component of the node, or -1 if the node is not
// reachable from the roots.
func (d SCCDecomposition[T]) ComponentOf(node T) SCC {
	if c, found := d.comp[node]; found {
		return c
	}
	return -1
}

// Priority ranks a node by the topological position of its component, so
// that roots come first and loop bodies share a rank. Unreachable nodes
// are ranked -1.
func (d SCCDecomposition[T]) Priority(node T) int {
	if c := d.ComponentOf(node); c != -1 {
		return len(d.Components) - 1 - c
	}
	return -1
}

// SCC runs Tarjan's algorithm from each root.
func (G Graph[T]) SCC(roots []T) SCCDecomposition[T] {
	d := SCCDecomposition[T]{comp: make(map[T]SCC)}
	index := make(map[T]int)
	var stack []T

	var visit func(v T) int
	visit = func(v T) int {
		low := len(index)
		index[v] = low
		bottom := len(stack)
		stack = append(stack, v)

		for _, w := range G.Edges(v) {
			if _, done := d.comp[w]; done {
				continue
			}
			wlow, seen := index[w]
			if !seen {
				wlow = visit(w)
			}
			low = min(low, wlow)
		}

		if low == index[v] {
			members := append([]T(nil), stack[bottom:]...)
			for _, m := range members {
				d.comp[m] = len(d.Components)
			}
			d.Components = append(d.Components, members)
			stack = stack[:bottom]
		}
		index[v] = low
		return low
	}

	for _, r := range roots {
		if _, done := d.comp[r]; !done {
			visit(r)
		}
	}
	return d
}
