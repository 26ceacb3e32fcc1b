// Package graph provides strongly connected components and dot rendering
// for graphs given by a successor function.
package graph

// Graph is a directed graph over comparable nodes. Successors are
// computed on demand and cached.
type Graph[T comparable] struct {
	succs func(T) []T
	cache map[T][]T
}

// OfHashable builds a graph from its successor function.
func OfHashable[T comparable](succs func(T) []T) Graph[T] {
	return Graph[T]{succs: succs, cache: make(map[T][]T)}
}

// Edges returns the successors of a node.
func (G Graph[T]) Edges(node T) []T {
	es, found := G.cache[node]
	if !found {
		es = G.succs(node)
		G.cache[node] = es
	}
	return es
}
