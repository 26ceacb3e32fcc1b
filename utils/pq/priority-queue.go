package pq

import "container/heap"

// lessFunc is a comparison function between two elements of type T.
type lessFunc[T any] func(T, T) bool

// entry pairs an element with its insertion sequence number. Elements that
// compare equal under the less function are ordered by insertion, which keeps
// the queue's pop order reproducible.
type entry[T any] struct {
	value T
	seq   uint64
}

// _heap satisfies the heap.Interface. It includes a list of elements,
// and a comparison function.
type _heap[T any] struct {
	list []entry[T]
	less lessFunc[T]
}

// Len returns the size of the heap.
func (h _heap[T]) Len() int {
	return len(h.list)
}

// Swap interchanges the values of the elements at the given indices.
func (h _heap[T]) Swap(i, j int) {
	l := h.list
	l[i], l[j] = l[j], l[i]
}

// Push appends a given element to the heap.
func (h *_heap[T]) Push(x any) {
	h.list = append(h.list, x.(entry[T]))
}

// Pop retrieves the last element in the heap.
func (h *_heap[T]) Pop() any {
	old := h.list
	n := len(old)
	x := old[n-1]
	h.list = old[0 : n-1]
	return x
}

// Less compares two elements in the heap at the given indices.
func (h _heap[T]) Less(i, j int) bool {
	a, b := h.list[i], h.list[j]
	switch {
	case h.less(a.value, b.value):
		return true
	case h.less(b.value, a.value):
		return false
	}
	return a.seq < b.seq
}

var _ heap.Interface = (*_heap[int])(nil)

// PriorityQueue implements a priority queue. Duplicate elements are not
// filtered; callers that need set semantics track membership themselves.
type PriorityQueue[T any] struct {
	heap _heap[T]
	seq  uint64
}

// Empty creates an empty priority queue for elements of a given type,
// with the given comparison function.
func Empty[T any](less lessFunc[T]) PriorityQueue[T] {
	return PriorityQueue[T]{
		heap: _heap[T]{nil, less},
	}
}

// IsEmpty checks whether the priority queue is empty.
func (p *PriorityQueue[T]) IsEmpty() bool {
	return len(p.heap.list) == 0
}

// Len returns the number of queued elements.
func (p *PriorityQueue[T]) Len() int {
	return len(p.heap.list)
}

// GetNext pops the top element from the heap.
func (p *PriorityQueue[T]) GetNext() T {
	return heap.Pop(&p.heap).(entry[T]).value
}

// Add inserts the given element in the heap.
func (p *PriorityQueue[T]) Add(x T) {
	heap.Push(&p.heap, entry[T]{x, p.seq})
	p.seq++
}

// Remove deletes the first element (in heap layout order) satisfying pred.
// It reports whether an element was removed.
func (p *PriorityQueue[T]) Remove(pred func(T) bool) bool {
	for i, e := range p.heap.list {
		if pred(e.value) {
			heap.Remove(&p.heap, i)
			return true
		}
	}
	return false
}

// Clone copies the queue. Queued entries keep their insertion sequence.
func (p *PriorityQueue[T]) Clone() PriorityQueue[T] {
	list := make([]entry[T], len(p.heap.list))
	copy(list, p.heap.list)
	return PriorityQueue[T]{
		heap: _heap[T]{list, p.heap.less},
		seq:  p.seq,
	}
}
