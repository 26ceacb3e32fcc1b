package worklist

// Worklist is a double-ended list of pending elements. GetNext consumes from
// the front, which gives breadth-first processing, while GetLast consumes from
// the back, which gives depth-first processing.
type Worklist[T any] struct {
	list []T
}

func Empty[T any]() Worklist[T] {
	return Worklist[T]{}
}

// GetNext removes and returns the element at the front of the worklist.
func (w *Worklist[T]) GetNext() (ret T) {
	if len(w.list) == 0 {
		return
	}
	next := w.list[0]
	var zero T
	w.list[0] = zero
	w.list = w.list[1:]
	return next
}

// GetLast removes and returns the element at the back of the worklist.
func (w *Worklist[T]) GetLast() (ret T) {
	n := len(w.list)
	if n == 0 {
		return
	}
	last := w.list[n-1]
	var zero T
	w.list[n-1] = zero
	w.list = w.list[:n-1]
	return last
}

func (w *Worklist[T]) IsEmpty() bool {
	return len(w.list) == 0
}

func (w *Worklist[T]) Len() int {
	return len(w.list)
}

func (w *Worklist[T]) Add(el T) {
	w.list = append(w.list, el)
}

// Remove deletes the first element satisfying pred, preserving the order of
// the remaining elements. It reports whether an element was removed.
func (w *Worklist[T]) Remove(pred func(T) bool) bool {
	for i, el := range w.list {
		if pred(el) {
			copy(w.list[i:], w.list[i+1:])
			var zero T
			w.list[len(w.list)-1] = zero
			w.list = w.list[:len(w.list)-1]
			return true
		}
	}
	return false
}

// ForEach visits the elements from front to back.
func (w *Worklist[T]) ForEach(do func(T)) {
	for _, el := range w.list {
		do(el)
	}
}
