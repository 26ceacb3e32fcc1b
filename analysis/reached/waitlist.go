package reached

import (
	"github.com/cs-au-dk/gocpa/analysis/cpa"
	"github.com/cs-au-dk/gocpa/utils"
	"github.com/cs-au-dk/gocpa/utils/hmap"
	"github.com/cs-au-dk/gocpa/utils/pq"
	"github.com/cs-au-dk/gocpa/utils/worklist"
)

// Order is the exploration order of a waitlist.
type Order int

const (
	// DFS pops the most recently added state first.
	DFS Order = iota
	// BFS pops states in the order they were added.
	BFS
	// Priority pops the state with the lowest priority first. States with
	// equal priority are popped in the order they were added.
	Priority
)

func (o Order) String() string {
	switch o {
	case DFS:
		return "dfs"
	case BFS:
		return "bfs"
	case Priority:
		return "priority"
	}
	return "Order(?)"
}

// Waitlist is the ordered frontier of states pending exploration.
// A state is contained at most once.
type Waitlist interface {
	// Add enqueues the state, unless it is already waiting.
	Add(cpa.AbstractState)
	// Pop removes and returns the next state. It panics on an empty waitlist.
	Pop() cpa.AbstractState
	Remove(cpa.AbstractState) bool
	Contains(cpa.AbstractState) bool
	Size() int
	IsEmpty() bool
	// ForEach visits the waiting states in pop order.
	ForEach(func(cpa.AbstractState))
}

// NewWaitlist creates an empty waitlist. The priority function is only
// consulted by the Priority order and is required for it.
func NewWaitlist(order Order, priority func(cpa.AbstractState) int) Waitlist {
	switch order {
	case DFS, BFS:
		return &listWaitlist{
			lifo:    order == DFS,
			members: newMembers(),
		}
	case Priority:
		if priority == nil {
			panic("reached: priority waitlist requires a priority function")
		}
		return &priorityWaitlist{
			queue: pq.Empty(func(a, b cpa.AbstractState) bool {
				return priority(a) < priority(b)
			}),
			members: newMembers(),
		}
	}
	panic("reached: unknown waitlist order " + order.String())
}

// members tracks which states are waiting.
type members = *hmap.Map[cpa.AbstractState, struct{}]

func newMembers() members {
	return hmap.NewMap[struct{}](utils.HashableHasher[cpa.AbstractState]())
}

// listWaitlist is a stack or a queue, depending on lifo.
type listWaitlist struct {
	lifo    bool
	list    worklist.Worklist[cpa.AbstractState]
	members members
}

func (w *listWaitlist) Add(s cpa.AbstractState) {
	if _, found := w.members.GetOk(s); found {
		return
	}
	w.members.Set(s, struct{}{})
	w.list.Add(s)
}

func (w *listWaitlist) Pop() (s cpa.AbstractState) {
	if w.list.IsEmpty() {
		panic("reached: pop from empty waitlist")
	}
	if w.lifo {
		s = w.list.GetLast()
	} else {
		s = w.list.GetNext()
	}
	w.members.Delete(s)
	return
}

func (w *listWaitlist) Remove(s cpa.AbstractState) bool {
	if !w.members.Delete(s) {
		return false
	}
	return w.list.Remove(s.Equal)
}

func (w *listWaitlist) Contains(s cpa.AbstractState) bool {
	_, found := w.members.GetOk(s)
	return found
}

func (w *listWaitlist) Size() int {
	return w.list.Len()
}

func (w *listWaitlist) IsEmpty() bool {
	return w.list.IsEmpty()
}

func (w *listWaitlist) ForEach(do func(cpa.AbstractState)) {
	if !w.lifo {
		w.list.ForEach(do)
		return
	}

	states := make([]cpa.AbstractState, 0, w.list.Len())
	w.list.ForEach(func(s cpa.AbstractState) {
		states = append(states, s)
	})
	for i := len(states) - 1; i >= 0; i-- {
		do(states[i])
	}
}

type priorityWaitlist struct {
	queue   pq.PriorityQueue[cpa.AbstractState]
	members members
}

func (w *priorityWaitlist) Add(s cpa.AbstractState) {
	if _, found := w.members.GetOk(s); found {
		return
	}
	w.members.Set(s, struct{}{})
	w.queue.Add(s)
}

func (w *priorityWaitlist) Pop() cpa.AbstractState {
	if w.queue.IsEmpty() {
		panic("reached: pop from empty waitlist")
	}
	s := w.queue.GetNext()
	w.members.Delete(s)
	return s
}

func (w *priorityWaitlist) Remove(s cpa.AbstractState) bool {
	if !w.members.Delete(s) {
		return false
	}
	return w.queue.Remove(s.Equal)
}

func (w *priorityWaitlist) Contains(s cpa.AbstractState) bool {
	_, found := w.members.GetOk(s)
	return found
}

func (w *priorityWaitlist) Size() int {
	return w.queue.Len()
}

func (w *priorityWaitlist) IsEmpty() bool {
	return w.queue.IsEmpty()
}

// ForEach visits the states in pop order by draining a copy of the queue.
func (w *priorityWaitlist) ForEach(do func(cpa.AbstractState)) {
	cp := w.queue.Clone()
	for !cp.IsEmpty() {
		do(cp.GetNext())
	}
}
