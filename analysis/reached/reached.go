package reached

import (
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/benbjohnson/immutable"
	"github.com/fatih/color"

	"github.com/cs-au-dk/gocpa/analysis/cpa"
	"github.com/cs-au-dk/gocpa/utils"
	"github.com/cs-au-dk/gocpa/utils/hmap"
)

// Config selects the waitlist of a reached set.
type Config struct {
	Order Order
	// Priority is required by the Priority order.
	Priority func(cpa.AbstractState) int
}

type (
	// PartitionedReachedSet is a reached set that indexes its states by
	// partition key, so merge and stop candidates are looked up without
	// scanning the whole set.
	PartitionedReachedSet struct {
		index      *hmap.Map[cpa.AbstractState, *entry]
		partitions map[any][]cpa.AbstractState
		waitlist   Waitlist
		seq        uint64
	}

	entry struct {
		prec cpa.Precision
		// seq records the insertion order of the state.
		seq uint64
	}

	// globalPartition is the key of states that are not Partitionable.
	globalPartition struct{}
)

var _ cpa.ReachedSet = (*PartitionedReachedSet)(nil)

// New creates an empty reached set.
func New(cfg Config) *PartitionedReachedSet {
	return &PartitionedReachedSet{
		index:      hmap.NewMap[*entry](utils.HashableHasher[cpa.AbstractState]()),
		partitions: make(map[any][]cpa.AbstractState),
		waitlist:   NewWaitlist(cfg.Order, cfg.Priority),
	}
}

// PartitionKey returns the partition of a state.
func PartitionKey(s cpa.AbstractState) any {
	if p, ok := s.(cpa.Partitionable); ok {
		return p.Partition()
	}
	return globalPartition{}
}

func (r *PartitionedReachedSet) HasWaitingState() bool {
	return !r.waitlist.IsEmpty()
}

func (r *PartitionedReachedSet) PopFromWaitlist() (cpa.AbstractState, cpa.Precision) {
	s := r.waitlist.Pop()
	return s, r.index.Get(s).prec
}

func (r *PartitionedReachedSet) Precision(s cpa.AbstractState) (cpa.Precision, bool) {
	if e, found := r.index.GetOk(s); found {
		return e.prec, true
	}
	return nil, false
}

// Reached returns a copy of the states in the partition of s.
func (r *PartitionedReachedSet) Reached(s cpa.AbstractState) []cpa.AbstractState {
	part := r.partitions[PartitionKey(s)]
	res := make([]cpa.AbstractState, len(part))
	copy(res, part)
	return res
}

func (r *PartitionedReachedSet) Contains(s cpa.AbstractState) bool {
	_, found := r.index.GetOk(s)
	return found
}

func (r *PartitionedReachedSet) Size() int {
	return r.index.Len()
}

func (r *PartitionedReachedSet) WaitlistSize() int {
	return r.waitlist.Size()
}

// Add inserts a state and puts it on the waitlist. A state that is already
// reached is only put on the waitlist again if its precision changed.
func (r *PartitionedReachedSet) Add(s cpa.AbstractState, p cpa.Precision) {
	if old, found := r.Precision(s); found && reflect.DeepEqual(old, p) {
		return
	}
	r.AddToReached(s, p)
	r.waitlist.Add(s)
}

func (r *PartitionedReachedSet) AddAll(pairs []cpa.StatePrecision) {
	for _, sp := range pairs {
		r.Add(sp.State, sp.Precision)
	}
}

func (r *PartitionedReachedSet) AddToReached(s cpa.AbstractState, p cpa.Precision) {
	if e, found := r.index.GetOk(s); found {
		e.prec = p
		return
	}

	r.index.Set(s, &entry{prec: p, seq: r.seq})
	r.seq++
	key := PartitionKey(s)
	r.partitions[key] = append(r.partitions[key], s)
}

func (r *PartitionedReachedSet) Remove(s cpa.AbstractState) {
	if !r.index.Delete(s) {
		return
	}
	r.waitlist.Remove(s)

	key := PartitionKey(s)
	part := r.partitions[key]
	for i, o := range part {
		if o.Equal(s) {
			part = append(part[:i:i], part[i+1:]...)
			break
		}
	}
	if len(part) == 0 {
		delete(r.partitions, key)
	} else {
		r.partitions[key] = part
	}
}

func (r *PartitionedReachedSet) RemoveAll(states []cpa.AbstractState) {
	for _, s := range states {
		r.Remove(s)
	}
}

func (r *PartitionedReachedSet) ReAddToWaitlist(s cpa.AbstractState) {
	if !r.Contains(s) {
		panic(fmt.Errorf("reached: %s is re-added to the waitlist but is not reached", s))
	}
	r.waitlist.Add(s)
}

// ForEach visits the reached states in insertion order.
func (r *PartitionedReachedSet) ForEach(do func(cpa.AbstractState, cpa.Precision)) {
	type binding struct {
		s cpa.AbstractState
		e *entry
	}

	bindings := make([]binding, 0, r.index.Len())
	r.index.ForEach(func(s cpa.AbstractState, e *entry) {
		bindings = append(bindings, binding{s, e})
	})
	sort.Slice(bindings, func(i, j int) bool {
		return bindings[i].e.seq < bindings[j].e.seq
	})

	for _, b := range bindings {
		do(b.s, b.e.prec)
	}
}

func (r *PartitionedReachedSet) Waiting() (res []cpa.AbstractState) {
	r.waitlist.ForEach(func(s cpa.AbstractState) {
		res = append(res, s)
	})
	return
}

func (r *PartitionedReachedSet) Targets() (res []cpa.AbstractState) {
	r.ForEach(func(s cpa.AbstractState, _ cpa.Precision) {
		if cpa.IsTarget(s) {
			res = append(res, s)
		}
	})
	return
}

// Snapshot returns an immutable copy of the reached states and their
// precisions. Later changes to the reached set do not affect it.
func (r *PartitionedReachedSet) Snapshot() *immutable.Map[cpa.AbstractState, cpa.Precision] {
	b := immutable.NewMapBuilder[cpa.AbstractState, cpa.Precision](utils.HashableHasher[cpa.AbstractState]())
	r.index.ForEach(func(s cpa.AbstractState, e *entry) {
		b.Set(s, e.prec)
	})
	return b.Map()
}

var colorize = struct {
	State   func(...interface{}) string
	Target  func(...interface{}) string
	Waiting func(...interface{}) string
	Prec    func(...interface{}) string
}{
	State: func(is ...interface{}) string {
		return utils.CanColorize(color.New(color.FgCyan).SprintFunc())(is...)
	},
	Target: func(is ...interface{}) string {
		return utils.CanColorize(color.New(color.FgHiRed, color.Bold).SprintFunc())(is...)
	},
	Waiting: func(is ...interface{}) string {
		return utils.CanColorize(color.New(color.FgYellow).SprintFunc())(is...)
	},
	Prec: func(is ...interface{}) string {
		return utils.CanColorize(color.New(color.FgHiWhite, color.Faint).SprintFunc())(is...)
	},
}

// String lists the reached states in insertion order. Waiting states are
// marked with ⧗ and target states with ☠.
func (r *PartitionedReachedSet) String() string {
	var buf strings.Builder
	fmt.Fprintf(&buf, "Reached: %d states, %d waiting {\n", r.Size(), r.WaitlistSize())
	r.ForEach(func(s cpa.AbstractState, p cpa.Precision) {
		str := colorize.State(s)
		if cpa.IsTarget(s) {
			str = colorize.Target(s) + " ☠"
		}
		if r.waitlist.Contains(s) {
			str += " " + colorize.Waiting("⧗")
		}
		fmt.Fprintf(&buf, "  %s %s %s\n", str, colorize.Prec("@"), colorize.Prec(p))
	})
	buf.WriteString("}")
	return buf.String()
}
