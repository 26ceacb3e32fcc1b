package pq

import "testing"

func TestPriorityOrder(t *testing.T) {
	q := Empty(func(a, b int) bool { return a < b })
	for _, x := range []int{5, 3, 8, 1, 9, 2} {
		q.Add(x)
	}

	expected := []int{1, 2, 3, 5, 8, 9}
	for _, exp := range expected {
		if q.IsEmpty() {
			t.Fatal("Queue is unexpectedly empty")
		}
		if got := q.GetNext(); got != exp {
			t.Errorf("GetNext() = %d, expected %d", got, exp)
		}
	}
	if !q.IsEmpty() {
		t.Error("Expected queue to be empty")
	}
}

func TestTiesAreInsertionOrdered(t *testing.T) {
	type item struct{ prio, id int }
	q := Empty(func(a, b item) bool { return a.prio < b.prio })
	for id := 0; id < 10; id++ {
		q.Add(item{id % 2, id})
	}

	expected := []int{0, 2, 4, 6, 8, 1, 3, 5, 7, 9}
	for _, exp := range expected {
		if got := q.GetNext(); got.id != exp {
			t.Errorf("GetNext() = %v, expected id %d", got, exp)
		}
	}
}

func TestRemove(t *testing.T) {
	q := Empty(func(a, b int) bool { return a < b })
	for _, x := range []int{4, 1, 3, 2} {
		q.Add(x)
	}

	if !q.Remove(func(x int) bool { return x == 3 }) {
		t.Fatal("Expected 3 to be removed")
	}
	if q.Remove(func(x int) bool { return x == 7 }) {
		t.Error("Removed an element that was never added")
	}
	if q.Len() != 3 {
		t.Errorf("Len() = %d, expected 3", q.Len())
	}

	for _, exp := range []int{1, 2, 4} {
		if got := q.GetNext(); got != exp {
			t.Errorf("GetNext() = %d, expected %d", got, exp)
		}
	}
}
