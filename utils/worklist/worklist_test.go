package worklist

import "testing"

func TestFrontAndBack(t *testing.T) {
	W := Empty[int]()
	for i := 0; i < 5; i++ {
		W.Add(i)
	}

	if got := W.GetNext(); got != 0 {
		t.Errorf("GetNext() = %d, expected 0", got)
	}
	if got := W.GetLast(); got != 4 {
		t.Errorf("GetLast() = %d, expected 4", got)
	}
	if W.Len() != 3 {
		t.Errorf("Len() = %d, expected 3", W.Len())
	}
}

func TestRemovePreservesOrder(t *testing.T) {
	W := Empty[int]()
	for i := 0; i < 5; i++ {
		W.Add(i)
	}

	if !W.Remove(func(x int) bool { return x == 2 }) {
		t.Fatal("Expected 2 to be removed")
	}
	if W.Remove(func(x int) bool { return x == 2 }) {
		t.Error("2 was removed twice")
	}

	var order []int
	W.ForEach(func(x int) { order = append(order, x) })
	expected := []int{0, 1, 3, 4}
	if len(order) != len(expected) {
		t.Fatalf("Order %v, expected %v", order, expected)
	}
	for i := range expected {
		if order[i] != expected[i] {
			t.Errorf("Order %v, expected %v", order, expected)
			break
		}
	}
}
