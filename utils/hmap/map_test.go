package hmap

import "testing"

// collidingHasher maps every key to the same bucket to exercise chaining.
type collidingHasher struct{}

func (collidingHasher) Hash(int) uint32      { return 7 }
func (collidingHasher) Equal(a, b int) bool { return a == b }

func TestSetGetDelete(t *testing.T) {
	m := NewMap[string](collidingHasher{})
	for i, s := range []string{"a", "b", "c"} {
		m.Set(i, s)
	}

	if m.Len() != 3 {
		t.Fatalf("Len() = %d, expected 3", m.Len())
	}
	if v, ok := m.GetOk(1); !ok || v != "b" {
		t.Errorf("GetOk(1) = %q, %v, expected \"b\", true", v, ok)
	}

	m.Set(1, "B")
	if m.Len() != 3 {
		t.Errorf("Overwriting changed Len() to %d", m.Len())
	}
	if v := m.Get(1); v != "B" {
		t.Errorf("Get(1) = %q, expected \"B\"", v)
	}

	for _, k := range []int{1, 0, 2} {
		if !m.Delete(k) {
			t.Errorf("Delete(%d) reported a miss", k)
		}
		if _, ok := m.GetOk(k); ok {
			t.Errorf("Key %d still present after Delete", k)
		}
	}
	if m.Delete(0) {
		t.Error("Deleting a missing key reported a hit")
	}
	if m.Len() != 0 {
		t.Errorf("Len() = %d, expected 0", m.Len())
	}
}

func TestForEach(t *testing.T) {
	m := NewMap[int](collidingHasher{})
	for i := 0; i < 4; i++ {
		m.Set(i, i*i)
	}

	sum := 0
	m.ForEach(func(k, v int) {
		if v != k*k {
			t.Errorf("Binding %d -> %d, expected %d", k, v, k*k)
		}
		sum += k
	})
	if sum != 6 {
		t.Errorf("Visited key sum %d, expected 6", sum)
	}
}
