package cache

import "testing"

func TestEstimatedSize_Deterministic(t *testing.T) {
	a := estimatedSize("hello")
	b := estimatedSize("hello")
	if a != b {
		t.Errorf("estimatedSize not deterministic: %d != %d", a, b)
	}
}

func TestEstimatedSize_GrowsWithContent(t *testing.T) {
	small := estimatedSize("hi")
	large := estimatedSize("hello world, this is a much longer string")
	if large <= small {
		t.Errorf("expected larger string to charge more bytes: small=%d large=%d", small, large)
	}
}

func TestEstimatedSize_Nil(t *testing.T) {
	if got := estimatedSize(nil); got != entryOverheadBytes {
		t.Errorf("estimatedSize(nil) = %d, want %d", got, entryOverheadBytes)
	}
}

func TestEstimatedSize_CyclicPointerDoesNotLoop(t *testing.T) {
	type node struct {
		next *node
		val  int
	}
	n := &node{val: 1}
	n.next = n // self-cycle

	size := estimatedSize(n)
	if size <= 0 {
		t.Errorf("expected positive size, got %d", size)
	}
}

func TestEstimatedSize_Map(t *testing.T) {
	m := map[string]int{"a": 1, "b": 2, "c": 3}
	if got := estimatedSize(m); got <= entryOverheadBytes {
		t.Errorf("expected map size to exceed base overhead, got %d", got)
	}
}

func TestEstimatedSize_Struct(t *testing.T) {
	type payload struct {
		Name string
		Tags []string
	}
	p := payload{Name: "widget", Tags: []string{"a", "b", "c"}}
	if got := estimatedSize(p); got <= entryOverheadBytes {
		t.Errorf("expected struct size to exceed base overhead, got %d", got)
	}
}
