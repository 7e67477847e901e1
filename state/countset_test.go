package state

import "testing"

func TestCountsetAdd(t *testing.T) {
	c := NewCountset()
	adds := []string{"a", "b", "a", "c", "a", "b"}
	for _, text := range adds {
		c.Add(text)
	}

	if c.Len() != 3 {
		t.Errorf("expected 3 distinct messages, got %d", c.Len())
	}
	if c.Total() != len(adds) {
		t.Errorf("expected total %d, got %d", len(adds), c.Total())
	}

	expected := map[string]int{"a": 3, "b": 2, "c": 1}
	for text, count := range expected {
		if got := c.Count(text); got != count {
			t.Errorf("count for %q: expected %d, got %d", text, count, got)
		}
	}
}

func TestCountsetFirstSeenIndexIsStable(t *testing.T) {
	c := NewCountset()
	c.Add("first")
	c.Add("second")
	idx, ok := c.Index("first")
	if !ok || idx != 0 {
		t.Fatalf("expected index 0 for first message, got %d (present: %v)", idx, ok)
	}

	// repeats must not move the entry
	c.Add("first")
	c.Add("first")
	idx, _ = c.Index("first")
	if idx != 0 {
		t.Errorf("first-seen index changed after repeats: %d", idx)
	}
	idx, _ = c.Index("second")
	if idx != 1 {
		t.Errorf("expected index 1 for second message, got %d", idx)
	}
}

func TestCountsetOrderedIteration(t *testing.T) {
	c := NewCountset()
	for _, text := range []string{"z", "a", "m", "a", "z"} {
		c.Add(text)
	}
	var order []string
	c.Each(func(text string, count int) {
		order = append(order, text)
	})
	expected := []string{"z", "a", "m"}
	if len(order) != len(expected) {
		t.Fatalf("expected %d entries, got %d", len(expected), len(order))
	}
	for i, text := range expected {
		if order[i] != text {
			t.Errorf("position %d: expected %q, got %q", i, text, order[i])
		}
	}
}
