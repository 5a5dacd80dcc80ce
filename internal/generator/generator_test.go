package generator

import "testing"

func TestBagDealsEveryKindOnce(t *testing.T) {
	g := NewSeeded(7, 42)
	for bag := 0; bag < 3; bag++ {
		seen := make(map[int]bool)
		for i := 0; i < 7; i++ {
			k := g.Next()
			if k < 0 || k >= 7 {
				t.Fatalf("kind out of range: %d", k)
			}
			if seen[k] {
				t.Fatalf("bag %d repeated kind %d", bag, k)
			}
			seen[k] = true
		}
	}
}

func TestSeededSequenceRepeats(t *testing.T) {
	a := NewSeeded(7, 1)
	b := NewSeeded(7, 1)
	for i := 0; i < 20; i++ {
		if x, y := a.Next(), b.Next(); x != y {
			t.Fatalf("step %d: %d != %d", i, x, y)
		}
	}
}

func TestResetStartsNewBag(t *testing.T) {
	g := NewSeeded(4, 3)
	g.Next()
	g.Reset()
	seen := make(map[int]bool)
	for i := 0; i < 4; i++ {
		seen[g.Next()] = true
	}
	if len(seen) != 4 {
		t.Fatalf("expected a full bag after reset, got %v", seen)
	}
}

func TestSingleKindMinimum(t *testing.T) {
	g := NewSeeded(0, 1)
	if k := g.Next(); k != 0 {
		t.Fatalf("expected kind 0, got %d", k)
	}
}
