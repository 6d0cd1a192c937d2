package store

import (
	"testing"

	"deaddrop/internal/record"
)

func TestUUIDGenerator_Unique(t *testing.T) {
	gen := UUIDGenerator{}
	seen := make(map[record.MessageID]bool)
	for i := 0; i < 1000; i++ {
		id := gen.Generate()
		if seen[id] {
			t.Fatalf("duplicate id %x after %d generations", id, i)
		}
		seen[id] = true
	}
}

func TestUUIDGenerator_NonZero(t *testing.T) {
	id := UUIDGenerator{}.Generate()
	if id == (record.MessageID{}) {
		t.Error("generated id is all zeros")
	}
}

func TestFixedGenerator_ReturnsInOrder(t *testing.T) {
	a := record.MessageID{0x01}
	b := record.MessageID{0x02}
	gen := NewFixedGenerator(a, b)

	if got := gen.Generate(); got != a {
		t.Errorf("first id = %x, want %x", got, a)
	}
	if got := gen.Generate(); got != b {
		t.Errorf("second id = %x, want %x", got, b)
	}
}

func TestFixedGenerator_PanicsWhenExhausted(t *testing.T) {
	gen := NewFixedGenerator(record.MessageID{0x01})
	gen.Generate()

	defer func() {
		if recover() == nil {
			t.Error("expected panic on exhausted generator")
		}
	}()
	gen.Generate()
}
