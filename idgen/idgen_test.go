package idgen

import (
	"strings"
	"testing"
)

func TestNanoID_Length(t *testing.T) {
	for _, length := range []int{8, 12, 16, 24} {
		gen := NanoID(length)
		id := gen()
		if len(id) != length {
			t.Fatalf("NanoID(%d): got length %d", length, len(id))
		}
	}
}

func TestNanoID_Unique(t *testing.T) {
	gen := NanoID(16)
	seen := make(map[string]bool)
	for i := 0; i < 1000; i++ {
		id := gen()
		if seen[id] {
			t.Fatalf("duplicate id %q", id)
		}
		seen[id] = true
	}
}

func TestUUIDv7_SortableByTime(t *testing.T) {
	// UUIDv7 encodes a millisecond timestamp in the high bits, so ids
	// generated in sequence compare in generation order. The stores rely
	// on this for "newest first by id" ordering.
	gen := UUIDv7()
	prev := gen()
	for i := 0; i < 100; i++ {
		next := gen()
		if strings.Compare(prev, next) > 0 {
			t.Fatalf("ids out of order: %q then %q", prev, next)
		}
		prev = next
	}
}

func TestPrefixed(t *testing.T) {
	gen := Prefixed("sess_", NanoID(12))
	id := gen()
	if !strings.HasPrefix(id, "sess_") {
		t.Fatalf("id %q missing prefix", id)
	}
	if len(id) != len("sess_")+12 {
		t.Fatalf("id %q has wrong length", id)
	}
}

func TestParse(t *testing.T) {
	id := New()
	got, err := Parse(id)
	if err != nil {
		t.Fatalf("Parse(%q): %v", id, err)
	}
	if got != id {
		t.Fatalf("Parse round-trip: got %q, want %q", got, id)
	}
	if _, err := Parse("not-a-uuid"); err == nil {
		t.Fatal("Parse accepted a malformed id")
	}
}
