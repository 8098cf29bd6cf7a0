package idgen

import (
	"strings"
	"testing"
)

func TestNew(t *testing.T) {
	seen := make(map[string]bool, 1000)
	for i := 0; i < 1000; i++ {
		id, err := New()
		if err != nil {
			t.Fatalf("New() error = %v", err)
		}
		if !strings.HasPrefix(id, Prefix) {
			t.Fatalf("New() = %q, want prefix %q", id, Prefix)
		}
		if len(id) != len(Prefix)+length {
			t.Fatalf("New() = %q, want length %d", id, len(Prefix)+length)
		}
		if seen[id] {
			t.Fatalf("New() returned duplicate id %q", id)
		}
		seen[id] = true
	}
}
