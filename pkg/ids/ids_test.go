package ids

import (
	"sort"
	"testing"
	"time"
)

func TestNewIsSortableAndUnique(t *testing.T) {
	seen := make(map[string]struct{})
	var generated []string
	for i := 0; i < 1000; i++ {
		id := New()
		if !Valid(id) {
			t.Fatalf("invalid id %q", id)
		}
		if _, dup := seen[id]; dup {
			t.Fatalf("duplicate id %q", id)
		}
		seen[id] = struct{}{}
		generated = append(generated, id)
	}
	if !sort.StringsAreSorted(generated) {
		t.Error("ids are not monotonic")
	}
}

func TestValid(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{NewAt(time.Unix(1700000000, 0)), true},
		{"", false},
		{"not-a-ulid", false},
		{"01ARZ3NDEKTSV4RRFFQ69G5FA", false},
	}
	for _, tt := range tests {
		if got := Valid(tt.in); got != tt.want {
			t.Errorf("Valid(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
