package ids

import (
	"strings"
	"sync"
	"testing"
)

func TestNewPrefixes(t *testing.T) {
	id := New("club")
	if !strings.HasPrefix(id, "club-") {
		t.Fatalf("missing prefix: %q", id)
	}
	if len(id) != len("club-")+26 {
		t.Fatalf("unexpected length: %q", id)
	}
	if bare := New(""); strings.Contains(bare, "-") {
		t.Fatalf("bare id must have no separator: %q", bare)
	}
}

func TestNewUniqueUnderConcurrency(t *testing.T) {
	const n = 64
	out := make(chan string, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			out <- New("reg")
		}()
	}
	wg.Wait()
	close(out)

	seen := make(map[string]bool, n)
	for id := range out {
		if seen[id] {
			t.Fatalf("duplicate id: %q", id)
		}
		seen[id] = true
	}
}
