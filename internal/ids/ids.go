package ids

import (
	mathrand "math/rand"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

var (
	entropyMu sync.Mutex
	entropy   = ulid.Monotonic(mathrand.New(mathrand.NewSource(time.Now().UnixNano())), 0)
)

// New returns a lexicographically sortable identifier with a type prefix,
// e.g. New("club") -> "club-01J9...". The prefix keeps keys self-describing
// across tables that reference each other by id.
func New(prefix string) string {
	entropyMu.Lock()
	defer entropyMu.Unlock()
	id := ulid.MustNew(ulid.Timestamp(time.Now()), entropy).String()
	if prefix == "" {
		return id
	}
	return prefix + "-" + id
}
