// Package idx generates ULID-based keys. The storefront uses them as
// idempotency keys on order-creation requests so a retried submission
// cannot create a second order.
package idx

import (
	"crypto/rand"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

type Key string

// Zero represents the zero value Key, don't use this unless its a placeholder.
const Zero Key = ""

// ErrInvalid reports a malformed ULID string.
var ErrInvalid = errors.New("idx: invalid ulid")

var (
	globalOnce sync.Once
	global     *generator
)

// generator safely produces ULIDs concurrently from a monotonic source, so
// keys minted in the same millisecond still sort in mint order.
type generator struct {
	mu      sync.Mutex
	entropy *ulid.MonotonicEntropy
}

func (g *generator) newAt(t time.Time) Key {
	g.mu.Lock()
	defer g.mu.Unlock()

	u := ulid.MustNew(ulid.Timestamp(t), g.entropy)
	return Key(u.String())
}

func initGlobal() {
	global = &generator{entropy: ulid.Monotonic(rand.Reader, 0)}
}

// New returns a new lexicographically sortable key using the current time in
// UTC.
func New() Key {
	globalOnce.Do(initGlobal)
	return global.newAt(time.Now().UTC())
}

// NewAt generates a key at the provided time, useful for tests.
func NewAt(t time.Time) Key {
	globalOnce.Do(initGlobal)
	return global.newAt(t.UTC())
}

// Parse validates the form of a ULID string and returns it as a Key.
func Parse(s string) (Key, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Zero, ErrInvalid
	}

	if _, err := ulid.ParseStrict(s); err != nil {
		return Zero, ErrInvalid
	}

	return Key(s), nil
}

// IsZero reports whether k is the zero value.
func (k Key) IsZero() bool { return k == Zero }

// String returns the canonical string form.
func (k Key) String() string { return string(k) }

// Time extracts the embedded UTC timestamp, or the zero time for malformed
// keys.
func (k Key) Time() time.Time {
	if k.IsZero() {
		return time.Time{}
	}

	u, err := ulid.ParseStrict(k.String())
	if err != nil {
		return time.Time{}
	}

	return ulid.Time(u.Time())
}
