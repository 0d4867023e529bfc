// Package idx generates the ULID identifiers used for users and requests.
package idx

import (
	"crypto/rand"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

// ID is a ULID in its canonical 26 character form. IDs minted by one
// Generator sort in creation order.
type ID string

// ErrInvalid reports a malformed ULID string.
var ErrInvalid = errors.New("idx: invalid ulid")

// Generator mints IDs from a monotonic entropy source so that IDs created in
// the same millisecond still sort in order. It is safe for concurrent use.
type Generator struct {
	mu      sync.Mutex
	entropy *ulid.MonotonicEntropy
	now     func() time.Time
}

// NewGenerator returns a Generator reading randomness from entropy and time
// from now. Nil arguments select crypto/rand and time.Now.
func NewGenerator(entropy io.Reader, now func() time.Time) *Generator {
	if entropy == nil {
		entropy = rand.Reader
	}
	if now == nil {
		now = time.Now
	}
	return &Generator{entropy: ulid.Monotonic(entropy, 0), now: now}
}

// Next mints an ID stamped with the generator's current time.
func (g *Generator) Next() (ID, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	u, err := ulid.New(ulid.Timestamp(g.now()), g.entropy)
	if err != nil {
		return "", fmt.Errorf("idx: generate: %w", err)
	}
	return ID(u.String()), nil
}

var std = NewGenerator(nil, nil)

// New mints an ID from the process-wide generator. It panics if the system
// entropy source fails.
func New() ID {
	id, err := std.Next()
	if err != nil {
		panic(err)
	}
	return id
}

// Parse validates s as a ULID.
func Parse(s string) (ID, error) {
	s = strings.TrimSpace(s)
	if _, err := ulid.ParseStrict(s); err != nil {
		return "", ErrInvalid
	}
	return ID(strings.ToUpper(s)), nil
}

func (id ID) String() string { return string(id) }

// Time returns the UTC millisecond timestamp embedded in id, or the zero time
// if id is not a valid ULID.
func (id ID) Time() time.Time {
	u, err := ulid.ParseStrict(string(id))
	if err != nil {
		return time.Time{}
	}
	return ulid.Time(u.Time()).UTC()
}
