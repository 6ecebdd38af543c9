package service

import (
	"crypto/rand"
	"fmt"
	"io"
	"time"

	"github.com/oklog/ulid/v2"
)

// suffixLen is the number of trailing ULID characters kept. They come from
// the entropy half of the ULID, 50 random bits in Crockford base32.
const suffixLen = 10

// OrderNumberGenerator produces numbers like RAY-20261018-7K3MZ9Q0TB. Numbers
// drawn from the same process in the same millisecond come from a monotonic
// entropy source and never repeat.
type OrderNumberGenerator struct {
	prefix  string
	now     func() time.Time
	entropy io.Reader
}

func NewOrderNumberGenerator(prefix string) *OrderNumberGenerator {
	return &OrderNumberGenerator{
		prefix:  prefix,
		now:     time.Now,
		entropy: &ulid.LockedMonotonicReader{MonotonicReader: ulid.Monotonic(rand.Reader, 0)},
	}
}

func (g *OrderNumberGenerator) Next() (string, error) {
	now := g.now().UTC()

	id, err := ulid.New(ulid.Timestamp(now), g.entropy)
	if err != nil {
		return "", fmt.Errorf("generating order number: %w", err)
	}

	encoded := id.String()
	return fmt.Sprintf("%s-%s-%s", g.prefix, now.Format("20060102"), encoded[len(encoded)-suffixLen:]), nil
}
