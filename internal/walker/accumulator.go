package walker

import (
	"sync"

	"github.com/garrettladley/sha1dir/internal/object"
)

// accumulator XORs entry digests into a single checksum. XOR makes the
// result independent of the order in which digests arrive.
type accumulator struct {
	mu  sync.Mutex
	sum object.Hash
}

func (a *accumulator) combine(h object.Hash) {
	a.mu.Lock()
	a.sum = a.sum.Xor(h)
	a.mu.Unlock()
}

// value must only be read after every task that combines into a has joined.
func (a *accumulator) value() object.Hash {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.sum
}
