package testutil

import (
	"math/rand/v2"
	"sync"

	"github.com/hupe1980/scalarindex/internal/scalar"
)

// RNG struct encapsulates the random number generator and seed.
// It is thread-safe.
type RNG struct {
	rand *rand.Rand
	seed uint64
	mu   sync.Mutex
}

// NewRNG creates a new RNG instance with the specified seed.
func NewRNG(seed uint64) *RNG {
	return &RNG{
		rand: rand.New(rand.NewPCG(seed, seed)),
		seed: seed,
	}
}

// Reset resets the RNG to its initial seed.
func (r *RNG) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rand = rand.New(rand.NewPCG(r.seed, r.seed))
}

// Seed returns the initial seed.
func (r *RNG) Seed() uint64 {
	return r.seed
}

// IntN returns a non-negative pseudo-random number in [0,n).
func (r *RNG) IntN(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.IntN(n)
}

// Column returns n values drawn from distinct candidates. Candidates are
// centered on zero for signed types so negative values show up too.
// distinct <= 0 means every row may be unique.
func Column[T scalar.Numeric](r *RNG, n, distinct int) []T {
	if distinct <= 0 {
		distinct = n
	}
	var zero T
	signed := zero-1 < zero

	out := make([]T, n)
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range out {
		k := r.rand.IntN(distinct)
		if signed {
			k -= distinct / 2
		}
		out[i] = T(k)
	}
	return out
}

// Strings returns n lowercase strings of up to maxLen bytes drawn from
// distinct candidates. The empty string is always a candidate.
func (r *RNG) Strings(n, distinct, maxLen int) []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	pool := make([]string, distinct)
	for i := 1; i < distinct; i++ {
		b := make([]byte, 1+r.rand.IntN(maxLen))
		for j := range b {
			b[j] = byte('a' + r.rand.IntN(26))
		}
		pool[i] = string(b)
	}

	out := make([]string, n)
	for i := range out {
		out[i] = pool[r.rand.IntN(distinct)]
	}
	return out
}

// Scan returns the positions whose value satisfies pred, in ascending
// order. The result is never nil.
func Scan[T any](values []T, pred func(T) bool) []uint64 {
	out := []uint64{}
	for i, v := range values {
		if pred(v) {
			out = append(out, uint64(i))
		}
	}
	return out
}
