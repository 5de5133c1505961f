// Package sampling provides the seeded random source behind capped groups
// and null-pair draws.
//
// All randomness derives from the seed given to New, so results are
// reproducible across runs and platforms (PCG is fully specified by
// math/rand/v2).
package sampling

import (
	"math/rand/v2"
	"sync"

	"github.com/RoaringBitmap/roaring/v2"
)

// Sampler is a seeded random source. It is safe for concurrent use.
//
// Draws come from two kinds of streams: one shared stream that advances with
// every call to IntN, Pick and NullPair, and independent per-call streams used
// by Clip, so that clipping a group never depends on what was drawn before.
type Sampler struct {
	seed int64

	mu  sync.Mutex
	rng *rand.Rand
}

// New creates a Sampler from seed.
func New(seed int64) *Sampler {
	return &Sampler{
		seed: seed,
		rng:  rand.New(rand.NewPCG(uint64(seed), 0)),
	}
}

// Seed returns the initial seed.
func (s *Sampler) Seed() int64 { return s.seed }

// Reset rewinds the shared stream to its initial state.
func (s *Sampler) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rng = rand.New(rand.NewPCG(uint64(s.seed), 0))
}

// IntN returns a pseudo-random number in [0,n) from the shared stream.
// It panics if n <= 0.
func (s *Sampler) IntN(n int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rng.IntN(n)
}

// Pick returns a uniformly chosen member of rows from the shared stream.
func (s *Sampler) Pick(rows *roaring.Bitmap) (uint32, bool) {
	n := rows.GetCardinality()
	if n == 0 {
		return 0, false
	}

	s.mu.Lock()
	i := s.rng.Uint64N(n)
	s.mu.Unlock()

	v, err := rows.Select(uint32(i))
	if err != nil {
		return 0, false
	}
	return v, true
}

// Clip returns rows unchanged when it holds at most limit members, and
// otherwise a subset of exactly limit members drawn uniformly without
// replacement. The draw uses a stream derived from the seed and stream, so
// equal inputs always produce the same subset.
func (s *Sampler) Clip(rows *roaring.Bitmap, limit int, stream uint64) *roaring.Bitmap {
	if limit <= 0 || rows.GetCardinality() <= uint64(limit) {
		return rows
	}

	ids := rows.ToArray()
	rng := rand.New(rand.NewPCG(uint64(s.seed), stream+1))

	// Partial Fisher-Yates: the first limit slots end up a uniform sample.
	for i := range limit {
		j := i + rng.IntN(len(ids)-i)
		ids[i], ids[j] = ids[j], ids[i]
	}

	return roaring.BitmapOf(ids[:limit]...)
}

// NullPair draws a random row a from [0,n) and then a random partner from
// candidates(a). Rows with no candidate are redrawn, at most tries times.
// The returned pair is ordered so that a < b; used reports the number of
// draws made.
func (s *Sampler) NullPair(n, tries int, candidates func(a uint32) *roaring.Bitmap) (a, b uint32, used int, ok bool) {
	if n < 2 {
		return 0, 0, 0, false
	}
	for used = 1; used <= tries; used++ {
		a = uint32(s.IntN(n))
		b, ok = s.Pick(candidates(a))
		if !ok {
			continue
		}
		if b < a {
			a, b = b, a
		}
		return a, b, used, true
	}
	return 0, 0, tries, false
}
