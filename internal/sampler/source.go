package sampler

import (
	"math/rand"
)

// Source is the single seeded randomness source threaded through a generation run.
// It is not safe for concurrent use.
type Source struct {
	seed int64
	rng  *rand.Rand
}

// NewSource creates a source with the given seed. The same seed always yields
// the same sequence of draws.
func NewSource(seed int64) *Source {
	return &Source{
		seed: seed,
		rng:  rand.New(rand.NewSource(seed)),
	}
}

func (s *Source) Seed() int64 {
	return s.seed
}

// Float64 returns a random float64 in [0.0, 1.0)
func (s *Source) Float64() float64 {
	return s.rng.Float64()
}

// Intn returns a random int in [0, n)
func (s *Source) Intn(n int) int {
	return s.rng.Intn(n)
}

// IntRange returns a uniformly distributed int in [min, max]. Arguments are swapped when inverted.
func (s *Source) IntRange(min, max int) int {
	if min > max {
		min, max = max, min
	}
	return min + s.rng.Intn(max-min+1)
}

// UniformFloat64 returns a uniformly distributed number in [min, max)
func (s *Source) UniformFloat64(min, max float64) float64 {
	return min + s.rng.Float64()*(max-min)
}

// Bool returns true with probability p.
func (s *Source) Bool(p float64) bool {
	return s.rng.Float64() < p
}

// Read fills p with random bytes. It lets the source feed io.Reader consumers
// (uuid generation) without breaking reproducibility.
func (s *Source) Read(p []byte) (int, error) {
	return s.rng.Read(p)
}

// SampleIndices returns k distinct indices drawn from [0, n) without replacement,
// in draw order. k is capped at n.
func (s *Source) SampleIndices(n, k int) []int {
	if k > n {
		k = n
	}
	if k <= 0 {
		return []int{}
	}
	// partial Fisher-Yates over a sparse permutation
	swapped := make(map[int]int, k)
	at := func(i int) int {
		if v, ok := swapped[i]; ok {
			return v
		}
		return i
	}
	out := make([]int, k)
	for i := 0; i < k; i++ {
		j := i + s.rng.Intn(n-i)
		out[i] = at(j)
		swapped[j] = at(i)
	}
	return out
}

// PickOne returns a uniformly chosen element of values. It panics on an empty slice.
func PickOne[T any](s *Source, values []T) T {
	return values[s.rng.Intn(len(values))]
}
