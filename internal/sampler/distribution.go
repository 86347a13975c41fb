package sampler

import (
	"math"
	"sort"
)

// Choice is one weighted option.
type Choice[T any] struct {
	Value  T
	Weight float64
}

// Distribution is a prepared cumulative-weight table over a set of choices.
// Build it once per option set and reuse it for every draw.
type Distribution[T any] struct {
	values     []T
	cumulative []float64 // normalized, last element is 1
}

// NewDistribution validates the weights and prepares the cumulative table.
// Weights are rescaled by their sum; an empty set, a negative or NaN weight,
// or an all-zero set is rejected.
func NewDistribution[T any](choices []Choice[T]) (*Distribution[T], error) {
	if len(choices) == 0 {
		return nil, NewErrInvalidDistribution("no options")
	}

	var total float64
	for i, c := range choices {
		if math.IsNaN(c.Weight) || math.IsInf(c.Weight, 0) {
			return nil, NewErrInvalidDistribution("option %d has non-finite weight", i)
		}
		if c.Weight < 0 {
			return nil, NewErrInvalidDistribution("option %d has negative weight %v", i, c.Weight)
		}
		total += c.Weight
	}
	if total == 0 {
		return nil, NewErrInvalidDistribution("all %d weights are zero", len(choices))
	}

	d := &Distribution[T]{
		values:     make([]T, len(choices)),
		cumulative: make([]float64, len(choices)),
	}
	var running float64
	for i, c := range choices {
		running += c.Weight
		d.values[i] = c.Value
		d.cumulative[i] = running / total
	}
	// pin the tail to 1 so rounding never leaves a gap above the last option
	for i := len(choices) - 1; i >= 0; i-- {
		if choices[i].Weight > 0 {
			for j := i; j < len(choices); j++ {
				d.cumulative[j] = 1
			}
			break
		}
	}
	return d, nil
}

// MustDistribution is NewDistribution for static option sets known to be valid.
func MustDistribution[T any](choices []Choice[T]) *Distribution[T] {
	d, err := NewDistribution(choices)
	if err != nil {
		panic(err)
	}
	return d
}

func (d *Distribution[T]) Len() int {
	return len(d.values)
}

// Probability returns the normalized weight of option i.
func (d *Distribution[T]) Probability(i int) float64 {
	if i == 0 {
		return d.cumulative[0]
	}
	return d.cumulative[i] - d.cumulative[i-1]
}

// Sample draws one option. Zero-weight options are never returned.
func (d *Distribution[T]) Sample(src *Source) T {
	return d.values[d.SampleIndex(src)]
}

// SampleIndex draws the index of one option.
func (d *Distribution[T]) SampleIndex(src *Source) int {
	r := src.Float64()
	// first index whose cumulative weight is strictly above r
	return sort.Search(len(d.cumulative), func(i int) bool {
		return d.cumulative[i] > r
	})
}

// SampleN draws n options with replacement.
func (d *Distribution[T]) SampleN(src *Source, n int) []T {
	out := make([]T, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, d.Sample(src))
	}
	return out
}

// Pick is a one-shot weighted draw for callers that sample a set only once.
func Pick[T any](src *Source, choices []Choice[T]) (T, error) {
	d, err := NewDistribution(choices)
	if err != nil {
		var zero T
		return zero, err
	}
	return d.Sample(src), nil
}
