// Package allocator apportions an integer total over weighted groups.
//
// It implements the largest-remainder method: every group gets the floor of its
// proportional share, and the units lost to flooring go one at a time to the groups
// with the largest fractional remainder. Optional per-group bounds are honored, and
// the result always sums exactly to the requested total.
package allocator

import (
	"math"
	"sort"
	"strconv"
)

// Group is one recipient of an allocation. Min and Max are optional inclusive bounds.
type Group struct {
	Name   string
	Weight float64
	Min    *int
	Max    *int
}

// Bound is a convenience for filling Group.Min and Group.Max.
func Bound(v int) *int {
	return &v
}

// Allocate splits total over groups in proportion to their weights. The returned
// slice is ordered like groups and sums to total. When every weight is zero the
// total is spread evenly.
func Allocate(total int, groups []Group) ([]int, error) {
	if total < 0 {
		return nil, NewErrInfeasibleAllocation("negative total %d", total)
	}
	if len(groups) == 0 {
		if total == 0 {
			return []int{}, nil
		}
		return nil, NewErrInfeasibleAllocation("no groups to receive %d units", total)
	}

	lo := make([]int, len(groups))
	hi := make([]int, len(groups))
	var sumWeights float64
	sumLo, sumHi := 0, 0
	for i, g := range groups {
		if math.IsNaN(g.Weight) || math.IsInf(g.Weight, 0) || g.Weight < 0 {
			return nil, NewErrInfeasibleAllocation("group %s has invalid weight %v", groupName(g, i), g.Weight)
		}
		sumWeights += g.Weight

		lo[i], hi[i] = 0, total
		if g.Min != nil {
			lo[i] = *g.Min
		}
		if g.Max != nil {
			hi[i] = *g.Max
		}
		if lo[i] < 0 {
			return nil, NewErrInfeasibleAllocation("group %s has negative minimum %d", groupName(g, i), lo[i])
		}
		if lo[i] > hi[i] {
			return nil, NewErrInfeasibleAllocation("group %s has minimum %d above maximum %d", groupName(g, i), lo[i], hi[i])
		}
		sumLo += lo[i]
		sumHi += hi[i]
	}
	if sumLo > total {
		return nil, NewErrInfeasibleAllocation("sum of minimums %d exceeds total %d", sumLo, total)
	}
	if sumHi < total {
		return nil, NewErrInfeasibleAllocation("sum of maximums %d is below total %d", sumHi, total)
	}

	weights := make([]float64, len(groups))
	for i, g := range groups {
		weights[i] = g.Weight
		if sumWeights == 0 {
			weights[i] = 1
		}
	}
	if sumWeights == 0 {
		sumWeights = float64(len(groups))
	}

	alloc := make([]int, len(groups))
	remainders := make([]float64, len(groups))
	allocated := 0
	for i := range groups {
		share := float64(total) * weights[i] / sumWeights
		base := math.Floor(share)
		remainders[i] = share - base
		alloc[i] = clamp(int(base), lo[i], hi[i])
		allocated += alloc[i]
	}

	order := make([]int, len(groups))
	for i := range order {
		order[i] = i
	}

	switch diff := total - allocated; {
	case diff > 0:
		// largest remainder first, ties by group order
		sort.SliceStable(order, func(a, b int) bool {
			return remainders[order[a]] > remainders[order[b]]
		})
		for diff > 0 {
			for _, i := range order {
				if diff == 0 {
					break
				}
				if alloc[i] < hi[i] {
					alloc[i]++
					diff--
				}
			}
		}
	case diff < 0:
		// clamping to minimums overshot: take back from the smallest remainders,
		// ties from the last group first
		sort.SliceStable(order, func(a, b int) bool {
			if remainders[order[a]] != remainders[order[b]] {
				return remainders[order[a]] < remainders[order[b]]
			}
			return order[a] > order[b]
		})
		for diff < 0 {
			for _, i := range order {
				if diff == 0 {
					break
				}
				if alloc[i] > lo[i] {
					alloc[i]--
					diff++
				}
			}
		}
	}

	return alloc, nil
}

// Even splits total over n equally weighted groups.
func Even(total, n int) ([]int, error) {
	groups := make([]Group, n)
	for i := range groups {
		groups[i] = Group{Weight: 1}
	}
	return Allocate(total, groups)
}

// Weighted splits total over unbounded groups with the given weights.
func Weighted(total int, weights []float64) ([]int, error) {
	groups := make([]Group, len(weights))
	for i, w := range weights {
		groups[i] = Group{Weight: w}
	}
	return Allocate(total, groups)
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func groupName(g Group, i int) string {
	if g.Name != "" {
		return g.Name
	}
	return "#" + strconv.Itoa(i)
}
