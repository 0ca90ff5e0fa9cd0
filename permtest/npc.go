// Copyright 2024 The Permstat Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package permtest

import (
	"math"

	"github.com/aclements/go-moremath/stats"
)

// A Combiner merges a vector of partial p-values, one per statistic
// component, into a single combined statistic in which larger values
// are more extreme. It must be monotone: decreasing any partial
// p-value must not decrease the combined statistic.
type Combiner func(ps []float64) float64

// CombineTippett is Tippett's combining function. The combined
// statistic is driven by the smallest partial p-value, so the
// combination rejects when any single component is extreme.
func CombineTippett(ps []float64) float64 {
	min := ps[0]
	for _, p := range ps[1:] {
		if p < min {
			min = p
		}
	}
	return 1 - min
}

// CombineFisher is Fisher's combining function, -2 Σ log p. It rewards
// consistent moderate evidence across components.
func CombineFisher(ps []float64) float64 {
	s := 0.0
	for _, p := range ps {
		s += math.Log(p)
	}
	return -2 * s
}

// CombineLiptak is Liptak's normal combining function, Σ Φ⁻¹(1-p).
// A partial p-value of exactly 1 contributes -Inf, which ranks the
// partition as least extreme regardless of the other components.
func CombineLiptak(ps []float64) float64 {
	s := 0.0
	for _, p := range ps {
		s += stats.StdNormal.InvCDF(1 - p)
	}
	return s
}

// npc computes the overall p-value of a vector-valued permutation
// distribution by non-parametric combination.
//
// The component statistics may be on incomparable scales, so they are
// not combined directly. Instead each component series is first
// converted to per-partition partial p-values with the same
// tie-inclusive counting rule as the scalar test, the partial p-values
// of each partition are merged by the combiner, and the observed
// combined statistic (partition 0) is ranked within the combined
// series, larger being more extreme.
func npc(dist [][]float64, comb Combiner, alt Alternative, abs bool) float64 {
	b, k := len(dist), len(dist[0])

	partial := make([][]float64, b)
	for i := range partial {
		partial[i] = make([]float64, k)
	}
	series := make([]float64, b)
	for j := 0; j < k; j++ {
		for i := range dist {
			series[i] = dist[i][j]
		}
		for i, p := range pValues(series, alt, abs) {
			partial[i][j] = p
		}
	}

	combined := make([]float64, b)
	for i := range partial {
		combined[i] = comb(partial[i])
	}
	return pValues(combined, Greater, false)[0]
}
