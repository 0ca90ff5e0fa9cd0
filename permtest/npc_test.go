// Copyright 2024 The Permstat Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package permtest

import (
	"math/rand"
	"testing"
)

func TestNPCSingleComponentReduction(t *testing.T) {
	// With one statistic component, non-parametric combination must
	// reduce exactly to the plain one-sided p-value: the monotone
	// combiners preserve the ranking of the partial p-values.
	rng := rand.New(rand.NewSource(5))
	series := make([]float64, 100)
	for i := range series {
		series[i] = rng.NormFloat64()
	}
	// Force some ties.
	series[10], series[20], series[30] = series[0], series[0], series[40]

	dist := make([][]float64, len(series))
	for i, v := range series {
		dist[i] = []float64{v}
	}

	for _, alt := range []Alternative{Greater, Less} {
		direct := pValues(series, alt, false)[0]
		for name, comb := range map[string]Combiner{
			"tippett": CombineTippett,
			"fisher":  CombineFisher,
			"liptak":  CombineLiptak,
		} {
			if got := npc(dist, comb, alt, false); got != direct {
				t.Errorf("alt=%v %s: npc p=%v, direct p=%v", alt, name, got, direct)
			}
		}
	}
}

func TestNPCSeparatedSamples(t *testing.T) {
	// Both components rank the observed grouping as uniquely most
	// extreme, so the combined p-value is again the minimum 1/252.
	x := []float64{0, 0, 0, 0, 0}
	y := []float64{5, 5, 5, 5, 5}
	for name, comb := range map[string]Combiner{
		"tippett": CombineTippett,
		"fisher":  CombineFisher,
	} {
		opt := exhaustiveOpts(Less)
		opt.Combiner = comb
		r, err := TwoSample(x, y, Multi(MeanDiff, WelchT), opt)
		if err != nil {
			t.Fatal(err)
		}
		if want := 1.0 / 252; r.P != want {
			t.Errorf("%s: got p=%v, want %v", name, r.P, want)
		}
		if len(r.Stat) != 2 {
			t.Errorf("%s: observed statistic has %d components, want 2", name, len(r.Stat))
		}
	}
}

func TestNPCPValueRange(t *testing.T) {
	x := []float64{1.2, 0.7, 3.1, 2.2, 0.4}
	y := []float64{2.5, 1.9, 4.4, 0.3}
	for _, alt := range []Alternative{Less, TwoTail, Greater} {
		opt := exhaustiveOpts(alt)
		opt.Combiner = CombineFisher
		r, err := TwoSample(x, y, Multi(MeanDiff, MedianDiff), opt)
		if err != nil {
			t.Fatal(err)
		}
		if !(r.P > 0 && r.P <= 1) {
			t.Errorf("alt=%v: p=%v out of (0, 1]", alt, r.P)
		}
	}
}

func TestCombinersMonotone(t *testing.T) {
	// Making any partial p-value smaller must not decrease the
	// combined statistic.
	check := func(name string, comb Combiner) {
		t.Helper()
		base := comb([]float64{0.5, 0.5})
		for _, ps := range [][]float64{{0.1, 0.5}, {0.5, 0.1}, {0.1, 0.1}} {
			if got := comb(ps); got < base {
				t.Errorf("%s(%v) = %v < %s(0.5, 0.5) = %v", name, ps, got, name, base)
			}
		}
	}
	check("tippett", CombineTippett)
	check("fisher", CombineFisher)
	check("liptak", CombineLiptak)
}
