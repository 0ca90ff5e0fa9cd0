// Copyright 2024 The Permstat Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package permtest implements exact and Monte-Carlo two-sample
// permutation tests.
//
// A permutation test pools two samples, re-partitions the pool many
// times into groups of the original sizes, and ranks the observed value
// of a test statistic within the distribution of the statistic over
// those partitions. Under exchangeability of the two samples the
// resulting p-value is exact for any sample size and any statistic.
//
// This package is unopinionated about the statistic: it is always
// supplied by the caller as a pure function of the pooled data and a
// partition. Vector-valued statistics are combined through
// non-parametric combination; see Combiner.
package permtest

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"golang.org/x/sync/errgroup"
)

// A Statistic maps a partition of pooled data to one or more real test
// statistic values. pool is the concatenation of the two samples and g1
// holds the sorted pool indices assigned to the first group; the
// remaining indices form the second group.
//
// A Statistic must be a pure function of its arguments and must return
// the same number of values on every call. Returning an error aborts
// the whole test; the engine never silently skips a failed partition,
// since that would bias the p-value.
type Statistic[T any] func(pool []T, g1 []int) ([]float64, error)

// A NullSpec transforms a sample so that, if param were the true value
// of the parameter under test, the transformed sample would be
// exchangeable with the sample it is compared against. It must not
// change the sample length.
type NullSpec[T any] func(sample []T, param []float64) ([]T, error)

// An Alternative selects the direction of the alternative hypothesis,
// by analogy with the location hypotheses of two-sample rank tests.
// The convention is that larger statistic values are more extreme under
// Greater and smaller values are more extreme under Less.
type Alternative int

const (
	// Less rejects when the observed statistic is unusually small.
	Less Alternative = -1

	// TwoTail rejects when the observed statistic is unusually
	// small or unusually large.
	TwoTail Alternative = 0

	// Greater rejects when the observed statistic is unusually
	// large.
	Greater Alternative = 1
)

// ParseAlternative parses the string form of an Alternative:
// "less", "two_tail", or "greater".
func ParseAlternative(s string) (Alternative, error) {
	switch s {
	case "less":
		return Less, nil
	case "two_tail":
		return TwoTail, nil
	case "greater":
		return Greater, nil
	}
	return 0, fmt.Errorf("unknown alternative %q", s)
}

func (a Alternative) String() string {
	switch a {
	case Less:
		return "less"
	case TwoTail:
		return "two_tail"
	case Greater:
		return "greater"
	}
	return fmt.Sprintf("Alternative(%d)", int(a))
}

func (a Alternative) valid() bool {
	return a == Less || a == TwoTail || a == Greater
}

// Options configures a permutation test.
//
// This should be initialized from DefaultOptions because it may be
// extended with other fields in the future.
type Options struct {
	// B is the size of the reference set of partitions, including
	// the observed grouping. Exhaustive requests enumeration of all
	// distinct partitions.
	B int

	// Alternative selects the direction of the test.
	Alternative Alternative

	// AbsTwoTail computes two-sided p-values by ranking |T| instead
	// of doubling the smaller one-sided tail. It applies only when
	// Alternative is TwoTail and assumes the statistic is symmetric
	// about zero under the null.
	AbsTwoTail bool

	// Combiner merges per-component partial p-values when the
	// statistic is vector-valued. Nil means CombineTippett.
	Combiner Combiner

	// Seed fixes the Monte-Carlo draws for reproducibility. A
	// negative seed draws fresh randomness on every call.
	Seed int64

	// Parallel is the number of goroutines used to evaluate the
	// statistic over the reference set. Values below 2 evaluate
	// serially. Results are merged in partition order, so the
	// outcome does not depend on scheduling.
	Parallel int
}

// DefaultOptions contains a reasonable set of defaults for Options.
var DefaultOptions = Options{
	B:           1000,
	Alternative: TwoTail,
	Seed:        -1,
}

// A Result is the outcome of a two-sample permutation test.
type Result struct {
	// P is the permutation p-value: the fraction of the reference
	// set whose statistic is at least as extreme as the observed
	// one. The observed partition is a member of its own reference
	// set, so P is always in (0, 1] and never exactly zero.
	P float64

	// Stat holds the observed statistic value(s), computed from the
	// identity partition.
	Stat []float64

	// N1 and N2 are the two sample sizes.
	N1, N2 int

	// B is the size of the reference set actually used, including
	// the identity partition.
	B int

	// Exhaustive reports whether the reference set enumerated all
	// C(N1+N2, N1) distinct partitions.
	Exhaustive bool

	// Dist is the permutation distribution: one statistic vector
	// per partition, in partition order. Dist[0] is the observed
	// vector. It is retained for diagnostics and can be discarded
	// by the caller.
	Dist [][]float64

	// Warnings is a list of warnings about this result.
	Warnings []error
}

// String summarizes the result in the form "p=0.PPP n=N1+N2".
func (r *Result) String() string {
	if r.N1 == r.N2 {
		return fmt.Sprintf("p=%0.3f n=%d", r.P, r.N1)
	}
	return fmt.Sprintf("p=%0.3f n=%d+%d", r.P, r.N1, r.N2)
}

// TwoSample tests the null hypothesis that samples x and y come from
// the same distribution. It builds a reference set of partitions of the
// pooled data (see Partitions), evaluates the statistic on each, and
// ranks the observed value within the resulting permutation
// distribution.
//
// The observed grouping is always part of the reference set, so the
// smallest attainable p-value is 1/B.
func TwoSample[T any](x, y []T, statistic Statistic[T], opt *Options) (*Result, error) {
	if opt == nil {
		opt = &DefaultOptions
	}
	parts, exhaustive, err := Partitions(len(x)+len(y), len(x), opt.B, opt.Seed)
	if err != nil {
		return nil, err
	}
	r, err := TwoSampleWith(x, y, statistic, parts, opt)
	if err != nil {
		return nil, err
	}
	r.Exhaustive = exhaustive
	return r, nil
}

// TwoSampleWith is like TwoSample but ranks against a caller-supplied
// reference set of partitions, ignoring opt.B and opt.Seed. parts[0]
// must be the identity partition [0, len(x)). Sharing one reference set
// across several tests keeps their p-values comparable; the p-value
// function tracer relies on this.
func TwoSampleWith[T any](x, y []T, statistic Statistic[T], parts [][]int, opt *Options) (*Result, error) {
	if opt == nil {
		opt = &DefaultOptions
	}
	if statistic == nil {
		return nil, errors.New("nil statistic")
	}
	if !opt.Alternative.valid() {
		return nil, fmt.Errorf("unknown alternative %d", int(opt.Alternative))
	}
	if len(parts) == 0 || len(parts[0]) != len(x) || !isIdentity(parts[0]) {
		return nil, errors.New("reference set must start with the identity partition")
	}

	pool := make([]T, 0, len(x)+len(y))
	pool = append(pool, x...)
	pool = append(pool, y...)

	dist, err := evalAll(pool, parts, statistic, opt.Parallel)
	if err != nil {
		return nil, err
	}

	r := &Result{
		Stat: dist[0],
		N1:   len(x),
		N2:   len(y),
		B:    len(parts),
		Dist: dist,
	}
	if len(dist[0]) == 1 {
		series := make([]float64, len(dist))
		for i, v := range dist {
			series[i] = v[0]
		}
		r.P = pValues(series, opt.Alternative, opt.AbsTwoTail)[0]
	} else {
		comb := opt.Combiner
		if comb == nil {
			comb = CombineTippett
		}
		r.P = npc(dist, comb, opt.Alternative, opt.AbsTwoTail)
	}
	return r, nil
}

// evalAll computes the permutation distribution, one statistic vector
// per partition. With workers > 1 the partitions are split into
// contiguous ranges evaluated concurrently; results are stored by
// partition index, so the distribution is identical to a serial run.
func evalAll[T any](pool []T, parts [][]int, statistic Statistic[T], workers int) ([][]float64, error) {
	dist := make([][]float64, len(parts))
	eval := func(lo, hi int) error {
		for i := lo; i < hi; i++ {
			v, err := statistic(pool, parts[i])
			if err != nil {
				return fmt.Errorf("statistic failed on partition %d: %w", i, err)
			}
			dist[i] = v
		}
		return nil
	}

	if workers < 2 || len(parts) < 2*workers {
		if err := eval(0, len(parts)); err != nil {
			return nil, err
		}
	} else {
		var g errgroup.Group
		chunk := (len(parts) + workers - 1) / workers
		for lo := 0; lo < len(parts); lo += chunk {
			lo, hi := lo, lo+chunk
			if hi > len(parts) {
				hi = len(parts)
			}
			g.Go(func() error { return eval(lo, hi) })
		}
		if err := g.Wait(); err != nil {
			return nil, err
		}
	}

	for i, v := range dist {
		if len(v) == 0 {
			return nil, fmt.Errorf("statistic returned no values on partition %d", i)
		}
		if len(v) != len(dist[0]) {
			return nil, fmt.Errorf("statistic returned %d values on partition %d, want %d", len(v), i, len(dist[0]))
		}
	}
	return dist, nil
}

// pValues converts a statistic series into partial p-values, one per
// element: the fraction of the series at least as extreme as that
// element under the given alternative. The counting rule is inclusive,
// so every element counts itself and ties are handled naturally.
//
// For TwoTail the smaller one-sided tail is doubled and capped at 1
// unless abs is set, in which case |T| is ranked directly.
func pValues(series []float64, alt Alternative, abs bool) []float64 {
	n := len(series)
	vals := series
	if alt == TwoTail && abs {
		vals = make([]float64, n)
		for i, v := range series {
			vals[i] = math.Abs(v)
		}
	}
	sorted := append([]float64(nil), vals...)
	sort.Float64s(sorted)

	// Tie-inclusive tail counts from the sorted copy:
	// #{v >= x} = n - (first index with v >= x)
	// #{v <= x} = first index with v > x
	ge := func(x float64) float64 {
		return float64(n - sort.SearchFloat64s(sorted, x))
	}
	le := func(x float64) float64 {
		return float64(sort.Search(n, func(m int) bool { return sorted[m] > x }))
	}

	ps := make([]float64, n)
	for i, x := range vals {
		var p float64
		switch {
		case alt == Greater || (alt == TwoTail && abs):
			p = ge(x) / float64(n)
		case alt == Less:
			p = le(x) / float64(n)
		default: // TwoTail, doubling rule
			p = 2 * math.Min(ge(x), le(x)) / float64(n)
			if p > 1 {
				p = 1
			}
		}
		ps[i] = p
	}
	return ps
}
