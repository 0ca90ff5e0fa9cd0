// Copyright 2024 The Permstat Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package permtest

import (
	"math"

	"github.com/aclements/go-moremath/mathx"
	moremath "github.com/aclements/go-moremath/stats"
	montana "github.com/montanaflynn/stats"
	"gonum.org/v1/gonum/stat"
)

// This file provides a few illustrative statistics for scalar samples.
// They are convenient defaults and test fixtures; any function
// satisfying the Statistic contract works just as well.

// Groups splits a pooled scalar sample by a partition. It is a
// convenience for writing statistics over float64 data.
func Groups(pool []float64, g1 []int) (x, y []float64) {
	in := make([]bool, len(pool))
	for _, i := range g1 {
		in[i] = true
	}
	x = make([]float64, 0, len(g1))
	y = make([]float64, 0, len(pool)-len(g1))
	for i, v := range pool {
		if in[i] {
			x = append(x, v)
		} else {
			y = append(y, v)
		}
	}
	return x, y
}

// MeanDiff is the difference of group means, mean(x) - mean(y).
func MeanDiff(pool []float64, g1 []int) ([]float64, error) {
	x, y := Groups(pool, g1)
	return []float64{stat.Mean(x, nil) - stat.Mean(y, nil)}, nil
}

// MedianDiff is the difference of group medians.
func MedianDiff(pool []float64, g1 []int) ([]float64, error) {
	x, y := Groups(pool, g1)
	mx, err := montana.Median(x)
	if err != nil {
		return nil, err
	}
	my, err := montana.Median(y)
	if err != nil {
		return nil, err
	}
	return []float64{mx - my}, nil
}

// WelchT is the Welch two-sample t statistic. Here it is only a
// permutation statistic: the p-value comes from the permutation
// distribution, not from a t distribution, so no normality assumption
// is attached to it. If both groups have zero variance the statistic
// is ±Inf in the direction of the mean difference, or 0 when the means
// are equal.
func WelchT(pool []float64, g1 []int) ([]float64, error) {
	xs, ys := Groups(pool, g1)
	x := moremath.Sample{Xs: xs}
	y := moremath.Sample{Xs: ys}
	d := x.Mean() - y.Mean()
	se := math.Sqrt(x.Variance()/float64(len(xs)) + y.Variance()/float64(len(ys)))
	if se == 0 {
		if d == 0 {
			return []float64{0}, nil
		}
		return []float64{math.Inf(1) * mathx.Sign(d)}, nil
	}
	return []float64{d / se}, nil
}

// Multi bundles several statistics into one vector-valued Statistic,
// for use with non-parametric combination.
func Multi[T any](statistics ...Statistic[T]) Statistic[T] {
	return func(pool []T, g1 []int) ([]float64, error) {
		out := make([]float64, 0, len(statistics))
		for _, s := range statistics {
			v, err := s(pool, g1)
			if err != nil {
				return nil, err
			}
			out = append(out, v...)
		}
		return out, nil
	}
}

// ShiftNull is a NullSpec for a scalar location shift: it subtracts
// param[0] from every element of the sample. With ShiftNull, the traced
// parameter is the location difference between the second sample and
// the first.
func ShiftNull(sample []float64, param []float64) ([]float64, error) {
	out := make([]float64, len(sample))
	for i, v := range sample {
		out[i] = v - param[0]
	}
	return out, nil
}
