// Copyright 2024 The Permstat Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package perminfer derives parameter inference from permutation tests.
//
// The central object is the Tracer, which evaluates the p-value of a
// two-sample permutation test as a function of a hypothesized
// parameter: a null specification transforms the second sample under a
// candidate parameter value and the transformed pair is tested for
// exchangeability. Maximizing that function gives a point estimate;
// inverting it at a significance level gives a confidence interval.
package perminfer

import (
	"errors"
	"fmt"

	"github.com/permstat/permstat/permtest"
)

// A Tracer evaluates the p-value function of a null-hypothesis
// parameter.
//
// A Tracer draws its reference set of partitions once, at construction,
// and reuses it for every candidate parameter. With a fixed seed the
// traced function therefore varies only with the parameter, not with
// re-randomization, which keeps it comparable across a grid and smooth
// enough to optimize.
type Tracer[T any] struct {
	x, y      []T
	statistic permtest.Statistic[T]
	nullSpec  permtest.NullSpec[T]
	opt       permtest.Options
	parts     [][]int
}

// NewTracer constructs a Tracer for samples x and y. The null
// specification is applied to y: At(param) tests x against
// nullSpec(y, param). opt configures the underlying tests; nil means
// permtest.DefaultOptions.
func NewTracer[T any](x, y []T, statistic permtest.Statistic[T], nullSpec permtest.NullSpec[T], opt *permtest.Options) (*Tracer[T], error) {
	if statistic == nil {
		return nil, errors.New("nil statistic")
	}
	if nullSpec == nil {
		return nil, errors.New("nil null specification")
	}
	if opt == nil {
		opt = &permtest.DefaultOptions
	}
	parts, _, err := permtest.Partitions(len(x)+len(y), len(x), opt.B, opt.Seed)
	if err != nil {
		return nil, err
	}
	return &Tracer[T]{
		x:         append([]T(nil), x...),
		y:         append([]T(nil), y...),
		statistic: statistic,
		nullSpec:  nullSpec,
		opt:       *opt,
		parts:     parts,
	}, nil
}

// At evaluates the p-value function at one candidate parameter.
func (t *Tracer[T]) At(param []float64) (float64, error) {
	r, err := t.test(param)
	if err != nil {
		return 0, err
	}
	return r.P, nil
}

// Trace evaluates the p-value function over a grid of candidate
// parameters. Every point is ranked against the same reference set of
// partitions.
func (t *Tracer[T]) Trace(grid [][]float64) ([]float64, error) {
	ps := make([]float64, len(grid))
	for i, param := range grid {
		p, err := t.At(param)
		if err != nil {
			return nil, err
		}
		ps[i] = p
	}
	return ps, nil
}

// Test evaluates the full permutation test at one candidate parameter,
// exposing the observed statistic and permutation distribution along
// with the p-value.
func (t *Tracer[T]) Test(param []float64) (*permtest.Result, error) {
	return t.test(param)
}

func (t *Tracer[T]) test(param []float64) (*permtest.Result, error) {
	y, err := t.nullSpec(t.y, param)
	if err != nil {
		return nil, fmt.Errorf("null specification failed at %v: %w", param, err)
	}
	if len(y) != len(t.y) {
		return nil, fmt.Errorf("null specification changed sample size from %d to %d", len(t.y), len(y))
	}
	return permtest.TwoSampleWith(t.x, y, t.statistic, t.parts, &t.opt)
}
