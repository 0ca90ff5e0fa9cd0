// Copyright 2024 The Permstat Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package perminfer

import (
	"fmt"

	"gonum.org/v1/gonum/optimize"
)

// An Estimate is the result of maximizing a p-value function.
type Estimate struct {
	// Param is the parameter value attaining the maximum observed
	// p-value.
	Param []float64

	// P is the p-value at Param.
	P float64

	// Converged reports whether the optimizer settled on an
	// interior maximum. A flat p-value function or a maximum on the
	// search boundary clears it; both are reported as results, not
	// errors, and usually mean the search domain or B should be
	// enlarged.
	Converged bool
}

// gridSteps is the number of coarse scan points per axis used to seed
// the optimizer. The p-value function is a step function, so a local
// polish alone can stall on the wrong plateau.
const gridSteps = 32

// Estimate maximizes the p-value function over the box [lo, hi] and
// returns the maximizing parameter as a point estimate. It scans a
// coarse grid along each axis and then polishes the best point with
// Nelder-Mead.
func (t *Tracer[T]) Estimate(lo, hi []float64) (Estimate, error) {
	if len(lo) == 0 || len(lo) != len(hi) {
		return Estimate{}, fmt.Errorf("bad search box: lo has %d dimensions, hi has %d", len(lo), len(hi))
	}
	for j := range lo {
		if !(lo[j] < hi[j]) {
			return Estimate{}, fmt.Errorf("bad search box: lo[%d]=%v, hi[%d]=%v", j, lo[j], j, hi[j])
		}
	}

	var (
		best    Estimate
		flat    = true
		firstP  = -1.0
		evalErr error
	)
	best.P = -1
	consider := func(param []float64, p float64) {
		if firstP < 0 {
			firstP = p
		} else if p != firstP {
			flat = false
		}
		if p > best.P {
			best.P = p
			best.Param = append([]float64(nil), param...)
		}
	}

	// Coarse scan along each axis through the box center.
	center := make([]float64, len(lo))
	for j := range center {
		center[j] = (lo[j] + hi[j]) / 2
	}
	p, err := t.At(center)
	if err != nil {
		return Estimate{}, err
	}
	consider(center, p)
	for j := range lo {
		param := append([]float64(nil), center...)
		for s := 0; s <= gridSteps; s++ {
			param[j] = lo[j] + (hi[j]-lo[j])*float64(s)/gridSteps
			p, err := t.At(param)
			if err != nil {
				return Estimate{}, err
			}
			consider(param, p)
		}
	}

	// Polish with Nelder-Mead. The objective is -p, clamped outside
	// the box with a value worse than any attainable -p.
	obj := func(v []float64) float64 {
		for j := range v {
			if v[j] < lo[j] || v[j] > hi[j] {
				return 1
			}
		}
		p, err := t.At(v)
		if err != nil {
			if evalErr == nil {
				evalErr = err
			}
			return 1
		}
		return -p
	}
	problem := optimize.Problem{Func: obj}
	res, optErr := optimize.Minimize(problem, append([]float64(nil), best.Param...), nil, &optimize.NelderMead{})
	if evalErr != nil {
		return Estimate{}, evalErr
	}
	if optErr == nil && res.Status != optimize.Failure {
		consider(res.X, -res.F)
	}

	best.Converged = optErr == nil && !flat && !onBoundary(best.Param, lo, hi)
	return best, nil
}

func onBoundary(param, lo, hi []float64) bool {
	for j := range param {
		tol := (hi[j] - lo[j]) * 1e-6
		if param[j]-lo[j] <= tol || hi[j]-param[j] <= tol {
			return true
		}
	}
	return false
}
