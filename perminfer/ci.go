// Copyright 2024 The Permstat Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package perminfer

import "fmt"

// An Interval is a confidence interval for a scalar parameter obtained
// by inverting a p-value function: it approximates the set of
// parameter values whose p-value is at least Alpha.
type Interval struct {
	// Lower and Upper bound the interval. The p-value function
	// crosses Alpha near each, up to the bisection tolerance and
	// the granularity of the permutation distribution.
	Lower, Upper float64

	// Alpha is the significance level the interval was built at.
	// The interval has confidence level 1 - Alpha.
	Alpha float64

	// Converged reports whether both endpoint searches bracketed
	// and resolved an Alpha crossing inside the search domain. When
	// the p-value function never drops below Alpha before a domain
	// bound, the interval is truncated at that bound and Converged
	// is cleared.
	Converged bool

	// Warnings is a list of warnings about this interval.
	Warnings []error
}

// bracketSteps is the number of outward probe points per side used to
// bracket the Alpha crossing before bisecting.
const bracketSteps = 16

// bisectIters bounds the bisection refinement per side. 40 halvings of
// the probe step put the endpoint well below any useful tolerance.
const bisectIters = 40

// ConfInterval inverts the p-value function around a point estimate:
// it searches outward from estimate within [lo, hi] for the parameter
// values where the p-value crosses alpha on each side, and bisects each
// bracket to the crossing.
//
// The search assumes the p-value function is unimodal around the
// estimate, with a single crossing per side. Multimodal functions can
// make the brackets land on the wrong crossing; callers suspecting
// multimodality should Trace the function and inspect it first.
func (t *Tracer[T]) ConfInterval(estimate, alpha, lo, hi float64) (Interval, error) {
	if !(alpha > 0 && alpha < 1) {
		return Interval{}, fmt.Errorf("alpha %v out of range (0, 1)", alpha)
	}
	if !(lo < estimate && estimate < hi) {
		return Interval{}, fmt.Errorf("estimate %v outside search domain [%v, %v]", estimate, lo, hi)
	}

	iv := Interval{Alpha: alpha, Converged: true}

	p0, err := t.At([]float64{estimate})
	if err != nil {
		return Interval{}, err
	}
	if p0 < alpha {
		// The estimate itself is rejected at alpha; there is no
		// interval to build around it.
		iv.Lower, iv.Upper = estimate, estimate
		iv.Converged = false
		iv.Warnings = append(iv.Warnings, fmt.Errorf("p-value %v at the point estimate is below alpha %v", p0, alpha))
		return iv, nil
	}

	iv.Upper, err = t.invertSide(estimate, hi, alpha, &iv)
	if err != nil {
		return Interval{}, err
	}
	iv.Lower, err = t.invertSide(estimate, lo, alpha, &iv)
	if err != nil {
		return Interval{}, err
	}
	return iv, nil
}

// invertSide finds the alpha crossing between the estimate (where
// p >= alpha) and the domain bound on one side. bound < estimate
// searches downward.
func (t *Tracer[T]) invertSide(estimate, bound, alpha float64, iv *Interval) (float64, error) {
	at := func(v float64) (float64, error) {
		return t.At([]float64{v})
	}

	// Probe outward for a point below alpha.
	inside, outside := estimate, bound
	found := false
	for s := 1; s <= bracketSteps; s++ {
		v := estimate + (bound-estimate)*float64(s)/bracketSteps
		p, err := at(v)
		if err != nil {
			return 0, err
		}
		if p < alpha {
			outside = v
			found = true
			break
		}
		inside = v
	}
	if !found {
		// Never dropped below alpha: the interval is truncated
		// at the domain bound.
		iv.Converged = false
		iv.Warnings = append(iv.Warnings, fmt.Errorf("p-value stays above alpha %v out to domain bound %v", alpha, bound))
		return bound, nil
	}

	// Bisect [inside, outside] to the crossing.
	for i := 0; i < bisectIters; i++ {
		mid := (inside + outside) / 2
		if mid == inside || mid == outside {
			break
		}
		p, err := at(mid)
		if err != nil {
			return 0, err
		}
		if p >= alpha {
			inside = mid
		} else {
			outside = mid
		}
	}
	return (inside + outside) / 2, nil
}
