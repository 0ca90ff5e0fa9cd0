// Copyright 2024 The Permstat Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package permtest

import (
	"math"
	"reflect"
	"testing"
)

func TestGroups(t *testing.T) {
	pool := []float64{10, 20, 30, 40, 50}
	x, y := Groups(pool, []int{0, 2, 4})
	if !reflect.DeepEqual(x, []float64{10, 30, 50}) {
		t.Errorf("first group is %v, want [10 30 50]", x)
	}
	if !reflect.DeepEqual(y, []float64{20, 40}) {
		t.Errorf("second group is %v, want [20 40]", y)
	}
}

func TestMeanDiff(t *testing.T) {
	pool := []float64{1, 2, 3, 7, 8, 9}
	v, err := MeanDiff(pool, []int{0, 1, 2})
	if err != nil {
		t.Fatal(err)
	}
	if want := 2.0 - 8.0; v[0] != want {
		t.Errorf("got %v, want %v", v[0], want)
	}
}

func TestMedianDiff(t *testing.T) {
	pool := []float64{1, 2, 9, 4, 5, 60}
	v, err := MedianDiff(pool, []int{0, 1, 2})
	if err != nil {
		t.Fatal(err)
	}
	if want := 2.0 - 5.0; v[0] != want {
		t.Errorf("got %v, want %v", v[0], want)
	}
}

func TestWelchT(t *testing.T) {
	// Against R: t.test(c(1,2,3,4), c(6,7,8,10)) gives t = -5.1962
	// before sign convention; check magnitude and sign loosely via
	// direct computation instead.
	pool := []float64{1, 2, 3, 4, 6, 7, 8, 10}
	v, err := WelchT(pool, []int{0, 1, 2, 3})
	if err != nil {
		t.Fatal(err)
	}
	if v[0] >= 0 {
		t.Errorf("got t=%v, want negative", v[0])
	}
	// mean diff -5.25, se = sqrt(5/3/4 + 8.75/3/4)
	want := -5.25 / math.Sqrt((5.0/3+8.75/3)/4)
	if math.Abs(v[0]-want) > 1e-12 {
		t.Errorf("got t=%v, want %v", v[0], want)
	}

	// Degenerate groups: zero variance on both sides.
	v, err = WelchT([]float64{2, 2, 5, 5}, []int{0, 1})
	if err != nil {
		t.Fatal(err)
	}
	if !math.IsInf(v[0], -1) {
		t.Errorf("got t=%v for separated constant groups, want -Inf", v[0])
	}
	v, err = WelchT([]float64{2, 2, 2, 2}, []int{0, 1})
	if err != nil {
		t.Fatal(err)
	}
	if v[0] != 0 {
		t.Errorf("got t=%v for identical constant groups, want 0", v[0])
	}
}

func TestMulti(t *testing.T) {
	pool := []float64{1, 2, 3, 7, 8, 9}
	v, err := Multi[float64](MeanDiff, MedianDiff)(pool, []int{0, 1, 2})
	if err != nil {
		t.Fatal(err)
	}
	if len(v) != 2 {
		t.Fatalf("got %d values, want 2", len(v))
	}
	if v[0] != -6 || v[1] != -6 {
		t.Errorf("got %v, want [-6 -6]", v)
	}
}

func TestShiftNull(t *testing.T) {
	in := []float64{4, 5, 6}
	out, err := ShiftNull(in, []float64{3})
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(out, []float64{1, 2, 3}) {
		t.Errorf("got %v, want [1 2 3]", out)
	}
	if !reflect.DeepEqual(in, []float64{4, 5, 6}) {
		t.Error("ShiftNull mutated its input")
	}
}
