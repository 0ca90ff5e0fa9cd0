// Copyright 2024 The Permstat Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package permtest

import (
	"fmt"
	"reflect"
	"sort"
	"testing"
)

func TestPartitionsExhaustive(t *testing.T) {
	parts, exhaustive, err := Partitions(6, 3, Exhaustive, -1)
	if err != nil {
		t.Fatal(err)
	}
	if !exhaustive {
		t.Error("want exhaustive enumeration")
	}
	if len(parts) != 20 {
		t.Errorf("got %d partitions, want C(6,3) = 20", len(parts))
	}
	if !reflect.DeepEqual(parts[0], []int{0, 1, 2}) {
		t.Errorf("first partition is %v, want the identity [0 1 2]", parts[0])
	}
	seen := make(map[string]bool)
	for _, g := range parts {
		if len(g) != 3 || !sort.IntsAreSorted(g) {
			t.Errorf("bad partition %v", g)
		}
		key := fmt.Sprint(g)
		if seen[key] {
			t.Errorf("duplicate partition %v", g)
		}
		seen[key] = true
	}
}

func TestPartitionsAutoExhaustive(t *testing.T) {
	// A request for more partitions than exist switches to
	// enumeration.
	parts, exhaustive, err := Partitions(6, 3, 100, 1)
	if err != nil {
		t.Fatal(err)
	}
	if !exhaustive || len(parts) != 20 {
		t.Errorf("got %d partitions (exhaustive=%v), want 20 exhaustive", len(parts), exhaustive)
	}
}

func TestPartitionsRandom(t *testing.T) {
	parts, exhaustive, err := Partitions(20, 10, 50, 1)
	if err != nil {
		t.Fatal(err)
	}
	if exhaustive {
		t.Error("C(20,10) cannot be enumerated for b=50")
	}
	if len(parts) != 50 {
		t.Errorf("got %d partitions, want 50", len(parts))
	}
	if !isIdentity(parts[0]) {
		t.Errorf("first partition is %v, want the identity", parts[0])
	}
	for _, g := range parts {
		if len(g) != 10 || !sort.IntsAreSorted(g) {
			t.Errorf("bad partition %v", g)
		}
		for _, i := range g {
			if i < 0 || i >= 20 {
				t.Errorf("index %d out of range in %v", i, g)
			}
		}
	}

	// Same seed, same draws.
	again, _, err := Partitions(20, 10, 50, 1)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(parts, again) {
		t.Error("same seed produced different partitions")
	}

	// Different seed, (almost surely) different draws.
	other, _, err := Partitions(20, 10, 50, 2)
	if err != nil {
		t.Fatal(err)
	}
	if reflect.DeepEqual(parts, other) {
		t.Error("different seeds produced identical partitions")
	}
}

func TestPartitionsErrors(t *testing.T) {
	check := func(n, n1, b int) {
		t.Helper()
		if _, _, err := Partitions(n, n1, b, 1); err == nil {
			t.Errorf("Partitions(%d, %d, %d) succeeded, want error", n, n1, b)
		}
	}
	check(5, 0, 100)  // empty first group
	check(5, 5, 100)  // empty second group
	check(5, -1, 100) // negative group size
	check(5, 2, 0)    // no permutations
	check(5, 2, -5)   // not the Exhaustive sentinel

	defer func(old int) { MaxExhaustive = old }(MaxExhaustive)
	MaxExhaustive = 100
	check(12, 6, Exhaustive) // C(12,6) = 924 over the limit
}
