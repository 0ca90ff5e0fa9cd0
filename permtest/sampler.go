// Copyright 2024 The Permstat Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package permtest

import (
	"fmt"
	"math/rand"
	"sort"
	"time"

	"gonum.org/v1/gonum/stat/combin"
)

// Exhaustive is a sentinel permutation count requesting enumeration of
// all C(n, n1) distinct partitions instead of Monte-Carlo sampling.
const Exhaustive = -1

// MaxExhaustive bounds the number of partitions Partitions will
// enumerate exhaustively. Requests beyond this bound fail rather than
// blow up memory; use Monte-Carlo sampling instead.
var MaxExhaustive = 1 << 20

// Partitions generates index partitions of a pooled two-sample data set
// of size n whose first group has size n1. Each partition is the sorted
// set of pool indices assigned to the first group; the remaining n-n1
// indices implicitly form the second group.
//
// If b is Exhaustive, or C(n, n1) <= b, Partitions enumerates all
// C(n, n1) distinct partitions in lexicographic order, so the identity
// partition [0, n1) comes first. Otherwise it returns the identity
// partition followed by b-1 partitions drawn uniformly with
// replacement, for a reference set of exactly b members.
//
// A seed >= 0 makes the random draws deterministic. A negative seed
// draws fresh randomness on every call.
//
// The second result reports whether the partitions are exhaustive.
func Partitions(n, n1, b int, seed int64) ([][]int, bool, error) {
	if n1 <= 0 || n1 >= n {
		return nil, false, fmt.Errorf("degenerate grouping n1=%d, n2=%d", n1, n-n1)
	}
	if b <= 0 && b != Exhaustive {
		return nil, false, fmt.Errorf("invalid permutation count %d", b)
	}

	total := combin.GeneralizedBinomial(float64(n), float64(n1))
	if b == Exhaustive || float64(b) >= total {
		if total > float64(MaxExhaustive) {
			return nil, false, fmt.Errorf("exhaustive enumeration of C(%d,%d) = %.0f partitions exceeds limit %d", n, n1, total, MaxExhaustive)
		}
		parts := make([][]int, 0, int(total))
		gen := combin.NewCombinationGenerator(n, n1)
		for gen.Next() {
			parts = append(parts, gen.Combination(nil))
		}
		return parts, true, nil
	}

	if seed < 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))
	parts := make([][]int, b)
	parts[0] = identity(n1)
	for i := 1; i < b; i++ {
		g := rng.Perm(n)[:n1]
		sort.Ints(g)
		parts[i] = g
	}
	return parts, false, nil
}

func identity(n1 int) []int {
	g := make([]int, n1)
	for i := range g {
		g[i] = i
	}
	return g
}

func isIdentity(g []int) bool {
	for i, v := range g {
		if v != i {
			return false
		}
	}
	return true
}
