// Copyright 2024 The Permstat Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Permstat runs two-sample permutation tests and permutation-based
// parameter inference from the command line.
//
// Usage:
//
//	permstat [options] x.txt y.txt
//
// Each input file holds one sample as whitespace-separated numbers.
// With no other options, permstat tests the null hypothesis that the
// two samples come from the same distribution and prints the p-value
// and the observed statistic:
//
//	$ permstat old.txt new.txt
//	p=0.004 n=10+10 meandiff=-1.20e+06
//
// The -stat option selects the test statistic: meandiff (difference of
// means), mediandiff (difference of medians), welcht (Welch's t
// statistic), or all, which combines the three by non-parametric
// combination using the -combine function (tippett, fisher, or
// liptak).
//
// The -b option sets the number of permutations; values <= 0 request
// exhaustive enumeration of all distinct partitions, which is only
// feasible for small samples. The -alt option chooses the alternative
// (two_tail, greater, less) and -seed fixes the random draws.
//
// The -trace option evaluates the p-value function of a location shift
// between the two samples over a lo:hi:steps grid, printing one
// "parameter p-value" pair per line. -est additionally maximizes the
// function over [lo, hi] and prints the point estimate; -ci inverts it
// at the given alpha and prints the confidence interval. -plot writes
// the traced curve to a PNG file.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/permstat/permstat/perminfer"
	"github.com/permstat/permstat/permtest"
)

func usage() {
	fmt.Fprintf(os.Stderr, "usage: permstat [options] x.txt y.txt\n")
	fmt.Fprintf(os.Stderr, "options:\n")
	flag.PrintDefaults()
	os.Exit(2)
}

var (
	flagStat     = flag.String("stat", "meandiff", "test `statistic`: meandiff, mediandiff, welcht, or all")
	flagCombine  = flag.String("combine", "tippett", "combining `function` for -stat all: tippett, fisher, or liptak")
	flagAlt      = flag.String("alt", "two_tail", "`alternative` hypothesis: two_tail, greater, or less")
	flagB        = flag.Int("b", 1000, "number of `permutations`; <= 0 enumerates exhaustively")
	flagSeed     = flag.Int64("seed", -1, "random `seed`; negative draws fresh randomness")
	flagParallel = flag.Int("parallel", 1, "number of `goroutines` evaluating the statistic")
	flagTrace    = flag.String("trace", "", "trace the shift p-value function over `lo:hi:steps`")
	flagEst      = flag.Bool("est", false, "print the point estimate of the shift (requires -trace)")
	flagCI       = flag.Float64("ci", 0, "print the confidence interval at `alpha` (requires -trace)")
	flagPlot     = flag.String("plot", "", "write the traced p-value curve to PNG `file` (requires -trace)")
)

var statNames = map[string]permtest.Statistic[float64]{
	"meandiff":   permtest.MeanDiff,
	"mediandiff": permtest.MedianDiff,
	"welcht":     permtest.WelchT,
	"all":        permtest.Multi(permtest.MeanDiff, permtest.MedianDiff, permtest.WelchT),
}

var combinerNames = map[string]permtest.Combiner{
	"tippett": permtest.CombineTippett,
	"fisher":  permtest.CombineFisher,
	"liptak":  permtest.CombineLiptak,
}

func main() {
	log.SetPrefix("permstat: ")
	log.SetFlags(0)
	flag.Usage = usage
	flag.Parse()

	statistic, ok := statNames[strings.ToLower(*flagStat)]
	if !ok {
		flag.Usage()
	}
	combiner, ok := combinerNames[strings.ToLower(*flagCombine)]
	if !ok {
		flag.Usage()
	}
	alt, err := permtest.ParseAlternative(*flagAlt)
	if err != nil {
		flag.Usage()
	}
	if flag.NArg() != 2 {
		flag.Usage()
	}

	x, err := readSample(flag.Arg(0))
	if err != nil {
		log.Fatal(err)
	}
	y, err := readSample(flag.Arg(1))
	if err != nil {
		log.Fatal(err)
	}

	opt := permtest.DefaultOptions
	opt.B = *flagB
	if opt.B <= 0 {
		opt.B = permtest.Exhaustive
	}
	opt.Alternative = alt
	opt.Combiner = combiner
	opt.Seed = *flagSeed
	opt.Parallel = *flagParallel

	if *flagTrace != "" {
		runTrace(x, y, statistic, &opt)
		return
	}

	r, err := permtest.TwoSample(x, y, statistic, &opt)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Printf("%s %s=%s\n", r, *flagStat, formatStat(r.Stat))
}

// runTrace traces the p-value function of a location shift of y
// relative to x and optionally estimates the shift and its confidence
// interval.
func runTrace(x, y []float64, statistic permtest.Statistic[float64], opt *permtest.Options) {
	lo, hi, steps, err := parseGrid(*flagTrace)
	if err != nil {
		log.Fatal(err)
	}
	tracer, err := perminfer.NewTracer(x, y, statistic, permtest.ShiftNull, opt)
	if err != nil {
		log.Fatal(err)
	}

	grid := make([][]float64, steps+1)
	for i := range grid {
		grid[i] = []float64{lo + (hi-lo)*float64(i)/float64(steps)}
	}
	ps, err := tracer.Trace(grid)
	if err != nil {
		log.Fatal(err)
	}
	for i, p := range ps {
		fmt.Printf("%g\t%0.4f\n", grid[i][0], p)
	}

	if *flagPlot != "" {
		if err := plotCurve(*flagPlot, grid, ps, *flagCI); err != nil {
			log.Fatal(err)
		}
	}
	if !*flagEst && *flagCI == 0 {
		return
	}

	est, err := tracer.Estimate([]float64{lo}, []float64{hi})
	if err != nil {
		log.Fatal(err)
	}
	if *flagEst {
		fmt.Printf("estimate=%g p=%0.4f converged=%v\n", est.Param[0], est.P, est.Converged)
	}
	if *flagCI > 0 {
		iv, err := tracer.ConfInterval(est.Param[0], *flagCI, lo, hi)
		if err != nil {
			log.Fatal(err)
		}
		fmt.Printf("ci=[%g, %g] alpha=%g converged=%v\n", iv.Lower, iv.Upper, iv.Alpha, iv.Converged)
		for _, w := range iv.Warnings {
			log.Print(w)
		}
	}
}

// parseGrid parses a lo:hi:steps trace specification.
func parseGrid(s string) (lo, hi float64, steps int, err error) {
	f := strings.Split(s, ":")
	if len(f) != 3 {
		return 0, 0, 0, fmt.Errorf("bad trace spec %q, want lo:hi:steps", s)
	}
	if lo, err = strconv.ParseFloat(f[0], 64); err != nil {
		return 0, 0, 0, fmt.Errorf("bad trace spec %q: %v", s, err)
	}
	if hi, err = strconv.ParseFloat(f[1], 64); err != nil {
		return 0, 0, 0, fmt.Errorf("bad trace spec %q: %v", s, err)
	}
	if steps, err = strconv.Atoi(f[2]); err != nil || steps < 1 || lo >= hi {
		return 0, 0, 0, fmt.Errorf("bad trace spec %q", s)
	}
	return lo, hi, steps, nil
}

// readSample reads one sample of whitespace-separated numbers.
func readSample(path string) ([]float64, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var vals []float64
	sc := bufio.NewScanner(f)
	sc.Split(bufio.ScanWords)
	for sc.Scan() {
		v, err := strconv.ParseFloat(sc.Text(), 64)
		if err != nil {
			return nil, fmt.Errorf("%s: %v", path, err)
		}
		vals = append(vals, v)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("%s: %v", path, err)
	}
	if len(vals) == 0 {
		return nil, fmt.Errorf("%s: empty sample", path)
	}
	return vals, nil
}

func formatStat(stat []float64) string {
	if len(stat) == 1 {
		return fmt.Sprintf("%.4g", stat[0])
	}
	parts := make([]string, len(stat))
	for i, v := range stat {
		parts[i] = fmt.Sprintf("%.4g", v)
	}
	return "[" + strings.Join(parts, " ") + "]"
}
