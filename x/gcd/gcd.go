// Copyright (c) 2024-2025 Six After, Inc
//
// This source code is licensed under the Apache 2.0 License found in the
// LICENSE file in the root directory of this source tree.

// Package gcd implements component B of the jitter-entropy engine: the
// timer-resolution analyzer that detects a coarse or fixed-increment system
// timer by finding the largest divisor that divides at least 90% of a
// sample's adjacent-delta GCDs (§4.B).
package gcd

import (
	"sort"
	"strconv"
)

// coarseThreshold is the value at or above which a detected common divisor
// indicates a timer too coarse to use (§4.B, §7 CoarseTime).
const coarseThreshold = 100

// thresholdFraction applies the reference implementation's 90% cutoff
// (JENT_STUCK_INIT_THRES(x) = x*9/10) to nelem samples.
func thresholdFraction(nelem int) int {
	return (nelem * 9) / 10
}

// euclid computes gcd(a, b) via the standard Euclidean algorithm.
func euclid(a, b uint64) uint64 {
	if a < b {
		a, b = b, a
	}
	for b != 0 {
		a, b = b, a%b
	}
	return a
}

// RunningGCD accumulates the pairwise GCD of adjacent timer deltas as they
// arrive, mirroring jent_gcd_add_value: each new delta is folded against the
// previous one rather than against a fixed reference value, so a timer that
// increments by a variable-but-common step is still detected.
type RunningGCD struct {
	prevDelta uint64
	have      bool
	values    []uint64

	// sumAbsDiff and n track the MINVARVAR check (§4.B: "Reject
	// (error MINVARVAR) if the sum of absolute successive Δ differences
	// is ≤ n−1"), accumulated alongside the pairwise GCDs rather than in
	// a second pass over the raw deltas.
	sumAbsDiff uint64
	n          int
}

// NewRunningGCD returns an accumulator with capacity hinted by nelem, the
// number of samples that will be added before Analyze is called.
func NewRunningGCD(nelem int) *RunningGCD {
	return &RunningGCD{values: make([]uint64, 0, nelem)}
}

// Add folds delta against the previously added delta and records the
// resulting pairwise GCD as one sample for Analyze.
func (r *RunningGCD) Add(delta uint64) {
	r.n++
	if !r.have {
		r.prevDelta = delta
		r.have = true
		r.values = append(r.values, 0)
		return
	}
	if delta > r.prevDelta {
		r.sumAbsDiff += delta - r.prevDelta
	} else {
		r.sumAbsDiff += r.prevDelta - delta
	}
	r.values = append(r.values, euclid(delta, r.prevDelta))
	r.prevDelta = delta
}

// Result is the outcome of Analyze.
type Result struct {
	// Divisor is the common timer divisor found, or 0 if none qualified.
	Divisor uint64
	// CoarseTime is true if Divisor is large enough (>=100) that the
	// timer itself is unusable, per §4.B/§7.
	CoarseTime bool
	// LowVariation is true if the timer shows almost no jitter at all:
	// the sum of absolute successive delta differences is at most n-1
	// (§4.B, error MINVARVAR).
	LowVariation bool
}

// Analyze runs the full two-pass algorithm from jent_gcd_analyze: sort the
// accumulated pairwise GCDs, count occurrences of each distinct value, fold
// each value's count into every smaller value that evenly divides it, and
// report the largest value whose folded count exceeds the 90% threshold.
func (r *RunningGCD) Analyze() Result {
	nelem := len(r.values)
	if nelem == 0 {
		return Result{}
	}

	lowVariation := r.n > 1 && r.sumAbsDiff <= uint64(r.n-1)

	sorted := make([]uint64, nelem)
	copy(sorted, r.values)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })

	type entry struct {
		value uint64
		count uint64
	}
	var table []entry
	curGCD, curCount := sorted[0], uint64(0)
	for _, v := range sorted {
		if v == curGCD {
			curCount++
			continue
		}
		if curCount > 0 {
			table = append(table, entry{curGCD, curCount})
		}
		curGCD, curCount = v, 1
	}
	if curCount > 0 {
		table = append(table, entry{curGCD, curCount})
	}

	// Fold every larger divisible value's count into each smaller divisor.
	for i := range table {
		for j := 0; j < i; j++ {
			if table[j].value == 0 {
				continue
			}
			if table[i].value%table[j].value == 0 {
				table[j].count += table[i].count
			}
		}
	}

	threshold := uint64(thresholdFraction(nelem))
	var mostCommon uint64
	for _, e := range table {
		if e.count > threshold {
			mostCommon = e.value
		}
	}

	if mostCommon == 0 {
		return Result{LowVariation: lowVariation}
	}
	if mostCommon >= coarseThreshold {
		return Result{Divisor: mostCommon, CoarseTime: true, LowVariation: lowVariation}
	}
	return Result{Divisor: mostCommon, LowVariation: lowVariation}
}

// Analyze is a convenience entry point over a pre-recorded slice of raw
// timer deltas: it folds adjacent pairs into pairwise GCDs via a fresh
// RunningGCD and reports the result in one call.
func Analyze(deltas []uint64) Result {
	r := NewRunningGCD(len(deltas))
	for _, d := range deltas {
		r.Add(d)
	}
	return r.Analyze()
}

// selfTestError reports that the GCD analyzer did not reproduce the
// expected divisor over its known synthetic series.
type selfTestError struct{ got, want uint64 }

func (e *selfTestError) Error() string {
	return "gcd: self-test failed: got divisor " + strconv.FormatUint(e.got, 10) +
		", want " + strconv.FormatUint(e.want, 10)
}

// SelfTest applies Analyze to a synthetic series with a known common
// divisor — every delta a multiple of 12 with consecutive (and therefore
// coprime) multipliers, so every pairwise GCD folds to exactly 12 — and
// confirms the expected divisor is recovered (§4.B: "Self-test: applying
// the analyzer to a known synthetic series yields the expected divisor").
func SelfTest() error {
	const want = 12
	deltas := make([]uint64, 100)
	for i := range deltas {
		deltas[i] = uint64(i+1) * want
	}

	result := Analyze(deltas)
	if result.Divisor != want {
		return &selfTestError{got: result.Divisor, want: want}
	}
	return nil
}
