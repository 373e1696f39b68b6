// Copyright (c) 2024-2025 Six After, Inc
//
// This source code is licensed under the Apache 2.0 License found in the
// LICENSE file in the root directory of this source tree.

package health

// Dist is the optional DIST health test (§9 Open Question, SPEC_FULL.md
// §14): it counts how many deltas, over a running total of n samples, fall
// within a configurable half-open sub-distribution band [min, max) and
// compares that count against
// JENT_DIST_RUNNING_THRES(n). It is the newest and least-proven of the
// four tests and is disabled by default (jent.FlagForceFIPS does not
// enable it; it has its own opt-in, see jent.Config).
type Dist struct {
	min, max uint64
	n        int64
	inBand   int64
}

// NewDist returns a DIST test watching the half-open band [min, max).
func NewDist(min, max uint64) *Dist {
	return &Dist{min: min, max: max}
}

// Feed folds delta into the running count, returning whether the
// running-threshold cutoff has been exceeded.
func (d *Dist) Feed(delta uint64) (failure bool) {
	d.n++
	if delta >= d.min && delta < d.max {
		d.inBand++
	}
	return d.inBand > DistRunningThreshold(d.n)
}

// Reset clears the running counters.
func (d *Dist) Reset() {
	d.n = 0
	d.inBand = 0
}
