// Copyright (c) 2024-2025 Six After, Inc
//
// This source code is licensed under the Apache 2.0 License found in the
// LICENSE file in the root directory of this source tree.

package health

// APT is the Adaptive Proportion Test over a window of APTWindowSize
// samples (§4.C): the first sample in each window becomes the base symbol;
// every later sample equal to the base increments the in-window count.
// When the window closes, the count is compared against the osr-indexed
// intermittent and permanent cutoffs.
type APT struct {
	cutoff       int64
	permCutoff   int64
	base         uint64
	haveBase     bool
	count        int64
	observations int
}

// NewAPT returns an APT test configured for the given oversampling rate.
func NewAPT(osr uint32) *APT {
	intermittent, permanent := APTCutoff(osr)
	return &APT{cutoff: intermittent, permCutoff: permanent}
}

// Feed folds delta into the current window, returning whether the window
// just closed with an intermittent and/or permanent failure. A closed
// window always starts a fresh one, with the next delta becoming the new
// base symbol.
func (a *APT) Feed(delta uint64) (failure, permanent bool) {
	if !a.haveBase {
		a.base = delta
		a.haveBase = true
		a.count = 0
		a.observations = 0
		return false, false
	}

	if delta == a.base {
		a.count++
	}
	a.observations++

	if a.observations < APTWindowSize-1 {
		return false, false
	}

	failure = a.count >= a.cutoff
	permanent = a.count >= a.permCutoff
	a.haveBase = false
	return failure, permanent
}

// Reset abandons the in-progress window.
func (a *APT) Reset() {
	a.haveBase = false
	a.count = 0
	a.observations = 0
}

// Snapshot returns the current in-window cutoff, observation count,
// base-match count, and base symbol, mixed into the hash loop (§4.D:
// "absorb ... APT cutoffs, APT state counters").
func (a *APT) Snapshot() (cutoff, observations, count int64, base uint64) {
	return a.cutoff, int64(a.observations), a.count, a.base
}
