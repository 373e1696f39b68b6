// Copyright (c) 2024-2025 Six After, Inc
//
// This source code is licensed under the Apache 2.0 License found in the
// LICENSE file in the root directory of this source tree.

package health

// RCT is the Repetition Count Test (SP800-90B §4.4.1, spec §4.C): the
// counter resets to 1 on every non-stuck sample and increments on every
// stuck sample; crossing the intermittent or permanent cutoff reports the
// corresponding failure.
type RCT struct {
	cutoff     int64
	permCutoff int64
	counter    int64
}

// NewRCT returns an RCT test configured for the given oversampling rate.
func NewRCT(osr uint32) *RCT {
	return &RCT{
		cutoff:     RCTCutoff(osr),
		permCutoff: RCTPermanentCutoff(osr),
	}
}

// Feed folds in whether the sample that produced this delta was reported
// stuck by StuckTest, returning whether the intermittent and/or permanent
// threshold was crossed.
func (r *RCT) Feed(stuck bool) (failure, permanent bool) {
	if stuck {
		r.counter++
	} else {
		r.counter = 1
	}

	if r.counter >= r.permCutoff {
		return true, true
	}
	if r.counter >= r.cutoff {
		return true, false
	}
	return false, false
}

// Reset clears the repetition counter, e.g. between independent startup
// probes.
func (r *RCT) Reset() {
	r.counter = 0
}

// Counter returns the current repetition count, mixed into the hash loop
// alongside the APT state so the noise source's fixed workload also
// depends on accumulated health-test state (§4.D).
func (r *RCT) Counter() int64 {
	return r.counter
}
