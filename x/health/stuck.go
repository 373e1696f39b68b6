// Copyright (c) 2024-2025 Six After, Inc
//
// This source code is licensed under the Apache 2.0 License found in the
// LICENSE file in the root directory of this source tree.

package health

// StuckTest implements the three-stage derivative stuck test (§4.C): a
// sample is stuck iff the delta itself, its first difference from the
// previous delta, or its second difference from the delta before that, is
// zero. Arithmetic is performed in uint64 and intentionally allowed to wrap
// on underflow, matching the reference implementation's unsigned subtraction.
type StuckTest struct {
	lastDelta  uint64
	lastDelta2 uint64
}

// Check folds delta into the derivative chain and reports whether it is
// stuck, updating lastDelta/lastDelta2 for the next call regardless of the
// result (§4.C: "last_delta and last_delta2 are then updated").
func (s *StuckTest) Check(delta uint64) bool {
	d1 := delta
	d2 := d1 - s.lastDelta
	d3 := d2 - s.lastDelta2

	s.lastDelta2 = d2
	s.lastDelta = d1

	return d1 == 0 || d2 == 0 || d3 == 0
}

// Reset clears the derivative chain, e.g. between the independent startup
// probes required for NTG.1 certification (§4.F).
func (s *StuckTest) Reset() {
	s.lastDelta = 0
	s.lastDelta2 = 0
}
