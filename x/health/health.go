// Copyright (c) 2024-2025 Six After, Inc
//
// This source code is licensed under the Apache 2.0 License found in the
// LICENSE file in the root directory of this source tree.

package health

// Failure is the health-test failure bitset (§3: "health_failure: bitset
// with flags RCT/APT/LAG and their _PERMANENT shadow bits").
type Failure uint32

const (
	FailureRCT Failure = 1 << iota
	FailureRCTPermanent
	FailureAPT
	FailureAPTPermanent
	FailureLag
	FailureLagPermanent
	FailureDist
	FailureDistPermanent
)

// Has reports whether all bits in want are set in f.
func (f Failure) Has(want Failure) bool {
	return f&want == want
}

// Config selects which tests State runs and at what oversampling rate.
// EnableDist defaults to false per §9/SPEC_FULL.md §14: the DIST test is
// the newest and least-proven of the four and is opt-in.
type Config struct {
	OSR             uint32
	EnableDist      bool
	DistMin         uint64
	DistMax         uint64
}

// State is the aggregate per-collector health-test state (§3): one Stuck,
// RCT, APT and Lag test, plus an optional Dist test, feeding a single
// Failure bitset whose permanent bits are never cleared.
type State struct {
	stuck StuckTest
	rct   *RCT
	apt   *APT
	lag   *Lag
	dist  *Dist

	failure          Failure
	permanentFailure Failure
}

// New returns a State configured per cfg.
func New(cfg Config) *State {
	s := &State{
		rct: NewRCT(cfg.OSR),
		apt: NewAPT(cfg.OSR),
		lag: NewLag(cfg.OSR),
	}
	if cfg.EnableDist {
		s.dist = NewDist(cfg.DistMin, cfg.DistMax)
	}
	return s
}

// Feed runs delta through the stuck test and every configured statistical
// test, updating the aggregate Failure bitset. It returns whether the
// sample was flagged stuck (§4.C: the caller must retry measure_jitter on
// a stuck sample, per §4.F) alongside the resulting Failure bitset.
// Stuck samples still feed RCT, APT, Lag and Dist — every sample absorbs
// into the health tests "regardless of whether the samples were stuck"
// (§8 invariant 4).
func (s *State) Feed(delta uint64) (stuck bool, failure Failure) {
	stuck = s.stuck.Check(delta)

	s.failure = s.permanentFailure

	if f, perm := s.rct.Feed(stuck); f {
		s.failure |= FailureRCT
		if perm {
			s.failure |= FailureRCTPermanent
			s.permanentFailure |= FailureRCT | FailureRCTPermanent
		}
	}

	if f, perm := s.apt.Feed(delta); f {
		s.failure |= FailureAPT
		if perm {
			s.failure |= FailureAPTPermanent
			s.permanentFailure |= FailureAPT | FailureAPTPermanent
		}
	}

	if s.lag.Feed(delta) {
		s.failure |= FailureLag | FailureLagPermanent
		s.permanentFailure |= FailureLag | FailureLagPermanent
	}

	if s.dist != nil && s.dist.Feed(delta) {
		s.failure |= FailureDist
	}

	return stuck, s.failure
}

// Failure returns the current aggregate failure bitset without consuming a
// new sample.
func (s *State) Failure() Failure {
	return s.failure
}

// HashLoopState is the subset of health-test state the noise package's hash
// loop absorbs alongside the running intermediary buffer (§4.D).
type HashLoopState struct {
	RCTCounter      int64
	APTCutoff       int64
	APTObservations int64
	APTCount        int64
	APTBase         uint64
}

// HashLoopState snapshots the current RCT and APT state for the hash loop.
func (s *State) HashLoopState() HashLoopState {
	cutoff, observations, count, base := s.apt.Snapshot()
	return HashLoopState{
		RCTCounter:      s.rct.Counter(),
		APTCutoff:       cutoff,
		APTObservations: observations,
		APTCount:        count,
		APTBase:         base,
	}
}

// Reset reinitializes every test, e.g. for the independent memory-only and
// hash-only NTG.1 startup probes (§4.F), but preserves accumulated
// permanent failures, which must never clear once latched (§3).
func (s *State) Reset(cfg Config) {
	s.stuck.Reset()
	s.rct = NewRCT(cfg.OSR)
	s.apt = NewAPT(cfg.OSR)
	s.lag = NewLag(cfg.OSR)
	if cfg.EnableDist {
		s.dist = NewDist(cfg.DistMin, cfg.DistMax)
	} else {
		s.dist = nil
	}
	s.failure = s.permanentFailure
}
