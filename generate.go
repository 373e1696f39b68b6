// Copyright (c) 2024-2025 Six After, Inc
//
// This source code is licensed under the Apache 2.0 License found in the
// LICENSE file in the root directory of this source tree.

package jent

import (
	"github.com/jent-go/jitterentropy/x/health"
	"github.com/jent-go/jitterentropy/x/noise"
)

// measureJitter implements jent_measure_jitter (§4.F): run the memory-access
// noise source, take a timestamp, derive Δ against the previous sample
// (post-GCD-division), feed it through the health tests, run the hash loop,
// and absorb the combined block into the conditioning sponge. It returns
// whether the sample was flagged stuck so the caller can retry.
func (c *Collector) measureJitter() (stuck bool, err error) {
	s, err := c.measureJitterSample(false)
	return s.Stuck, err
}

// Sample is one raw measureJitter pass: the tick Δ it derived and whether
// the health tests flagged it stuck. Recording tools consume these instead
// of the accumulated entropy bytes ReadEntropy produces.
type Sample struct {
	Delta uint64
	Stuck bool
}

// SampleRaw runs one measureJitter pass and returns the Δ and stuck
// indicator it produced, exposing jent_measure_jitter's raw per-call output
// the way jitterentropy-hashtime.c's jent_one_test loop captures it into
// its duration array (§1 Non-goals: collectors feed a downstream
// extractor/DRBG, but this path serves external statistical test suites
// instead).
//
// When rawTicks is true, the common-period GCD division is bypassed for
// this sample (jitterentropy-hashtime.c sets ec->jent_common_timer_gcd = 1
// when !report_counter_ticks), returning the undivided tick count.
func (c *Collector) SampleRaw(rawTicks bool) (Sample, error) {
	return c.measureJitterSample(rawTicks)
}

func (c *Collector) measureJitterSample(rawTicks bool) (Sample, error) {
	if !c.cfg.Flags.Has(FlagDisableMemoryAccess) {
		noise.MemAccess(c.mem, c.memAccessLoops(), func() uint32 {
			return c.prng.address(c.memMask)
		})
	}

	now := c.source.NowTicks()
	if !c.primed {
		c.prevTime = now
		c.primed = true
		return Sample{}, nil
	}

	if now <= c.prevTime {
		c.backwardCount++
		if c.backwardCount > NonMonotonicTolerance {
			return Sample{}, newError(CodeNonMonotonic, "collector timer went backwards %d times", c.backwardCount)
		}
	}

	raw := now - c.prevTime
	c.prevTime = now

	divisor := gcdState.value
	if divisor == 0 || rawTicks {
		divisor = 1
	}
	delta := raw / divisor

	stuck, failure := c.health.Feed(delta)

	var intermediary [32]byte
	noise.HashLoop(&intermediary, c.hashLoopCount(), c.hashLoopInputs())

	block := noise.BlockInsert(intermediary, delta)
	c.cond.Absorb(block[:])

	sample := Sample{Delta: delta, Stuck: stuck}
	if failure != 0 {
		err := c.failureError(failure)
		var jerr *Error
		if c.cfg.FIPSEnabled && c.cfg.FailureCB != nil && asJentError(err, &jerr) {
			c.cfg.FailureCB(jerr.Code)
		}
		return sample, err
	}
	return sample, nil
}

// hashLoopInputs snapshots the health-test state the hash loop mixes in
// alongside the running intermediary buffer and loop index (§4.D). The
// jent package is the only caller with visibility into both x/health and
// x/noise, so it is responsible for bridging the two.
func (c *Collector) hashLoopInputs() noise.HashLoopInputs {
	s := c.health.HashLoopState()
	return noise.HashLoopInputs{
		RCTCount:        s.RCTCounter,
		APTCutoff:       s.APTCutoff,
		APTObservations: s.APTObservations,
		APTCount:        s.APTCount,
		APTBase:         s.APTBase,
	}
}

// memAccessLoops returns the configured memory-access iteration count,
// falling back to DefaultMemAccessLoops when unset.
func (c *Collector) memAccessLoops() uint64 {
	if c.cfg.MemAccessLoops == 0 {
		return DefaultMemAccessLoops
	}
	return uint64(c.cfg.MemAccessLoops)
}

// hashLoopCount returns the configured hash-loop iteration count, falling
// back to DefaultHashLoopCount when unset.
func (c *Collector) hashLoopCount() uint64 {
	if c.cfg.HashLoopCount == 0 {
		return DefaultHashLoopCount
	}
	return c.cfg.HashLoopCount
}

// requiredSamples returns the number of stuck-free samples generateBlock
// must collect before squeezing a block (§4.F): (256 + safety_factor) * osr,
// where safety_factor is 64 (65 for NTG.1) when fips_enabled, else 0.
func (c *Collector) requiredSamples() uint64 {
	safety := uint64(0)
	if c.cfg.FIPSEnabled {
		safety = SafetyFactor
		if c.cfg.Flags.Has(FlagNTG1) {
			safety = SafetyFactorNTG1
		}
	}
	return (256 + safety) * uint64(c.osr())
}

// failureError maps an aggregate health.Failure bitset to the first
// matching Code, in RCT, APT, LAG, DIST priority order (§4.F: "if any
// health test failure is set, return the first matching error (RCT, APT,
// LAG, DIST in that order)").
func (c *Collector) failureError(f health.Failure) error {
	switch {
	case f.Has(health.FailureRCT):
		return newError(CodeRCT, "repetition count test failed")
	case f.Has(health.FailureAPT):
		return newError(CodeAPT, "adaptive proportion test failed")
	case f.Has(health.FailureLag):
		return newError(CodeLag, "lag predictor test failed")
	case f.Has(health.FailureDist):
		return newError(CodeDist, "distribution test failed")
	default:
		return newError(CodeHealth, "health test failed")
	}
}

// generateBlock implements the per-block loop of read_entropy (§4.F):
// collect requiredSamples() stuck-free measurements, then squeeze 256 bits
// out of the sponge (Conditioner.Squeeze re-absorbs them for backtracking
// resistance).
func (c *Collector) generateBlock() ([32]byte, error) {
	// Re-prime prev_time before every block, not just once for the life
	// of the collector: the discarded sample still feeds the health
	// tests, hash loop, and sponge like any other measurement, only its
	// stuck verdict is thrown away.
	if _, err := c.measureJitter(); err != nil {
		return [32]byte{}, err
	}

	need := c.requiredSamples()
	var k uint64
	for k < need {
		stuck, err := c.measureJitter()
		if err != nil {
			return [32]byte{}, err
		}
		if stuck {
			continue
		}
		k++
	}
	return c.cond.Squeeze(), nil
}

// ReadEntropy implements read_entropy(ec, out) (§4.F): start the internal
// timer if configured, fill out 32 bytes at a time until full or a health
// test fails, perform one extra discard squeeze for backtracking
// resistance, then join the internal timer. It returns the number of bytes
// written, which is len(out) on success.
func ReadEntropy(c *Collector, out []byte) (int, error) {
	if c.closed {
		return 0, newError(CodeProgErr, "read_entropy called on a freed collector")
	}

	if c.notime != nil {
		c.notime.Start()
		defer c.notime.Stop()
	}

	written := 0
	for written < len(out) {
		block, err := c.generateBlock()
		if err != nil {
			return written, err
		}
		n := copy(out[written:], block[:])
		written += n
	}

	// Discard squeeze: stir the sponge once more so a later memory
	// disclosure cannot recover the bytes just returned (§4.F step 3).
	c.cond.Squeeze()

	return written, nil
}

// ReadEntropySafe implements read_entropy_safe(*ec, out, n) (§4.F):
// wraps ReadEntropy with automatic recovery from RCT/APT/LAG/DIST
// failures by reallocating the collector at osr+1 and retrying the
// remaining bytes, giving up once osr exceeds MaxOSR.
func ReadEntropySafe(c **Collector, out []byte) (int, error) {
	written := 0
	for written < len(out) {
		n, err := ReadEntropy(*c, out[written:])
		written += n
		if err == nil {
			return written, nil
		}

		var jerr *Error
		if !asJentError(err, &jerr) {
			return written, err
		}

		switch jerr.Code {
		case CodeRCT, CodeAPT, CodeLag, CodeDist:
			cfg := (*c).cfg
			nextOSR := cfg.OSR + 1
			if nextOSR > MaxOSR {
				return written, newError(CodeProgErr, "osr escalation exhausted at %d", cfg.OSR)
			}
			(*c).Free()
			cfg.OSR = nextOSR
			next, allocErr := allocWithConfig(cfg)
			if allocErr != nil {
				return written, allocErr
			}
			*c = next
		default:
			return written, err
		}
	}
	return written, nil
}

// Read implements io.Reader by delegating to ReadEntropy, letting a
// Collector be wired directly into a downstream extractor/DRBG (§1
// Non-goals: "callers are expected to feed its output into a downstream
// extractor/DRBG") via its EntropySource option.
func (c *Collector) Read(out []byte) (int, error) {
	return ReadEntropy(c, out)
}

// asJentError reports whether err is an *Error, setting target on success.
// A small helper in place of errors.As to keep this package's error
// handling self-contained (it never wraps with fmt.Errorf("%w", ...), so
// the standard library's chain-walking is unnecessary here).
func asJentError(err error, target **Error) bool {
	e, ok := err.(*Error)
	if !ok {
		return false
	}
	*target = e
	return true
}
