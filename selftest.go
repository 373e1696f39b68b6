// Copyright (c) 2024-2025 Six After, Inc
//
// This source code is licensed under the Apache 2.0 License found in the
// LICENSE file in the root directory of this source tree.

package jent

import (
	"github.com/jent-go/jitterentropy/x/gcd"
	"github.com/jent-go/jitterentropy/x/health"
	"github.com/jent-go/jitterentropy/x/noise"
	"github.com/jent-go/jitterentropy/x/sponge"
	"github.com/jent-go/jitterentropy/x/timer"
)

// runStartupProbe implements the throwaway-collector measurement loop of
// entropy_init_ex (§4.G): POWERUP_TESTLOOPCOUNT=1024 measurements over a
// scratch memory region and timer source, discarding the first
// CLEARCACHE=100 to let the CPU caches warm, then deriving NoTime,
// CoarseTime, NonMonotonic, MinVarVar, Stuck, and propagated health errors.
// The zero-timestamp (NoTime) and backwards-timer (NonMonotonic) checks
// cover every measurement, the discarded ones included; the others use
// only the remaining samples. First success commits the discovered GCD
// divisor to gcdState (§4.G: "First success commits gcd and the timer
// choice").
func runStartupProbe(osr uint32, flags Flags, source timer.Source) error {
	mem := timer.ZAlloc(1 << DefaultMemSizeExp)
	defer timer.ZFree(mem)

	memMask := uint32(len(mem) - 1)
	prng := newAddressPRNG([4]uint64{})
	cond := sponge.New()
	hs := health.New(health.Config{OSR: osr})

	kept := PowerupTestLoopCount - ClearCacheSamples
	gcdAcc := gcd.NewRunningGCD(kept)

	var (
		sawZeroTimestamp bool
		sawZeroDelta     bool
		backwardsCount   int
		stuckCount       int
		sampleCount      int
		intermediary     [32]byte
	)

	for i := 0; i < PowerupTestLoopCount; i++ {
		start := source.NowTicks()

		if !flags.Has(FlagDisableMemoryAccess) {
			noise.MemAccess(mem, uint64(DefaultMemAccessLoops), func() uint32 {
				return prng.address(memMask)
			})
		}
		hls := hs.HashLoopState()
		noise.HashLoop(&intermediary, DefaultHashLoopCount, noise.HashLoopInputs{
			RCTCount:        hls.RCTCounter,
			APTCutoff:       hls.APTCutoff,
			APTObservations: hls.APTObservations,
			APTCount:        hls.APTCount,
			APTBase:         hls.APTBase,
		})

		end := source.NowTicks()

		if start == 0 || end == 0 {
			sawZeroTimestamp = true
		}
		if end <= start {
			backwardsCount++
		}
		delta := end - start

		if i < ClearCacheSamples {
			continue
		}
		sampleCount++

		if delta == 0 {
			sawZeroDelta = true
		}
		gcdAcc.Add(delta)

		stuck, _ := hs.Feed(delta)
		if stuck {
			stuckCount++
		}

		block := noise.BlockInsert(intermediary, delta)
		cond.Absorb(block[:])
	}

	if err := deriveStartupError(sawZeroTimestamp, sawZeroDelta, backwardsCount, stuckCount, sampleCount); err != nil {
		log.Warn().Err(err).Msg("startup probe rejected timer source")
		return err
	}

	result := gcdAcc.Analyze()
	if result.CoarseTime {
		err := newError(CodeCoarseTime, "common timer divisor %d too coarse", result.Divisor)
		log.Warn().Err(err).Msg("startup probe rejected timer source")
		return err
	}
	if result.LowVariation {
		err := newError(CodeMinVarVar, "timer shows almost no jitter across startup samples")
		log.Warn().Err(err).Msg("startup probe rejected timer source")
		return err
	}

	if err := deriveHealthError(hs.Failure()); err != nil {
		log.Warn().Err(err).Msg("startup probe rejected timer source")
		return err
	}

	gcdState.value = result.Divisor
	log.Debug().Uint64("gcd_divisor", result.Divisor).Int("samples", sampleCount).Msg("startup probe committed timer source")
	return nil
}

// deriveStartupError implements §4.G's first tier of error derivation:
// NoTime if any timestamp was zero, CoarseTime if any delta was zero,
// NonMonotonic if the timer ran backwards more than NonMonotonicTolerance
// times, Stuck if over 90% of kept samples were flagged stuck.
func deriveStartupError(sawZeroTimestamp, sawZeroDelta bool, backwardsCount, stuckCount, sampleCount int) error {
	switch {
	case sawZeroTimestamp:
		return newError(CodeNoTime, "timer source returned a zero timestamp")
	case sawZeroDelta:
		return newError(CodeCoarseTime, "timer resolution produced a zero delta")
	case backwardsCount > NonMonotonicTolerance:
		return newError(CodeNonMonotonic, "timer went backwards %d times", backwardsCount)
	case float64(stuckCount) > 0.9*float64(sampleCount):
		return newError(CodeStuck, "stuck ratio %d/%d exceeds 90%%", stuckCount, sampleCount)
	}
	return nil
}

// deriveHealthError maps an aggregate health.Failure bitset raised during
// the startup probe to the first matching Code, in RCT/APT/LAG/DIST
// priority order, mirroring failureError's ordering for read_entropy.
func deriveHealthError(f health.Failure) error {
	switch {
	case f.Has(health.FailureRCT):
		return newError(CodeRCT, "repetition count test failed during startup probe")
	case f.Has(health.FailureAPT):
		return newError(CodeAPT, "adaptive proportion test failed during startup probe")
	case f.Has(health.FailureLag):
		return newError(CodeLag, "lag predictor test failed during startup probe")
	case f.Has(health.FailureDist):
		return newError(CodeDist, "distribution test failed during startup probe")
	default:
		return nil
	}
}
