// Copyright (c) 2024-2025 Six After, Inc
//
// This source code is licensed under the Apache 2.0 License found in the
// LICENSE file in the root directory of this source tree.

package jent

import (
	"sync"

	"github.com/jent-go/jitterentropy/x/gcd"
	"github.com/jent-go/jitterentropy/x/sponge"
	"github.com/jent-go/jitterentropy/x/timer"
)

// processGCD is the process-global, set-once-read-only-afterwards common
// timer divisor state (§5 "Shared-resource policy": jent_common_timer_gcd
// is the only collector-external mutable state besides the notime
// implementation choice).
type processGCD struct {
	mu       sync.Mutex
	tested   bool
	value    uint64
	useTimer timer.Source

	// switchBlocked mirrors notime_switch_blocked: once entropy_init[_ex]
	// succeeds, switch_notime_impl is forbidden (§5).
	switchBlocked bool
}

var gcdState = &processGCD{}

// Init implements entropy_init() (§6): runs all self-tests with the
// default configuration. Idempotent after first success.
func Init() error {
	return InitEx(DefaultOSR, 0)
}

// InitEx implements entropy_init_ex(osr, flags) (§6): runs the SHA-3 KAT,
// the GCD self-test, then the startup measurement probe, same as Init but
// with a caller-chosen osr and flags (§4.G: "Runs in order: SHA-3 KAT, GCD
// self-test[,] ... throwaway collector").
func InitEx(osr uint32, flags Flags) error {
	gcdState.mu.Lock()
	defer gcdState.mu.Unlock()

	if gcdState.tested {
		return nil
	}

	if err := flags.validate(); err != nil {
		return err
	}

	if err := sponge.SelfTest(); err != nil {
		return newError(CodeHash, "%v", err)
	}

	if err := gcd.SelfTest(); err != nil {
		return newError(CodeGCD, "%v", err)
	}

	useTimer := timer.NewMonotonicSource()
	if err := runStartupProbe(osr, flags, useTimer); err != nil {
		if flags.Has(FlagForceInternalTimer) {
			notimeSrc, nerr := timer.NewNotimeSource()
			if nerr != nil {
				return newError(CodeThread, "%v", nerr)
			}
			notimeSrc.Start()
			defer notimeSrc.Stop()
			if err := runStartupProbe(osr, flags, notimeSrc); err != nil {
				return err
			}
			gcdState.useTimer = notimeSrc
		} else {
			return err
		}
	} else {
		gcdState.useTimer = useTimer
	}

	gcdState.tested = true
	gcdState.switchBlocked = true
	log.Info().Uint32("osr", osr).Msg("entropy_init succeeded")
	return nil
}

// SwitchNotimeImpl implements switch_notime_impl(impl) (§6): stores src as
// the process-wide timer choice. Must precede entropy_init[_ex]; returns
// CodeProgErr afterward. InitEx replaces the stored choice with the source
// its startup probe accepts (the platform clock, or a fresh internal timer
// under FlagForceInternalTimer), so collectors do not use src.
func SwitchNotimeImpl(src timer.Source) error {
	gcdState.mu.Lock()
	defer gcdState.mu.Unlock()

	if gcdState.switchBlocked {
		return newError(CodeProgErr, "switch_notime_impl called after entropy_init")
	}
	gcdState.useTimer = src
	return nil
}
