// Copyright (c) 2024-2025 Six After, Inc
//
// This source code is licensed under the Apache 2.0 License found in the
// LICENSE file in the root directory of this source tree.

package jent

import (
	"github.com/jent-go/jitterentropy/x/gcd"
	"github.com/jent-go/jitterentropy/x/health"
	"github.com/jent-go/jitterentropy/x/sponge"
	"github.com/jent-go/jitterentropy/x/timer"
)

// startupState tracks the NTG.1 startup sequence (§3 "startup_state ∈
// {memory, sha3, completed}").
type startupState int

const (
	startupMemory startupState = iota
	startupSHA3
	startupCompleted
)

// Collector is the entropy-collector aggregate (§3): the single core
// object owning the sponge, noise-source state, health-test state, PRNG
// state and configuration. A Collector must not be used from more than
// one goroutine at a time (§5).
type Collector struct {
	cfg Config

	cond *sponge.Conditioner
	prng *addressPRNG

	mem     []byte
	memMask uint32

	health *health.State

	notime *timer.NotimeSource
	source timer.Source

	prevTime      uint64
	primed        bool
	backwardCount int

	startup startupState
	closed  bool
}

// Alloc implements alloc(osr, flags) (§6): allocates a Collector and runs
// one priming block. It returns an error (never a usable handle) on any
// failure, matching the reference implementation's "null on any failure"
// contract by simply not returning a *Collector.
func Alloc(opts ...Option) (*Collector, error) {
	cfg, err := apply(opts)
	if err != nil {
		return nil, err
	}
	return allocWithConfig(cfg)
}

func allocWithConfig(cfg Config) (*Collector, error) {
	if !gcdState.tested {
		return nil, newError(CodeGCD, "entropy_init[_ex] must succeed before alloc")
	}

	memSize := 1 << uint(cfg.MemSizeExp)
	c := &Collector{
		cfg:     cfg,
		cond:    sponge.New(),
		prng:    newAddressPRNG([4]uint64{}),
		mem:     timer.ZAlloc(memSize),
		memMask: uint32(memSize - 1),
		health: health.New(health.Config{
			OSR:        cfg.OSR,
			EnableDist: cfg.EnableDist,
			DistMin:    cfg.DistMin,
			DistMax:    cfg.DistMax,
		}),
	}

	switch {
	case cfg.timeSourceSet:
		// Explicit override: a caller (almost always a test) injected a
		// deterministic Source, bypassing the internal-timer selection
		// entirely.
		c.source = cfg.TimeSource
	case cfg.Flags.Has(FlagDisableInternalTimer):
		c.source = timer.NewMonotonicSource()
	case cfg.Flags.Has(FlagForceInternalTimer):
		n, err := timer.NewNotimeSource()
		if err != nil {
			return nil, newError(CodeThread, "%v", err)
		}
		c.notime = n
		c.source = n
	default:
		// Honor whichever source entropy_init_ex's self-test committed
		// (§9: "the selected no-time implementation... [is] passed by
		// reference into each collector's constructor"). If that was the
		// internal timer, give this collector its own instance rather
		// than resampling the hardware clock that already failed
		// validation, or sharing one ticking goroutine across collectors.
		if _, ok := gcdState.useTimer.(*timer.NotimeSource); ok {
			n, err := timer.NewNotimeSource()
			if err != nil {
				return nil, newError(CodeThread, "%v", err)
			}
			c.notime = n
			c.source = n
		} else {
			c.source = gcdState.useTimer
		}
	}

	// Priming measurement: run one measure_jitter whose result is
	// discarded so prev_time is set (§4.F).
	if _, err := c.measureJitter(); err != nil {
		return nil, err
	}

	return c, nil
}

// Free implements free(handle) (§6): wipes then deallocates every owned
// buffer.
func (c *Collector) Free() {
	if c.closed {
		return
	}
	timer.ZFree(c.mem)
	c.mem = nil
	c.closed = true
}

// osr returns the collector's currently configured oversampling rate.
func (c *Collector) osr() uint32 {
	return c.cfg.OSR
}
