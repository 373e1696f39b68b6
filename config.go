// Copyright (c) 2024-2025 Six After, Inc
//
// This source code is licensed under the Apache 2.0 License found in the
// LICENSE file in the root directory of this source tree.

package jent

import "github.com/jent-go/jitterentropy/x/timer"

// Default collector parameters (§3, §4.F, §4.G).
const (
	DefaultOSR             = 3
	MinOSR                 = 1
	MaxOSR                 = 20
	DefaultMemSizeExp      = 17 // 128 KiB, comfortably above typical L1D
	DefaultMemAccessLoops  = 128
	DefaultHashLoopCount   = 1
	SafetyFactor           = 64
	SafetyFactorNTG1       = 65 // accounts for the SHAKE bit, §4.F
	PowerupTestLoopCount   = 1024
	ClearCacheSamples      = 100
	NonMonotonicTolerance  = 3 // §3 prev_time tolerance, §14 Open Question 1
)

// Config is the resolved, immutable configuration snapshot a Collector is
// built from (§3 "flags: u32: configuration snapshot").
type Config struct {
	OSR            uint32
	Flags          Flags
	MemSizeExp     int
	MemAccessLoops uint32
	HashLoopCount  uint64
	FIPSEnabled    bool
	EnableDist     bool
	DistMin        uint64
	DistMax        uint64
	TimeSource     timer.Source
	FailureCB      func(code Code)

	// timeSourceSet records whether WithTimeSource was actually called,
	// distinguishing an explicit override from the eager default
	// DefaultConfig populates. allocWithConfig only honors TimeSource
	// directly when this is true; otherwise it defers to whichever
	// source entropy_init_ex's self-test committed to gcdState.useTimer
	// (§9).
	timeSourceSet bool

	// memSizeExpSet records whether WithMemSizeExp was actually called.
	// When false, apply() lets a memsize_exp encoded into the upper bits
	// of Flags (§6) override DefaultMemSizeExp, matching the reference
	// implementation's single Flags-only external interface; an explicit
	// WithMemSizeExp call always wins over whatever is encoded in Flags.
	memSizeExpSet bool
}

// DefaultConfig returns the recommended configuration: osr=3, no special
// flags, a 128 KiB memory-access region, the platform's monotonic time
// source, and the DIST test disabled (§14 Open Question 2).
func DefaultConfig() Config {
	return Config{
		OSR:            DefaultOSR,
		MemSizeExp:     DefaultMemSizeExp,
		MemAccessLoops: DefaultMemAccessLoops,
		HashLoopCount:  DefaultHashLoopCount,
		TimeSource:     timer.NewMonotonicSource(),
	}
}

// Option is a functional option over Config, in the same shape as
// x/crypto/ctrdrbg.Option and x/crypto/prng.Option.
type Option func(*Config)

// WithOSR returns an Option that sets the oversampling rate. Alloc rejects
// values below MinOSR with CodeProgErr rather than silently clamping;
// values above MaxOSR are accepted as given. read_entropy_safe stops
// escalating osr at MaxOSR (§4.F).
func WithOSR(osr uint32) Option {
	return func(cfg *Config) { cfg.OSR = osr }
}

// WithFlags returns an Option that sets the behavior-flag bitfield (§6).
func WithFlags(flags Flags) Option {
	return func(cfg *Config) { cfg.Flags = flags }
}

// WithMemSizeExp returns an Option that sets log2 of the memory-access
// region size; must land in [10, 29] (§3).
func WithMemSizeExp(exp int) Option {
	return func(cfg *Config) {
		cfg.MemSizeExp = exp
		cfg.memSizeExpSet = true
	}
}

// WithMemAccessLoops returns an Option that sets the base memory-access
// loop iteration count (§4.D).
func WithMemAccessLoops(n uint32) Option {
	return func(cfg *Config) { cfg.MemAccessLoops = n }
}

// WithHashLoopCount returns an Option that sets the hash-loop nonce
// compressor's iteration count (§4.D).
func WithHashLoopCount(n uint64) Option {
	return func(cfg *Config) { cfg.HashLoopCount = n }
}

// WithFIPSEnabled overrides the platform fips_enabled() probe (§1, §4.F):
// when true, the per-block iteration count gains SafetyFactor
// (SafetyFactorNTG1 when FlagNTG1 is also set), and each health-test
// failure invokes the callback registered with WithFailureCallback before
// the error is returned. FlagForceFIPS has the same effect.
func WithFIPSEnabled(enabled bool) Option {
	return func(cfg *Config) { cfg.FIPSEnabled = enabled }
}

// WithDist returns an Option enabling the optional DIST health test over
// the half-open band [min, max) (§9 Open Question, §14).
func WithDist(enabled bool, min, max uint64) Option {
	return func(cfg *Config) {
		cfg.EnableDist = enabled
		cfg.DistMin = min
		cfg.DistMax = max
	}
}

// WithTimeSource overrides the platform time source (§1). Tests use this
// to inject a deterministic Source; switch_notime_impl (init.go) is the
// process-wide analogue for the internal-timer implementation specifically.
// Setting this bypasses entropy_init_ex's committed timer choice entirely
// (allocWithConfig honors it directly rather than consulting gcdState).
func WithTimeSource(src timer.Source) Option {
	return func(cfg *Config) {
		cfg.TimeSource = src
		cfg.timeSourceSet = true
	}
}

// WithFailureCallback registers the hook set_fips_failure_callback
// installs process-wide in the reference implementation; here it is
// per-Collector instead, since only jent_common_timer_gcd and the
// notime implementation choice need process-wide sharing (§5
// "Shared-resource policy").
func WithFailureCallback(cb func(code Code)) Option {
	return func(cfg *Config) { cfg.FailureCB = cb }
}

// apply folds opts onto DefaultConfig and validates the result.
func apply(opts []Option) (Config, error) {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	if err := cfg.Flags.validate(); err != nil {
		return Config{}, err
	}
	if cfg.Flags.Has(FlagForceFIPS) {
		cfg.FIPSEnabled = true
	}
	if !cfg.memSizeExpSet {
		// §6: "upper bits encode MAX_MEMSIZE_* and MEMSIZE_* log2-offsets".
		// memsizeOffsetCurrent is the authoritative encoding; a caller who
		// only ever sets Flags (no WithMemSizeExp) still gets its memsize
		// honored, matching the reference implementation's single
		// Flags-only external interface.
		cfg.MemSizeExp = memsizeExp(cfg.Flags, memsizeOffsetCurrent, cfg.MemSizeExp)
	}
	if cfg.OSR < MinOSR {
		return Config{}, newError(CodeProgErr, "osr %d below minimum %d", cfg.OSR, MinOSR)
	}
	if cfg.MemSizeExp < memsizeExpMin || cfg.MemSizeExp > memsizeExpMax {
		return Config{}, newError(CodeProgErr, "memsize_exp %d out of range [%d,%d]", cfg.MemSizeExp, memsizeExpMin, memsizeExpMax)
	}
	if cfg.TimeSource == nil {
		cfg.TimeSource = timer.NewMonotonicSource()
	}
	return cfg, nil
}
