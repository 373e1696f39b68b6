// Copyright (c) 2024-2025 Six After, Inc
//
// This source code is licensed under the Apache 2.0 License found in the
// LICENSE file in the root directory of this source tree.

// Package timer implements component E of the jitter-entropy engine (the
// internal software timer thread, §4.E) and the platform collaborators the
// core specifies only by interface (§1 Out of scope: now_ticks,
// cache_size, ncpu, fips_enabled, zalloc/zfree).
package timer

import "time"

// Source is the platform time source the engine measures jitter against
// (§1: "Platform time source now_ticks() -> u64: a monotonic counter,
// ideally sub-nanosecond resolution"). The engine only requires
// monotonicity-mostly and high resolution; it tests both itself (§4.G).
type Source interface {
	// NowTicks returns the current reading of a monotonic counter. Two
	// readings bracketing a fixed workload are subtracted to produce one
	// raw entropy sample.
	NowTicks() uint64
}

// monotonicSource is the default Source, backed by the Go runtime's
// monotonic clock reading. time.Now() carries a monotonic component on
// every supported platform; Sub between a time.Time and a fixed epoch
// uses that component, unlike UnixNano() which discards it and would
// reintroduce wall-clock adjustments into the "monotonic" reading.
type monotonicSource struct {
	epoch time.Time
}

// NewMonotonicSource returns the default platform time source, anchored
// to the moment it is constructed.
func NewMonotonicSource() Source {
	return monotonicSource{epoch: time.Now()}
}

func (m monotonicSource) NowTicks() uint64 {
	return uint64(time.Since(m.epoch))
}
