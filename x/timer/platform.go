// Copyright (c) 2024-2025 Six After, Inc
//
// This source code is licensed under the Apache 2.0 License found in the
// LICENSE file in the root directory of this source tree.

package timer

import (
	"context"
	"runtime"

	"github.com/klauspost/cpuid/v2"
	gopsutilcpu "github.com/shirou/gopsutil/v3/cpu"
)

// CacheSize implements the cache_size(all_levels) probe (§1 Out of
// scope): with allLevels false it returns the L1 data cache size (the
// minimum the memory-access noise source should exceed per §4.D's
// documentation note); with allLevels true it sums L1 through L3.
func CacheSize(allLevels bool) uint32 {
	l1 := uint32(cpuid.CPU.Cache.L1D)
	if !allLevels {
		if l1 <= 0 {
			return 0
		}
		return l1
	}

	total := int(cpuid.CPU.Cache.L1D) + int(cpuid.CPU.Cache.L1I) +
		int(cpuid.CPU.Cache.L2) + int(cpuid.CPU.Cache.L3)
	if total <= 0 {
		return 0
	}
	return uint32(total)
}

// NCPU implements the ncpu() probe (§1 Out of scope). It prefers
// gopsutil's cross-platform logical-core count (matching what the
// reference implementation's per-OS ncpu backends report) and falls back
// to runtime.NumCPU if the platform call fails.
func NCPU() int64 {
	n, err := gopsutilcpu.CountsWithContext(context.Background(), true)
	if err != nil || n <= 0 {
		return int64(runtime.NumCPU())
	}
	return int64(n)
}

// YieldNow implements the cooperative yield_now() probe (§1 Out of
// scope), used by callers spinning on NotimeSource.NowTicks.
func YieldNow() {
	runtime.Gosched()
}

// FIPSEnabled implements the fips_enabled() probe (§1 Out of scope,
// §4.F's safety_factor selection). Go has no portable FIPS-mode query
// comparable to the reference implementation's libfipscheck integration;
// this reports false unless overridden, which callers do via
// jent.WithFIPSEnabled for environments (e.g. a FIPS-mode Go
// toolchain build) where the caller knows the answer out of band.
func FIPSEnabled() bool {
	return false
}
