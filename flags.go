// Copyright (c) 2024-2025 Six After, Inc
//
// This source code is licensed under the Apache 2.0 License found in the
// LICENSE file in the root directory of this source tree.

package jent

// Flags is the configuration bitfield accepted by Alloc/InitEx (§6).
type Flags uint32

// Behavior flags. Bits 0-1 are reserved by the reference implementation for
// flags not exposed at this layer; only the bits this engine acts on are
// named here.
const (
	FlagDisableMemoryAccess  Flags = 1 << 2
	FlagForceInternalTimer   Flags = 1 << 3
	FlagDisableInternalTimer Flags = 1 << 4
	FlagForceFIPS            Flags = 1 << 5
	FlagNTG1                 Flags = 1 << 6
	FlagCacheAll             Flags = 1 << 7
)

// Memory-size encoding: the upper bits of Flags encode a log2 offset,
// mirroring the two generations of memsize encoding referenced in spec §9
// ("different memory-size encodings"). apply() decodes memsize_exp at
// memsizeOffsetCurrent; memsizeOffsetLegacy is kept only to document the
// older placement named in §6 and is not decoded, since the reference
// implementations that used it and the ones that use the current offset
// never coexist in the same build, and no selector bit distinguishing the
// two is defined anywhere in the external interface.
const (
	memsizeOffsetLegacy  = 9
	memsizeOffsetCurrent = 15

	memsizeExpMin = 10
	memsizeExpMax = 29
)

// Has reports whether all bits in want are set in f.
func (f Flags) Has(want Flags) bool {
	return f&want == want
}

// validate enforces the mutual-exclusion rule from §6: a caller must not
// request both a forced and a disabled internal timer.
func (f Flags) validate() error {
	if f.Has(FlagForceInternalTimer) && f.Has(FlagDisableInternalTimer) {
		return newError(CodeProgErr, "flags request both FORCE_INTERNAL_TIMER and DISABLE_INTERNAL_TIMER")
	}
	return nil
}

// memsizeExp extracts the requested memsize_exp (§3: memsize_exp in
// [10,29]) encoded in the upper bits of f, defaulting to defaultExp when no
// override bits are present.
func memsizeExp(f Flags, offset int, defaultExp int) int {
	exp := int(f >> uint(offset))
	if exp == 0 {
		return defaultExp
	}
	if exp < memsizeExpMin {
		exp = memsizeExpMin
	}
	if exp > memsizeExpMax {
		exp = memsizeExpMax
	}
	return exp
}
