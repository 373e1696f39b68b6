// Copyright (c) 2024-2025 Six After, Inc
//
// This source code is licensed under the Apache 2.0 License found in the
// LICENSE file in the root directory of this source tree.

package timer

// ZAlloc implements the zalloc(n) probe (§1 Out of scope): a
// zero-initialized buffer for the collector's memory-access region and
// scratch vectors. Go slices are already zero-initialized by the
// allocator, so this exists to give the collector a single named call
// site to swap in a locked-memory allocator later without touching
// call sites throughout the engine.
func ZAlloc(n int) []byte {
	return make([]byte, n)
}

// ZFree implements the zfree(p, n) probe (§1 Out of scope): sets every
// byte of buf to zero before it is released.
func ZFree(buf []byte) {
	for i := range buf {
		buf[i] = 0
	}
}
