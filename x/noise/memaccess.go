// Copyright (c) 2024-2025 Six After, Inc
//
// This source code is licensed under the Apache 2.0 License found in the
// LICENSE file in the root directory of this source tree.

// Package noise implements component D of the jitter-entropy engine: the
// memory-access and hash-loop noise sources whose CPU execution-timing
// jitter is the entropy source (§4.D).
package noise

// AddressSource returns the next memory offset to touch, already masked to
// the caller's memory block size. The jent package supplies one backed by
// its xoshiro256** PRNG for the random-addressing variant (§3 "PRNG
// discipline": this PRNG never contributes entropy, only addressing).
type AddressSource func() uint32

// MemAccess runs the memory-access noise source (§4.D): loopCnt iterations
// of "read-modify-write one byte, wrapping at 255" against mem, with the
// byte touched on each iteration chosen by next. The timing of this fixed
// amount of memory traffic, not its content, is the entropy source; the
// actual accesses must not be elided or reordered by an optimizing
// compiler, which in Go means mem must not be provable dead by escape
// analysis — callers allocate ec.mem once at Alloc time and never let it
// go out of scope during a read_entropy call.
func MemAccess(mem []byte, loopCnt uint64, next AddressSource) {
	if len(mem) == 0 {
		return
	}
	for i := uint64(0); i < loopCnt; i++ {
		addr := next()
		mem[addr] = mem[addr] + 1
	}
}

// DeterministicStepper reproduces the non-random memory-access variant
// (§4.D "deterministic variant"): the touched address advances by
// blockSize-1 each iteration, wrapping modulo wrap, so every location in
// the block is hit evenly rather than following a PRNG draw. This gives a
// caller a way to disable the PRNG-addressing path entirely while still
// exercising the same noise source (used by the FIPS/NTG.1
// memory-only startup probe, §4.F).
type DeterministicStepper struct {
	blockSize uint32
	wrap      uint32
	location  uint32
}

// NewDeterministicStepper returns a stepper over a memory region laid out
// as memBlocks blocks of memBlockSize bytes each.
func NewDeterministicStepper(memBlockSize, memBlocks uint32) *DeterministicStepper {
	return &DeterministicStepper{
		blockSize: memBlockSize,
		wrap:      memBlockSize * memBlocks,
	}
}

// Next returns the current location and advances it by blockSize-1 modulo
// wrap, matching jent_memaccess's non-random branch exactly.
func (d *DeterministicStepper) Next() uint32 {
	loc := d.location
	if d.wrap > 0 {
		d.location = (d.location + d.blockSize - 1) % d.wrap
	}
	return loc
}
