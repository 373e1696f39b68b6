// Copyright (c) 2024-2025 Six After, Inc
//
// This source code is licensed under the Apache 2.0 License found in the
// LICENSE file in the root directory of this source tree.

package sponge

import (
	"hash"

	"golang.org/x/crypto/sha3"
)

// StateSize is the size, in bytes, of the XDRBG internal state V carried
// between a Generate call and the next (256 bits, §4.A).
const StateSize = 32

// xdrbgEncodeN implements the XDRBG "N" encoding: JENT_XDRBG_DRNG_ENCODE_N(x)
// = x * 85. A freshly seeded extractor encodes 0 on its first finalize, 1
// (i.e. the byte 85) on every reseed thereafter, and always 2 (the byte 170)
// on the generate step that follows.
func xdrbgEncodeN(n int) byte {
	return byte(n * 85)
}

const (
	encodeSeed   = 0
	encodeReseed = 1
	encodeOutput = 2
)

// XDRBG256 is the SHAKE-256-based XDRBG extractor (§4.A). Seed material is
// absorbed with Seed; Generate then runs the two-round XDRBG dance (finalize
// the pending seed material into the internal state V, then derive V'||out
// from V, retaining V' for the next round) and returns up to StateSize bytes
// of output.
type XDRBG256 struct {
	ctx    sha3.ShakeHash
	seeded bool
}

// NewXDRBG256 returns an XDRBG-256 extractor with empty sponge state.
func NewXDRBG256() *XDRBG256 {
	return &XDRBG256{ctx: sha3.NewShake256()}
}

// Seed absorbs additional entropy material for the next Generate call.
func (x *XDRBG256) Seed(material []byte) {
	_, _ = x.ctx.Write(material)
}

// Generate derives up to StateSize bytes of output from whatever seed
// material has been absorbed since the last Generate call (or since
// construction, for the first call), carrying the XDRBG state V forward.
func (x *XDRBG256) Generate(out []byte) {
	if len(out) > StateSize {
		panic("sponge: XDRBG256 Generate: requested output exceeds StateSize")
	}

	encode := encodeSeed
	if x.seeded {
		encode = encodeReseed
	}
	_, _ = x.ctx.Write([]byte{xdrbgEncodeN(encode)})
	x.seeded = true

	var v [StateSize]byte
	_, _ = x.ctx.Read(v[:])
	x.ctx.Reset()

	_, _ = x.ctx.Write(v[:])
	_, _ = x.ctx.Write([]byte{xdrbgEncodeN(encodeOutput)})

	full := make([]byte, StateSize+len(out))
	_, _ = x.ctx.Read(full)
	x.ctx.Reset()

	copy(v[:], full[:StateSize])
	copy(out, full[StateSize:])

	// Reseed: carry V forward into the now-reset context for the next round.
	_, _ = x.ctx.Write(v[:])
}

// XDRBG512 is the SHA3-512-based XDRBG variant (§4.A). Its internal state V
// is the full 64-byte SHA3-512 digest during the seeding half-round but only
// the first 32 bytes of the generate half-round's digest are carried
// forward and re-absorbed — matching the asymmetric V sizing called out in
// the reference implementation's XDRBG-SHA3-512 comments.
type XDRBG512 struct {
	ctx    hash.Hash
	seeded bool
}

// NewXDRBG512 returns an XDRBG-SHA3-512 extractor with empty sponge state.
func NewXDRBG512() *XDRBG512 {
	return &XDRBG512{ctx: sha3.New512()}
}

// Seed absorbs additional entropy material for the next Generate call.
func (x *XDRBG512) Seed(material []byte) {
	_, _ = x.ctx.Write(material)
}

// Generate derives up to StateSize bytes of output, carrying the XDRBG
// state V forward exactly as XDRBG256.Generate does.
func (x *XDRBG512) Generate(out []byte) {
	if len(out) > StateSize {
		panic("sponge: XDRBG512 Generate: requested output exceeds StateSize")
	}

	encode := encodeSeed
	if x.seeded {
		encode = encodeReseed
	}
	_, _ = x.ctx.Write([]byte{xdrbgEncodeN(encode)})
	x.seeded = true

	v64 := x.ctx.Sum(nil) // full 64-byte digest; this IS V for the seeding half-round
	x.ctx.Reset()

	_, _ = x.ctx.Write(v64)
	_, _ = x.ctx.Write([]byte{xdrbgEncodeN(encodeOutput)})

	full := x.ctx.Sum(nil) // 64 bytes: 32 next-state || 32 output
	x.ctx.Reset()

	copy(out, full[StateSize:StateSize+len(out)])

	// Reseed: only the first 32 bytes of the generate digest carry forward.
	_, _ = x.ctx.Write(full[:StateSize])
}
