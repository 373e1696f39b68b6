// Copyright (c) 2024-2025 Six After, Inc
//
// This source code is licensed under the Apache 2.0 License found in the
// LICENSE file in the root directory of this source tree.

// Package sponge implements component A of the jitter-entropy engine: the
// Keccak/SHA-3 sponge used both as the sample conditioner and as the basis
// for the XDRBG output extractor.
//
// The Keccak-f[1600] permutation itself is not reimplemented here; it is
// delegated to golang.org/x/crypto/sha3, which already exposes SHA3-256,
// SHA3-512 and SHAKE-256 as streaming hash.Hash/ShakeHash values with
// exactly the domain-separation bytes (0x06 for SHA-3, 0x1f for SHAKE) this
// package's self-test vectors were generated against.
package sponge

import (
	"golang.org/x/crypto/sha3"
)

// DigestSize is the size, in bytes, of one conditioned output block (256
// bits, §3/§4.A).
const DigestSize = 32

// Conditioner is the sample-conditioning sponge (§4.A, rate 1088 bits = 136
// bytes, domain byte 0x06 — i.e. plain SHA3-256). Every sample absorbed by
// Absorb contributes to the next Squeeze regardless of whether the noise
// source reported the sample as stuck (§8 invariant 3).
type Conditioner struct {
	d interface {
		Write([]byte) (int, error)
		Sum([]byte) []byte
		Reset()
	}
}

// New returns a freshly initialized conditioner with an empty sponge state.
func New() *Conditioner {
	return &Conditioner{d: sha3.New256()}
}

// Absorb feeds data into the sponge. It never returns an error: SHA3-256's
// Write never fails.
func (c *Conditioner) Absorb(data []byte) {
	_, _ = c.d.Write(data)
}

// Squeeze extracts one 256-bit block from the sponge and immediately
// re-absorbs it (the collector's backtracking-resistance invariant, §3 and
// §8 invariant 9): a later compromise of the sponge state cannot be used to
// recover bytes already returned to a caller.
func (c *Conditioner) Squeeze() [DigestSize]byte {
	var out [DigestSize]byte
	copy(out[:], c.d.Sum(nil))
	c.d.Reset()
	c.d.Write(out[:])
	return out
}
