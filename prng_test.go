// Copyright (c) 2024-2025 Six After, Inc
//
// This source code is licensed under the Apache 2.0 License found in the
// LICENSE file in the root directory of this source tree.

package jent

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAddressPRNGDefaultsNonZeroSeed(t *testing.T) {
	p := newAddressPRNG([4]uint64{})
	assert.Equal(t, defaultPRNGSeed, p.s)
}

func TestAddressPRNGHonorsExplicitSeed(t *testing.T) {
	seed := [4]uint64{1, 2, 3, 4}
	p := newAddressPRNG(seed)
	assert.Equal(t, seed, p.s)
}

func TestAddressPRNGIsDeterministic(t *testing.T) {
	seed := [4]uint64{0x1111, 0x2222, 0x3333, 0x4444}
	a := newAddressPRNG(seed)
	b := newAddressPRNG(seed)

	for i := 0; i < 32; i++ {
		assert.Equal(t, a.next(), b.next())
	}
}

func TestAddressPRNGProducesVaryingOutput(t *testing.T) {
	p := newAddressPRNG([4]uint64{})
	seen := make(map[uint64]bool)
	for i := 0; i < 64; i++ {
		seen[p.next()] = true
	}
	assert.Greater(t, len(seen), 60)
}

func TestAddressMasksToRange(t *testing.T) {
	p := newAddressPRNG([4]uint64{})
	const mask = uint32(1<<10 - 1)
	for i := 0; i < 256; i++ {
		addr := p.address(mask)
		assert.LessOrEqual(t, addr, mask)
	}
}
