// Copyright (c) 2024-2025 Six After, Inc
//
// This source code is licensed under the Apache 2.0 License found in the
// LICENSE file in the root directory of this source tree.

package sponge

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSelfTest(t *testing.T) {
	require.NoError(t, SelfTest())
}

func TestConditionerSqueezeIsDeterministicPerAbsorb(t *testing.T) {
	a := New()
	a.Absorb([]byte("sample-1"))
	a.Absorb([]byte("sample-2"))
	out1 := a.Squeeze()

	b := New()
	b.Absorb([]byte("sample-1"))
	b.Absorb([]byte("sample-2"))
	out2 := b.Squeeze()

	assert.Equal(t, out1, out2, "identical absorb sequences must squeeze identical blocks")
}

func TestConditionerSqueezeChangesWithAbsorbedData(t *testing.T) {
	a := New()
	a.Absorb([]byte("sample-1"))
	out1 := a.Squeeze()

	b := New()
	b.Absorb([]byte("sample-2"))
	out2 := b.Squeeze()

	assert.NotEqual(t, out1, out2)
}

func TestConditionerSqueezeReabsorbsForBacktrackingResistance(t *testing.T) {
	c := New()
	c.Absorb([]byte("seed"))
	first := c.Squeeze()
	// Squeeze with no further Absorb calls still changes because the prior
	// output was fed back in.
	second := c.Squeeze()
	assert.NotEqual(t, first, second)
}

func TestXDRBG256DistinctReseedsProduceDistinctOutput(t *testing.T) {
	x := NewXDRBG256()
	x.Seed([]byte("seed-a"))
	var out1 [StateSize]byte
	x.Generate(out1[:])

	x.Seed([]byte("seed-b"))
	var out2 [StateSize]byte
	x.Generate(out2[:])

	assert.False(t, bytes.Equal(out1[:], out2[:]))
}

func TestXDRBG256ShorterOutputIsPrefixStable(t *testing.T) {
	x := NewXDRBG256()
	x.Seed(xdrbgKATSeed)
	var full [StateSize]byte
	x.Generate(full[:])

	y := NewXDRBG256()
	y.Seed(xdrbgKATSeed)
	short := make([]byte, 16)
	y.Generate(short)

	assert.Equal(t, full[:16], short)
}

func TestXDRBG512DistinctReseedsProduceDistinctOutput(t *testing.T) {
	x := NewXDRBG512()
	x.Seed([]byte("seed-a"))
	var out1 [StateSize]byte
	x.Generate(out1[:])

	x.Seed([]byte("seed-b"))
	var out2 [StateSize]byte
	x.Generate(out2[:])

	assert.False(t, bytes.Equal(out1[:], out2[:]))
}
