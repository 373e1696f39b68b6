// Copyright (c) 2024-2025 Six After, Inc
//
// This source code is licensed under the Apache 2.0 License found in the
// LICENSE file in the root directory of this source tree.

package jent

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadEntropyFillsBuffer(t *testing.T) {
	require.NoError(t, Init())

	c, err := Alloc(WithOSR(1), WithMemSizeExp(12))
	require.NoError(t, err)
	defer c.Free()

	out := make([]byte, 64)
	n, err := ReadEntropy(c, out)
	require.NoError(t, err)
	assert.Equal(t, len(out), n)
	assert.False(t, bytes.Equal(out, make([]byte, len(out))), "entropy output should not be all zeros")
}

func TestReadEntropyProducesDistinctBlocks(t *testing.T) {
	require.NoError(t, Init())

	c, err := Alloc(WithOSR(1), WithMemSizeExp(12))
	require.NoError(t, err)
	defer c.Free()

	first := make([]byte, 32)
	_, err = ReadEntropy(c, first)
	require.NoError(t, err)

	second := make([]byte, 32)
	_, err = ReadEntropy(c, second)
	require.NoError(t, err)

	assert.False(t, bytes.Equal(first, second))
}

func TestReadEntropyOnFreedCollectorFails(t *testing.T) {
	require.NoError(t, Init())

	c, err := Alloc(WithOSR(1), WithMemSizeExp(12))
	require.NoError(t, err)
	c.Free()

	_, err = ReadEntropy(c, make([]byte, 32))
	require.Error(t, err)
	var jerr *Error
	require.ErrorAs(t, err, &jerr)
	assert.Equal(t, CodeProgErr, jerr.Code)
}

func TestReadEntropySafeFillsBuffer(t *testing.T) {
	require.NoError(t, Init())

	c, err := Alloc(WithOSR(1), WithMemSizeExp(12))
	require.NoError(t, err)
	defer func() { c.Free() }()

	out := make([]byte, 48)
	n, err := ReadEntropySafe(&c, out)
	require.NoError(t, err)
	assert.Equal(t, len(out), n)
}
