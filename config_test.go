// Copyright (c) 2024-2025 Six After, Inc
//
// This source code is licensed under the Apache 2.0 License found in the
// LICENSE file in the root directory of this source tree.

package jent

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfigMatchesDocumentedDefaults(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, uint32(DefaultOSR), cfg.OSR)
	assert.Equal(t, DefaultMemSizeExp, cfg.MemSizeExp)
	assert.Equal(t, uint32(DefaultMemAccessLoops), cfg.MemAccessLoops)
	assert.Equal(t, uint64(DefaultHashLoopCount), cfg.HashLoopCount)
	assert.NotNil(t, cfg.TimeSource)
	assert.False(t, cfg.EnableDist)
}

func TestApplyFoldsOptionsOntoDefaults(t *testing.T) {
	cfg, err := apply([]Option{
		WithOSR(5),
		WithMemSizeExp(14),
		WithDist(true, 10, 20),
		WithFIPSEnabled(true),
	})
	require.NoError(t, err)
	assert.Equal(t, uint32(5), cfg.OSR)
	assert.Equal(t, 14, cfg.MemSizeExp)
	assert.True(t, cfg.EnableDist)
	assert.Equal(t, uint64(10), cfg.DistMin)
	assert.Equal(t, uint64(20), cfg.DistMax)
	assert.True(t, cfg.FIPSEnabled)
}

func TestApplyRejectsConflictingTimerFlags(t *testing.T) {
	_, err := apply([]Option{
		WithFlags(FlagForceInternalTimer | FlagDisableInternalTimer),
	})
	require.Error(t, err)
	var jerr *Error
	require.ErrorAs(t, err, &jerr)
	assert.Equal(t, CodeProgErr, jerr.Code)
}

func TestApplyRejectsOSRBelowMinimum(t *testing.T) {
	_, err := apply([]Option{WithOSR(0)})
	require.Error(t, err)
}

func TestApplyRejectsMemSizeExpOutOfRange(t *testing.T) {
	_, err := apply([]Option{WithMemSizeExp(9)})
	require.Error(t, err)

	_, err = apply([]Option{WithMemSizeExp(30)})
	require.Error(t, err)
}

func TestApplyDefaultsTimeSourceWhenExplicitlyNil(t *testing.T) {
	cfg, err := apply([]Option{WithTimeSource(nil)})
	require.NoError(t, err)
	assert.NotNil(t, cfg.TimeSource)
}
