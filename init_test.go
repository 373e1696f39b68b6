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

func TestInitSucceedsAndIsIdempotent(t *testing.T) {
	require.NoError(t, Init())
	assert.True(t, gcdState.tested)

	// A second call must be a no-op rather than re-running the probe.
	require.NoError(t, Init())
}

func TestInitExRejectsConflictingTimerFlags(t *testing.T) {
	gcdState.mu.Lock()
	wasTested := gcdState.tested
	gcdState.mu.Unlock()
	if wasTested {
		t.Skip("process-wide entropy_init already committed by an earlier test")
	}

	err := InitEx(DefaultOSR, FlagForceInternalTimer|FlagDisableInternalTimer)
	require.Error(t, err)
	var jerr *Error
	require.ErrorAs(t, err, &jerr)
	assert.Equal(t, CodeProgErr, jerr.Code)
}

func TestSwitchNotimeImplBlockedAfterInit(t *testing.T) {
	require.NoError(t, Init())
	err := SwitchNotimeImpl(nil)
	require.Error(t, err)
	var jerr *Error
	require.ErrorAs(t, err, &jerr)
	assert.Equal(t, CodeProgErr, jerr.Code)
}
