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

func TestAllocRequiresInitFirst(t *testing.T) {
	gcdState.mu.Lock()
	wasTested := gcdState.tested
	gcdState.mu.Unlock()
	if wasTested {
		t.Skip("process-wide entropy_init already committed by an earlier test")
	}

	_, err := Alloc()
	require.Error(t, err)
	var jerr *Error
	require.ErrorAs(t, err, &jerr)
	assert.Equal(t, CodeGCD, jerr.Code)
}

func TestAllocAndFree(t *testing.T) {
	require.NoError(t, Init())

	c, err := Alloc(WithMemSizeExp(12))
	require.NoError(t, err)
	require.NotNil(t, c)

	assert.Equal(t, uint32(DefaultOSR), c.osr())
	assert.Len(t, c.mem, 1<<12)

	c.Free()
	assert.Nil(t, c.mem)

	// Free is idempotent.
	c.Free()
}

func TestAllocRejectsOutOfRangeMemSizeExp(t *testing.T) {
	require.NoError(t, Init())

	_, err := Alloc(WithMemSizeExp(100))
	require.Error(t, err)
}
