// Copyright (c) 2024-2025 Six After, Inc
//
// This source code is licensed under the Apache 2.0 License found in the
// LICENSE file in the root directory of this source tree.

package jent

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVersionPacksMajorMinorPatch(t *testing.T) {
	v := Version()
	assert.Equal(t, uint32(versionMajor*1_000_000+versionMinor*10_000+versionPatch*100), v)
	assert.Equal(t, uint32(versionMajor), v/1_000_000)
}
