// Copyright (c) 2024-2025 Six After, Inc
//
// This source code is licensed under the Apache 2.0 License found in the
// LICENSE file in the root directory of this source tree.

package gcd

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAnalyzeNoCommonDivisorOnJitteryDeltas(t *testing.T) {
	deltas := []uint64{37, 41, 53, 59, 61, 67, 71, 73, 79, 83, 89, 97}
	result := Analyze(deltas)
	assert.Equal(t, uint64(0), result.Divisor)
	assert.False(t, result.CoarseTime)
}

func TestAnalyzeDetectsSmallCommonDivisor(t *testing.T) {
	deltas := make([]uint64, 0, 200)
	for i := 1; i <= 200; i++ {
		deltas = append(deltas, uint64(i*4))
	}
	result := Analyze(deltas)
	assert.NotZero(t, result.Divisor)
	assert.False(t, result.CoarseTime)
}

func TestAnalyzeFlagsCoarseTimerAsCoarseTime(t *testing.T) {
	deltas := make([]uint64, 0, 200)
	for i := 1; i <= 200; i++ {
		deltas = append(deltas, uint64(i*1000))
	}
	result := Analyze(deltas)
	assert.True(t, result.CoarseTime)
	assert.GreaterOrEqual(t, result.Divisor, uint64(100))
}

func TestRunningGCDAddMatchesBatchAnalyze(t *testing.T) {
	deltas := []uint64{12, 24, 18, 30, 42, 36, 24, 12, 18, 30}

	r := NewRunningGCD(len(deltas))
	for _, d := range deltas {
		r.Add(d)
	}
	incremental := r.Analyze()
	batch := Analyze(deltas)

	assert.Equal(t, batch, incremental)
}

func TestAnalyzeEmptyInput(t *testing.T) {
	result := Analyze(nil)
	assert.Equal(t, Result{}, result)
}
