// Copyright (c) 2024 Six After, Inc
//
// This source code is licensed under the Apache 2.0 License found in the
// LICENSE file in the root directory of this source tree.

package ctrdrbg

import (
	"testing"

	"github.com/stretchr/testify/require"

	jent "github.com/jent-go/jitterentropy"
)

// TestNewReaderAcceptsJitterentropyCollector proves that a *jent.Collector
// satisfies io.Reader closely enough to serve as a DRBG seed source,
// wiring non-physical timing-jitter entropy straight into reseeding.
func TestNewReaderAcceptsJitterentropyCollector(t *testing.T) {
	require.NoError(t, jent.Init())

	c, err := jent.Alloc(jent.WithOSR(1), jent.WithMemSizeExp(12))
	require.NoError(t, err)
	defer c.Free()

	rdr, err := NewReader(WithEntropySource(c))
	require.NoError(t, err)

	buf := make([]byte, 32)
	n, err := rdr.Read(buf)
	require.NoError(t, err)
	require.Equal(t, len(buf), n)
}
