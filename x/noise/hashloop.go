// Copyright (c) 2024-2025 Six After, Inc
//
// This source code is licensed under the Apache 2.0 License found in the
// LICENSE file in the root directory of this source tree.

package noise

import (
	"encoding/binary"

	"golang.org/x/crypto/sha3"
)

// HashLoopInputs snapshots the health-test counters absorbed into the
// hash loop alongside the running intermediary buffer and loop index
// (§4.D: "absorb the running intermediary buffer, the current RCT
// counter, APT cutoffs, APT state counters, the loop index"). The jent
// package populates this from its x/health.State each call; noise itself
// has no dependency on the health package, keeping the noise source
// layered strictly below health (§2 data flow).
type HashLoopInputs struct {
	RCTCount        int64
	APTCutoff       int64
	APTObservations int64
	APTCount        int64
	APTBase         uint64
}

// HashLoop runs the hash-loop noise source (§4.D): loopCnt iterations,
// each absorbing intermediary and inputs into a fresh SHA3-256 context and
// finalizing back into intermediary. The timing of this fixed workload is
// the entropy source; the resulting 256-bit buffer is uncredited
// "additional information" per SP800-90A terminology, carried forward
// purely so the loop cannot be optimized away.
func HashLoop(intermediary *[32]byte, loopCnt uint64, inputs HashLoopInputs) {
	h := sha3.New256()

	var scratch [8]byte
	for j := uint64(0); j < loopCnt; j++ {
		h.Write(intermediary[:])

		binary.LittleEndian.PutUint64(scratch[:], uint64(inputs.RCTCount))
		h.Write(scratch[:])
		binary.LittleEndian.PutUint64(scratch[:], uint64(inputs.APTCutoff))
		h.Write(scratch[:])
		binary.LittleEndian.PutUint64(scratch[:], uint64(inputs.APTObservations))
		h.Write(scratch[:])
		binary.LittleEndian.PutUint64(scratch[:], uint64(inputs.APTCount))
		h.Write(scratch[:])
		binary.LittleEndian.PutUint64(scratch[:], inputs.APTBase)
		h.Write(scratch[:])
		binary.LittleEndian.PutUint64(scratch[:], j)
		h.Write(scratch[:])

		copy(intermediary[:], h.Sum(nil))
		h.Reset()
	}
}

// BlockInsert assembles the rate-sized block the conditioner absorbs for
// one sample: intermediary_hash || delta (§4.D: "A block-sized
// intermediary buffer (rate = 136 B) is assembled as intermediary_hash ||
// Δ"). The returned slice is exactly 136 bytes — SHA3-256's rate — zero
// padded between the 32-byte hash and the 8-byte delta, so exactly one
// Keccak compression is triggered per sample.
const BlockRate = 136

func BlockInsert(intermediary [32]byte, delta uint64) [BlockRate]byte {
	var block [BlockRate]byte
	copy(block[:32], intermediary[:])
	binary.LittleEndian.PutUint64(block[32:40], delta)
	return block
}
