// Copyright (c) 2024-2025 Six After, Inc
//
// This source code is licensed under the Apache 2.0 License found in the
// LICENSE file in the root directory of this source tree.

package jent

// Module version components (§6 "version() -> u32").
const (
	versionMajor = 3
	versionMinor = 4
	versionPatch = 1
)

// Version implements version() (§6): MAJ*10^6 + MIN*10^4 + PATCH*10^2,
// matching the reference implementation's packed version-integer scheme
// so a caller comparing against a known-good minimum can use ordinary
// integer comparison.
func Version() uint32 {
	return versionMajor*1_000_000 + versionMinor*10_000 + versionPatch*100
}
