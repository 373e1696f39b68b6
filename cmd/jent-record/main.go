// Copyright (c) 2024-2025 Six After, Inc
//
// This source code is licensed under the Apache 2.0 License found in the
// LICENSE file in the root directory of this source tree.

// Command jent-record is the jitterentropy-hashtime-equivalent raw-sample
// recorder: it streams per-sample timing deltas to stdout for external
// statistical test suites (SP800-90B ea_non_iid, the NIST STS, etc.), and
// reports a collector's health/configuration snapshot for quick diagnosis.
package main

import "github.com/jent-go/jitterentropy/cmd/jent-record/cmd"

func main() {
	cmd.Execute()
}
