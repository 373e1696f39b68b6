// Copyright (c) 2024-2025 Six After, Inc
//
// This source code is licensed under the Apache 2.0 License found in the
// LICENSE file in the root directory of this source tree.

package jent

import (
	"os"

	"github.com/rs/zerolog"
)

// log is the package's diagnostic logger. It is only ever touched at
// collector/process lifecycle boundaries (entropy_init[_ex], the startup
// probe's outcome) and never from inside measureJitter's noise-source
// body, matching §5's no-syscalls-in-the-hot-path rule.
var log = zerolog.New(os.Stderr).With().Timestamp().Logger().Level(zerolog.InfoLevel)

// SetLogger replaces the package-wide diagnostic logger, letting an
// embedding application route entropy_init/startup-probe diagnostics
// into its own zerolog pipeline instead of stderr.
func SetLogger(l zerolog.Logger) {
	log = l
}
