// Copyright (c) 2024-2025 Six After, Inc
//
// This source code is licensed under the Apache 2.0 License found in the
// LICENSE file in the root directory of this source tree.

package cmd

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	jent "github.com/jent-go/jitterentropy"
)

// log is the process-wide logger every subcommand writes diagnostics
// through. Recorded samples themselves go to stdout via fmt, never
// through log, so piping jent-record record into a statistics tool never
// has to filter log noise out of the data stream.
var log = zerolog.New(os.Stderr).With().Timestamp().Logger()

var (
	flagOSR                  uint32
	flagMemSizeExp           int
	flagMemAccessLoops       uint32
	flagHashLoopCount        uint64
	flagFIPSEnabled          bool
	flagNTG1                 bool
	flagForceFIPS            bool
	flagDisableMemoryAccess  bool
	flagForceInternalTimer   bool
	flagDisableInternalTimer bool
	flagCacheAll             bool
)

var rootCmd = &cobra.Command{
	Use:   "jent-record",
	Short: "Record and inspect CPU-jitter entropy samples",
	Long: `jent-record drives a jitterentropy collector outside the normal
read_entropy path: "record" streams raw per-sample timing deltas for
external statistical test suites, and "status" prints a collector's
health-test and configuration snapshot.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	pf := rootCmd.PersistentFlags()
	pf.Uint32Var(&flagOSR, "osr", jent.DefaultOSR, "oversampling rate")
	pf.IntVar(&flagMemSizeExp, "mem-size-exp", jent.DefaultMemSizeExp, "log2 of the memory-access region size")
	pf.Uint32Var(&flagMemAccessLoops, "mem-access-loops", jent.DefaultMemAccessLoops, "memory-access loop iteration count")
	pf.Uint64Var(&flagHashLoopCount, "hash-loop-count", jent.DefaultHashLoopCount, "hash-loop iteration count")
	pf.BoolVar(&flagFIPSEnabled, "fips", false, "enable SP800-90B health-test handling")
	pf.BoolVar(&flagNTG1, "ntg1", false, "enable AIS 20/31 NTG.1 mode")
	pf.BoolVar(&flagForceFIPS, "force-fips", false, "force FIPS mode regardless of platform detection")
	pf.BoolVar(&flagDisableMemoryAccess, "disable-memory-access", false, "disable the memory-access noise source")
	pf.BoolVar(&flagForceInternalTimer, "force-internal-timer", false, "force the internal (notime) timer source")
	pf.BoolVar(&flagDisableInternalTimer, "disable-internal-timer", false, "disable the internal timer source")
	pf.BoolVar(&flagCacheAll, "all-caches", false, "size the memory-access region against all cache levels")

	if lvl := os.Getenv("JENT_LOG_LEVEL"); lvl != "" {
		parsed, err := zerolog.ParseLevel(lvl)
		if err != nil {
			panic(fmt.Sprintf("JENT_LOG_LEVEL must be a valid zerolog level: %v", err))
		}
		zerolog.SetGlobalLevel(parsed)
	}
}

func init() {
	_ = godotenv.Load()

	if v := os.Getenv("JENT_OSR"); v != "" {
		n, err := strconv.ParseUint(v, 10, 32)
		if err != nil {
			panic(fmt.Sprintf("JENT_OSR must be an unsigned integer: %v", err))
		}
		flagOSR = uint32(n)
	}
	if v := os.Getenv("JENT_MEM_SIZE_EXP"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			panic(fmt.Sprintf("JENT_MEM_SIZE_EXP must be an integer: %v", err))
		}
		flagMemSizeExp = n
	}
}

// Execute runs the command tree, exiting the process with status 1 on
// failure so shell pipelines built around jent-record observe errors.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		log.Error().Err(err).Msg("jent-record failed")
		os.Exit(1)
	}
}

// flags assembles the behavior bitfield the persistent flags describe.
func flags() jent.Flags {
	var f jent.Flags
	if flagDisableMemoryAccess {
		f |= jent.FlagDisableMemoryAccess
	}
	if flagForceInternalTimer {
		f |= jent.FlagForceInternalTimer
	}
	if flagDisableInternalTimer {
		f |= jent.FlagDisableInternalTimer
	}
	if flagForceFIPS {
		f |= jent.FlagForceFIPS
	}
	if flagNTG1 {
		f |= jent.FlagNTG1
	}
	if flagCacheAll {
		f |= jent.FlagCacheAll
	}
	return f
}

// options assembles the Option set every subcommand allocates a
// Collector with, so "status" and "record" always see the same
// configuration for a given set of flags.
func options() []jent.Option {
	return []jent.Option{
		jent.WithOSR(flagOSR),
		jent.WithFlags(flags()),
		jent.WithMemSizeExp(flagMemSizeExp),
		jent.WithMemAccessLoops(flagMemAccessLoops),
		jent.WithHashLoopCount(flagHashLoopCount),
		jent.WithFIPSEnabled(flagFIPSEnabled),
	}
}

// newCollector runs entropy_init[_ex] if needed and allocates a Collector
// from the command-line flags, the two steps every subcommand needs
// before it can do anything else.
func newCollector() (*jent.Collector, error) {
	if err := jent.InitEx(flagOSR, flags()); err != nil {
		return nil, fmt.Errorf("init: %w", err)
	}
	return jent.Alloc(options()...)
}
