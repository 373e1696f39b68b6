// Copyright (c) 2024-2025 Six After, Inc
//
// This source code is licensed under the Apache 2.0 License found in the
// LICENSE file in the root directory of this source tree.

package cmd

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	jent "github.com/jent-go/jitterentropy"
)

var (
	recordRounds  uint64
	recordRepeats uint64
	recordOutput  string
	recordRaw     bool
)

var recordCmd = &cobra.Command{
	Use:   "record",
	Short: "Stream raw per-sample timing deltas for statistical testing",
	Long: `record allocates a collector and runs it through SampleRaw in a
tight loop, writing one decimal delta per line per sample, the Go
equivalent of jitterentropy-hashtime's raw-value recording mode. Repeat
runs each reset the collector, matching the reference tool's restart
matrix used for SP800-90B restart testing.

With --raw the common-period GCD division is bypassed for the run, so
the undivided tick counts are recorded instead.`,
	RunE: runRecord,
}

func init() {
	recordCmd.Flags().Uint64Var(&recordRounds, "rounds", 1_000_000, "samples to record per repeat")
	recordCmd.Flags().Uint64Var(&recordRepeats, "repeats", 1, "number of collector resets")
	recordCmd.Flags().StringVar(&recordOutput, "output", "", "file prefix; each repeat writes <prefix>-NNNN.data; stdout if empty")
	recordCmd.Flags().BoolVar(&recordRaw, "raw", false, "bypass the common-period GCD division")
	rootCmd.AddCommand(recordCmd)
}

func runRecord(cmd *cobra.Command, args []string) error {
	for repeat := uint64(1); repeat <= recordRepeats; repeat++ {
		if err := recordOnce(cmd, repeat); err != nil {
			return err
		}
	}
	return nil
}

func recordOnce(cmd *cobra.Command, repeat uint64) error {
	c, err := newCollector()
	if err != nil {
		return fmt.Errorf("repeat %d: alloc: %w", repeat, err)
	}
	defer c.Free()

	w, closeFn, err := recordWriter(cmd, repeat)
	if err != nil {
		return err
	}
	defer closeFn()

	bw := bufio.NewWriter(w)
	defer bw.Flush()

	log.Info().Uint64("repeat", repeat).Uint64("rounds", recordRounds).Msg("recording samples")

	for i := uint64(0); i < recordRounds; i++ {
		sample, err := c.SampleRaw(recordRaw)
		if err != nil {
			var jerr *jent.Error
			if as, ok := err.(*jent.Error); ok {
				jerr = as
			}
			if jerr == nil || !jerr.Code.IsPermanent() {
				return fmt.Errorf("repeat %d sample %d: %w", repeat, i, err)
			}
			log.Warn().Str("code", jerr.Code.String()).Uint64("sample", i).Msg("health test failure")
		}
		if _, err := fmt.Fprintln(bw, sample.Delta); err != nil {
			return fmt.Errorf("repeat %d sample %d: write: %w", repeat, i, err)
		}
	}

	return nil
}

// recordWriter opens the per-repeat output file named the way
// jitterentropy-hashtime.c's jent_one_test does ("<prefix>-%.4lu.data"),
// or returns the command's output stream unmodified when no --output
// prefix was given.
func recordWriter(cmd *cobra.Command, repeat uint64) (w io.Writer, closeFn func(), err error) {
	if recordOutput == "" {
		return cmd.OutOrStdout(), func() {}, nil
	}

	path := fmt.Sprintf("%s-%04d.data", recordOutput, repeat)
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, fmt.Errorf("create %s: %w", path, err)
	}
	return f, func() { _ = f.Close() }, nil
}
