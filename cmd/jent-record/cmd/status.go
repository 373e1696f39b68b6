// Copyright (c) 2024-2025 Six After, Inc
//
// This source code is licensed under the Apache 2.0 License found in the
// LICENSE file in the root directory of this source tree.

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var statusJSON bool

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Print a collector's health-test and configuration snapshot",
	Long: `status allocates a collector with the configured flags, runs one
priming block, and prints the resulting Report: AIS 20/31 health-test
pass/fail state alongside the resolved configuration, the jent-stat
equivalent.`,
	RunE: runStatus,
}

func init() {
	statusCmd.Flags().BoolVar(&statusJSON, "json", false, "print the report as JSON instead of plaintext")
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) error {
	c, err := newCollector()
	if err != nil {
		return err
	}
	defer c.Free()

	report := c.Status()

	if statusJSON {
		out, err := report.JSON()
		if err != nil {
			return fmt.Errorf("marshal report: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(out))
		return nil
	}

	fmt.Fprint(cmd.OutOrStdout(), report.Text())
	return nil
}
