// Copyright (c) 2024-2025 Six After, Inc
//
// This source code is licensed under the Apache 2.0 License found in the
// LICENSE file in the root directory of this source tree.

package jent

import (
	"fmt"
	"strings"

	gojson "github.com/goccy/go-json"

	"github.com/jent-go/jitterentropy/x/health"
	"github.com/jent-go/jitterentropy/x/timer"
)

// HealthStatus mirrors one test's intermittent/permanent pass-fail state,
// surfaced by Report (the Go analogue of jent_status's per-test lines).
type HealthStatus struct {
	Intermittent bool `json:"intermittent_fail"`
	Permanent    bool `json:"permanent_fail"`
}

// Report is a point-in-time snapshot of a Collector's health and
// configuration, the Go-native equivalent of `jent_status`/`jent-stat`.
type Report struct {
	Version        string       `json:"version"`
	OSR            uint32       `json:"osr"`
	MemorySize     int          `json:"memory_size_bytes"`
	CacheSizeL1    uint32       `json:"cache_size_l1_bytes"`
	CacheSizeAll   uint32       `json:"cache_size_all_bytes"`
	HashLoopCount  uint64       `json:"hash_loop_count"`
	MemAccessLoops uint32       `json:"mem_access_loops"`
	InternalTimer  bool         `json:"internal_timer"`
	FIPSMode       bool         `json:"fips_mode"`
	NTG1Mode       bool         `json:"ntg1_mode"`
	CPUCores       int64        `json:"cpu_cores"`
	Flags          Flags        `json:"flags"`
	APT            HealthStatus `json:"apt"`
	RCT            HealthStatus `json:"rct"`
	Lag            HealthStatus `json:"lag"`
}

// Status builds a Report from the collector's current configuration and
// health-test state.
func (c *Collector) Status() Report {
	failure := c.health.Failure()

	return Report{
		Version:        versionString(),
		OSR:            c.cfg.OSR,
		MemorySize:     len(c.mem),
		CacheSizeL1:    timer.CacheSize(false),
		CacheSizeAll:   timer.CacheSize(true),
		HashLoopCount:  c.hashLoopCount(),
		MemAccessLoops: uint32(c.memAccessLoops()),
		InternalTimer:  c.notime != nil,
		FIPSMode:       c.cfg.FIPSEnabled,
		NTG1Mode:       c.cfg.Flags.Has(FlagNTG1),
		CPUCores:       timer.NCPU(),
		Flags:          c.cfg.Flags,
		APT: HealthStatus{
			Intermittent: failure.Has(health.FailureAPT),
			Permanent:    failure.Has(health.FailureAPTPermanent),
		},
		RCT: HealthStatus{
			Intermittent: failure.Has(health.FailureRCT),
			Permanent:    failure.Has(health.FailureRCTPermanent),
		},
		Lag: HealthStatus{
			Intermittent: failure.Has(health.FailureLag),
			Permanent:    failure.Has(health.FailureLagPermanent),
		},
	}
}

func versionString() string {
	v := Version()
	return fmt.Sprintf("%d.%d.%d", v/1_000_000, (v/10_000)%100, (v/100)%100)
}

func passFail(b bool) string {
	if b {
		return "fail"
	}
	return "pass"
}

// Text renders the report as the multi-line plaintext format jent-stat
// printed, for a terminal reader rather than a machine consumer.
func (r Report) Text() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Jitter RNG version: %s\n\n", r.Version)
	fmt.Fprintf(&b, "Health Status:\n")
	fmt.Fprintf(&b, " APT:\n  intermittent: %s\n  permanent: %s\n", passFail(r.APT.Intermittent), passFail(r.APT.Permanent))
	fmt.Fprintf(&b, " RCT:\n  intermittent: %s\n  permanent: %s\n", passFail(r.RCT.Intermittent), passFail(r.RCT.Permanent))
	fmt.Fprintf(&b, " LAG:\n  intermittent: %s\n  permanent: %s\n", passFail(r.Lag.Intermittent), passFail(r.Lag.Permanent))
	fmt.Fprintf(&b, "Configuration:\n")
	fmt.Fprintf(&b, " OSR: %d\n", r.OSR)
	fmt.Fprintf(&b, " Memory Block Size: %d bytes\n", r.MemorySize)
	fmt.Fprintf(&b, " Detected Cache Sizes:\n  L1 %d bytes\n  all caches %d bytes\n", r.CacheSizeL1, r.CacheSizeAll)
	fmt.Fprintf(&b, " Hash loop count: %d\n", r.HashLoopCount)
	fmt.Fprintf(&b, " Memory Access loop count: %d\n", r.MemAccessLoops)
	fmt.Fprintf(&b, " Internal Timer: %v\n", r.InternalTimer)
	fmt.Fprintf(&b, " FIPS mode: %v\n", r.FIPSMode)
	fmt.Fprintf(&b, " AIS 20/31 NTG.1 mode: %v\n", r.NTG1Mode)
	fmt.Fprintf(&b, " CPU Cores: %d\n", r.CPUCores)
	return b.String()
}

// JSON renders the report as a JSON document via go-json, the drop-in
// encoding/json replacement SPEC_FULL.md's domain stack wires for
// machine-consumable status output.
func (r Report) JSON() ([]byte, error) {
	return gojson.Marshal(r)
}
