// SPDX-FileCopyrightText: 2025 The SmartWatts Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"time"

	"github.com/smartwatts-project/smartwatts-formula/internal/engine"
	"github.com/smartwatts-project/smartwatts-formula/internal/report"
)

// fixtureSource is an in-memory report.Source implementation standing in
// for the real document-store/pub-sub reader. It synthesizes one tick of
// "all" plus two workload targets on every ReportsFrequency interval,
// purely so the binary runs end to end on synthetic data.
type fixtureSource struct {
	cfg    engine.Config
	socket string
	tick   int
	queue  []report.Input
}

func newFixtureSource(cfg engine.Config) *fixtureSource {
	return &fixtureSource{
		cfg:    cfg,
		socket: cfg.SocketDomainValue,
	}
}

// Next implements report.Source.
func (f *fixtureSource) Next(ctx context.Context) (report.Input, error) {
	if len(f.queue) == 0 {
		select {
		case <-ctx.Done():
			return report.Input{}, ctx.Err()
		case <-time.After(f.cfg.ReportsFrequency):
		}
		f.queue = f.generateTick()
	}

	in := f.queue[0]
	f.queue = f.queue[1:]
	return in, nil
}

func (f *fixtureSource) generateTick() []report.Input {
	f.tick++
	now := time.Now()
	base := uint64(20_000_000 + f.tick*500_000)

	allGroups := report.Groups{
		"rapl": {
			f.socket: {
				"0": {f.cfg.RAPLEvent: base},
			},
		},
		"msr": {
			f.socket: {
				"0": {"APERF": 1_800_000_000, "MPERF": 2_000_000_000},
			},
		},
	}

	targetGroups := func(coreShare uint64) report.Groups {
		return report.Groups{
			"core": {
				f.socket: {
					"0": {"instructions": coreShare, "cache-misses": coreShare / 100},
					"1": {"instructions": coreShare / 2, "cache-misses": coreShare / 200},
				},
			},
		}
	}

	return []report.Input{
		{Timestamp: now, Sensor: "fixture", Target: "all", Groups: allGroups},
		{Timestamp: now, Sensor: "fixture", Target: "workload-a", Groups: targetGroups(4_000_000)},
		{Timestamp: now, Sensor: "fixture", Target: "workload-b", Groups: targetGroups(2_500_000)},
	}
}
