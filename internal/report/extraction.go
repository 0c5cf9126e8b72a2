// SPDX-FileCopyrightText: 2025 The SmartWatts Authors
// SPDX-License-Identifier: Apache-2.0

package report

import (
	"strings"
	"time"
)

// TimeEventPrefix marks counter events that carry wall-clock/elapsed-time
// bookkeeping rather than hardware activity; these are excluded from the
// feature vectors the regression trains and predicts on.
const TimeEventPrefix = "time_"

// rapl2ToWatts converts a raw RAPL energy counter (32.32 fixed point
// Joules) sampled over period into average Watts.
func rapl2ToWatts(counter uint64, period time.Duration) float64 {
	const raplEnergyUnit = 1.0 / 4294967296.0 // 2^-32
	energyJoules := float64(counter) * raplEnergyUnit
	seconds := period.Seconds()
	if seconds <= 0 {
		return 0
	}
	return energyJoules / seconds
}

// RAPLWatts extracts the configured RAPL event for socket from in,
// converting the raw energy counter to average Watts over period.
func RAPLWatts(in Input, socket, event string, period time.Duration) (float64, error) {
	sockets, ok := in.Groups["rapl"]
	if !ok {
		return 0, missingIndex(socket, "rapl")
	}
	cores, ok := sockets[socket]
	if !ok {
		return 0, missingIndex(socket, "rapl")
	}

	found := false
	var total uint64
	for _, events := range cores {
		if v, ok := events[event]; ok {
			total += v
			found = true
		}
	}
	if !found {
		return 0, missingIndex(event, "rapl")
	}

	return rapl2ToWatts(total, period), nil
}

// AverageMSR returns, for every event present in the MSR group on socket,
// the average counter value across all cores on that socket. Used to
// derive pkg_freq from APERF/MPERF.
func AverageMSR(in Input, socket string) (map[string]float64, error) {
	sockets, ok := in.Groups["msr"]
	if !ok {
		return nil, missingIndex(socket, "msr")
	}
	cores, ok := sockets[socket]
	if !ok {
		return nil, missingIndex(socket, "msr")
	}

	sums := make(map[string]uint64)
	counts := make(map[string]int)
	for _, events := range cores {
		for name, v := range events {
			sums[name] += v
			counts[name]++
		}
	}

	avg := make(map[string]float64, len(sums))
	for name, sum := range sums {
		avg[name] = float64(sum) / float64(counts[name])
	}
	return avg, nil
}

// SumCore sums, per event, the CORE group counters across every core on
// socket, excluding any event whose name starts with excludePrefix.
func SumCore(in Input, socket, excludePrefix string) (map[string]float64, error) {
	sockets, ok := in.Groups["core"]
	if !ok {
		return nil, missingIndex(socket, "core")
	}
	cores, ok := sockets[socket]
	if !ok {
		return nil, missingIndex(socket, "core")
	}

	sums := make(map[string]float64)
	for _, events := range cores {
		for name, v := range events {
			if excludePrefix != "" && strings.HasPrefix(name, excludePrefix) {
				continue
			}
			sums[name] += float64(v)
		}
	}
	return sums, nil
}

// AddCounters adds src's per-event sums into dst in place, returning dst.
// Used by the engine to accumulate global_core across multiple targets'
// per-tick CORE extractions.
func AddCounters(dst, src map[string]float64) map[string]float64 {
	if dst == nil {
		dst = make(map[string]float64, len(src))
	}
	for name, v := range src {
		dst[name] += v
	}
	return dst
}
