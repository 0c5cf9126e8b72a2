// SPDX-FileCopyrightText: 2025 The SmartWatts Authors
// SPDX-License-Identifier: Apache-2.0

package engine

import (
	"errors"
	"fmt"
	"time"

	"github.com/smartwatts-project/smartwatts-formula/internal/topology"
)

// ErrInvalidTopology is surfaced to the caller of New when cfg.Topology
// could not be used to derive frequency layers.
var ErrInvalidTopology = topology.ErrInvalidTopology

// Config holds the recognised configuration options of the formula
// engine.
type Config struct {
	// RAPLEvent names the RAPL counter used as the ground-truth power
	// reference (e.g. "package").
	RAPLEvent string
	// MinSamplesRequired is the history length threshold below which Fit
	// is a no-op.
	MinSamplesRequired int
	// HistoryWindowSize is each model's history ring capacity.
	HistoryWindowSize int
	// Topology describes the socket being monitored.
	Topology topology.CPU
	// Scope selects which power domain to model. Only "cpu" is
	// implemented.
	Scope string
	// RealTimeMode selects the tick-buffer processing threshold: 2 ticks
	// ahead in real-time mode, 5 in batch mode.
	RealTimeMode bool
	// ErrorThreshold is the |rapl - predicted| Watts gap above which the
	// model is retrained.
	ErrorThreshold float64
	// ReportsFrequency is the sensor's sampling period, used to convert
	// RAPL energy counters to Watts.
	ReportsFrequency time.Duration
	// SocketDomainValue selects which socket id to read from every
	// report.
	SocketDomainValue string
}

// Validate checks the configuration invariants the engine relies on.
func (c Config) Validate() error {
	if c.MinSamplesRequired < 1 {
		return errors.New("engine: min_samples_required must be >= 1")
	}
	if c.HistoryWindowSize < c.MinSamplesRequired {
		return errors.New("engine: history_window_size must be >= min_samples_required")
	}
	if c.Scope != "cpu" && c.Scope != "dram" {
		return fmt.Errorf("engine: unknown scope %q", c.Scope)
	}
	if c.Scope == "dram" {
		return errors.New("engine: scope \"dram\" is not implemented in this revision")
	}
	if c.ReportsFrequency <= 0 {
		return errors.New("engine: reports_frequency must be positive")
	}
	if c.RAPLEvent == "" {
		return errors.New("engine: rapl_event must be set")
	}
	if c.SocketDomainValue == "" {
		return errors.New("engine: socket_domain_value must be set")
	}
	return nil
}

// tickThreshold returns the number of future ticks that must have arrived
// before the oldest buffered tick is safe to process.
func (c Config) tickThreshold() int {
	if c.RealTimeMode {
		return 2
	}
	return 5
}
