// SPDX-FileCopyrightText: 2025 The SmartWatts Authors
// SPDX-License-Identifier: Apache-2.0

// Package report defines the input reports the formula core consumes, the
// output reports it produces, and the deterministic projections that turn
// one into the other.
package report

import "time"

// EventCounters maps a performance-counter event name to its raw value.
type EventCounters map[string]uint64

// CoreCounters maps a core id to the event counters read on that core.
type CoreCounters map[string]EventCounters

// SocketCounters maps a socket id to the per-core counters read on it.
type SocketCounters map[string]CoreCounters

// Groups maps a group name (rapl, msr, core, ...) to the socket counters
// captured for it.
type Groups map[string]SocketCounters

// Input is one performance-counter report for one (timestamp, target)
// pair. The reserved target "all" carries the RAPL reference measurement
// for its tick.
type Input struct {
	Timestamp time.Time
	Sensor    string
	Target    string
	Groups    Groups
}

// Power is an outgoing power report, attributing a power_watts value to a
// (timestamp, target) pair, with diagnostic metadata about the formula
// that produced it.
type Power struct {
	Timestamp time.Time
	Sensor    string
	Target    string
	Watts     float64
	Metadata  PowerMetadata
}

// PowerMetadata carries the diagnostic fields attached to a Power report.
type PowerMetadata struct {
	Scope         string
	Socket        string
	FormulaHash   string
	Ratio         float64
	RawPrediction float64
	Error         float64
}

// Formula is the per-tick diagnostic report describing the model that
// produced a tick's power reports. At most one is emitted per tick.
type Formula struct {
	Timestamp time.Time
	Sensor    string
	Target    string // the model's content hash
	Metadata  FormulaMetadata
}

// FormulaMetadata carries the diagnostic fields attached to a Formula
// report.
type FormulaMetadata struct {
	LayerFreq    int
	PkgFreq      float64
	Samples      int
	ModelID      uint64
	Error        float64
	Intercept    float64
	Coefficients []float64
}
