// SPDX-FileCopyrightText: 2025 The SmartWatts Authors
// SPDX-License-Identifier: Apache-2.0

package engine

import "log/slog"

// MetricsRecorder is the instrumentation seam the engine calls into.
// internal/metrics.Collector implements this; tests may supply their own
// fake instead of pulling in the prometheus dependency.
type MetricsRecorder interface {
	TickProcessed()
	TickSkippedMissingIndex()
	TickSkippedInvalidSample()
	ModelRefit(accepted bool)
	TargetPower(target string, watts float64)
}

type noopMetrics struct{}

func (noopMetrics) TickProcessed()              {}
func (noopMetrics) TickSkippedMissingIndex()    {}
func (noopMetrics) TickSkippedInvalidSample()   {}
func (noopMetrics) ModelRefit(accepted bool)    {}
func (noopMetrics) TargetPower(string, float64) {}

// Opts holds the engine's injectable collaborators.
type Opts struct {
	logger  *slog.Logger
	metrics MetricsRecorder
}

// DefaultOpts returns an Opts with sane defaults.
func DefaultOpts() Opts {
	return Opts{
		logger:  slog.Default(),
		metrics: noopMetrics{},
	}
}

// OptionFn sets one or more options in Opts.
type OptionFn func(*Opts)

// WithLogger sets the engine's structured logger.
func WithLogger(logger *slog.Logger) OptionFn {
	return func(o *Opts) { o.logger = logger }
}

// WithMetrics sets the metrics recorder the engine reports into.
func WithMetrics(m MetricsRecorder) OptionFn {
	return func(o *Opts) { o.metrics = m }
}
