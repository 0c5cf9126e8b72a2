// SPDX-FileCopyrightText: 2025 The SmartWatts Authors
// SPDX-License-Identifier: Apache-2.0

// Package metrics instruments the formula engine with Prometheus metrics.
// It exposes a prometheus.Collector the host process may register; it
// does not run an HTTP server itself.
package metrics

import "github.com/prometheus/client_golang/prometheus"

// Collector implements engine.MetricsRecorder and satisfies
// prometheus.Collector so it can be registered with any Prometheus
// registry.
type Collector struct {
	ticksProcessed       prometheus.Counter
	ticksSkippedMissing  prometheus.Counter
	ticksSkippedInvalid  prometheus.Counter
	modelRefits          prometheus.Counter
	modelRefitsRejected  prometheus.Counter
	targetPowerWatts     *prometheus.GaugeVec
}

// New builds a Collector using the given namespace for every metric name.
func New(namespace string) *Collector {
	return &Collector{
		ticksProcessed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "formula",
			Name:      "ticks_processed_total",
			Help:      "Number of ticks fully processed by the formula engine.",
		}),
		ticksSkippedMissing: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "formula",
			Name:      "ticks_skipped_missing_index_total",
			Help:      "Number of ticks aborted due to a missing required socket/event/group.",
		}),
		ticksSkippedInvalid: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "formula",
			Name:      "ticks_skipped_invalid_sample_total",
			Help:      "Number of ticks aborted due to a non-finite or negative derived sample.",
		}),
		modelRefits: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "formula",
			Name:      "model_refits_total",
			Help:      "Number of accepted model fits/refits (revision id advanced).",
		}),
		modelRefitsRejected: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "formula",
			Name:      "model_refits_rejected_total",
			Help:      "Number of fit attempts discarded due to an out-of-range intercept.",
		}),
		targetPowerWatts: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "formula",
			Name:      "target_power_watts",
			Help:      "Last power estimate emitted for a target, in Watts.",
		}, []string{"target"}),
	}
}

// Describe implements prometheus.Collector.
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	c.ticksProcessed.Describe(ch)
	c.ticksSkippedMissing.Describe(ch)
	c.ticksSkippedInvalid.Describe(ch)
	c.modelRefits.Describe(ch)
	c.modelRefitsRejected.Describe(ch)
	c.targetPowerWatts.Describe(ch)
}

// Collect implements prometheus.Collector.
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	c.ticksProcessed.Collect(ch)
	c.ticksSkippedMissing.Collect(ch)
	c.ticksSkippedInvalid.Collect(ch)
	c.modelRefits.Collect(ch)
	c.modelRefitsRejected.Collect(ch)
	c.targetPowerWatts.Collect(ch)
}

// TickProcessed implements engine.MetricsRecorder.
func (c *Collector) TickProcessed() {
	c.ticksProcessed.Inc()
}

// TickSkippedMissingIndex implements engine.MetricsRecorder.
func (c *Collector) TickSkippedMissingIndex() {
	c.ticksSkippedMissing.Inc()
}

// TickSkippedInvalidSample implements engine.MetricsRecorder.
func (c *Collector) TickSkippedInvalidSample() {
	c.ticksSkippedInvalid.Inc()
}

// ModelRefit implements engine.MetricsRecorder.
func (c *Collector) ModelRefit(accepted bool) {
	if accepted {
		c.modelRefits.Inc()
		return
	}
	c.modelRefitsRejected.Inc()
}

// TargetPower implements engine.MetricsRecorder.
func (c *Collector) TargetPower(target string, watts float64) {
	c.targetPowerWatts.WithLabelValues(target).Set(watts)
}
