// SPDX-FileCopyrightText: 2025 The SmartWatts Authors
// SPDX-License-Identifier: Apache-2.0

// Package engine implements the formula engine: the synchronous stream
// operator that ingests per-target performance-counter reports,
// attributes the socket's RAPL power across the targets active in each
// tick, and emits power and formula diagnostic reports.
package engine

import (
	"errors"
	"log/slog"
	"math"
	"time"

	"github.com/smartwatts-project/smartwatts-formula/internal/powermodel"
	"github.com/smartwatts-project/smartwatts-formula/internal/registry"
	"github.com/smartwatts-project/smartwatts-formula/internal/report"
	"github.com/smartwatts-project/smartwatts-formula/internal/tickbuffer"
	"github.com/smartwatts-project/smartwatts-formula/internal/units"
)

const targetAll = "all"

// Engine is the formula core's stream operator. It owns the tick buffer
// and the model registry exclusively; no state is shared across engine
// instances or threads.
type Engine struct {
	cfg      Config
	registry *registry.Registry
	ticks    *tickbuffer.Buffer
	sink     report.Sink

	logger  *slog.Logger
	metrics MetricsRecorder

	sensor string
}

// New constructs an Engine for cfg, emitting to sink. It fails with
// ErrInvalidTopology if cfg.Topology cannot derive frequency layers, and
// with a validation error for any other malformed Config.
func New(cfg Config, sink report.Sink, applyOpts ...OptionFn) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	opts := DefaultOpts()
	for _, apply := range applyOpts {
		apply(&opts)
	}

	reg := registry.New(cfg.Topology, cfg.HistoryWindowSize)
	if len(reg.Layers()) == 0 {
		return nil, ErrInvalidTopology
	}

	return &Engine{
		cfg:      cfg,
		registry: reg,
		ticks:    tickbuffer.New(),
		sink:     sink,
		logger:   opts.logger.With("component", "formula-engine"),
		metrics:  opts.metrics,
	}, nil
}

// Process ingests one input report, buffers it under its tick, and
// processes as many oldest-ready ticks as the buffer threshold allows.
// Ordering guarantee: outputs for tick T are emitted strictly before
// outputs for tick T' when T < T'.
func (e *Engine) Process(in report.Input) {
	e.sensor = in.Sensor
	e.ticks.Put(in)

	threshold := e.cfg.tickThreshold()
	for e.ticks.Len() > threshold {
		e.processOldestTick()
	}
}

// Flush forces processing of every tick still buffered, regardless of the
// tick-buffer threshold. Use it at the end of a stream; dropping the
// Engine without calling Flush silently discards whatever remains
// buffered.
func (e *Engine) Flush() {
	for e.ticks.Len() > 0 {
		e.processOldestTick()
	}
}

func (e *Engine) processOldestTick() {
	t, ok := e.ticks.Pop()
	if !ok {
		return
	}

	globalReport, hasGlobal := t.Reports[targetAll]
	if !hasGlobal {
		// Cannot attribute without the reference measurement.
		return
	}

	socket := e.cfg.SocketDomainValue

	raplWatts, err := report.RAPLWatts(globalReport, socket, e.cfg.RAPLEvent, e.cfg.ReportsFrequency)
	if err != nil {
		e.skipTick(t.Timestamp, err)
		return
	}

	avgMSR, err := report.AverageMSR(globalReport, socket)
	if err != nil {
		e.skipTick(t.Timestamp, err)
		return
	}

	// Per-target CORE sums, computed once and reused both to build
	// global_core and for per-target attribution below.
	targetCores := make(map[string]map[string]float64, len(t.Order))
	globalCore := map[string]float64{}
	for _, target := range t.Order {
		if target == targetAll {
			continue
		}
		r := t.Reports[target]
		core, err := report.SumCore(r, socket, report.TimeEventPrefix)
		if err != nil {
			e.skipTick(t.Timestamp, err)
			return
		}
		targetCores[target] = core
		globalCore = report.AddCounters(globalCore, core)
	}

	e.metrics.TickProcessed()

	e.sink.EmitPower(report.Power{
		Timestamp: t.Timestamp,
		Sensor:    e.sensor,
		Target:    "rapl",
		Watts:     raplWatts,
		Metadata: report.PowerMetadata{
			Scope:  e.cfg.Scope,
			Socket: socket,
			Ratio:  1.0,
			Error:  0,
		},
	})

	if len(globalCore) == 0 {
		return
	}

	pkgFreq, err := packageFrequency(e.cfg.Topology.BaseFrequency(), avgMSR)
	if err != nil {
		e.skipTick(t.Timestamp, err)
		return
	}

	model := e.registry.Lookup(units.Frequency(int(pkgFreq)))

	rawGlobalPower, err := model.Predict(globalCore)
	if errors.Is(err, powermodel.ErrNotFitted) {
		model.Store(units.Power(raplWatts), globalCore)
		accepted := tryFit(model, e.cfg)
		e.metrics.ModelRefit(accepted)
		return
	}

	modelError := math.Abs(raplWatts - rawGlobalPower.Watts())

	e.sink.EmitPower(report.Power{
		Timestamp: t.Timestamp,
		Sensor:    e.sensor,
		Target:    "global",
		Watts:     rawGlobalPower.Watts(),
		Metadata: report.PowerMetadata{
			Scope:       e.cfg.Scope,
			Socket:      socket,
			FormulaHash: model.Hash(),
			Ratio:       1.0,
			Error:       modelError,
		},
	})

	for _, target := range t.Order {
		if target == targetAll {
			continue
		}
		targetCore := targetCores[target]

		rawTargetPower, err := model.Predict(targetCore)
		if err != nil {
			continue
		}

		capped, ratio := model.Cap(rawTargetPower, rawGlobalPower)
		finalPower := model.ApplyInterceptShare(capped, ratio)

		e.metrics.TargetPower(target, finalPower.Watts())
		e.sink.EmitPower(report.Power{
			Timestamp: t.Timestamp,
			Sensor:    e.sensor,
			Target:    target,
			Watts:     finalPower.Watts(),
			Metadata: report.PowerMetadata{
				Scope:         e.cfg.Scope,
				Socket:        socket,
				FormulaHash:   model.Hash(),
				Ratio:         ratio,
				RawPrediction: rawTargetPower.Watts(),
				Error:         math.Abs(finalPower.Watts() - rawGlobalPower.Watts()),
			},
		})
	}

	model.Store(units.Power(raplWatts), globalCore)
	if modelError > e.cfg.ErrorThreshold {
		accepted := tryFit(model, e.cfg)
		e.metrics.ModelRefit(accepted)
	}

	e.sink.EmitFormula(report.Formula{
		Timestamp: t.Timestamp,
		Sensor:    e.sensor,
		Target:    model.Hash(),
		Metadata: report.FormulaMetadata{
			LayerFreq:    model.Layer().MHz(),
			PkgFreq:      pkgFreq,
			Samples:      model.HistoryLen(),
			ModelID:      model.RevisionID(),
			Error:        modelError,
			Intercept:    model.Intercept(),
			Coefficients: model.Coefficients(),
		},
	})
}

// tryFit attempts (re)training and reports whether the fit was adopted
// (i.e. the model's revision id advanced).
func tryFit(model *powermodel.Model, cfg Config) bool {
	before := model.RevisionID()
	model.Fit(cfg.MinSamplesRequired, 0.0, cfg.Topology.TDPWatts())
	return model.RevisionID() != before
}

// packageFrequency derives pkg_freq = base_frequency * (APERF/MPERF).
func packageFrequency(base units.Frequency, avgMSR map[string]float64) (float64, error) {
	aperf, ok := avgMSR["APERF"]
	if !ok {
		return 0, &report.MissingIndexError{Entity: "APERF", Group: "msr"}
	}
	mperf, ok := avgMSR["MPERF"]
	if !ok {
		return 0, &report.MissingIndexError{Entity: "MPERF", Group: "msr"}
	}
	if mperf == 0 {
		return 0, &report.InvalidSampleError{Event: "MPERF", Value: mperf}
	}

	pkgFreq := float64(base.MHz()) * (aperf / mperf)
	if err := report.ValidateSample("pkg_freq", pkgFreq); err != nil {
		return 0, err
	}
	return pkgFreq, nil
}

// skipTick aborts processing of the current tick only, leaving engine
// state untouched: both MissingIndexError and InvalidSampleError are
// per-tick, non-corrupting failures.
func (e *Engine) skipTick(ts time.Time, err error) {
	var invalid *report.InvalidSampleError
	if errors.As(err, &invalid) {
		e.metrics.TickSkippedInvalidSample()
		e.logger.Warn("skipping tick: invalid sample", "tick", ts, "error", err)
		return
	}
	e.metrics.TickSkippedMissingIndex()
	e.logger.Warn("skipping tick: missing required index", "tick", ts, "error", err)
}
