// SPDX-FileCopyrightText: 2025 The SmartWatts Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"log/slog"

	"github.com/smartwatts-project/smartwatts-formula/internal/report"
)

// loggingSink is an in-memory report.Sink implementation standing in for
// the real time-series writer. It logs every emitted report at Info level
// so the demo binary shows the engine's output without a storage
// dependency.
type loggingSink struct {
	logger *slog.Logger
}

func newLoggingSink(logger *slog.Logger) *loggingSink {
	return &loggingSink{logger: logger}
}

// EmitPower implements report.Sink.
func (s *loggingSink) EmitPower(p report.Power) {
	s.logger.Info("power report",
		"target", p.Target,
		"watts", p.Watts,
		"scope", p.Metadata.Scope,
		"socket", p.Metadata.Socket,
		"formula_hash", p.Metadata.FormulaHash,
		"ratio", p.Metadata.Ratio,
		"raw_prediction", p.Metadata.RawPrediction,
		"error", p.Metadata.Error,
	)
}

// EmitFormula implements report.Sink.
func (s *loggingSink) EmitFormula(f report.Formula) {
	s.logger.Info("formula report",
		"model_hash", f.Target,
		"layer_freq_mhz", f.Metadata.LayerFreq,
		"pkg_freq_mhz", f.Metadata.PkgFreq,
		"samples", f.Metadata.Samples,
		"model_id", f.Metadata.ModelID,
		"error", f.Metadata.Error,
		"intercept", f.Metadata.Intercept,
	)
}
