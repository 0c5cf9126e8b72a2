// SPDX-FileCopyrightText: 2025 The SmartWatts Authors
// SPDX-License-Identifier: Apache-2.0

package report

import "context"

// Source is the shape the real upstream collaborator (a document-store
// reader, a pub/sub consumer) would implement to feed the formula engine.
// Only its interface is specified here; the engine has no opinion on how
// reports arrive.
type Source interface {
	// Next blocks until the next input report is available, or returns an
	// error (including ctx.Err()) if none will ever arrive.
	Next(ctx context.Context) (Input, error)
}

// Sink is the shape the real downstream collaborator (a time-series
// database writer) would implement to receive the formula engine's
// output. Only its interface is specified here.
type Sink interface {
	EmitPower(Power)
	EmitFormula(Formula)
}
