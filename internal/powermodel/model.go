// SPDX-FileCopyrightText: 2025 The SmartWatts Authors
// SPDX-License-Identifier: Apache-2.0

// Package powermodel implements the per-frequency-layer non-negative
// linear regression that predicts package power from a feature vector of
// performance-counter values.
package powermodel

import (
	"crypto/sha1" //nolint:gosec // content-addressing only, not a security boundary
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"github.com/smartwatts-project/smartwatts-formula/internal/history"
	"github.com/smartwatts-project/smartwatts-formula/internal/units"
)

// ErrNotFitted is returned by Predict when the model has never completed
// a successful fit.
var ErrNotFitted = errors.New("powermodel: model not fitted")

// uninitializedHash is the content hash of a model that has never fit.
const uninitializedHash = "uninitialized"

// regression holds the learned parameters of one frequency layer's model.
type regression struct {
	coefficients []float64
	intercept    float64
	fitted       bool
}

// Model wraps one frequency layer's regression: its history buffer, the
// currently-adopted regression, a monotonically increasing revision id and
// a content hash of the learned parameters.
type Model struct {
	layer      units.Frequency
	history    *history.Buffer
	current    regression
	revisionID uint64
	hash       string
}

// New creates a Model for the given frequency layer with a history buffer
// of the given capacity.
func New(layer units.Frequency, historyCapacity int) *Model {
	return &Model{
		layer:   layer,
		history: history.New(historyCapacity),
		hash:    uninitializedHash,
	}
}

// Layer returns the frequency layer this model was built for.
func (m *Model) Layer() units.Frequency {
	return m.layer
}

// Fitted reports whether the model has completed at least one successful
// fit.
func (m *Model) Fitted() bool {
	return m.current.fitted
}

// RevisionID returns the number of successful fits/refits so far.
func (m *Model) RevisionID() uint64 {
	return m.revisionID
}

// Hash returns the 40-hex-char content hash of the currently-adopted
// regression, or "uninitialized" if the model has never fit.
func (m *Model) Hash() string {
	return m.hash
}

// Coefficients returns a copy of the currently-adopted coefficients, in
// the same event-name order that Store/Predict use.
func (m *Model) Coefficients() []float64 {
	out := make([]float64, len(m.current.coefficients))
	copy(out, m.current.coefficients)
	return out
}

// Intercept returns the currently-adopted intercept.
func (m *Model) Intercept() float64 {
	return m.current.intercept
}

// HistoryLen returns the number of samples currently buffered.
func (m *Model) HistoryLen() int {
	return m.history.Len()
}

// Store projects events into a feature vector (sorted by event name) and
// pushes (features, reference.Watts()) into the history buffer.
func (m *Model) Store(reference units.Power, events map[string]float64) {
	m.history.Store(featureVector(events), reference.Watts())
}

// Fit attempts to (re)train the regression from the buffered history.
//
// If the history has fewer than minSamples entries, Fit is a no-op. The
// intercept is fitted only when the history buffer is exactly at
// capacity; otherwise it is forced to zero. If the resulting intercept
// falls outside [minIntercept, maxIntercept), the fit is discarded and
// the previously-adopted regression (if any) is left intact.
func (m *Model) Fit(minSamples int, minIntercept, maxIntercept float64) {
	if m.history.Len() < minSamples {
		return
	}

	fitIntercept := m.history.Full()
	coef, intercept := fitNonNegativeElasticNet(m.history.Features(), m.history.References(), fitIntercept)

	if intercept < minIntercept || intercept >= maxIntercept {
		return
	}

	m.current = regression{coefficients: coef, intercept: intercept, fitted: true}
	m.hash = contentHash(coef, intercept)
	m.revisionID++
}

// Predict returns intercept + Σ coef_i·feature_i for the projected events.
// It returns ErrNotFitted if the model has never completed a successful
// fit.
func (m *Model) Predict(events map[string]float64) (units.Power, error) {
	if !m.current.fitted {
		return 0, ErrNotFitted
	}
	vec := featureVector(events)

	sum := m.current.intercept
	for i, coef := range m.current.coefficients {
		if i >= len(vec) {
			break
		}
		sum += coef * vec[i]
	}
	return units.Power(sum), nil
}

// Cap subtracts the intercept from both the raw target and raw global
// power, returning the non-negative capped target power and the fraction
// of (intercept-subtracted) global power the target represents.
func (m *Model) Cap(rawTargetPower, rawGlobalPower units.Power) (capped units.Power, ratio float64) {
	intercept := units.Power(m.current.intercept)
	t := rawTargetPower - intercept
	g := rawGlobalPower - intercept

	if g > 0 && t > 0 {
		ratio = float64(t) / float64(g)
	}

	capped = t
	if capped < 0 {
		capped = 0
	}
	return capped, ratio
}

// ApplyInterceptShare adds the target's proportional share of the
// intercept back onto its capped power.
func (m *Model) ApplyInterceptShare(targetPower units.Power, targetRatio float64) units.Power {
	return targetPower + units.Power(targetRatio*m.current.intercept)
}

// contentHash deterministically serializes coefficients and intercept and
// returns their 40-hex-char SHA-1 digest. The hash is a pure function of
// the learned parameters, so two models with identical fits compare equal.
func contentHash(coefficients []float64, intercept float64) string {
	parts := make([]string, 0, len(coefficients)+1)
	parts = append(parts, fmt.Sprintf("intercept=%.12g", intercept))
	for i, c := range coefficients {
		parts = append(parts, fmt.Sprintf("c%d=%.12g", i, c))
	}
	sum := sha1.Sum([]byte(strings.Join(parts, ";"))) //nolint:gosec
	return hex.EncodeToString(sum[:])
}
