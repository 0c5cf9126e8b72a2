// SPDX-FileCopyrightText: 2025 The SmartWatts Authors
// SPDX-License-Identifier: Apache-2.0

package powermodel

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smartwatts-project/smartwatts-formula/internal/units"
)

func train(t *testing.T, m *Model, samples int, minIntercept, maxIntercept float64) {
	t.Helper()
	for i := 0; i < samples; i++ {
		events := map[string]float64{"instructions": float64(100 * (i + 1))}
		m.Store(units.Power(float64(10+2*(i+1))), events)
	}
	m.Fit(samples, minIntercept, maxIntercept)
}

func TestModelPredictBeforeFitReturnsErrNotFitted(t *testing.T) {
	m := New(2000, 10)
	assert.Equal(t, "uninitialized", m.Hash())
	assert.False(t, m.Fitted())

	_, err := m.Predict(map[string]float64{"instructions": 100})
	assert.ErrorIs(t, err, ErrNotFitted)
}

func TestModelFitNoopBelowMinSamples(t *testing.T) {
	m := New(2000, 10)
	m.Store(units.Power(10), map[string]float64{"instructions": 100})
	m.Fit(5, 0, 1000)

	assert.False(t, m.Fitted())
	assert.Equal(t, uint64(0), m.RevisionID())
}

func TestModelFitAdoptsWithinHistoryCapacity(t *testing.T) {
	m := New(2000, 5)
	train(t, m, 5, -1000, 1000)

	assert.True(t, m.Fitted())
	assert.Equal(t, uint64(1), m.RevisionID())
	assert.NotEqual(t, "uninitialized", m.Hash())
}

func TestModelFitRejectsOutOfRangeIntercept(t *testing.T) {
	m := New(2000, 5)
	// Any fitted intercept (forced to the sample mean >= 0 by construction)
	// will fall outside a negative upper bound.
	train(t, m, 5, -1000, -1)

	assert.False(t, m.Fitted())
	assert.Equal(t, uint64(0), m.RevisionID())
}

func TestModelContentHashStableForSameParameters(t *testing.T) {
	m1 := New(2000, 5)
	m2 := New(2000, 5)

	train(t, m1, 5, -1000, 1000)
	train(t, m2, 5, -1000, 1000)

	require.True(t, m1.Fitted())
	require.True(t, m2.Fitted())
	assert.Equal(t, m1.Hash(), m2.Hash())
	assert.Len(t, m1.Hash(), 40)
}

func TestModelCapAndApplyInterceptShare(t *testing.T) {
	m := New(2000, 5)
	train(t, m, 5, -1000, 1000)
	require.True(t, m.Fitted())

	intercept := units.Power(m.Intercept())
	rawGlobal := intercept + 100
	rawTarget := intercept + 40

	capped, ratio := m.Cap(rawTarget, rawGlobal)
	assert.Equal(t, units.Power(40), capped)
	assert.InDelta(t, 0.4, ratio, 1e-9)

	final := m.ApplyInterceptShare(capped, ratio)
	assert.InDelta(t, float64(capped)+ratio*m.Intercept(), float64(final), 1e-9)
}

func TestModelCapFloorsAtZero(t *testing.T) {
	m := New(2000, 5)
	train(t, m, 5, -1000, 1000)
	require.True(t, m.Fitted())

	intercept := units.Power(m.Intercept())
	// Target below the intercept must floor to zero, never negative.
	capped, ratio := m.Cap(intercept-50, intercept+100)
	assert.Equal(t, units.Power(0), capped)
	assert.Equal(t, 0.0, ratio)
}
