// SPDX-FileCopyrightText: 2025 The SmartWatts Authors
// SPDX-License-Identifier: Apache-2.0

package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func counterValue(t *testing.T, c prometheus.Counter) float64 {
	t.Helper()
	var m dto.Metric
	require.NoError(t, c.Write(&m))
	return m.GetCounter().GetValue()
}

func TestCollectorCountersIncrement(t *testing.T) {
	c := New("smartwatts")

	c.TickProcessed()
	c.TickProcessed()
	assert.Equal(t, 2.0, counterValue(t, c.ticksProcessed))

	c.TickSkippedMissingIndex()
	assert.Equal(t, 1.0, counterValue(t, c.ticksSkippedMissing))

	c.TickSkippedInvalidSample()
	c.TickSkippedInvalidSample()
	assert.Equal(t, 2.0, counterValue(t, c.ticksSkippedInvalid))
}

func TestCollectorModelRefit(t *testing.T) {
	c := New("smartwatts")

	c.ModelRefit(true)
	c.ModelRefit(false)
	c.ModelRefit(false)

	assert.Equal(t, 1.0, counterValue(t, c.modelRefits))
	assert.Equal(t, 2.0, counterValue(t, c.modelRefitsRejected))
}

func TestCollectorTargetPowerGauge(t *testing.T) {
	c := New("smartwatts")
	c.TargetPower("workload-a", 12.5)

	registry := prometheus.NewRegistry()
	require.NoError(t, registry.Register(c))

	families, err := registry.Gather()
	require.NoError(t, err)

	found := false
	for _, f := range families {
		if f.GetName() == "smartwatts_formula_target_power_watts" {
			found = true
		}
	}
	assert.True(t, found, "expected target power gauge to be registered")
}
