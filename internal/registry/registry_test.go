// SPDX-FileCopyrightText: 2025 The SmartWatts Authors
// SPDX-License-Identifier: Apache-2.0

package registry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smartwatts-project/smartwatts-formula/internal/topology"
	"github.com/smartwatts-project/smartwatts-formula/internal/units"
)

func TestNewCreatesOneModelPerLayer(t *testing.T) {
	cpu, err := topology.New(125, 100, 800, 1000, 1200)
	require.NoError(t, err)

	reg := New(cpu, 10)
	assert.Equal(t, []units.Frequency{800, 900, 1000, 1100, 1200}, reg.Layers())
	assert.Len(t, reg.Models(), 5)
}

func TestLookupBoundaries(t *testing.T) {
	cpu, err := topology.New(125, 100, 800, 1000, 1200)
	require.NoError(t, err)
	reg := New(cpu, 10)

	tests := []struct {
		name     string
		measured units.Frequency
		want     units.Frequency
	}{
		{"exact match on layer", 1000, 1000},
		{"between two layers rounds down", 1050, 1000},
		{"below minimum clamps to smallest", 100, 800},
		{"above maximum clamps to largest", 5000, 1200},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := reg.Lookup(tt.measured)
			require.NotNil(t, m)
			assert.Equal(t, tt.want, m.Layer())
		})
	}
}

func TestLookupSameModelInstanceAcrossCalls(t *testing.T) {
	cpu, err := topology.New(125, 100, 800, 1000, 1200)
	require.NoError(t, err)
	reg := New(cpu, 10)

	first := reg.Lookup(1000)
	second := reg.Lookup(1000)
	assert.Same(t, first, second)
}
