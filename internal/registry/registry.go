// SPDX-FileCopyrightText: 2025 The SmartWatts Authors
// SPDX-License-Identifier: Apache-2.0

// Package registry maps CPU frequency layers to their dedicated power
// models.
package registry

import (
	"sort"

	"github.com/smartwatts-project/smartwatts-formula/internal/powermodel"
	"github.com/smartwatts-project/smartwatts-formula/internal/topology"
	"github.com/smartwatts-project/smartwatts-formula/internal/units"
)

// Registry owns one Model per supported frequency layer of a CPU
// topology.
type Registry struct {
	layers []units.Frequency // ascending, matches topology.SupportedFrequencies()
	models map[units.Frequency]*powermodel.Model
}

// New constructs a Registry with one fresh Model per supported frequency
// of cpu, each with a history buffer of the given capacity.
func New(cpu topology.CPU, historyCapacity int) *Registry {
	layers := cpu.SupportedFrequencies()
	models := make(map[units.Frequency]*powermodel.Model, len(layers))
	for _, l := range layers {
		models[l] = powermodel.New(l, historyCapacity)
	}
	return &Registry{layers: layers, models: models}
}

// Lookup returns the model whose layer is the largest supported frequency
// <= measured, or the smallest supported frequency if measured is below
// the minimum.
func (r *Registry) Lookup(measured units.Frequency) *powermodel.Model {
	if len(r.layers) == 0 {
		return nil
	}

	// layers is ascending; find the last layer <= measured.
	idx := sort.Search(len(r.layers), func(i int) bool {
		return r.layers[i] > measured
	})
	if idx == 0 {
		// measured is below every layer; clamp to the smallest.
		return r.models[r.layers[0]]
	}
	return r.models[r.layers[idx-1]]
}

// Models returns every model in the registry, keyed by layer.
func (r *Registry) Models() map[units.Frequency]*powermodel.Model {
	return r.models
}

// Layers returns the ascending list of supported frequency layers.
func (r *Registry) Layers() []units.Frequency {
	return r.layers
}
