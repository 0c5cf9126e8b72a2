// SPDX-FileCopyrightText: 2025 The SmartWatts Authors
// SPDX-License-Identifier: Apache-2.0

// Package topology describes the CPU socket the formula core attributes
// power for: its TDP, base clock and frequency ratios, and the set of
// discrete frequency layers derived from them.
package topology

import (
	"errors"
	"fmt"

	"github.com/smartwatts-project/smartwatts-formula/internal/units"
)

// ErrInvalidTopology is returned by New when the supplied values cannot
// describe a physically sensible CPU socket.
var ErrInvalidTopology = errors.New("topology: invalid cpu topology")

// CPU describes one socket's thermal and frequency envelope.
type CPU struct {
	tdpWatts  float64
	baseClock units.Frequency

	ratioMin  float64
	ratioBase float64
	ratioMax  float64
}

// New builds a CPU topology from TDP (Watts), base clock (MHz) and the
// min/base/max ratios expressed in MHz (e.g. a ratio flag of 2200 means
// 22.00x, stored internally as ratio/100).
func New(tdpWatts float64, baseClockMHz int, ratioMinMHz, ratioBaseMHz, ratioMaxMHz int) (CPU, error) {
	if tdpWatts <= 0 || baseClockMHz <= 0 || ratioMinMHz <= 0 || ratioBaseMHz <= 0 || ratioMaxMHz <= 0 {
		return CPU{}, fmt.Errorf("%w: all values must be positive", ErrInvalidTopology)
	}
	if ratioMinMHz > ratioBaseMHz {
		return CPU{}, fmt.Errorf("%w: ratio_min (%d) > ratio_base (%d)", ErrInvalidTopology, ratioMinMHz, ratioBaseMHz)
	}
	if ratioBaseMHz > ratioMaxMHz {
		return CPU{}, fmt.Errorf("%w: ratio_base (%d) > ratio_max (%d)", ErrInvalidTopology, ratioBaseMHz, ratioMaxMHz)
	}

	return CPU{
		tdpWatts:  tdpWatts,
		baseClock: units.Frequency(baseClockMHz),
		ratioMin:  float64(ratioMinMHz) / 100,
		ratioBase: float64(ratioBaseMHz) / 100,
		ratioMax:  float64(ratioMaxMHz) / 100,
	}, nil
}

// TDPWatts returns the manufacturer-stated thermal design power.
func (c CPU) TDPWatts() float64 {
	return c.tdpWatts
}

// MinFrequency returns base_clock * ratio_min.
func (c CPU) MinFrequency() units.Frequency {
	return units.Frequency(int(float64(c.baseClock) * c.ratioMin))
}

// BaseFrequency returns base_clock * ratio_base.
func (c CPU) BaseFrequency() units.Frequency {
	return units.Frequency(int(float64(c.baseClock) * c.ratioBase))
}

// MaxFrequency returns base_clock * ratio_max.
func (c CPU) MaxFrequency() units.Frequency {
	return units.Frequency(int(float64(c.baseClock) * c.ratioMax))
}

// SupportedFrequencies returns the ascending, inclusive sequence of
// frequency layers [min, min+base_clock, ..., max] in MHz. These define
// the frequency layers used by the model registry.
func (c CPU) SupportedFrequencies() []units.Frequency {
	min := c.MinFrequency()
	max := c.MaxFrequency()
	step := c.baseClock

	freqs := make([]units.Frequency, 0, (int(max-min)/int(step))+1)
	for f := min; f <= max; f += step {
		freqs = append(freqs, f)
	}
	return freqs
}
