// SPDX-FileCopyrightText: 2025 The SmartWatts Authors
// SPDX-License-Identifier: Apache-2.0

// Package units defines the small set of physical-quantity value types the
// formula core operates on: frequency, energy and power. Keeping them as
// distinct named types (rather than passing bare float64s around) is the
// same convention the rest of this lineage uses for RAPL/MSR counters.
package units

import "fmt"

// Frequency is a CPU frequency in MHz.
type Frequency int

// MHz returns the frequency as a plain integer number of megahertz.
func (f Frequency) MHz() int {
	return int(f)
}

func (f Frequency) String() string {
	return fmt.Sprintf("%dMHz", int(f))
}

// Energy represents energy in Joules.
type Energy float64

func (e Energy) Joules() float64 {
	return float64(e)
}

func (e Energy) String() string {
	return fmt.Sprintf("%fJ", float64(e))
}

// Power represents power as a float64 Watts count.
//
// Use the MicroWatt/MilliWatt/Watt constants to convert to/from other
// scales; Watts() returns the canonical value used throughout reports.
type Power float64

const (
	MicroWatt Power = 1e-6
	MilliWatt       = 1000 * MicroWatt
	Watt            = 1000 * MilliWatt
)

func (p Power) Watts() float64 {
	return float64(p / Watt)
}

func (p Power) MilliWatts() float64 {
	return float64(p / MilliWatt)
}

func (p Power) String() string {
	return fmt.Sprintf("%fW", p.Watts())
}
