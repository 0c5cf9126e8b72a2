// SPDX-FileCopyrightText: 2025 The SmartWatts Authors
// SPDX-License-Identifier: Apache-2.0

package report

import (
	"fmt"
	"math"
)

// MissingIndexError is returned by the extraction helpers when a required
// socket, event or group is absent from an input report. This aborts
// processing for the current tick only; it never corrupts engine state.
type MissingIndexError struct {
	Entity string
	Group  string
}

func (e *MissingIndexError) Error() string {
	return fmt.Sprintf("report: missing %q in group %q", e.Entity, e.Group)
}

func missingIndex(entity, group string) error {
	return &MissingIndexError{Entity: entity, Group: group}
}

// InvalidSampleError is returned when an event's counter value is present
// but unusable for derivation: non-finite or negative once converted to a
// rate or ratio. The tick is dropped, not the whole stream.
type InvalidSampleError struct {
	Event string
	Value float64
}

func (e *InvalidSampleError) Error() string {
	return fmt.Sprintf("report: invalid sample for %q: %v", e.Event, e.Value)
}

func invalidSample(event string, value float64) error {
	return &InvalidSampleError{Event: event, Value: value}
}

// ValidateSample reports an InvalidSampleError if value is not finite or is
// negative.
func ValidateSample(event string, value float64) error {
	if math.IsNaN(value) || math.IsInf(value, 0) || value < 0 {
		return invalidSample(event, value)
	}
	return nil
}
