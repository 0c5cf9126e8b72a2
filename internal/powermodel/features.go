// SPDX-FileCopyrightText: 2025 The SmartWatts Authors
// SPDX-License-Identifier: Apache-2.0

package powermodel

import "sort"

// featureVector projects a named-event map into an ordered slice of values,
// sorted by event name ascending. Every sample fed to the same model must
// carry the same set of event names, so the projection stays the same
// length and name-order across all samples of one model.
func featureVector(events map[string]float64) []float64 {
	names := make([]string, 0, len(events))
	for name := range events {
		names = append(names, name)
	}
	sort.Strings(names)

	vec := make([]float64, len(names))
	for i, name := range names {
		vec[i] = events[name]
	}
	return vec
}
