// SPDX-FileCopyrightText: 2025 The SmartWatts Authors
// SPDX-License-Identifier: Apache-2.0

package report

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMissingIndexErrorMessage(t *testing.T) {
	err := missingIndex("APERF", "msr")
	assert.EqualError(t, err, `report: missing "APERF" in group "msr"`)
}

func TestValidateSampleRejectsNonFiniteAndNegative(t *testing.T) {
	cases := map[string]float64{
		"NaN":      math.NaN(),
		"+Inf":     math.Inf(1),
		"-Inf":     math.Inf(-1),
		"negative": -1.0,
	}
	for name, v := range cases {
		t.Run(name, func(t *testing.T) {
			err := ValidateSample("pkg_freq", v)
			assert.Error(t, err)
			var target *InvalidSampleError
			assert.ErrorAs(t, err, &target)
			assert.Equal(t, "pkg_freq", target.Event)
		})
	}
}

func TestValidateSampleAcceptsFiniteNonNegative(t *testing.T) {
	assert.NoError(t, ValidateSample("pkg_freq", 0))
	assert.NoError(t, ValidateSample("pkg_freq", 2400.5))
}
