// SPDX-FileCopyrightText: 2025 The SmartWatts Authors
// SPDX-License-Identifier: Apache-2.0

package powermodel

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFitNonNegativeElasticNetRecoversPositiveTrend(t *testing.T) {
	// y approximately 2*x1, generated without noise so even a penalized fit
	// should recover a clearly positive coefficient.
	rows := [][]float64{{1}, {2}, {3}, {4}, {5}, {6}, {7}, {8}}
	y := make([]float64, len(rows))
	for i, r := range rows {
		y[i] = 2 * r[0]
	}

	coef, intercept := fitNonNegativeElasticNet(rows, y, false)

	assert.Len(t, coef, 1)
	assert.Greater(t, coef[0], 0.0)
	assert.Equal(t, 0.0, intercept)
}

func TestFitNonNegativeElasticNetProjectsNegativeCoefficientsToZero(t *testing.T) {
	// y decreases with x1; an unconstrained fit would choose a negative
	// coefficient, but non-negativity must clamp it to zero.
	rows := [][]float64{{1}, {2}, {3}, {4}, {5}, {6}}
	y := []float64{10, 8, 6, 4, 2, 0}

	coef, _ := fitNonNegativeElasticNet(rows, y, true)

	assert.Len(t, coef, 1)
	assert.Equal(t, 0.0, coef[0])
}

func TestFitNonNegativeElasticNetWithIntercept(t *testing.T) {
	rows := [][]float64{{1}, {2}, {3}, {4}, {5}, {6}, {7}, {8}}
	y := make([]float64, len(rows))
	for i, r := range rows {
		y[i] = 5 + 2*r[0]
	}

	_, intercept := fitNonNegativeElasticNet(rows, y, true)
	assert.Greater(t, intercept, 0.0)
}

func TestFitNonNegativeElasticNetEmptyHistory(t *testing.T) {
	coef, intercept := fitNonNegativeElasticNet(nil, nil, false)
	assert.Nil(t, coef)
	assert.Equal(t, 0.0, intercept)
}

func TestFitNonNegativeElasticNetNoFeatures(t *testing.T) {
	coef, intercept := fitNonNegativeElasticNet([][]float64{{}, {}}, []float64{1, 2}, false)
	assert.Empty(t, coef)
	assert.Equal(t, 0.0, intercept)
}
