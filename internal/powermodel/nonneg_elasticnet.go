// SPDX-FileCopyrightText: 2025 The SmartWatts Authors
// SPDX-License-Identifier: Apache-2.0

package powermodel

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// elasticNetDefaults mirror scikit-learn's ElasticNet defaults; only
// non-negative coefficients and a conditionally-fitted intercept are
// required, so the exact penalty is free to pick.
const (
	defaultAlpha   = 1.0
	defaultL1Ratio = 0.5
	maxCDIterations = 1000
	cdTolerance     = 1e-7
)

// fitNonNegativeElasticNet fits y ~ X*coef + intercept via coordinate
// descent, projecting every coefficient onto [0, +inf) each iteration.
//
// When fitIntercept is false the intercept is forced to zero: the
// intercept is only fitted once the history buffer is exactly at
// capacity.
func fitNonNegativeElasticNet(rows [][]float64, y []float64, fitIntercept bool) (coef []float64, intercept float64) {
	n := len(rows)
	if n == 0 {
		return nil, 0
	}
	p := len(rows[0])
	coef = make([]float64, p)
	if p == 0 {
		return coef, 0
	}

	X := mat.NewDense(n, p, nil)
	for i, row := range rows {
		X.SetRow(i, row)
	}

	yCentered := make([]float64, n)
	copy(yCentered, y)

	meanY := floats.Sum(y) / float64(n)
	if fitIntercept {
		intercept = meanY
		for i := range yCentered {
			yCentered[i] = y[i] - intercept
		}
	}

	colNorm := make([]float64, p)
	col := make([]float64, n)
	for j := 0; j < p; j++ {
		mat.Col(col, j, X)
		colNorm[j] = floats.Dot(col, col) / float64(n)
	}

	residual := make([]float64, n)
	copy(residual, yCentered)

	l1 := defaultAlpha * defaultL1Ratio
	l2 := defaultAlpha * (1 - defaultL1Ratio)

	for iter := 0; iter < maxCDIterations; iter++ {
		maxDelta := 0.0
		for j := 0; j < p; j++ {
			if colNorm[j] == 0 {
				continue
			}
			mat.Col(col, j, X)

			// add back feature j's current contribution before recomputing it
			old := coef[j]
			if old != 0 {
				floats.AddScaled(residual, old, col)
			}

			rho := floats.Dot(col, residual) / float64(n)
			candidate := rho - l1
			denom := colNorm[j] + l2

			next := 0.0
			if candidate > 0 && denom > 0 {
				next = candidate / denom
			}

			coef[j] = next
			if next != 0 {
				floats.AddScaled(residual, -next, col)
			}

			delta := next - old
			if delta < 0 {
				delta = -delta
			}
			if delta > maxDelta {
				maxDelta = delta
			}
		}
		if maxDelta < cdTolerance {
			break
		}
	}

	return coef, intercept
}
