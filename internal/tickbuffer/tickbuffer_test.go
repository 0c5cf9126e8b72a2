// SPDX-FileCopyrightText: 2025 The SmartWatts Authors
// SPDX-License-Identifier: Apache-2.0

package tickbuffer

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smartwatts-project/smartwatts-formula/internal/report"
)

func input(ts time.Time, target string) report.Input {
	return report.Input{Timestamp: ts, Sensor: "test", Target: target}
}

func TestPutGroupsByTimestamp(t *testing.T) {
	b := New()
	t0 := time.Unix(0, 0)
	t1 := time.Unix(1, 0)

	b.Put(input(t0, "all"))
	b.Put(input(t0, "workload-a"))
	b.Put(input(t1, "all"))

	assert.Equal(t, 2, b.Len())
}

func TestPopReturnsOldestFirst(t *testing.T) {
	b := New()
	t0 := time.Unix(0, 0)
	t1 := time.Unix(1, 0)

	b.Put(input(t1, "all"))
	b.Put(input(t0, "all"))

	tick, ok := b.Pop()
	require.True(t, ok)
	assert.Equal(t, t0, tick.Timestamp)

	tick, ok = b.Pop()
	require.True(t, ok)
	assert.Equal(t, t1, tick.Timestamp)

	_, ok = b.Pop()
	assert.False(t, ok)
}

func TestPutPreservesTargetInsertionOrder(t *testing.T) {
	b := New()
	t0 := time.Unix(0, 0)

	b.Put(input(t0, "all"))
	b.Put(input(t0, "workload-b"))
	b.Put(input(t0, "workload-a"))

	tick, ok := b.Pop()
	require.True(t, ok)
	assert.Equal(t, []string{"all", "workload-b", "workload-a"}, tick.Order)
}

func TestPutDuplicateTargetKeepsOriginalPositionButLatestValue(t *testing.T) {
	b := New()
	t0 := time.Unix(0, 0)

	first := input(t0, "workload-a")
	first.Sensor = "first"
	b.Put(first)

	b.Put(input(t0, "workload-b"))

	second := input(t0, "workload-a")
	second.Sensor = "second"
	b.Put(second)

	tick, ok := b.Pop()
	require.True(t, ok)
	assert.Equal(t, []string{"workload-a", "workload-b"}, tick.Order)
	assert.Equal(t, "second", tick.Reports["workload-a"].Sensor)
}
