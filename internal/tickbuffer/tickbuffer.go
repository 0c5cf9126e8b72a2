// SPDX-FileCopyrightText: 2025 The SmartWatts Authors
// SPDX-License-Identifier: Apache-2.0

// Package tickbuffer implements the ordered timestamp -> {target -> report}
// mapping the formula engine uses to accumulate fragments of one sampling
// instant until it is safe to process.
package tickbuffer

import (
	"sort"
	"time"

	"github.com/smartwatts-project/smartwatts-formula/internal/report"
)

type tick struct {
	order   []string // target insertion order, first-seen position retained
	reports map[string]report.Input
}

// Buffer is a mapping from tick timestamp to the per-target reports seen
// for that tick so far, with ticks kept in chronological order. Given
// monotone arrival this coincides with insertion order.
type Buffer struct {
	order []time.Time
	data  map[time.Time]*tick
}

// New returns an empty Buffer.
func New() *Buffer {
	return &Buffer{data: make(map[time.Time]*tick)}
}

// Put places in into buffer[in.Timestamp][in.Target], overwriting any
// report already stored for that (timestamp, target) pair. A duplicate
// (timestamp, target) retains its original position in target order, but
// the second report's contents win.
func (b *Buffer) Put(in report.Input) {
	t, ok := b.data[in.Timestamp]
	if !ok {
		t = &tick{reports: make(map[string]report.Input)}
		b.data[in.Timestamp] = t
		i := sort.Search(len(b.order), func(i int) bool {
			return b.order[i].After(in.Timestamp)
		})
		b.order = append(b.order, time.Time{})
		copy(b.order[i+1:], b.order[i:])
		b.order[i] = in.Timestamp
	}
	if _, seen := t.reports[in.Target]; !seen {
		t.order = append(t.order, in.Target)
	}
	t.reports[in.Target] = in
}

// Len returns the number of distinct ticks currently buffered.
func (b *Buffer) Len() int {
	return len(b.order)
}

// Tick is one popped tick's contents: the target insertion order and the
// reports keyed by target.
type Tick struct {
	Timestamp time.Time
	Order     []string
	Reports   map[string]report.Input
}

// Pop removes and returns the oldest tick. ok is false if the buffer is
// empty.
func (b *Buffer) Pop() (Tick, bool) {
	if len(b.order) == 0 {
		return Tick{}, false
	}
	ts := b.order[0]
	b.order = b.order[1:]
	t := b.data[ts]
	delete(b.data, ts)
	return Tick{Timestamp: ts, Order: t.order, Reports: t.reports}, true
}
