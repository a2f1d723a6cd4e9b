// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package perf

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aclements/go-perfcount/events"
)

func rawMeasurement() Measurement[uint64] {
	return Measurement[uint64]{
		samples: []Sample[uint64]{
			{Event: events.EventInstructions, Value: 1_000_000},
			{Event: events.EventCycles, Value: 350_001},
			{Event: events.EventBranchMisses, Value: 13},
		},
		elapsedNS: 250_000,
	}
}

func TestAveraged(t *testing.T) {
	m := rawMeasurement()
	avg, err := m.Averaged(1000)
	require.NoError(t, err)

	instr, ok := avg.Count(events.EventInstructions)
	require.True(t, ok)
	assert.InDelta(t, 1000.0, instr, 1e-9)
	cycles, ok := avg.Count(events.EventCycles)
	require.True(t, ok)
	assert.InDelta(t, 350.001, cycles, 1e-9)
	assert.InDelta(t, 250.0, avg.ElapsedNS(), 1e-9)
	assert.Len(t, avg.Samples(), len(m.Samples()))
}

func TestAveragedByOne(t *testing.T) {
	m := rawMeasurement()
	avg, err := m.Averaged(1)
	require.NoError(t, err)
	for _, s := range m.Samples() {
		v, ok := avg.Count(s.Event)
		require.True(t, ok)
		assert.InDelta(t, float64(s.Value), v, 1e-9)
	}
	assert.InDelta(t, float64(m.ElapsedNS()), avg.ElapsedNS(), 1e-9)
}

func TestAveragedZeroFails(t *testing.T) {
	_, err := rawMeasurement().Averaged(0)
	assert.ErrorIs(t, err, ErrBadIterationCount)
}

func TestCountMissingEvent(t *testing.T) {
	m := rawMeasurement()
	_, ok := m.Count(events.EventL2Misses)
	assert.False(t, ok)
}

func TestRenderRoundTrip(t *testing.T) {
	m := rawMeasurement()
	out := m.Render()

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.Len(t, lines, 2, "one header row, one data row")

	assert.Contains(t, lines[0], "Elapsed [ns]")
	for _, s := range m.Samples() {
		assert.Contains(t, lines[0], s.Event.Label())
	}
	// No event may be added by rendering.
	for ev := events.Event(0); ev < events.Event(100); ev++ {
		if _, ok := m.Count(ev); ok {
			continue
		}
		label := ev.Label()
		if label == "Unimplemented" {
			continue
		}
		assert.NotContains(t, lines[0], label, "rendering invented event %s", ev)
	}

	assert.Contains(t, lines[1], "1000000")
	assert.Contains(t, lines[1], "350001")
	assert.Contains(t, lines[1], "13")
	assert.Contains(t, lines[1], "250000")
}

func TestRenderAveragedFormatsFractions(t *testing.T) {
	avg, err := rawMeasurement().Averaged(1000)
	require.NoError(t, err)
	out := avg.Render()
	assert.Contains(t, out, "350.001")
	assert.Contains(t, out, "0.013")
	assert.Contains(t, out, "250.000")
}

func TestRenderEmptyMeasurement(t *testing.T) {
	m := Measurement[uint64]{elapsedNS: 42}
	out := m.Render()
	assert.Contains(t, out, "Elapsed [ns]")
	assert.Contains(t, out, "42")
}
