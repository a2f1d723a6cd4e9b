// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package events

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNamesAndLabelsTotal(t *testing.T) {
	seen := map[string]bool{}
	for ev := Event(0); ev < numEvents; ev++ {
		name := ev.String()
		assert.NotEmpty(t, name)
		assert.False(t, seen[name], "duplicate name %q", name)
		seen[name] = true

		label := ev.Label()
		assert.NotEmpty(t, label)
		assert.NotEqual(t, "Unimplemented", label, "event %s has no label", name)
	}
}

func TestUnknownEventLabel(t *testing.T) {
	assert.Equal(t, "Unimplemented", Event(1000).Label())
	assert.Equal(t, "Unimplemented", Event(-1).Label())
}

func TestParseRoundTrip(t *testing.T) {
	for ev := Event(0); ev < numEvents; ev++ {
		got, err := Parse(ev.String())
		require.NoError(t, err)
		assert.Equal(t, ev, got)
	}

	_, err := Parse("no-such-event")
	assert.Error(t, err)
}

func TestDefault(t *testing.T) {
	def := Default()
	require.Len(t, def, 6)
	assert.Equal(t, EventInstructions, def[0])

	// Callers can mangle the returned slice freely.
	def[0] = Event(1000)
	assert.Equal(t, EventInstructions, Default()[0])
}
