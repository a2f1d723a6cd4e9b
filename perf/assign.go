// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package perf

import (
	"log/slog"

	"github.com/aclements/go-perfcount/events"
)

// An Assigned pairs an event with the physical register index counting it.
type Assigned struct {
	Event    events.Event
	Register int
}

// An Assignment is an ordered event-to-register mapping. Raw counter reads
// at index i belong to entry i; no register index appears twice.
type Assignment []Assigned

// Assign maps the requested events onto nRegisters configurable registers,
// first come first served: the first nRegisters requests get a register, the
// remainder is dropped from measurement. Over-subscription is informational,
// not an error; it is reported once through logger.
func Assign(requested []events.Event, nRegisters int, logger *slog.Logger) Assignment {
	n := min(len(requested), nRegisters)
	if n < 0 {
		n = 0
	}
	a := make(Assignment, n)
	for i := 0; i < n; i++ {
		a[i] = Assigned{Event: requested[i], Register: i}
	}
	if len(requested) > nRegisters {
		if logger == nil {
			logger = slog.Default()
		}
		logger.Warn("more events requested than configurable registers; extra events will not be measured",
			"requested", len(requested), "registers", nRegisters)
	}
	return a
}

// Events returns the assigned events in register order.
func (a Assignment) Events() []events.Event {
	evs := make([]events.Event, len(a))
	for i, e := range a {
		evs[i] = e.Event
	}
	return evs
}
