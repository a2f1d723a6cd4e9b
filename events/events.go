// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package events defines the closed set of hardware performance events this
// module can count.
//
// An [Event] is purely symbolic. The register configuration word it encodes
// to is backend- and architecture-specific and comes from [Event.Config];
// a build targets exactly one instruction-set family.
package events

import "fmt"

// An Event identifies a hardware performance event.
type Event int

const (
	// EventInstructions counts instructions retired.
	EventInstructions Event = iota
	// EventL1Misses counts L1 data cache load misses.
	EventL1Misses
	// EventLLCMisses counts last-level cache misses.
	EventLLCMisses
	// EventBranchMisses counts mispredicted branches retired.
	EventBranchMisses
	// EventCycles counts unhalted core cycles.
	EventCycles
	// EventBranches counts branch instructions retired.
	EventBranches
	// EventL2Misses counts L2 cache misses.
	EventL2Misses
	// EventLLCReferences counts last-level cache references.
	EventLLCReferences
	// EventRefCycles counts unhalted reference cycles.
	EventRefCycles

	numEvents
)

var eventNames = [numEvents]string{
	EventInstructions:  "instructions",
	EventL1Misses:      "l1-misses",
	EventLLCMisses:     "llc-misses",
	EventBranchMisses:  "branch-misses",
	EventCycles:        "cycles",
	EventBranches:      "branches",
	EventL2Misses:      "l2-misses",
	EventLLCReferences: "llc-references",
	EventRefCycles:     "ref-cycles",
}

var eventLabels = [numEvents]string{
	EventInstructions:  "Instructions",
	EventL1Misses:      "L1 misses",
	EventLLCMisses:     "LLC misses",
	EventBranchMisses:  "Branch misses",
	EventCycles:        "Cycles",
	EventBranches:      "Branches",
	EventL2Misses:      "L2 misses",
	EventLLCReferences: "LLC references",
	EventRefCycles:     "Reference cycles",
}

// String returns the event's name in the style used by "perf record -e".
func (e Event) String() string {
	if e < 0 || e >= numEvents {
		return fmt.Sprintf("event(%d)", int(e))
	}
	return eventNames[e]
}

// Label returns the event's display label for table headers. Labeling is
// cosmetic, so an unknown event yields "Unimplemented" rather than an error.
func (e Event) Label() string {
	if e < 0 || e >= numEvents {
		return "Unimplemented"
	}
	return eventLabels[e]
}

// Parse resolves an event name as printed by [Event.String].
func Parse(name string) (Event, error) {
	for ev := Event(0); ev < numEvents; ev++ {
		if eventNames[ev] == name {
			return ev, nil
		}
	}
	return 0, fmt.Errorf("unknown event %q", name)
}

// Default returns the representative set a session measures when the caller
// does not pick events.
func Default() []Event {
	return []Event{
		EventInstructions,
		EventL1Misses,
		EventLLCMisses,
		EventBranchMisses,
		EventCycles,
		EventBranches,
	}
}
