// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package perf

import (
	"errors"
	"slices"
	"testing"

	"github.com/aclements/go-perfcount/events"
	"github.com/aclements/go-perfcount/kpc"
)

// openReal opens a session on the real backend, skipping when the facility
// or the privilege for it is missing.
func openReal(t *testing.T, evs ...events.Event) *Counter {
	t.Helper()
	if !kpc.Supported() {
		t.Skip("no counter facility on this system")
	}
	skipWithoutEncodings(t)
	c, err := Open(WithEvents(evs...))
	if err != nil {
		if errors.Is(err, kpc.ErrUnavailable) || errors.Is(err, ErrConfigRejected) {
			t.Skipf("counters unavailable: %v", err)
		}
		t.Fatal(err)
	}
	return c
}

var sink uint64

func spin(n int) {
	var acc uint64
	for i := 0; i < n; i++ {
		acc += 0xABCDEF03 / uint64(i+1)
	}
	sink = acc
}

// An immediate stop after start must see only the fixed per-read overhead.
func TestImmediateStopNearZero(t *testing.T) {
	c := openReal(t, events.EventInstructions, events.EventCycles)
	defer c.Close()

	const bound = 10_000_000 // calibrated generously; reads cost thousands of instructions at most
	for trial := 0; trial < 10; trial++ {
		if err := c.Start(); err != nil {
			t.Fatal(err)
		}
		m, err := c.Stop()
		if err != nil {
			t.Fatal(err)
		}
		for _, s := range m.Samples() {
			if s.Value > bound {
				t.Errorf("trial %d: %s delta %d exceeds empty-interval bound %d", trial, s.Event, s.Value, bound)
			}
		}
	}
}

// Instruction counts must scale with the measured workload.
func TestLoopScaling(t *testing.T) {
	c := openReal(t, events.EventInstructions)
	defer c.Close()

	measure := func(n int) uint64 {
		t.Helper()
		if err := c.Start(); err != nil {
			t.Fatal(err)
		}
		spin(n)
		m, err := c.Stop()
		if err != nil {
			t.Fatal(err)
		}
		v, ok := m.Count(events.EventInstructions)
		if !ok {
			t.Fatal("instructions not measured")
		}
		return v
	}

	// p95 over repeated trials to tolerate preemption noise.
	p95 := func(n, trials int) uint64 {
		vals := make([]uint64, trials)
		for i := range vals {
			vals[i] = measure(n)
		}
		slices.Sort(vals)
		return vals[trials*95/100]
	}

	small := p95(1_000, 20)
	large := p95(100_000, 20)
	if large <= small {
		t.Errorf("instructions not monotonic in workload: %d iterations -> %d, %d iterations -> %d",
			1_000, small, 100_000, large)
	}
}
