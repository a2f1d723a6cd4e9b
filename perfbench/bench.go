// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package perfbench

import (
	"fmt"
	"sync"
	"testing"

	"github.com/aclements/go-perfcount/events"
	"github.com/aclements/go-perfcount/perf"
)

// Counters is a counter session bound to a benchmark. Its final value is
// reported as per-op metrics when the benchmark ends.
type Counters struct {
	b  testingB
	bN int

	c     *perf.Counter
	final *perf.Measurement[uint64]
}

// testingB is the *testing.B surface Counters needs. Used for testing.
type testingB interface {
	ReportMetric(n float64, unit string)
	Logf(format string, args ...any)
	Cleanup(func())
}

// unitOnce dedupes the benchfmt unit metadata lines per event name.
var unitOnce sync.Map

func printUnits(evs []events.Event) {
	for _, ev := range evs {
		if _, dup := unitOnce.LoadOrStore(ev.String(), true); !dup {
			// All events are better=lower.
			fmt.Printf("Unit %s/op better=lower\n", ev)
		}
	}
}

// openErrors dedupes open failures so a large benchmark suite logs each
// cause once instead of flooding the output.
var openErrors sync.Map

// Open starts a set of performance counters for benchmark b, reported as
// metrics when the benchmark ends. The counters measure the calling
// goroutine only and are running on return. If the counter facility is
// unavailable the benchmark still runs; the failure is logged once.
//
// The final value is captured in a b.Cleanup function. Benchmarks that do
// substantial other work in cleanup should call [Counters.Stop] explicitly
// before returning.
func Open(b *testing.B, evs ...events.Event) *Counters {
	return open(b, b.N, evs...)
}

func open(b testingB, bN int, evs ...events.Event) *Counters {
	if len(evs) == 0 {
		evs = events.Default()
	}
	printUnits(evs)

	cs := &Counters{b: b, bN: bN}
	c, err := perf.Open(perf.WithEvents(evs...))
	if err != nil {
		msg := fmt.Sprintf("error opening counters: %v", err)
		if _, prev := openErrors.Swap(msg, true); !prev {
			b.Logf("%s", msg)
		}
	} else if err := c.Start(); err != nil {
		b.Logf("error starting counters: %v", err)
		c.Close()
	} else {
		cs.c = c
	}

	b.Cleanup(cs.close)
	return cs
}

// Start re-arms the counters, discarding any interval captured by Stop.
// Pair with the equivalent b.ResetTimer or b.StartTimer calls.
func (cs *Counters) Start() {
	if cs.c == nil {
		return
	}
	cs.final = nil
	if err := cs.c.Start(); err != nil {
		cs.b.Logf("error starting counters: %v", err)
	}
}

// Stop captures the interval that will be reported at benchmark end.
func (cs *Counters) Stop() {
	if cs.c == nil || cs.final != nil {
		return
	}
	m, err := cs.c.Stop()
	if err != nil {
		cs.b.Logf("error reading counters: %v", err)
		return
	}
	cs.final = &m
}

func (cs *Counters) close() {
	if cs.b == nil {
		return
	}
	if cs.c != nil {
		cs.Stop()
		cs.c.Close()
	}
	if cs.final != nil && cs.bN > 0 {
		if avg, err := cs.final.Averaged(uint64(cs.bN)); err == nil {
			for _, s := range avg.Samples() {
				cs.b.ReportMetric(s.Value, s.Event.String()+"/op")
			}
		}
	}
	cs.b = nil
}
