// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package perf

import (
	"errors"
	"slices"

	"github.com/aclements/go-perfcount/events"
)

// ErrBadIterationCount reports an averaging divisor of zero, which is a
// caller contract violation.
var ErrBadIterationCount = errors.New("iteration count must be positive")

// A Value is a numeric type a Measurement can carry: raw snapshots count in
// uint64, averaged measurements in float64 so fractional per-iteration
// values survive.
type Value interface {
	~uint64 | ~float64
}

// A Sample is one event's value within a Measurement.
type Sample[N Value] struct {
	Event events.Event
	Value N
}

// A Measurement holds the counter deltas and elapsed wall time of one
// start/stop interval. It is immutable once constructed; its event set is
// exactly the session's assigned-event set.
type Measurement[N Value] struct {
	samples   []Sample[N]
	elapsedNS N
}

// Samples returns the event samples in assignment order.
func (m Measurement[N]) Samples() []Sample[N] {
	return slices.Clone(m.samples)
}

// Count returns the measured value for ev.
func (m Measurement[N]) Count(ev events.Event) (N, bool) {
	for _, s := range m.samples {
		if s.Event == ev {
			return s.Value, true
		}
	}
	var zero N
	return zero, false
}

// ElapsedNS returns the measured wall time in nanoseconds.
func (m Measurement[N]) ElapsedNS() N {
	return m.elapsedNS
}

// Averaged divides every sample and the elapsed time by n, yielding the
// per-iteration average for an n-iteration benchmark loop.
func (m Measurement[N]) Averaged(n uint64) (Measurement[float64], error) {
	if n == 0 {
		return Measurement[float64]{}, ErrBadIterationCount
	}
	samples := make([]Sample[float64], len(m.samples))
	for i, s := range m.samples {
		samples[i] = Sample[float64]{Event: s.Event, Value: float64(s.Value) / float64(n)}
	}
	return Measurement[float64]{
		samples:   samples,
		elapsedNS: float64(m.elapsedNS) / float64(n),
	}, nil
}
