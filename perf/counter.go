// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package perf samples hardware performance counters around a region of code
// and reports the per-iteration average.
//
// A [Counter] is constructed once per measurement campaign: construction
// resolves the counter backend, assigns the requested events to the
// available configurable registers, and programs and enables them. Start and
// Stop may then be called repeatedly; each pair yields a [Measurement] of
// the interval.
package perf

import (
	"errors"
	"fmt"
	"log/slog"
	"runtime"
	"time"

	"github.com/aclements/go-perfcount/events"
	"github.com/aclements/go-perfcount/kpc"
)

var (
	// ErrConfigRejected reports that the backend accepted discovery but
	// refused register programming or enablement. Fatal to construction.
	ErrConfigRejected = errors.New("counter configuration rejected")

	// ErrReadFailed reports that a counter read failed after construction.
	// The session is in an indeterminate state and must be discarded.
	ErrReadFailed = errors.New("counter read failed")

	// ErrNotStarted reports Stop without a preceding Start.
	ErrNotStarted = errors.New("counter not started")
)

// resolveBackend is a variable so tests can simulate resolution failure.
var resolveBackend = kpc.Resolve

// A Counter samples the calling thread's hardware counters.
//
// A Counter instruments exactly one thread and must be driven from a single
// goroutine; Start and Stop are not reentrant and have no internal locking.
// Separate goroutines may each own their own Counter.
type Counter struct {
	backend    kpc.Backend
	classes    kpc.Class
	assignment Assignment
	logger     *slog.Logger

	startBuf  []uint64
	stopBuf   []uint64
	startTime time.Time
	started   bool
	closed    bool
}

// Open resolves the counter backend, assigns the requested events to the
// backend's configurable registers, and programs and enables counting for
// the calling thread. The calling goroutine is locked to its OS thread until
// [Counter.Close], since the programmed counters are thread-scoped.
//
// Construction is the expensive step; Start and Stop are designed to add as
// little overhead as possible to the measured region. If more events are
// requested than the backend has registers, the excess is dropped with a
// diagnostic and measurement proceeds with the truncated set.
func Open(opts ...Option) (*Counter, error) {
	cfg := config{
		events: events.Default(),
		logger: slog.Default(),
	}
	for _, o := range opts {
		o(&cfg)
	}

	runtime.LockOSThread()
	success := false
	defer func() {
		if !success {
			runtime.UnlockOSThread()
		}
	}()

	if cfg.stablePlacement {
		requestStablePlacement()
	}

	backend := cfg.backend
	if backend == nil {
		var err error
		backend, err = resolveBackend()
		if err != nil {
			return nil, err
		}
	}
	classes := backend.Classes()

	nConfig, err := backend.ConfigCount(classes)
	if err != nil {
		return nil, fmt.Errorf("%w: config count: %v", ErrConfigRejected, err)
	}
	nCounter, err := backend.CounterCount(classes)
	if err != nil {
		return nil, fmt.Errorf("%w: counter count: %v", ErrConfigRejected, err)
	}

	assignment := Assign(cfg.events, nConfig, cfg.logger)

	configs := make([]uint64, nConfig)
	for i, a := range assignment {
		word, err := a.Event.Config()
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrConfigRejected, err)
		}
		configs[i] = word | kpc.UserModeOnly
	}

	if err := backend.SetConfig(classes, configs); err != nil {
		return nil, fmt.Errorf("%w: set config: %v", ErrConfigRejected, err)
	}
	if err := backend.ForceAllCounters(true); err != nil {
		return nil, fmt.Errorf("%w: force counters: %v", ErrConfigRejected, err)
	}
	if err := backend.SetCounting(classes); err != nil {
		return nil, fmt.Errorf("%w: enable counting: %v", ErrConfigRejected, err)
	}
	if err := backend.SetThreadCounting(classes); err != nil {
		return nil, fmt.Errorf("%w: enable thread counting: %v", ErrConfigRejected, err)
	}

	if nCounter < len(assignment) {
		nCounter = len(assignment)
	}

	success = true
	return &Counter{
		backend:    backend,
		classes:    classes,
		assignment: assignment,
		logger:     cfg.logger,
		startBuf:   make([]uint64, nCounter),
		stopBuf:    make([]uint64, nCounter),
	}, nil
}

// Assignment returns the session's event-to-register assignment.
func (c *Counter) Assignment() Assignment {
	a := make(Assignment, len(c.assignment))
	copy(a, c.assignment)
	return a
}

// Start captures the baseline snapshot and timestamp. No allocation, no
// backend reconfiguration, a single read call.
func (c *Counter) Start() error {
	c.startTime = time.Now()
	if err := c.backend.ReadThreadCounters(0, c.startBuf); err != nil {
		return fmt.Errorf("%w: %v", ErrReadFailed, err)
	}
	c.started = true
	return nil
}

// Stop captures a second snapshot and returns the counter deltas and elapsed
// wall time since Start. The Counter may be started again without
// reconstruction; only the initial programming is once per session.
//
// Deltas are unsigned differences: if a hardware register wrapped around
// during the interval the result is only correct modulo the register width.
// Overflow is not detected or corrected.
func (c *Counter) Stop() (Measurement[uint64], error) {
	if !c.started {
		return Measurement[uint64]{}, ErrNotStarted
	}
	if err := c.backend.ReadThreadCounters(0, c.stopBuf); err != nil {
		return Measurement[uint64]{}, fmt.Errorf("%w: %v", ErrReadFailed, err)
	}
	elapsed := time.Since(c.startTime)
	c.started = false

	samples := make([]Sample[uint64], len(c.assignment))
	for i, a := range c.assignment {
		samples[i] = Sample[uint64]{Event: a.Event, Value: c.stopBuf[a.Register] - c.startBuf[a.Register]}
	}
	return Measurement[uint64]{
		samples:   samples,
		elapsedNS: uint64(elapsed.Nanoseconds()),
	}, nil
}

// Close reverts the backend's force-counters state and releases the OS
// thread. It does not disable counting or deprogram registers; teardown is
// deliberately this narrow.
func (c *Counter) Close() {
	if c == nil || c.closed {
		return
	}
	c.closed = true
	if err := c.backend.ForceAllCounters(false); err != nil {
		c.logger.Warn("could not unforce counters", "err", err)
	}
	runtime.UnlockOSThread()
}
