// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package kpc resolves and exposes the privileged hardware-counter facility.
//
// The facility is modeled as a small [Backend] interface with one named
// method per operation. On darwin the implementation binds the kpc_* symbols
// of the private kperf framework at runtime; on Linux the same contract is
// rendered over perf_event_open. Everything above this package depends only
// on the interface, so tests can substitute a double.
//
// Resolution happens at most once per process; see [Resolve].
package kpc

import (
	"errors"
	"sync"
)

// A Class selects groups of hardware counter registers.
type Class uint32

const (
	ClassFixed Class = 1 << iota
	ClassConfigurable
	ClassPower
	ClassRawPMU
)

// ErrUnavailable reports that the privileged counter facility could not be
// located or lacks required entry points. The usual cause is running without
// the privilege the facility demands.
var ErrUnavailable = errors.New("hardware counter backend unavailable")

// Backend is the contract of the privileged counter facility.
//
// A backend is scoped to the process and thread, not virtualized per caller:
// programming registers affects whatever the hardware is counting for the
// calling thread. Callers do not retry failed backend calls.
type Backend interface {
	// Classes returns the register-class selector this build engages.
	Classes() Class

	// ConfigCount returns the number of configurable counter registers
	// available under classes.
	ConfigCount(classes Class) (int, error)

	// CounterCount returns the number of values a thread counter read
	// returns under classes.
	CounterCount(classes Class) (int, error)

	// SetConfig programs the configurable registers, one configuration word
	// each. Words form a prefix: a zero word marks an unprogrammed register.
	SetConfig(classes Class, configs []uint64) error

	// ForceAllCounters forces every counter on or off. Some architectures
	// need fixed counters explicitly forced; elsewhere this is a no-op.
	ForceAllCounters(enable bool) error

	// SetCounting enables counting for the given classes.
	SetCounting(classes Class) error

	// SetThreadCounting enables per-thread counting for the given classes.
	SetThreadCounting(classes Class) error

	// ReadThreadCounters reads the calling thread's counter values into buf,
	// one per counter. tid 0 means the calling thread.
	ReadThreadCounters(tid int, buf []uint64) error
}

var resolveOnce = sync.OnceValues(resolve)

// Resolve returns the process-wide backend. The first call performs the
// platform lookup; its result, success or failure, is cached for the life of
// the process and is safe for concurrent first access from multiple
// goroutines.
func Resolve() (Backend, error) {
	return resolveOnce()
}
