// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package perf

import (
	"log/slog"

	"github.com/aclements/go-perfcount/events"
	"github.com/aclements/go-perfcount/kpc"
)

type config struct {
	events          []events.Event
	logger          *slog.Logger
	backend         kpc.Backend
	stablePlacement bool
}

// An Option configures a Counter.
type Option func(*config)

// WithEvents sets the ordered list of events to measure, replacing the
// default representative set. Duplicates are permitted but waste registers.
func WithEvents(evs ...events.Event) Option {
	return func(c *config) { c.events = evs }
}

// WithLogger routes the session's diagnostics, notably the over-subscription
// warning, to l instead of [slog.Default].
func WithLogger(l *slog.Logger) Option {
	return func(c *config) { c.logger = l }
}

// WithBackend substitutes the counter backend, bypassing the process-wide
// resolution. Intended for test doubles.
func WithBackend(b kpc.Backend) Option {
	return func(c *config) { c.backend = b }
}

// WithStablePlacement asks the OS to keep the measuring thread on a
// high-performance core class before measuring. Best effort and irrelevant
// to correctness; on big/little parts it reduces measurement noise.
func WithStablePlacement() Option {
	return func(c *config) { c.stablePlacement = true }
}
