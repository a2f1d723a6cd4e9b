// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// perfcount runs a calibration loop under the hardware counters and prints
// the per-iteration averages. It exists to sanity check a machine's counter
// setup and to demonstrate the library.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/lmittmann/tint"

	"github.com/aclements/go-perfcount/events"
	"github.com/aclements/go-perfcount/perf"
	"github.com/aclements/go-perfcount/perfbench"
)

var (
	iters     = flag.Uint64("n", 1_000_000, "iterations of the calibration loop")
	eventList = flag.String("events", "", "comma-separated event names (default: the representative six)")
	useBlock  = flag.Bool("block", false, "drive the scoped block instead of explicit start/stop")
	verbose   = flag.Bool("v", false, "debug logging")
)

// sink defeats dead-code elimination of the calibration loop.
var sink uint64

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: perfcount [flags]\n\nFlags:\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(tint.NewHandler(os.Stderr, &tint.Options{
		Level:      level,
		TimeFormat: time.Kitchen,
	})))

	var opts []perf.Option
	opts = append(opts, perf.WithStablePlacement())
	if *eventList != "" {
		var evs []events.Event
		for _, name := range strings.Split(*eventList, ",") {
			ev, err := events.Parse(strings.TrimSpace(name))
			if err != nil {
				fatal(err)
			}
			evs = append(evs, ev)
		}
		opts = append(opts, perf.WithEvents(evs...))
	}

	if *useBlock {
		b, err := perfbench.StartBlock(*iters, opts...)
		if err != nil {
			fatal(err)
		}
		defer b.End()
		spin(*iters)
		return
	}

	c, err := perf.Open(opts...)
	if err != nil {
		fatal(err)
	}
	defer c.Close()

	if err := c.Start(); err != nil {
		fatal(err)
	}
	spin(*iters)
	m, err := c.Stop()
	if err != nil {
		fatal(err)
	}

	avg, err := m.Averaged(*iters)
	if err != nil {
		fatal(err)
	}
	fmt.Print(avg.Render())
}

// spin is the calibration workload: one divide and one add per iteration.
func spin(n uint64) {
	var acc uint64
	for i := uint64(0); i < n; i++ {
		acc += 0xABCDEF03 / (i + 1)
	}
	sink = acc
}

func fatal(err error) {
	slog.Error("perfcount failed", "err", err)
	os.Exit(1)
}
