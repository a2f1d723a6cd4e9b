// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package perfbench ties counter measurements to a benchmark loop: either a
// lexical scope ([StartBlock]) or a *testing.B ([Open]).
package perfbench

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"

	"github.com/aclements/go-perfcount/perf"
)

// A Block couples a counter session to a lexical scope. StartBlock arms the
// session; deferring End stops it, averages over the iteration count, and
// renders the report, exactly once no matter how the scope exits.
type Block struct {
	c    *perf.Counter
	n    uint64
	out  io.Writer
	once sync.Once
}

// StartBlock opens a counter session and starts it immediately. n is the
// iteration count of the benchmark loop the block wraps; the report divides
// every value by it.
//
//	b, err := perfbench.StartBlock(n)
//	if err != nil { ... }
//	defer b.End()
//	for i := 0; i < n; i++ { ... }
func StartBlock(n uint64, opts ...perf.Option) (*Block, error) {
	if n == 0 {
		return nil, perf.ErrBadIterationCount
	}
	c, err := perf.Open(opts...)
	if err != nil {
		return nil, err
	}
	if err := c.Start(); err != nil {
		c.Close()
		return nil, err
	}
	return &Block{c: c, n: n, out: os.Stdout}, nil
}

// SetOutput redirects the rendered report, which defaults to stdout.
func (b *Block) SetOutput(w io.Writer) { b.out = w }

// End stops the session, emits the averaged report, and closes the session.
// Only the first call does anything.
func (b *Block) End() {
	b.once.Do(func() {
		defer b.c.Close()
		m, err := b.c.Stop()
		if err != nil {
			slog.Error("block measurement failed", "err", err)
			return
		}
		avg, err := m.Averaged(b.n)
		if err != nil {
			slog.Error("block measurement failed", "err", err)
			return
		}
		fmt.Fprint(b.out, avg.Render())
	})
}
