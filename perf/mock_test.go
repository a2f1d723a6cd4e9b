// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package perf

import (
	"fmt"

	"github.com/aclements/go-perfcount/kpc"
)

// fakeBackend scripts the counter facility for tests. Reads are served from
// the reads queue; the last snapshot repeats once the queue drains.
type fakeBackend struct {
	nConfig  int
	nCounter int

	configs []uint64
	forced  bool
	reads   [][]uint64
	calls   []string

	configErr error
	readErr   error
}

var _ kpc.Backend = (*fakeBackend)(nil)

func newFakeBackend(nConfig int, reads ...[]uint64) *fakeBackend {
	return &fakeBackend{nConfig: nConfig, nCounter: nConfig, reads: reads}
}

func (b *fakeBackend) Classes() kpc.Class { return kpc.ClassConfigurable }

func (b *fakeBackend) ConfigCount(kpc.Class) (int, error) {
	b.calls = append(b.calls, "ConfigCount")
	return b.nConfig, nil
}

func (b *fakeBackend) CounterCount(kpc.Class) (int, error) {
	b.calls = append(b.calls, "CounterCount")
	return b.nCounter, nil
}

func (b *fakeBackend) SetConfig(_ kpc.Class, configs []uint64) error {
	b.calls = append(b.calls, "SetConfig")
	if b.configErr != nil {
		return b.configErr
	}
	b.configs = append([]uint64(nil), configs...)
	return nil
}

func (b *fakeBackend) ForceAllCounters(enable bool) error {
	b.calls = append(b.calls, fmt.Sprintf("ForceAllCounters(%v)", enable))
	b.forced = enable
	return nil
}

func (b *fakeBackend) SetCounting(kpc.Class) error {
	b.calls = append(b.calls, "SetCounting")
	return nil
}

func (b *fakeBackend) SetThreadCounting(kpc.Class) error {
	b.calls = append(b.calls, "SetThreadCounting")
	return nil
}

func (b *fakeBackend) ReadThreadCounters(_ int, buf []uint64) error {
	b.calls = append(b.calls, "ReadThreadCounters")
	if b.readErr != nil {
		return b.readErr
	}
	if len(b.reads) == 0 {
		return fmt.Errorf("no scripted reads left")
	}
	cur := b.reads[0]
	if len(b.reads) > 1 {
		b.reads = b.reads[1:]
	}
	for i := range buf {
		buf[i] = 0
		if i < len(cur) {
			buf[i] = cur[i]
		}
	}
	return nil
}
