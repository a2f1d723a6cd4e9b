// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

//go:build linux

package kpc

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"os"
	"strconv"
	"syscall"
	"unsafe"

	"golang.org/x/sys/unix"
)

const defaultClasses = ClassConfigurable

// UserModeOnly is ORed into every configuration word before programming.
// It is zero here: the perf backend expresses user-mode-only capture through
// the attr exclude bits instead of a config bit.
const UserModeOnly uint64 = 0

// maxConfigurable is what ConfigCount reports. perf exposes no register
// budget; the cores this module targets have at least this many programmable
// counters, and staying at or below it keeps the kernel from multiplexing
// events over time, which this module does not model.
const maxConfigurable = 6

// PackConfig packs a perf event type and config into a single backend
// configuration word. The type is stored off-by-one so that a zero word
// keeps meaning "register not programmed".
func PackConfig(typ uint32, config uint64) uint64 {
	return uint64(typ+1)<<32 | config&0xffffffff
}

func unpackConfig(w uint64) (typ uint32, config uint64, ok bool) {
	if w>>32 == 0 {
		return 0, 0, false
	}
	return uint32(w>>32) - 1, w & 0xffffffff, true
}

// perfBackend renders the kpc contract over perf_event_open: one event fd
// per configured register, opened disabled by SetConfig and enabled by
// SetCounting. Events are opened for the calling thread only, so
// SetThreadCounting has nothing left to do. Reprogramming closes the
// previous registers' fds.
type perfBackend struct {
	fds []int
}

func resolve() (Backend, error) {
	if !Supported() {
		return nil, fmt.Errorf("%w: kernel lacks perf_event_open", ErrUnavailable)
	}
	return &perfBackend{}, nil
}

// Supported reports whether the kernel supports perf_event_open. The
// existence of the perf_event_paranoid file is the official way to check.
func Supported() bool {
	_, err := os.Stat("/proc/sys/kernel/perf_event_paranoid")
	return err == nil
}

func (b *perfBackend) Classes() Class { return defaultClasses }

func (b *perfBackend) ConfigCount(Class) (int, error) { return maxConfigurable, nil }

func (b *perfBackend) CounterCount(Class) (int, error) { return maxConfigurable, nil }

func (b *perfBackend) SetConfig(_ Class, configs []uint64) error {
	b.closeAll()
	for _, w := range configs {
		typ, config, ok := unpackConfig(w)
		if !ok {
			// Programmed words form a prefix.
			break
		}
		attr := unix.PerfEventAttr{
			Type:   typ,
			Config: config,
			Bits:   unix.PerfBitDisabled | unix.PerfBitExcludeKernel | unix.PerfBitExcludeHv,
		}
		attr.Size = uint32(unsafe.Sizeof(attr))
		fd, err := unix.PerfEventOpen(&attr, 0, -1, -1, unix.PERF_FLAG_FD_CLOEXEC)
		if err != nil {
			b.closeAll()
			return fmt.Errorf("perf_event_open(type=%d, config=%#x): %w", typ, config, paranoidHint(err))
		}
		b.fds = append(b.fds, fd)
	}
	return nil
}

// paranoidHint decorates permission errors with the sysctl most likely to
// fix them.
func paranoidHint(err error) error {
	if errors.Is(err, syscall.EACCES) {
		const path = "/proc/sys/kernel/perf_event_paranoid"
		data, err2 := os.ReadFile(path)
		data = bytes.TrimSpace(data)
		if val, err3 := strconv.Atoi(string(data)); err2 != nil || err3 != nil || val > 0 {
			// We can't read it, or it's set to > 0.
			return fmt.Errorf("%w (consider: echo 0 | sudo tee %s)", err, path)
		}
	}
	return err
}

// ForceAllCounters is the darwin fixed-counter quirk; perf has no
// equivalent, so this is the documented no-op.
func (b *perfBackend) ForceAllCounters(bool) error { return nil }

func (b *perfBackend) SetCounting(Class) error {
	for _, fd := range b.fds {
		if err := unix.IoctlSetInt(fd, unix.PERF_EVENT_IOC_ENABLE, 0); err != nil {
			return fmt.Errorf("PERF_EVENT_IOC_ENABLE: %w", err)
		}
	}
	return nil
}

func (b *perfBackend) SetThreadCounting(Class) error { return nil }

func (b *perfBackend) ReadThreadCounters(_ int, buf []uint64) error {
	for i := range buf {
		buf[i] = 0
	}
	var raw [8]byte
	for i, fd := range b.fds {
		if i >= len(buf) {
			break
		}
		n, err := unix.Read(fd, raw[:])
		if err != nil {
			return fmt.Errorf("read counter %d: %w", i, err)
		}
		if n != len(raw) {
			return fmt.Errorf("read counter %d: short read (%d bytes)", i, n)
		}
		buf[i] = binary.NativeEndian.Uint64(raw[:])
	}
	return nil
}

func (b *perfBackend) closeAll() {
	for _, fd := range b.fds {
		unix.Close(fd)
	}
	b.fds = nil
}
