// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

//go:build darwin

package kpc

import (
	"fmt"
	"os"
	"runtime"
	"unsafe"

	"github.com/ebitengine/purego"
)

// kperfPath is the private framework the XNU counter API lives in.
const kperfPath = "/System/Library/PrivateFrameworks/kperf.framework/Versions/A/kperf"

// kperfBackend drives the kpc API through symbols resolved from
// kperf.framework: one field per backend operation.
type kperfBackend struct {
	forceAllCtrsSet   uintptr // kpc_force_all_ctrs_set(int) int
	getConfigCount    uintptr // kpc_get_config_count(uint32) uint32
	getCounterCount   uintptr // kpc_get_counter_count(uint32) uint32
	setConfig         uintptr // kpc_set_config(uint32, *uint64) int
	setCounting       uintptr // kpc_set_counting(uint32) int
	setThreadCounting uintptr // kpc_set_thread_counting(uint32) int
	getThreadCounters uintptr // kpc_get_thread_counters(int, uint32, *uint64) int
}

func resolve() (Backend, error) {
	lib, err := purego.Dlopen(kperfPath, purego.RTLD_LAZY|purego.RTLD_GLOBAL)
	if err != nil {
		return nil, fmt.Errorf("%w: loading kperf: %v (did you forget to run as root?)", ErrUnavailable, err)
	}

	b := new(kperfBackend)
	for _, sym := range []struct {
		name string
		addr *uintptr
	}{
		{"kpc_force_all_ctrs_set", &b.forceAllCtrsSet},
		{"kpc_get_config_count", &b.getConfigCount},
		{"kpc_get_counter_count", &b.getCounterCount},
		{"kpc_set_config", &b.setConfig},
		{"kpc_set_counting", &b.setCounting},
		{"kpc_set_thread_counting", &b.setThreadCounting},
		{"kpc_get_thread_counters", &b.getThreadCounters},
	} {
		*sym.addr, err = purego.Dlsym(lib, sym.name)
		if err != nil {
			return nil, fmt.Errorf("%w: kperf missing symbol %s: %v", ErrUnavailable, sym.name, err)
		}
	}
	return b, nil
}

// Supported reports whether the kperf framework exists on this system.
// It says nothing about privilege; resolution can still fail.
func Supported() bool {
	_, err := os.Stat(kperfPath)
	return err == nil
}

// kpcError converts a nonzero kpc status into an error with the hint the
// failure almost always needs.
func kpcError(call string, status int32) error {
	return fmt.Errorf("%s failed with status %d (did you forget to run as root?)", call, status)
}

func (b *kperfBackend) Classes() Class { return defaultClasses }

func (b *kperfBackend) ConfigCount(classes Class) (int, error) {
	n, _, _ := purego.SyscallN(b.getConfigCount, uintptr(classes))
	return int(uint32(n)), nil
}

func (b *kperfBackend) CounterCount(classes Class) (int, error) {
	n, _, _ := purego.SyscallN(b.getCounterCount, uintptr(classes))
	return int(uint32(n)), nil
}

func (b *kperfBackend) SetConfig(classes Class, configs []uint64) error {
	if len(configs) == 0 {
		return nil
	}
	ret, _, _ := purego.SyscallN(b.setConfig, uintptr(classes), uintptr(unsafe.Pointer(&configs[0])))
	runtime.KeepAlive(configs)
	if int32(ret) != 0 {
		return kpcError("kpc_set_config", int32(ret))
	}
	return nil
}

func (b *kperfBackend) ForceAllCounters(enable bool) error {
	var arg uintptr
	if enable {
		arg = 1
	}
	if ret, _, _ := purego.SyscallN(b.forceAllCtrsSet, arg); int32(ret) != 0 {
		return kpcError("kpc_force_all_ctrs_set", int32(ret))
	}
	return nil
}

func (b *kperfBackend) SetCounting(classes Class) error {
	if ret, _, _ := purego.SyscallN(b.setCounting, uintptr(classes)); int32(ret) != 0 {
		return kpcError("kpc_set_counting", int32(ret))
	}
	return nil
}

func (b *kperfBackend) SetThreadCounting(classes Class) error {
	if ret, _, _ := purego.SyscallN(b.setThreadCounting, uintptr(classes)); int32(ret) != 0 {
		return kpcError("kpc_set_thread_counting", int32(ret))
	}
	return nil
}

func (b *kperfBackend) ReadThreadCounters(tid int, buf []uint64) error {
	if len(buf) == 0 {
		return nil
	}
	ret, _, _ := purego.SyscallN(b.getThreadCounters,
		uintptr(tid), uintptr(uint32(len(buf))), uintptr(unsafe.Pointer(&buf[0])))
	runtime.KeepAlive(buf)
	if int32(ret) != 0 {
		return kpcError("kpc_get_thread_counters", int32(ret))
	}
	return nil
}
