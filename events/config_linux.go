// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

//go:build linux

package events

import (
	"fmt"

	"golang.org/x/sys/unix"

	"github.com/aclements/go-perfcount/kpc"
)

// The perf renditions of the catalog. Generic hardware events are used where
// the kernel defines one; the cache-hierarchy events use the HW_CACHE
// encoding (cache | op<<8 | result<<16), matching how perf itself spells
// L1-dcache-load-misses and friends.

func hw(config uint64) uint64 {
	return kpc.PackConfig(unix.PERF_TYPE_HARDWARE, config)
}

func hwCache(cache, op, result uint64) uint64 {
	return kpc.PackConfig(unix.PERF_TYPE_HW_CACHE, cache|op<<8|result<<16)
}

var perfConfigs = [numEvents]uint64{
	EventInstructions:  hw(unix.PERF_COUNT_HW_INSTRUCTIONS),
	EventL1Misses:      hwCache(unix.PERF_COUNT_HW_CACHE_L1D, unix.PERF_COUNT_HW_CACHE_OP_READ, unix.PERF_COUNT_HW_CACHE_RESULT_MISS),
	EventLLCMisses:     hw(unix.PERF_COUNT_HW_CACHE_MISSES),
	EventBranchMisses:  hw(unix.PERF_COUNT_HW_BRANCH_MISSES),
	EventCycles:        hw(unix.PERF_COUNT_HW_CPU_CYCLES),
	EventBranches:      hw(unix.PERF_COUNT_HW_BRANCH_INSTRUCTIONS),
	EventL2Misses:      hwCache(unix.PERF_COUNT_HW_CACHE_LL, unix.PERF_COUNT_HW_CACHE_OP_READ, unix.PERF_COUNT_HW_CACHE_RESULT_MISS),
	EventLLCReferences: hw(unix.PERF_COUNT_HW_CACHE_REFERENCES),
	EventRefCycles:     hw(unix.PERF_COUNT_HW_REF_CPU_CYCLES),
}

// Config returns the backend register configuration word for e.
func (e Event) Config() (uint64, error) {
	if e < 0 || e >= numEvents {
		return 0, fmt.Errorf("unknown event %d", int(e))
	}
	return perfConfigs[e], nil
}
