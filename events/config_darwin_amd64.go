// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

//go:build darwin && amd64

package events

import "fmt"

// kpc configuration words for the x86 configurable PMCs: umask in bits 8-15,
// event select in bits 0-7, as laid out in the Intel SDM vol. 3 §18.2.1.1.
// XNU writes these to IA32_PERFEVTSELx unchanged apart from the enable bits.
var kpcConfigs = [numEvents]uint64{
	EventInstructions:  0x00C0,
	EventL1Misses:      0x01CB,
	EventLLCMisses:     0x412E,
	EventBranchMisses:  0x00C5,
	EventCycles:        0x003C,
	EventBranches:      0x00C4,
	EventL2Misses:      0x04CB,
	EventLLCReferences: 0x4F2E,
	EventRefCycles:     0x013C,
}

// Config returns the backend register configuration word for e.
func (e Event) Config() (uint64, error) {
	if e < 0 || e >= numEvents {
		return 0, fmt.Errorf("unknown event %d", int(e))
	}
	return kpcConfigs[e], nil
}
