// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package kpc

// Fixed counters are not properly gated on x86 XNU (they count rings 0-3
// regardless), so only the configurable class is engaged.
const defaultClasses = ClassConfigurable

// UserModeOnly is ORed into every configuration word before programming.
// On x86 it is the IA32_PERFEVTSELx USR bit, restricting capture to ring 3.
const UserModeOnly uint64 = 0x10000
