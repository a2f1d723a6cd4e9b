// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package kpc

const defaultClasses = ClassConfigurable | ClassFixed

// UserModeOnly is ORed into every configuration word before programming.
// Mode attribution is not part of the arm64 config word, so it is zero here.
const UserModeOnly uint64 = 0
