// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

//go:build !darwin && !linux

package kpc

import (
	"fmt"
	"runtime"
)

const defaultClasses = ClassConfigurable

// UserModeOnly is ORed into every configuration word before programming.
const UserModeOnly uint64 = 0

func resolve() (Backend, error) {
	return nil, fmt.Errorf("%w: no counter facility on %s", ErrUnavailable, runtime.GOOS)
}

// Supported reports whether a counter facility can exist on this platform.
func Supported() bool { return false }
