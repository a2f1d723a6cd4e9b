// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

//go:build !linux && !(darwin && amd64)

package events

import "fmt"

// Config returns the backend register configuration word for e.
//
// TODO: add the Apple silicon PMC encodings. They are not architecturally
// documented and have to be lifted from the kpep database plists.
func (e Event) Config() (uint64, error) {
	return 0, fmt.Errorf("event %s: no register encoding for this platform", e)
}
