// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

//go:build darwin

package perf

import "github.com/ebitengine/purego"

// QOS_CLASS_USER_INTERACTIVE from sys/qos.h.
const qosClassUserInteractive = 0x21

// requestStablePlacement raises the calling thread's quality of service to
// user-interactive so big/little schedulers keep it on a performance core.
func requestStablePlacement() {
	lib, err := purego.Dlopen("/usr/lib/libSystem.B.dylib", purego.RTLD_LAZY|purego.RTLD_GLOBAL)
	if err != nil {
		return
	}
	sym, err := purego.Dlsym(lib, "pthread_set_qos_class_self_np")
	if err != nil {
		return
	}
	purego.SyscallN(sym, qosClassUserInteractive, 0)
}
