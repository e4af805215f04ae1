// Copyright 2011 Evan Shaw. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

//go:build darwin || dragonfly || freebsd || linux || openbsd || solaris || netbsd

// Modifications: redirected through golang.org/x/sys/unix and repurposed
// as a fixed-size reservation for the simulated sbrk arena rather than a
// per-allocation mmap.

package memory

import (
	"golang.org/x/sys/unix"
)

func mmapReserve(size int) ([]byte, error) {
	b, err := unix.Mmap(-1, 0, size, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_PRIVATE|unix.MAP_ANON)
	if err != nil {
		return nil, err
	}
	return b, nil
}

func mmapRelease(b []byte) error {
	return unix.Munmap(b)
}
