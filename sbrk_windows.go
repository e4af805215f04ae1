// Copyright 2011 Evan Shaw. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE-MMAP-GO file.

// Modifications: repurposed as a fixed-size reservation for the
// simulated sbrk arena rather than a per-allocation mapping. No pack
// example maps memory on Windows through anything but the stdlib
// syscall pair CreateFileMapping/MapViewOfFile, so this file keeps
// that rather than introducing golang.org/x/sys/windows for no
// behavioral gain (see DESIGN.md).

package memory

import (
	"errors"
	"os"
	"reflect"
	"syscall"
	"unsafe"
)

// handleMap recovers the file-mapping handle for a previously mapped
// address so mmapRelease can close it. Single-threaded use only, same
// as the rest of this package (spec §5).
var handleMap = map[uintptr]syscall.Handle{}

func mmapReserve(size int) ([]byte, error) {
	flProtect := uint32(syscall.PAGE_READWRITE)
	dwDesiredAccess := uint32(syscall.FILE_MAP_WRITE)

	maxSizeHigh := uint32(int64(size) >> 32)
	maxSizeLow := uint32(int64(size) & 0xFFFFFFFF)
	h, errno := syscall.CreateFileMapping(syscall.Handle(^uintptr(0)), nil, flProtect, maxSizeHigh, maxSizeLow, nil)
	if h == 0 {
		return nil, os.NewSyscallError("CreateFileMapping", errno)
	}

	addr, errno := syscall.MapViewOfFile(h, dwDesiredAccess, 0, 0, uintptr(size))
	if addr == 0 {
		return nil, os.NewSyscallError("MapViewOfFile", errno)
	}

	handleMap[addr] = h
	var b []byte
	sh := (*reflect.SliceHeader)(unsafe.Pointer(&b))
	sh.Data = addr
	sh.Len = size
	sh.Cap = size
	return b, nil
}

func mmapRelease(b []byte) error {
	if len(b) == 0 {
		return nil
	}
	addr := uintptr(unsafe.Pointer(&b[0]))
	if err := syscall.UnmapViewOfFile(addr); err != nil {
		return err
	}

	handle, ok := handleMap[addr]
	if !ok {
		return errors.New("memory: unknown base address")
	}
	delete(handleMap, addr)

	return os.NewSyscallError("CloseHandle", syscall.CloseHandle(handle))
}
