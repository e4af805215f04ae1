// Package memory implements a single-threaded dynamic memory allocator
// over a contiguous, monotonically growable heap region.
//
// The heap region itself is obtained from a simulated sbrk: a single
// large anonymous mapping is reserved once, and an internal break
// cursor is advanced within it on every call to extend. This mirrors
// the classic mem_sbrk simulator rather than issuing one independent
// mmap per growth request, since nothing guarantees two independent
// mmap calls land contiguously in the address space.
package memory

import (
	"fmt"
	"unsafe"
)

// defaultMaxHeap is the size of the arena reserved for the simulated
// sbrk when the caller does not override it with WithMaxHeap.
const defaultMaxHeap = 64 << 20 // 64 MiB

// arena is the heap primitive described in spec §6: it extends a
// contiguous region upward and reports its current bounds. It owns a
// single OS mapping and never moves it; extend only ever advances a
// break cursor inside that mapping.
type arena struct {
	mem   []byte // the reserved OS mapping, len == cap == maxHeap
	base  uintptr
	brk   uintptr // offset of the current break, relative to base
	limit uintptr // offset of the end of the reservation
}

func newArena(maxHeap int) (*arena, error) {
	if maxHeap <= 0 {
		maxHeap = defaultMaxHeap
	}
	mem, err := mmapReserve(maxHeap)
	if err != nil {
		return nil, fmt.Errorf("memory: reserving %d byte arena: %w", maxHeap, err)
	}
	a := &arena{
		mem:   mem,
		base:  uintptr(unsafe.Pointer(&mem[0])),
		limit: uintptr(maxHeap),
	}
	return a, nil
}

// extend grows the heap by n bytes and returns the address of the
// former break (the start of the newly available region), exactly the
// return convention of sbrk(2).
func (a *arena) extend(n int) (unsafe.Pointer, error) {
	if n < 0 {
		return nil, fmt.Errorf("memory: negative extend size %d", n)
	}
	if a.brk+uintptr(n) > a.limit {
		return nil, ErrArenaExhausted
	}
	p := unsafe.Pointer(a.base + a.brk)
	a.brk += uintptr(n)
	return p, nil
}

// lo returns the address of the first byte of the heap.
func (a *arena) lo() unsafe.Pointer { return unsafe.Pointer(a.base) }

// hi returns the address one past the last byte currently in use.
func (a *arena) hi() unsafe.Pointer { return unsafe.Pointer(a.base + a.brk) }

// size reports the number of bytes currently extended (the live heap
// size, not the reservation size).
func (a *arena) size() int { return int(a.brk) }

// close releases the OS mapping. The arena must not be used afterward.
func (a *arena) close() error {
	if a.mem == nil {
		return nil
	}
	err := mmapRelease(a.mem)
	a.mem = nil
	a.base, a.brk, a.limit = 0, 0, 0
	return err
}
