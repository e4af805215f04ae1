package memory

import (
	"unsafe"
)

// Stats is a read-only snapshot of allocator bookkeeping, exposed for
// diagnostics and for the test suite's round-trip assertions. Grounded
// on cznic-memory.Allocator's private allocs/bytes/mmaps counters,
// surfaced here since external callers (and this module's own tests)
// need to observe them.
type Stats struct {
	LiveAllocs int // number of outstanding Alloc/Calloc calls not yet Freed
	HeapBytes  int // current heap size (live, within the reserved arena)
	Extensions int // number of times the heap has been grown
}

// Allocator is the allocator singleton described in spec §5: a single
// owned struct holding the heap-growth primitive plus the heapListp and
// freeListp cursors. Its zero value is not ready for use (unlike
// cznic-memory's Allocator) because the simulated heap primitive must
// reserve an OS mapping before any block bookkeeping can happen; call
// Init (or use New) first.
//
// Allocator is not safe for concurrent use (spec §5's non-goal on
// thread safety): all operations must be serialized by the caller.
type Allocator struct {
	heap *arena

	heapListp unsafe.Pointer // prologue payload
	freeListp unsafe.Pointer // free list head

	chunkSize int
	maxHeap   int

	stats Stats

	initialized bool
}

// Init prepares the allocator for use: it reserves the heap arena, lays
// down the prologue and epilogue (spec §4.3), and grows the heap by one
// CHUNKSIZE increment so the first Alloc has somewhere to place a
// block. Init must be called exactly once before any other method.
func (al *Allocator) Init() error {
	if al.chunkSize == 0 {
		al.chunkSize = defaultChunkSize
	}
	if al.maxHeap == 0 {
		al.maxHeap = defaultMaxHeap
	}

	heap, err := newArena(al.maxHeap)
	if err != nil {
		return ErrOutOfMemory
	}
	al.heap = heap

	// 6W preamble: 1W alignment padding, prologue header (2D|alloc),
	// prologue prev-link (null), prologue next-link (null), prologue
	// footer (2D|alloc), epilogue header (0|alloc).
	base, err := al.heap.extend(6 * int(wordSize))
	if err != nil {
		al.heap.close()
		return ErrOutOfMemory
	}

	prologueHdr := unsafe.Add(base, int(wordSize))
	prologuePayload := unsafe.Add(prologueHdr, int(wordSize))
	prologueFooter := unsafe.Add(prologuePayload, int(dsize))
	epilogueHdr := unsafe.Add(prologueFooter, int(wordSize))

	putTag(prologueHdr, pack(2*dsize, true))
	setPrevLink(prologuePayload, nil)
	setNextLink(prologuePayload, nil)
	putTag(prologueFooter, pack(2*dsize, true))
	putTag(epilogueHdr, pack(0, true))

	al.heapListp = prologuePayload
	al.freeListp = prologuePayload
	al.initialized = true

	if _, err := al.growHeap(al.chunkSize); err != nil {
		al.initialized = false
		return ErrOutOfMemory
	}
	return nil
}

// growHeap extends the heap by at least n bytes (rounded up to an even
// word count) and returns the coalesced free block that results (spec
// §4.8). The new region overwrites what was the epilogue; a fresh
// zero-size allocated epilogue header is written immediately after it.
func (al *Allocator) growHeap(n int) (unsafe.Pointer, error) {
	size := alignUp(uintptr(n), dsize)

	// extend returns the address that used to be the current break,
	// which is exactly where the old epilogue header's word sits one
	// word earlier: the old epilogue is at p-W, so p is already the
	// right payload pointer for the new free block (its header slot,
	// headerAddr(p) = p-W, overwrites the old epilogue in place).
	p, err := al.heap.extend(int(size))
	if err != nil {
		return nil, err
	}

	setBlockTags(p, size, false)
	// The new epilogue occupies the last word of the bytes we just
	// extended by: footerAddr(p, size) ends at p+size-W, and that is
	// where the fresh zero-size epilogue header goes.
	epilogueHdr := unsafe.Add(p, int(size-wordSize))
	putTag(epilogueHdr, pack(0, true))

	al.stats.Extensions++
	al.stats.HeapBytes = al.heap.size()

	return al.coalesce(p), nil
}

// Alloc allocates size bytes and returns a pointer to the payload, or
// nil if size is zero or no memory is available (spec §4.4).
func (al *Allocator) Alloc(size int) (unsafe.Pointer, error) {
	if !al.initialized {
		return nil, ErrNotInitialized
	}
	if size <= 0 {
		return nil, nil
	}

	a := adjustedSize(uintptr(size))

	b := al.findFit(a)
	if b == nil {
		grow := a
		if uintptr(al.chunkSize) > grow {
			grow = uintptr(al.chunkSize)
		}
		var err error
		b, err = al.growHeap(int(grow))
		if err != nil {
			tracef("Alloc(%#x) <nil>, %v\n", size, err)
			return nil, err
		}
	}

	p := al.place(b, a)
	al.stats.LiveAllocs++
	tracef("Alloc(%#x) %p\n", size, p)
	return p, nil
}

// Calloc allocates n*size bytes and zeroes them (SPEC_FULL.md §6.2).
// Grounded on cznic-memory.Allocator.Calloc: implemented in terms of
// Alloc plus a zeroing pass.
func (al *Allocator) Calloc(n, size int) (unsafe.Pointer, error) {
	total := n * size
	p, err := al.Alloc(total)
	if err != nil || p == nil {
		return p, err
	}
	b := unsafe.Slice((*byte)(p), total)
	for i := range b {
		b[i] = 0
	}
	return p, nil
}

// Free deallocates the block at p. p may be nil, in which case Free is
// a no-op (spec §4.6, R3). Freeing a pointer not obtained from Alloc/
// Calloc/Realloc, or double-freeing, is undefined behavior per spec §7
// and is not defended against.
func (al *Allocator) Free(p unsafe.Pointer) {
	if p == nil {
		return
	}
	size := blockSize(p)
	setBlockTags(p, size, false)
	al.coalesce(p)
	al.stats.LiveAllocs--
	tracef("Free(%p)\n", p)
}

// Realloc resizes the block at p to size bytes (spec §4.7).
//
//   - size < 0 fails with a nil return; Go's signed int size means this
//     case cannot be left to an unsigned-size-type exemption.
//   - size == 0 frees p and returns nil (R5).
//   - p == nil behaves like Alloc(size) (R4).
//   - a shrink or equal-size request returns p unchanged; no split (R2),
//     trading internal fragmentation for lower external fragmentation
//     and avoiding free-list churn.
//   - a grow that fits by absorbing a free forward neighbor grows p in
//     place without splitting the combined block.
//   - otherwise a new block is allocated, the old payload is copied,
//     and the old block is freed.
func (al *Allocator) Realloc(p unsafe.Pointer, size int) (unsafe.Pointer, error) {
	if size < 0 {
		return nil, nil
	}
	if size == 0 {
		al.Free(p)
		return nil, nil
	}
	if p == nil {
		return al.Alloc(size)
	}

	a := adjustedSize(uintptr(size))
	old := blockSize(p)

	if a <= old {
		tracef("Realloc(%p, %#x) %p (no shrink)\n", p, size, p)
		return p, nil
	}

	next := nextBlockPayload(p)
	if !blockAlloc(next) && old+blockSize(next) >= a {
		combined := old + blockSize(next)
		al.remove(next)
		setBlockTags(p, combined, true)
		tracef("Realloc(%p, %#x) %p (grown in place)\n", p, size, p)
		return p, nil
	}

	r, err := al.Alloc(size)
	if err != nil || r == nil {
		return nil, err
	}

	// Copy exactly the payload bytes the caller could have written,
	// not the raw block size: spec §9's first open question flags the
	// original's over-copy (full block size including header/footer)
	// as a probable bug; this copies min(old payload, size) bytes.
	oldPayload := int(old - dsize)
	n := oldPayload
	if size < n {
		n = size
	}
	src := unsafe.Slice((*byte)(p), n)
	dst := unsafe.Slice((*byte)(r), n)
	copy(dst, src)

	al.Free(p)
	tracef("Realloc(%p, %#x) %p (relocated)\n", p, size, r)
	return r, nil
}

// Stats returns a snapshot of allocator bookkeeping.
func (al *Allocator) Stats() Stats { return al.stats }

// Close releases the OS-backed arena. The Allocator must not be used
// afterward.
func (al *Allocator) Close() error {
	if al.heap == nil {
		return nil
	}
	err := al.heap.close()
	al.heap = nil
	al.initialized = false
	return err
}
