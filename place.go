package memory

import "unsafe"

// adjustedSize computes a, the block size to place for a payload
// request of s bytes (spec §4.4).
func adjustedSize(s uintptr) uintptr {
	if s <= dsize {
		return 2 * dsize
	}
	return dsize * ((s + dsize + dsize - 1) / dsize)
}

// findFit walks the free list from freeListp, first-fit (spec §4.4).
// The walk terminates at the prologue: its header's allocation bit is
// always set, which breaks the loop without a separate bounds check.
func (al *Allocator) findFit(a uintptr) unsafe.Pointer {
	for b := al.freeListp; !blockAlloc(b); b = getNextLink(b) {
		if blockSize(b) >= a {
			return b
		}
	}
	return nil
}

// place writes allocated tags into (a split prefix of) b, which must
// have size >= a, and returns b unchanged as the payload to hand back
// to the caller (spec §4.5).
//
// Ordering is load-bearing: when splitting, the allocated tags for b
// are written before b is removed from the free list, because b's free
// link words (now about to fall inside the allocated-and-returned
// region) are still read by remove's splice logic up until that call.
// The split remainder is never inserted into the free list directly;
// it is only ever routed through coalesce, which is what lets a
// remainder immediately merge with a free block created moments
// earlier by heap growth (spec §4.5, §9's third open question).
func (al *Allocator) place(b unsafe.Pointer, a uintptr) unsafe.Pointer {
	c := blockSize(b)
	if c-a >= minBlockSize {
		setBlockTags(b, a, true)
		al.remove(b)

		rem := unsafe.Add(b, int(a))
		setBlockTags(rem, c-a, false)
		al.coalesce(rem)
		return b
	}

	setBlockTags(b, c, true)
	al.remove(b)
	return b
}
