package memory

import "unsafe"

// coalesce merges p with any free neighbors and inserts the resulting
// block into the free list, returning its (possibly relocated) payload
// pointer (spec §4.6).
//
// Ordering is load-bearing here: a free neighbor is always removed from
// the list before its size is folded into the widened block. Once a
// neighbor's header changes, its old header/footer positions are no
// longer valid, so remove must happen first or it would splice using
// stale link words belonging to whatever now occupies that space.
// Likewise, widening always writes the header before the footer, since
// footerAddr depends on the size the header just received.
func (al *Allocator) coalesce(p unsafe.Pointer) unsafe.Pointer {
	prevAlloc := al.prevIsAllocated(p)
	next := nextBlockPayload(p)
	nextAlloc := blockAlloc(next)

	size := blockSize(p)

	switch {
	case prevAlloc && nextAlloc:
		// case 1: both neighbors allocated, nothing to merge.

	case prevAlloc && !nextAlloc:
		// case 2: merge with the following free block.
		al.remove(next)
		size += blockSize(next)
		setBlockTags(p, size, false)

	case !prevAlloc && nextAlloc:
		// case 3: merge with the preceding free block.
		prev := prevBlockPayload(p)
		al.remove(prev)
		size += blockSize(prev)
		setBlockTags(prev, size, false)
		p = prev

	default:
		// case 4: merge with both neighbors.
		prev := prevBlockPayload(p)
		al.remove(prev)
		al.remove(next)
		size += blockSize(prev) + blockSize(next)
		setBlockTags(prev, size, false)
		p = prev
	}

	al.insert(p)
	return p
}

// prevIsAllocated reports whether the block preceding p is allocated.
// It is split out from coalesce because p may be the very first
// post-prologue block, in which case the "previous" block is the
// prologue itself, which is always allocated (spec §4.3) and stops
// backward coalescing without further special-casing.
func (al *Allocator) prevIsAllocated(p unsafe.Pointer) bool {
	prevFooter := unsafe.Add(p, -int(dsize))
	return unpackAlloc(getTag(prevFooter))
}
