package memory

import "unsafe"

const (
	// wordSize is W from spec §3: an unsigned integer the width of a
	// machine pointer.
	wordSize = unsafe.Sizeof(uintptr(0))

	// dsize is D = 2*W, the double-word. All block sizes are multiples
	// of dsize and all payload addresses are dsize-aligned (spec §3,
	// invariant I7).
	dsize = 2 * wordSize

	// minBlockSize is the smallest legal block: header, prev link,
	// next link, footer (spec §3).
	minBlockSize = 2 * dsize

	allocBit = uintptr(1)
)

// pack encodes size and the allocation bit into a single boundary-tag
// word, the representation shared by header and footer (spec §3/§4.1).
// size is always a multiple of dsize, so its low bits are free for the
// allocation flag.
func pack(size uintptr, alloc bool) uintptr {
	v := size
	if alloc {
		v |= allocBit
	}
	return v
}

// unpackSize masks off the allocation bit.
func unpackSize(tag uintptr) uintptr { return tag &^ allocBit }

// unpackAlloc reports the allocation bit.
func unpackAlloc(tag uintptr) bool { return tag&allocBit != 0 }

func getTag(addr unsafe.Pointer) uintptr  { return *(*uintptr)(addr) }
func putTag(addr unsafe.Pointer, v uintptr) { *(*uintptr)(addr) = v }

// headerAddr returns the address of the header word given a payload
// pointer: p - W.
func headerAddr(p unsafe.Pointer) unsafe.Pointer {
	return unsafe.Add(p, -int(wordSize))
}

// footerAddr returns the address of the footer word given a payload
// pointer and the block's size: p + size - D.
func footerAddr(p unsafe.Pointer, size uintptr) unsafe.Pointer {
	return unsafe.Add(p, int(size-dsize))
}

// blockSize reads the size encoded in p's header.
func blockSize(p unsafe.Pointer) uintptr {
	return unpackSize(getTag(headerAddr(p)))
}

// blockAlloc reads the allocation bit from p's header. The checker and
// every allocation-state test read this from the header, never the
// payload (spec §9's second open question flags the header-vs-payload
// confusion in the original as a bug; this module always reads the
// header).
func blockAlloc(p unsafe.Pointer) bool {
	return unpackAlloc(getTag(headerAddr(p)))
}

// setBlockTags writes matching header and footer for a block of the
// given size and allocation state starting at payload p. Header is
// written before footer throughout this package whenever size is
// changing, since footerAddr depends on the size just written into the
// header (spec §4.6).
func setBlockTags(p unsafe.Pointer, size uintptr, alloc bool) {
	tag := pack(size, alloc)
	putTag(headerAddr(p), tag)
	putTag(footerAddr(p, size), tag)
}

// nextBlockPayload returns the payload address of the block
// immediately following p in heap order: p + size(p).
func nextBlockPayload(p unsafe.Pointer) unsafe.Pointer {
	return unsafe.Add(p, int(blockSize(p)))
}

// prevBlockPayload returns the payload address of the block
// immediately preceding p in heap order, by reading the preceding
// block's footer at p - D.
func prevBlockPayload(p unsafe.Pointer) unsafe.Pointer {
	prevFooter := unsafe.Add(p, -int(dsize))
	prevSize := unpackSize(getTag(prevFooter))
	return unsafe.Add(p, -int(prevSize))
}

// linkNode overlays the first two words of a free block's payload area:
// the explicit free-list prev/next pointers (spec §3). It is only valid
// to dereference this over a block whose header has alloc=0.
type linkNode struct {
	prev unsafe.Pointer
	next unsafe.Pointer
}

func linkOf(p unsafe.Pointer) *linkNode { return (*linkNode)(p) }

func getPrevLink(p unsafe.Pointer) unsafe.Pointer { return linkOf(p).prev }
func getNextLink(p unsafe.Pointer) unsafe.Pointer { return linkOf(p).next }

func setPrevLink(p, v unsafe.Pointer) { linkOf(p).prev = v }
func setNextLink(p, v unsafe.Pointer) { linkOf(p).next = v }

// alignUp rounds n up to the nearest multiple of m, m a power of two.
func alignUp(n, m uintptr) uintptr { return (n + m - 1) &^ (m - 1) }
