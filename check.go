package memory

import (
	"fmt"
	"io"
	"os"
	"unsafe"

	"github.com/cznic/mathutil"
)

// Check walks the heap and the free list and cross-verifies the
// invariants of spec §3/§4.9/§8 (I1-I7, P1-P6). It never panics or
// returns an error: inconsistencies are reported as diagnostic lines,
// since the checker is a debugging aid, not a precondition (spec §4.9).
// When verbose is true, a line is also emitted for every visited block;
// otherwise only violations are reported.
func (al *Allocator) Check(verbose bool) bool {
	return al.Checkf(os.Stderr, verbose)
}

// Checkf is Check with an explicit diagnostic sink, used by tests that
// want to capture the report instead of writing to stderr.
func (al *Allocator) Checkf(w io.Writer, verbose bool) bool {
	if !al.initialized {
		fmt.Fprintln(w, "check: allocator not initialized")
		return false
	}

	ok := true
	lo, hi := uintptr(al.heap.lo()), uintptr(al.heap.hi())

	// Pass 1: free list, head to prologue sentinel (I4, I5, I6).
	inFreeList := map[unsafe.Pointer]bool{}
	seen := map[unsafe.Pointer]bool{}
	for b := al.freeListp; b != al.heapListp; b = getNextLink(b) {
		if seen[b] {
			fmt.Fprintf(w, "check: free list cycle at %p (I6 violated)\n", b)
			ok = false
			break
		}
		seen[b] = true

		if blockAlloc(b) {
			fmt.Fprintf(w, "check: free-list member %p has alloc=1 (I4 violated)\n", b)
			ok = false
		}
		inFreeList[b] = true

		if !al.prevIsAllocated(b) {
			fmt.Fprintf(w, "check: free-list member %p has a free predecessor (I3 violated)\n", b)
			ok = false
		}
		if !blockAlloc(nextBlockPayload(b)) {
			fmt.Fprintf(w, "check: free-list member %p has a free successor (I3 violated)\n", b)
			ok = false
		}

		for _, link := range []unsafe.Pointer{getPrevLink(b), getNextLink(b)} {
			if link == nil {
				continue
			}
			addr := uintptr(link)
			if addr < lo || addr >= hi {
				fmt.Fprintf(w, "check: free-list link %p out of heap bounds [%#x,%#x) (I5 violated)\n", link, lo, hi)
				ok = false
				continue
			}
			if link != al.heapListp && blockAlloc(link) {
				fmt.Fprintf(w, "check: free-list link %p points to an allocated block (I4/I5 violated)\n", link)
				ok = false
			}
		}

		if verbose {
			fmt.Fprintf(w, "check: free block %p size=%#x class=%d\n", b, blockSize(b), sizeClass(blockSize(b)))
		}
	}

	// Pass 2: heap in order, prologue's successor to the epilogue
	// (I1, I2, I7, and free-block list membership).
	for cur := nextBlockPayload(al.heapListp); blockSize(cur) > 0; cur = nextBlockPayload(cur) {
		if uintptr(cur)%uintptr(dsize) != 0 {
			fmt.Fprintf(w, "check: block %p not double-word aligned (I7 violated)\n", cur)
			ok = false
		}

		size := blockSize(cur)
		hdr := getTag(headerAddr(cur))
		ftr := getTag(footerAddr(cur, size))
		if hdr != ftr {
			fmt.Fprintf(w, "check: block %p header(%#x) != footer(%#x) (I2 violated)\n", cur, hdr, ftr)
			ok = false
		}

		if !blockAlloc(cur) && !inFreeList[cur] {
			fmt.Fprintf(w, "check: free block %p missing from free list (I4 violated)\n", cur)
			ok = false
		}

		if verbose {
			fmt.Fprintf(w, "check: block %p size=%#x alloc=%v\n", cur, size, blockAlloc(cur))
		}
	}

	return ok
}

// sizeClass reports the power-of-two size class of a block, purely for
// the checker's verbose diagnostics (e.g. "32B class 5" style output).
// Grounded on the BitLen-based log2 idiom cznic-memory itself uses for
// its segregated free lists.
func sizeClass(size uintptr) int {
	if size == 0 {
		return 0
	}
	return mathutil.BitLen(int(size) - 1)
}
