package memory

import "unsafe"

// insert adds b to the head of the free list (spec §4.2): LIFO
// insertion. The prologue is always present as the list's tail
// sentinel (spec §4.3), so freeListp is never nil once Init has run.
func (al *Allocator) insert(b unsafe.Pointer) {
	setNextLink(b, al.freeListp)
	setPrevLink(al.freeListp, b)
	setPrevLink(b, nil)
	al.freeListp = b
}

// remove splices b out of the free list. Because the prologue always
// carries link words and sits at the tail, the next-side update is
// unconditional: there is no "b is the last element" branch (spec
// §4.2's rationale for using an allocated prologue as sentinel).
func (al *Allocator) remove(b unsafe.Pointer) {
	prev := getPrevLink(b)
	next := getNextLink(b)
	if prev == nil {
		al.freeListp = next
	} else {
		setNextLink(prev, next)
	}
	setPrevLink(next, prev)
}
