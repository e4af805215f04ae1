package memory

import "testing"

func freeListLen(al *Allocator) int {
	n := 0
	for b := al.freeListp; b != al.heapListp; b = getNextLink(b) {
		n++
	}
	return n
}

// TestCoalesceFourCases drives three of the four rows of spec §4.6's
// table in a single linear sequence: three equal-sized blocks A, B, C
// carved out of the initial chunk, freed in the order B, A, C.
//
//	free(B): both neighbors allocated           -> alloc/alloc (insert only)
//	free(A): forward neighbor (B) now free      -> alloc/free  (merge forward)
//	free(C): backward neighbor (AB) is free,
//	         forward neighbor (tail) is free     -> free/free   (merge both)
//
// (The alloc/free-reversed "backward only" row, free/alloc, is the
// A-into-B merge direction; TestCoalesceBackwardOnly exercises it in
// isolation.)
func TestCoalesceFourCases(t *testing.T) {
	al := newTestAllocator(t)

	a, err := al.Alloc(16)
	if err != nil {
		t.Fatal(err)
	}
	b, err := al.Alloc(16)
	if err != nil {
		t.Fatal(err)
	}
	c, err := al.Alloc(16)
	if err != nil {
		t.Fatal(err)
	}

	// The remainder of the initial chunk, not yet touched, sits at the
	// head of the free list immediately after three sequential splits.
	tail := al.freeListp
	tailSize := blockSize(tail)
	blockSz := blockSize(a) // all three requests round up to the same size

	al.Free(b)
	if got, want := freeListLen(al), 2; got != want {
		t.Fatalf("after free(b): free list has %d entries, want %d", got, want)
	}
	if al.freeListp != b || blockSize(b) != blockSz {
		t.Fatalf("after free(b): head = %p size %#x, want %p size %#x", al.freeListp, blockSize(al.freeListp), b, blockSz)
	}

	al.Free(a)
	if got, want := freeListLen(al), 2; got != want {
		t.Fatalf("after free(a): free list has %d entries, want %d", got, want)
	}
	if al.freeListp != a {
		t.Fatalf("after free(a): head = %p, want merged block at %p", al.freeListp, a)
	}
	if got, want := blockSize(a), 2*blockSz; got != want {
		t.Fatalf("after free(a): merged size = %#x, want %#x", got, want)
	}

	al.Free(c)
	if got, want := freeListLen(al), 1; got != want {
		t.Fatalf("after free(c): free list has %d entries, want %d", got, want)
	}
	if al.freeListp != a {
		t.Fatalf("after free(c): head = %p, want fully merged block at %p", al.freeListp, a)
	}
	if got, want := blockSize(a), 3*blockSz+tailSize; got != want {
		t.Fatalf("after free(c): merged size = %#x, want %#x", got, want)
	}

	if !al.Check(false) {
		t.Fatal("check failed after four-way coalesce sequence")
	}
}

// TestCoalesceBackwardOnly isolates the free/alloc row: a free
// predecessor merges forward into the just-freed block, with an
// allocated block still on the far side.
func TestCoalesceBackwardOnly(t *testing.T) {
	al := newTestAllocator(t)

	a, err := al.Alloc(16)
	if err != nil {
		t.Fatal(err)
	}
	b, err := al.Alloc(16)
	if err != nil {
		t.Fatal(err)
	}
	barrier, err := al.Alloc(16) // keeps b's forward neighbor allocated
	if err != nil {
		t.Fatal(err)
	}
	_ = barrier

	sizeA := blockSize(a)
	sizeB := blockSize(b)

	al.Free(a)
	al.Free(b) // b's prev (a) is free, next (barrier) is allocated

	if al.freeListp != a {
		t.Fatalf("head = %p, want merged block at %p", al.freeListp, a)
	}
	if got, want := blockSize(a), sizeA+sizeB; got != want {
		t.Fatalf("merged size = %#x, want %#x", got, want)
	}
	if !al.Check(false) {
		t.Fatal("check failed after backward-only coalesce")
	}
}
