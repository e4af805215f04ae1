package memory

// defaultChunkSize is CHUNKSIZE from spec §4.3/§4.4: the default
// increment the allocator grows the heap by when no free block fits
// and no explicit larger request forces a bigger extension.
const defaultChunkSize = 4096

// Option configures an Allocator at construction time. Grounded on the
// functional-options constructors used for allocator sizing elsewhere
// in the pack (e.g. cloudwego-gopkg/unsafex/malloc's
// NewBuddyAllocatorWithBlockSize).
type Option func(*Allocator)

// WithChunkSize overrides CHUNKSIZE, the default heap-growth increment.
// n is rounded up to a multiple of the double-word size.
func WithChunkSize(n int) Option {
	return func(al *Allocator) {
		if n > 0 {
			al.chunkSize = int(alignUp(uintptr(n), dsize))
		}
	}
}

// WithMaxHeap overrides the size of the reserved arena backing the
// simulated sbrk. The heap can never grow past this size; exceeding it
// surfaces as ErrArenaExhausted.
func WithMaxHeap(n int) Option {
	return func(al *Allocator) {
		if n > 0 {
			al.maxHeap = n
		}
	}
}

// New constructs and initializes an Allocator in one step. It is
// equivalent to applying opts to a zero-value Allocator and calling
// Init, but is the preferred entry point when options are needed
// (Allocator's zero value has no way to accept them before Init runs).
func New(opts ...Option) (*Allocator, error) {
	al := &Allocator{}
	for _, opt := range opts {
		opt(al)
	}
	if err := al.Init(); err != nil {
		return nil, err
	}
	return al, nil
}
