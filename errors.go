package memory

import "errors"

// Error kinds surfaced by the allocator (spec §7). Corruption is not
// among them: the checker reports it textually and never returns it as
// an error (spec §4.9).
var (
	// ErrOutOfMemory is returned by Init/New when reserving the arena
	// or either of the initial heap extensions fails.
	ErrOutOfMemory = errors.New("memory: heap primitive refused an extension")

	// ErrArenaExhausted is returned by the heap primitive when growing
	// the heap would exceed the reserved arena (see WithMaxHeap).
	ErrArenaExhausted = errors.New("memory: reserved arena exhausted")

	// ErrNotInitialized is returned by operations invoked on an
	// Allocator whose Init has not been called (or failed).
	ErrNotInitialized = errors.New("memory: allocator used before Init")
)
