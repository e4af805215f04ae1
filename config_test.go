package memory

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDefaults(t *testing.T) {
	al, err := New()
	require.NoError(t, err)
	defer al.Close()

	assert.Equal(t, defaultChunkSize, al.chunkSize)
	assert.Equal(t, defaultMaxHeap, al.maxHeap)
	assert.Equal(t, defaultChunkSize+6*int(wordSize), al.Stats().HeapBytes)
	assert.Equal(t, 1, al.Stats().Extensions)
}

func TestWithChunkSizeRoundsUpAndDrivesInitialHeap(t *testing.T) {
	al, err := New(WithChunkSize(100), WithMaxHeap(1<<20))
	require.NoError(t, err)
	defer al.Close()

	assert.Equal(t, int(alignUp(100, dsize)), al.chunkSize)
	assert.Equal(t, al.chunkSize, al.Stats().HeapBytes)
}

func TestWithMaxHeapBoundsArena(t *testing.T) {
	al, err := New(WithMaxHeap(8192), WithChunkSize(4096))
	require.NoError(t, err)
	defer al.Close()

	// One chunk is already committed by Init; a request far larger than
	// what remains in the 8KiB arena must fail with ErrArenaExhausted
	// rather than hang or panic.
	_, err = al.Alloc(1 << 20)
	assert.ErrorIs(t, err, ErrArenaExhausted)
}

func TestZeroOptionsAreNoops(t *testing.T) {
	al, err := New(WithChunkSize(0), WithMaxHeap(0))
	require.NoError(t, err)
	defer al.Close()

	assert.Equal(t, defaultChunkSize, al.chunkSize)
	assert.Equal(t, defaultMaxHeap, al.maxHeap)
}

func TestStatsTracksLiveAllocs(t *testing.T) {
	al := newTestAllocator(t)

	p, err := al.Alloc(32)
	require.NoError(t, err)
	assert.Equal(t, 1, al.Stats().LiveAllocs)

	al.Free(p)
	assert.Equal(t, 0, al.Stats().LiveAllocs)
}

func TestCloseIsIdempotent(t *testing.T) {
	al, err := New()
	require.NoError(t, err)

	require.NoError(t, al.Close())
	require.NoError(t, al.Close())
}
