package buddy

import (
	"bytes"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLockedConcurrentUse(t *testing.T) {
	h := newTestHeap(t, 0, 1<<16, 11, nil)
	l := NewLocked(h, nil)

	const workers, rounds = 8, 200
	var wg sync.WaitGroup
	for w := range workers {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			size := uint64(64 * (w + 1))
			for range rounds {
				a, err := l.Allocate(size, 8)
				if err != nil {
					assert.ErrorIs(t, err, ErrOutOfMemory)
					continue
				}
				l.Deallocate(a, size, 8)
			}
		}(w)
	}
	wg.Wait()

	require.NoError(t, l.Verify([]Block{}))
	assert.Equal(t, initialTable(h), l.FreeBlocks())

	s := l.Stats()
	assert.Equal(t, workers*rounds, s.AllocateCalls)
	assert.Zero(t, s.BytesInUse)
}

// countingLocker records how often the wrapper takes the caller's lock.
type countingLocker struct {
	mu    sync.Mutex
	locks int
}

func (c *countingLocker) Lock()   { c.mu.Lock(); c.locks++ }
func (c *countingLocker) Unlock() { c.mu.Unlock() }

func TestLockedUsesCallerLock(t *testing.T) {
	h := newTestHeap(t, 0x1000, 4096, 3, nil)
	mu := &countingLocker{}
	l := NewLocked(h, mu)

	a, err := l.Allocate(100, 8)
	require.NoError(t, err)
	a, err = l.Reallocate(a, 100, 1500, 8)
	require.NoError(t, err)
	l.Deallocate(a, 1500, 8)
	_ = l.Stats()

	var out bytes.Buffer
	l.PrintStats(&out)

	assert.Equal(t, 5, mu.locks)
	assert.Equal(t, h.Region(), l.Region())
}
