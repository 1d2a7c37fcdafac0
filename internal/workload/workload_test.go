package workload

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joshuapare/buddykit/buddy"
	"github.com/joshuapare/buddykit/internal/trace"
)

func TestGenerateIsDeterministic(t *testing.T) {
	a := Generate(99, 300, 4096)
	b := Generate(99, 300, 4096)
	require.Equal(t, a, b)
	require.Len(t, a, 300)
	assert.NotEqual(t, a, Generate(100, 300, 4096))
}

func TestGenerateShape(t *testing.T) {
	ops := Generate(1, 1000, 3000)
	live := map[string]bool{}
	allocs := 0
	for i, op := range ops {
		switch op.Kind {
		case trace.KindAlloc:
			allocs++
			require.False(t, live[op.Name], "op %d reuses a live name", i)
			live[op.Name] = true
			assert.LessOrEqual(t, op.Size, uint64(3000))
			assert.True(t, op.Align&(op.Align-1) == 0, "op %d align %d", i, op.Align)
			assert.LessOrEqual(t, op.Align, uint64(1)<<MaxAlignShift)
		case trace.KindFree:
			require.True(t, live[op.Name], "op %d frees %q which is not live", i, op.Name)
			delete(live, op.Name)
		default:
			t.Fatalf("op %d has kind %v", i, op.Kind)
		}
	}
	assert.Greater(t, allocs, 500)
	assert.Less(t, allocs, 800)
}

func TestGenerateZeroMaxSize(t *testing.T) {
	for _, op := range Generate(5, 50, 0) {
		if op.Kind == trace.KindAlloc {
			assert.Zero(t, op.Size)
		}
	}
}

func TestGenerateHugeMaxSize(t *testing.T) {
	assert.NotPanics(t, func() { Generate(3, 200, ^uint64(0)) })
}

func TestDrainFreesEverythingOnce(t *testing.T) {
	ops := Generate(8, 200, 512)
	drained := Drain(ops)
	require.Equal(t, ops, drained[:len(ops)])

	live := map[string]bool{}
	for _, op := range drained {
		if op.Kind == trace.KindAlloc {
			live[op.Name] = true
		} else {
			require.True(t, live[op.Name])
			delete(live, op.Name)
		}
	}
	assert.Empty(t, live)
}

func TestDrainedWorkloadCoalescesFully(t *testing.T) {
	for _, seed := range []int64{11, 12, 13} {
		h, err := buddy.New(0, make([]byte, 1<<16), make([]buddy.Addr, 10), &buddy.Options{TrackFree: seed%2 == 0})
		require.NoError(t, err)

		res, err := trace.Replay(h, Drain(Generate(seed, 1500, 4096)), func(_ int, _ trace.Event) error {
			return h.Verify(nil)
		})
		require.NoError(t, err, "seed %d", seed)
		require.Empty(t, res.Live)

		table := h.FreeBlocks()
		require.Equal(t, []buddy.Addr{0}, table[9], "seed %d", seed)
		for k := 0; k < 9; k++ {
			require.Empty(t, table[k], "seed %d order %d", seed, k)
		}
	}
}
