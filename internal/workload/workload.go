// Package workload generates reproducible allocation scripts for stress runs
// and property tests.
package workload

import (
	"fmt"
	"math/bits"
	"math/rand"

	"github.com/joshuapare/buddykit/internal/trace"
)

// MaxAlignShift bounds generated alignments to 1<<MaxAlignShift.
const MaxAlignShift = 9

// Generate returns n operations derived from seed. Roughly two of every three
// operations allocate; the rest free a random live name. Sizes are drawn
// log-uniformly from [0, maxSize] so small requests dominate, as they do in
// real heaps. The same arguments always produce the same script.
func Generate(seed int64, n int, maxSize uint64) []trace.Op {
	rng := rand.New(rand.NewSource(seed))
	ops := make([]trace.Op, 0, n)
	var live []string
	next := 0

	for len(ops) < n {
		if len(live) == 0 || rng.Intn(3) != 0 {
			name := fmt.Sprintf("b%d", next)
			next++
			ops = append(ops, trace.Op{
				Kind:  trace.KindAlloc,
				Name:  name,
				Size:  size(rng, maxSize),
				Align: uint64(1) << uint(rng.Intn(MaxAlignShift+1)),
			})
			live = append(live, name)
			continue
		}

		j := rng.Intn(len(live))
		ops = append(ops, trace.Op{Kind: trace.KindFree, Name: live[j]})
		live[j] = live[len(live)-1]
		live = live[:len(live)-1]
	}
	return ops
}

// Drain appends a free for every name ops leaves allocated, oldest first.
func Drain(ops []trace.Op) []trace.Op {
	pos := make(map[string]int)
	for i, op := range ops {
		switch op.Kind {
		case trace.KindAlloc:
			pos[op.Name] = i
		case trace.KindFree:
			delete(pos, op.Name)
		}
	}

	out := make([]trace.Op, len(ops), len(ops)+len(pos))
	copy(out, ops)
	for i, op := range ops {
		if j, ok := pos[op.Name]; ok && j == i && op.Kind == trace.KindAlloc {
			out = append(out, trace.Op{Kind: trace.KindFree, Name: op.Name})
		}
	}
	return out
}

func size(rng *rand.Rand, maxSize uint64) uint64 {
	if maxSize == 0 {
		return 0
	}
	shift := rng.Intn(bits.Len64(maxSize) + 1)
	if shift == 0 {
		return 0
	}
	limit := uint64(1) << uint(shift-1)
	v := limit + rng.Uint64()%limit
	if v > maxSize {
		v = maxSize
	}
	return v
}
