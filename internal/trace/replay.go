package trace

import (
	"fmt"
	"sort"

	mapset "github.com/deckarep/golang-set"

	"github.com/joshuapare/buddykit/buddy"
)

// Event is the outcome of one replayed operation.
type Event struct {
	Op      Op
	Addr    buddy.Addr // allocated or freed address; NilAddr when none
	Err     error      // allocation failure, if any
	Skipped bool       // free of a name whose allocation failed
}

// Result summarizes a replay.
type Result struct {
	Events []Event
	Live   map[string]buddy.Block
	Failed int // allocations the allocator refused
}

// LiveBlocks returns the outstanding allocations ordered by address.
func (r *Result) LiveBlocks() []buddy.Block {
	out := make([]buddy.Block, 0, len(r.Live))
	for _, b := range r.Live {
		out = append(out, b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Addr < out[j].Addr })
	return out
}

// Replay runs ops against a. Allocation failures are recorded in the result;
// script errors stop the replay and return the partial result with the error.
// step, when non-nil, runs after every applied operation.
func Replay(a buddy.Allocator, ops []Op, step func(i int, ev Event) error) (*Result, error) {
	res := &Result{Live: make(map[string]buddy.Block)}
	released := mapset.NewSet()
	failed := mapset.NewSet()

	for i, op := range ops {
		ev := Event{Op: op, Addr: buddy.NilAddr}

		switch op.Kind {
		case KindAlloc:
			if _, ok := res.Live[op.Name]; ok {
				return res, opError(op, ErrNameInUse)
			}
			addr, err := a.Allocate(op.Size, op.Align)
			ev.Addr, ev.Err = addr, err
			if err != nil {
				res.Failed++
				failed.Add(op.Name)
			} else {
				res.Live[op.Name] = buddy.Block{Addr: addr, Size: op.Size, Align: op.Align}
				released.Remove(op.Name)
				failed.Remove(op.Name)
			}

		case KindFree:
			b, ok := res.Live[op.Name]
			switch {
			case ok:
				a.Deallocate(b.Addr, b.Size, b.Align)
				delete(res.Live, op.Name)
				released.Add(op.Name)
				ev.Addr = b.Addr
			case failed.Contains(op.Name):
				failed.Remove(op.Name)
				ev.Skipped = true
			case released.Contains(op.Name):
				return res, opError(op, ErrDoubleFree)
			default:
				return res, opError(op, ErrUnknownName)
			}

		default:
			return res, opError(op, ErrSyntax)
		}

		res.Events = append(res.Events, ev)
		if step != nil {
			if err := step(i, ev); err != nil {
				return res, fmt.Errorf("after %s: %w", op, err)
			}
		}
	}
	return res, nil
}

func opError(op Op, err error) error {
	if op.Line > 0 {
		return fmt.Errorf("line %d: %w: %q", op.Line, err, op.Name)
	}
	return fmt.Errorf("%w: %q", err, op.Name)
}
