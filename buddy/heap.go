package buddy

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/joshuapare/buddykit/internal/buf"
)

// Options tunes a Heap. A nil *Options means defaults.
type Options struct {
	// Logger receives initialization and debug records. When nil, records are
	// discarded unless BUDDYKIT_LOG_ALLOC is set, which logs debug records to stderr.
	Logger *slog.Logger

	// TrackFree keeps a side bitmap of free blocks so buddy checks on
	// Deallocate are O(1). It costs 2^Orders bits and is limited to 24 orders.
	TrackFree bool
}

// Heap is a buddy allocator over one region.
type Heap struct {
	region Region
	mem    []byte
	lists  freeLists
	free   *freeMap // nil unless Options.TrackFree

	log   *slog.Logger
	trace bool // debug records enabled

	stats Stats
}

// New initializes a heap over mem, whose first byte is at address base.
// len(lists) sets the number of orders; lists is used as the free-list head
// storage for the lifetime of the heap and must not be touched by the caller.
//
// The whole region starts out as a single free block of the highest order.
// Errors are *ConfigError values wrapping ErrInvalidConfiguration; there is no
// way to recover a heap from them.
func New(base Addr, mem []byte, lists []Addr, opts *Options) (*Heap, error) {
	if opts == nil {
		opts = &Options{}
	}

	if opts.TrackFree && len(lists) > maxTrackedOrders {
		return nil, &ConfigError{
			Field:   "orders",
			Message: fmt.Sprintf("free tracking supports at most %d orders, got %d", maxTrackedOrders, len(lists)),
		}
	}
	region, err := newRegion(base, uint64(len(mem)), len(lists))
	if err != nil {
		return nil, err
	}

	h := &Heap{
		region: region,
		mem:    mem,
		lists:  freeLists{heads: lists, mem: mem, base: base},
		log:    opts.Logger,
	}
	if h.log == nil {
		h.log = defaultLogger()
	}
	h.trace = h.log.Enabled(context.Background(), slog.LevelDebug)
	if opts.TrackFree {
		h.free = newFreeMap(region)
	}

	h.lists.reset()
	h.lists.push(region.MaxOrder(), base)
	h.markFree(base, region.MaxOrder())

	h.log.Info("buddy heap ready",
		"base", uint64(base),
		"size", region.Size,
		"min_block", region.MinBlockSize,
		"orders", region.Orders,
		"track_free", opts.TrackFree,
	)
	return h, nil
}

// MustNew is New for startup code that has nothing to fall back to.
// It panics with the *ConfigError.
func MustNew(base Addr, mem []byte, lists []Addr, opts *Options) *Heap {
	h, err := New(base, mem, lists, opts)
	if err != nil {
		panic(err)
	}
	return h
}

func defaultLogger() *slog.Logger {
	if os.Getenv("BUDDYKIT_LOG_ALLOC") != "" {
		return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}
	return slog.New(slog.DiscardHandler)
}

// Region returns the managed region.
func (h *Heap) Region() Region {
	return h.region
}

// OrderFor returns the order Allocate would use for a request.
func (h *Heap) OrderFor(size, align uint64) (int, error) {
	return h.region.OrderFor(size, align)
}

// UsableSize returns the number of bytes actually reserved for a request.
func (h *Heap) UsableSize(size, align uint64) (uint64, error) {
	return h.region.AllocationSize(size, align)
}

// Allocate returns the address of a free block of the smallest order that
// holds size bytes aligned to align. The lowest non-empty order is split
// down, keeping the lower half each time, so addresses are deterministic
// for a given history.
func (h *Heap) Allocate(size, align uint64) (Addr, error) {
	h.stats.AllocateCalls++

	order, err := h.region.OrderFor(size, align)
	if err != nil {
		h.stats.Rejected++
		if h.trace {
			h.log.Debug("allocate rejected", "size", size, "align", align, "error", err)
		}
		return NilAddr, err
	}

	found := -1
	for j := order; j < h.region.Orders; j++ {
		if !h.lists.empty(j) {
			found = j
			break
		}
	}
	if found < 0 {
		h.stats.OutOfMemory++
		if h.trace {
			h.log.Debug("allocate failed", "size", size, "align", align, "order", order, "error", ErrOutOfMemory)
		}
		return NilAddr, ErrOutOfMemory
	}

	a, _ := h.lists.pop(found)
	h.markUsed(a, found)

	for o := found - 1; o >= order; o-- {
		upper := a + Addr(h.region.BlockSize(o))
		h.lists.push(o, upper)
		h.markFree(upper, o)
		h.stats.Splits++
	}
	if h.trace && found > order {
		h.log.Debug("split", "addr", uint64(a), "from", found, "to", order)
	}

	h.stats.BytesInUse += h.region.BlockSize(order)
	return a, nil
}

// AllocateBytes is Allocate returning the block's first size bytes as well.
func (h *Heap) AllocateBytes(size, align uint64) (Addr, []byte, error) {
	a, err := h.Allocate(size, align)
	if err != nil {
		return NilAddr, nil, err
	}
	return a, h.Bytes(a, size), nil
}

// Deallocate returns the block at addr and merges it with its buddy for as
// long as the buddy is free.
//
// size and align must match the Allocate call that returned addr. Anything
// else, including a double free, is undefined behavior.
func (h *Heap) Deallocate(addr Addr, size, align uint64) {
	h.stats.DeallocateCalls++

	order, err := h.region.OrderFor(size, align)
	if err != nil {
		// Allocate rejects the same request, so addr cannot have come from it.
		if h.trace {
			h.log.Debug("deallocate ignored", "addr", uint64(addr), "size", size, "align", align, "error", err)
		}
		return
	}
	h.stats.BytesInUse -= h.region.BlockSize(order)

	for order < h.region.MaxOrder() {
		buddy := h.buddyOf(addr, order)
		if !h.takeFree(buddy, order) {
			break
		}
		if h.trace {
			h.log.Debug("merge", "addr", uint64(min(addr, buddy)), "order", order+1)
		}
		addr = min(addr, buddy)
		order++
		h.stats.Merges++
	}

	h.lists.push(order, addr)
	h.markFree(addr, order)
}

// Reallocate moves an allocation to a block that fits newSize. When both sizes
// map to the same order the block already fits and addr is returned as is.
// Otherwise min(oldSize, newSize) bytes are copied to a new block and the old
// block is freed. On error the old block is left allocated and unchanged.
func (h *Heap) Reallocate(addr Addr, oldSize, newSize, align uint64) (Addr, error) {
	newOrder, err := h.region.OrderFor(newSize, align)
	if err != nil {
		return NilAddr, err
	}
	if oldOrder, err := h.region.OrderFor(oldSize, align); err == nil && oldOrder == newOrder {
		return addr, nil
	}

	moved, err := h.Allocate(newSize, align)
	if err != nil {
		return NilAddr, err
	}
	n := min(oldSize, newSize)
	copy(h.Bytes(moved, n), h.Bytes(addr, n))
	h.Deallocate(addr, oldSize, align)
	return moved, nil
}

// Bytes returns the n backing bytes starting at addr, or nil if they fall
// outside the region.
func (h *Heap) Bytes(addr Addr, n uint64) []byte {
	if !h.region.Contains(addr) {
		return nil
	}
	b, ok := buf.Slice(h.mem, h.region.offset(addr), n)
	if !ok {
		return nil
	}
	return b
}

func (h *Heap) buddyOf(a Addr, order int) Addr {
	return h.region.Base + Addr(h.region.offset(a)^h.region.BlockSize(order))
}

// takeFree removes a from free list order if it is there.
func (h *Heap) takeFree(a Addr, order int) bool {
	if h.free != nil {
		off := h.region.offset(a)
		if !h.free.isFree(off, order) {
			return false
		}
		h.free.clear(off, order)
	}
	return h.lists.remove(order, a)
}

func (h *Heap) markFree(a Addr, order int) {
	if h.free != nil {
		h.free.set(h.region.offset(a), order)
	}
}

func (h *Heap) markUsed(a Addr, order int) {
	if h.free != nil {
		h.free.clear(h.region.offset(a), order)
	}
}
