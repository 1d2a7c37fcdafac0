package buddy

import (
	"fmt"

	"github.com/joshuapare/buddykit/internal/buf"
	"github.com/joshuapare/buddykit/internal/format"
)

// Region describes the managed address range. It is fixed by New.
type Region struct {
	Base         Addr   // First address; aligned to Size
	Size         uint64 // Total bytes; a power of two
	MinBlockSize uint64 // Order 0 block size; Size >> (Orders-1)
	Orders       int    // Number of block size tiers
}

// newRegion validates the geometry and derives the minimum block size.
func newRegion(base Addr, size uint64, orders int) (Region, error) {
	if orders < 1 {
		return Region{}, &ConfigError{Field: "orders", Message: "at least one free list is required"}
	}
	if orders > format.MaxOrders {
		return Region{}, &ConfigError{
			Field:   "orders",
			Message: fmt.Sprintf("%d orders exceed the %d-order limit", orders, format.MaxOrders),
		}
	}
	if !format.IsPow2(size) {
		return Region{}, &ConfigError{
			Field:   "size",
			Message: fmt.Sprintf("region size %d is not a power of two", size),
		}
	}
	if !format.IsAligned(uint64(base), size) {
		return Region{}, &ConfigError{
			Field:   "base",
			Message: fmt.Sprintf("base 0x%X is not aligned to region size 0x%X", uint64(base), size),
		}
	}
	if _, ok := buf.AddOverflowSafe(uint64(base), size); !ok {
		return Region{}, &ConfigError{
			Field:   "base",
			Message: fmt.Sprintf("region 0x%X+0x%X wraps the address space", uint64(base), size),
		}
	}

	minBlock := size >> uint(orders-1)
	if minBlock < format.LinkSize {
		return Region{}, &ConfigError{
			Field: "orders",
			Message: fmt.Sprintf("%d orders over %d bytes leave a %d-byte minimum block, need at least %d",
				orders, size, minBlock, format.LinkSize),
		}
	}

	return Region{
		Base:         base,
		Size:         size,
		MinBlockSize: minBlock,
		Orders:       orders,
	}, nil
}

// MaxOrder is the order of a block spanning the whole region.
func (r Region) MaxOrder() int {
	return r.Orders - 1
}

// BlockSize returns the size of a block of the given order.
func (r Region) BlockSize(order int) uint64 {
	return r.MinBlockSize << uint(order)
}

// End returns the first address past the region.
func (r Region) End() Addr {
	return r.Base + Addr(r.Size)
}

// Contains reports whether a lies inside the region.
func (r Region) Contains(a Addr) bool {
	return a >= r.Base && a < r.End()
}

func (r Region) offset(a Addr) uint64 {
	return uint64(a - r.Base)
}

func (r Region) String() string {
	return fmt.Sprintf("[0x%X, 0x%X) min=%d orders=%d", uint64(r.Base), uint64(r.End()), r.MinBlockSize, r.Orders)
}
