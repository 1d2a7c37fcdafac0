package buddy

import "github.com/joshuapare/buddykit/internal/format"

// AllocationSize returns the block size that satisfies a request. The result
// depends only on the region geometry, never on what is already allocated, so
// Deallocate recovers the same block size Allocate used.
//
// A zero align means no alignment requirement.
func (r Region) AllocationSize(size, align uint64) (uint64, error) {
	if align == 0 {
		align = 1
	}
	if !format.IsPow2(align) {
		return 0, ErrBadAlignment
	}

	// Blocks are aligned to their own size, so a stricter alignment can only
	// be met with a bigger block.
	want := max(size, align, r.MinBlockSize)

	block, ok := format.NextPow2(want)
	if !ok || block > r.Size {
		return 0, ErrAllocationTooLarge
	}
	return block, nil
}

// OrderFor returns the order of the block that satisfies a request.
func (r Region) OrderFor(size, align uint64) (int, error) {
	block, err := r.AllocationSize(size, align)
	if err != nil {
		return 0, err
	}
	return format.Log2(block) - format.Log2(r.MinBlockSize), nil
}
