package format

import "math/bits"

// Power-of-two utilities shared by the size math and the region checks.
// Based on the classic bit tricks:
// http://graphics.stanford.edu/~seander/bithacks.html

// IsPow2 reports whether n is a non-zero power of two.
func IsPow2(n uint64) bool {
	return n != 0 && n&(n-1) == 0
}

// NextPow2 returns the smallest power of two >= n. NextPow2(0) is 1.
// ok is false when the result does not fit in 64 bits.
//
// Example:
//
//	NextPow2(3)  = 4
//	NextPow2(4)  = 4
//	NextPow2(17) = 32
func NextPow2(n uint64) (uint64, bool) {
	if n <= 1 {
		return 1, true
	}
	shift := bits.Len64(n - 1)
	if shift >= 64 {
		return 0, false
	}
	return 1 << shift, true
}

// Log2 returns floor(log2(n)). n must be non-zero.
func Log2(n uint64) int {
	return bits.Len64(n) - 1
}

// IsAligned reports whether n is a multiple of align. align must be a power of two.
func IsAligned(n, align uint64) bool {
	return n&(align-1) == 0
}

// AlignDown rounds n down to a multiple of align. align must be a power of two.
func AlignDown(n, align uint64) uint64 {
	return n &^ (align - 1)
}
