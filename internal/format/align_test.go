package format

import (
	"math"
	"testing"
)

func TestIsPow2(t *testing.T) {
	cases := map[uint64]bool{
		0:              false,
		1:              true,
		2:              true,
		3:              false,
		4:              true,
		255:            false,
		256:            true,
		257:            false,
		4294967295:     false,
		1 << 63:        true,
		math.MaxUint64: false,
	}
	for n, want := range cases {
		if got := IsPow2(n); got != want {
			t.Fatalf("IsPow2(%d) = %v, want %v", n, got, want)
		}
	}
}

func TestNextPow2(t *testing.T) {
	cases := []struct{ in, want uint64 }{
		{0, 1}, {1, 1}, {2, 2}, {3, 4}, {4, 4}, {5, 8}, {8, 8},
		{9, 16}, {16, 16}, {17, 32}, {32, 32}, {8376263, 8388608},
		{1 << 63, 1 << 63},
	}
	for _, tc := range cases {
		got, ok := NextPow2(tc.in)
		if !ok || got != tc.want {
			t.Fatalf("NextPow2(%d) = %d,%v want %d,true", tc.in, got, ok, tc.want)
		}
	}
	if _, ok := NextPow2(1<<63 + 1); ok {
		t.Fatalf("NextPow2 should overflow above 1<<63")
	}
	if _, ok := NextPow2(math.MaxUint64); ok {
		t.Fatalf("NextPow2 should overflow at MaxUint64")
	}
}

func TestLog2AndAlignment(t *testing.T) {
	if Log2(1) != 0 || Log2(16) != 4 || Log2(17) != 4 || Log2(1<<63) != 63 {
		t.Fatalf("Log2 mismatch")
	}
	if !IsAligned(0x1400, 0x400) || IsAligned(0x1400, 0x800) {
		t.Fatalf("IsAligned mismatch")
	}
	if AlignDown(0x17ff, 0x400) != 0x1400 {
		t.Fatalf("AlignDown(0x17ff, 0x400) = 0x%x", AlignDown(0x17ff, 0x400))
	}
}
