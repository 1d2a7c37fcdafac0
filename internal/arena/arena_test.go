package arena

import (
	"errors"
	"testing"
)

func TestMapZeroedAndWritable(t *testing.T) {
	data, cleanup, err := Map(1 << 16)
	if err != nil {
		t.Fatalf("Map: %v", err)
	}
	defer func() {
		if cleanupErr := cleanup(); cleanupErr != nil {
			t.Fatalf("cleanup: %v", cleanupErr)
		}
	}()

	if len(data) != 1<<16 {
		t.Fatalf("len = %d, want %d", len(data), 1<<16)
	}
	for i, b := range data {
		if b != 0 {
			t.Fatalf("byte %d = 0x%x, want zeroed memory", i, b)
		}
	}
	data[0], data[len(data)-1] = 0xAA, 0xBB
	if data[0] != 0xAA || data[len(data)-1] != 0xBB {
		t.Fatalf("mapping is not writable")
	}
}

func TestMapCleanupTwice(t *testing.T) {
	_, cleanup, err := Map(4096)
	if err != nil {
		t.Fatalf("Map: %v", err)
	}
	if err := cleanup(); err != nil {
		t.Fatalf("first cleanup: %v", err)
	}
	if err := cleanup(); err != nil {
		t.Fatalf("second cleanup: %v", err)
	}
}

func TestMapRejectsBadSize(t *testing.T) {
	for _, size := range []int{0, -1} {
		if _, _, err := Map(size); !errors.Is(err, ErrInvalidSize) {
			t.Fatalf("Map(%d) error = %v, want ErrInvalidSize", size, err)
		}
	}
}
