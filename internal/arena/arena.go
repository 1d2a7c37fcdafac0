// Package arena provides zeroed backing memory for buddy heaps in hosted
// programs, where no boot loader hands over a reserved region.
package arena

import (
	"errors"
	"fmt"
)

// ErrInvalidSize indicates a non-positive mapping size.
var ErrInvalidSize = errors.New("arena: size must be positive")

func checkSize(size int) error {
	if size <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidSize, size)
	}
	return nil
}
