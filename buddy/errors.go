package buddy

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidConfiguration indicates the region or free-list storage handed to New
	// cannot describe a buddy heap. It is never returned once a Heap exists.
	ErrInvalidConfiguration = errors.New("buddy: invalid configuration")

	// ErrAllocationTooLarge indicates the request does not fit in the largest order.
	ErrAllocationTooLarge = errors.New("buddy: allocation too large")

	// ErrOutOfMemory indicates no free block of a sufficient order exists.
	ErrOutOfMemory = errors.New("buddy: out of memory")

	// ErrBadAlignment indicates the requested alignment is not a power of two.
	ErrBadAlignment = errors.New("buddy: alignment must be a power of two")
)

// ConfigError describes why New rejected a configuration.
// It wraps ErrInvalidConfiguration.
type ConfigError struct {
	Field   string // Offending input (e.g., "size", "base", "orders")
	Message string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("buddy: invalid configuration: %s: %s", e.Field, e.Message)
}

func (e *ConfigError) Unwrap() error {
	return ErrInvalidConfiguration
}

// ValidationError describes a broken heap invariant found by Verify.
type ValidationError struct {
	Type    string         // Check that failed (e.g., "FreeList", "Tiling")
	Message string         // Human-readable description
	Addr    Addr           // Block address involved (NilAddr if N/A)
	Details map[string]any // Additional context
}

func (e *ValidationError) Error() string {
	if e.Addr != NilAddr {
		return fmt.Sprintf("%s at 0x%X: %s", e.Type, uint64(e.Addr), e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}
