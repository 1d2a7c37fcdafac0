//go:build linux || darwin || freebsd || netbsd || openbsd

package arena

import (
	"errors"

	"golang.org/x/sys/unix"
)

// Map reserves size bytes of zeroed, private anonymous memory outside the Go
// heap. The cleanup func unmaps it; calling it twice is a no-op.
func Map(size int) ([]byte, func() error, error) {
	if err := checkSize(size); err != nil {
		return nil, nil, err
	}
	data, err := unix.Mmap(-1, 0, size, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_PRIVATE|unix.MAP_ANON)
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() error {
		if data == nil {
			return nil
		}
		err := unix.Munmap(data)
		data = nil
		if errors.Is(err, unix.EINVAL) {
			return nil
		}
		return err
	}
	return data, cleanup, nil
}
