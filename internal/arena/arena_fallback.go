//go:build !(linux || darwin || freebsd || netbsd || openbsd)

package arena

// Map allocates size zeroed bytes from the Go heap when anonymous mappings
// are not available.
func Map(size int) ([]byte, func() error, error) {
	if err := checkSize(size); err != nil {
		return nil, nil, err
	}
	return make([]byte, size), func() error { return nil }, nil
}
