package format

import "github.com/joshuapare/buddykit/internal/buf"

// PutLink writes next into the link word of the free block at off.
func PutLink(b []byte, off, next uint64) error {
	word, ok := buf.Slice(b, off, LinkSize)
	if !ok {
		return ErrTruncated
	}
	buf.PutU64LE(word, next)
	return nil
}

// ReadLink returns the link word of the free block at off.
func ReadLink(b []byte, off uint64) (uint64, error) {
	word, ok := buf.Slice(b, off, LinkSize)
	if !ok {
		return NilLink, ErrTruncated
	}
	return buf.U64LE(word), nil
}
