package format

import "errors"

// ErrTruncated indicates the backing slice lacked the bytes required for a link word.
var ErrTruncated = errors.New("format: truncated buffer")
