package vcfmat

import (
	"io"

	"github.com/DataDog/zstd"
)

// NewZStandardReader wraps a Zstandard-compressed stream in a
// decompressing reader. The caller owns the returned Closer.
func NewZStandardReader(r io.Reader) io.ReadCloser {
	return zstd.NewReader(r)
}
