package vcfmat

// Compression indicates how (and whether) the variant stream is
// compressed on disk.
type Compression uint32

const (
	CompressionDisabled Compression = iota
	CompressionGzip
	CompressionZStandard
)

func (c Compression) String() string {
	switch c {
	case CompressionDisabled:
		return "none"
	case CompressionGzip:
		return "gzip"
	case CompressionZStandard:
		return "zstd"

	default:
		return "Illegal selection"
	}
}

var (
	gzipMagic = []byte{0x1f, 0x8b}
	zstdMagic = []byte{0x28, 0xb5, 0x2f, 0xfd}
)

// sniffCompression classifies a stream by its leading magic bytes.
func sniffCompression(magic []byte) Compression {
	if len(magic) >= 2 && magic[0] == gzipMagic[0] && magic[1] == gzipMagic[1] {
		return CompressionGzip
	}

	if len(magic) >= 4 &&
		magic[0] == zstdMagic[0] && magic[1] == zstdMagic[1] &&
		magic[2] == zstdMagic[2] && magic[3] == zstdMagic[3] {
		return CompressionZStandard
	}

	return CompressionDisabled
}
