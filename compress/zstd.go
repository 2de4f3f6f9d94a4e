package compress

// ZstdCompressor provides Zstandard compression. It gives the best ratio of the
// built-in codecs and is the usual choice for partitions that are cached or
// handed to another process.
//
// The implementation is chosen at build time; see the package documentation.
type ZstdCompressor struct{}

var _ Codec = (*ZstdCompressor)(nil)

// NewZstdCompressor creates a new Zstd codec with default settings.
func NewZstdCompressor() ZstdCompressor {
	return ZstdCompressor{}
}
