package compress

import (
	"fmt"

	"github.com/arloliu/neurokl/errs"
	"github.com/arloliu/neurokl/format"
)

// maxDecompressedSize caps the output of the block codecs that size their own
// buffers (S2 and LZ4).
const maxDecompressedSize = 128 * 1024 * 1024

// Compressor compresses an encoded snapshot payload.
type Compressor interface {
	// Compress returns the compressed form of data.
	//
	// The returned slice is owned by the caller unless documented otherwise by
	// the implementation. data is never modified.
	Compress(data []byte) ([]byte, error)
}

// Decompressor restores a payload produced by the matching Compressor.
type Decompressor interface {
	// Decompress returns the original payload, or an error if data is corrupted
	// or was produced by a different algorithm.
	Decompress(data []byte) ([]byte, error)
}

// Codec combines both directions.
type Codec interface {
	Compressor
	Decompressor
}

var builtinCodecs = map[format.CompressionType]Codec{
	format.CompressionNone: NewNoOpCompressor(),
	format.CompressionZstd: NewZstdCompressor(),
	format.CompressionS2:   NewS2Compressor(),
	format.CompressionLZ4:  NewLZ4Compressor(),
}

// GetCodec returns the built-in Codec for compressionType.
//
// Unknown types fail with errs.ErrUnsupportedCompression.
func GetCodec(compressionType format.CompressionType) (Codec, error) {
	if codec, ok := builtinCodecs[compressionType]; ok {
		return codec, nil
	}

	return nil, fmt.Errorf("%w: %s (0x%02x)", errs.ErrUnsupportedCompression, compressionType, uint8(compressionType))
}
