package compress

import (
	"fmt"

	"github.com/klauspost/compress/s2"
)

type S2Compressor struct{}

var _ Codec = (*S2Compressor)(nil)

// NewS2Compressor creates a new S2 codec.
//
// Returns:
//   - S2Compressor: New S2 codec instance
func NewS2Compressor() S2Compressor {
	return S2Compressor{}
}

// Compress compresses the input data using S2 block encoding.
//
// Snapshot payloads are mostly little-endian float64 counts with many zero bins,
// which S2 handles at close to memcpy speed.
//
// Parameters:
//   - data: Encoded snapshot payload to compress
//
// Returns:
//   - []byte: Compressed block (nil if input is empty)
//   - error: Always nil
func (c S2Compressor) Compress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}

	return s2.Encode(nil, data), nil
}

// Decompress decodes an S2 block.
//
// The decoded length stored in the block header is checked against
// maxDecompressedSize before any buffer is allocated, so a corrupted header
// cannot request an arbitrarily large allocation.
//
// Parameters:
//   - data: Compressed block to decode
//
// Returns:
//   - []byte: Decoded payload (nil if input is empty)
//   - error: Wrapped s2 error if the block is corrupted or too large
func (c S2Compressor) Decompress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}

	n, err := s2.DecodedLen(data)
	if err != nil {
		return nil, fmt.Errorf("s2 decompression failed: %w", err)
	}
	if n > maxDecompressedSize {
		return nil, fmt.Errorf("s2 decompression failed: decoded length %d exceeds %d bytes", n, maxDecompressedSize)
	}

	out, err := s2.Decode(make([]byte, n), data)
	if err != nil {
		return nil, fmt.Errorf("s2 decompression failed: %w", err)
	}

	return out, nil
}
