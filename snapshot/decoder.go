package snapshot

import (
	"fmt"

	"github.com/arloliu/neurokl/compress"
	"github.com/arloliu/neurokl/distribution"
	"github.com/arloliu/neurokl/endian"
	"github.com/arloliu/neurokl/errs"
	"github.com/arloliu/neurokl/internal/hash"
)

// Decode parses a snapshot produced by Encode and returns the partition.
func Decode(data []byte) (*distribution.BlockPartition, error) {
	h, err := ParseHeader(data)
	if err != nil {
		return nil, err
	}

	body := data[HeaderSize:]
	if len(body) < ChecksumSize {
		return nil, fmt.Errorf("%w: missing checksum", errs.ErrInvalidHeader)
	}
	engine := h.Engine()
	want := engine.Uint64(body[:ChecksumSize])
	stored := body[ChecksumSize:]
	if uint64(len(stored)) != uint64(h.PayloadLen) {
		return nil, fmt.Errorf("%w: payload is %d bytes, header declares %d",
			errs.ErrInvalidHeader, len(stored), h.PayloadLen)
	}

	codec, err := compress.GetCodec(h.Compression)
	if err != nil {
		return nil, err
	}
	payload, err := codec.Decompress(stored)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errs.ErrInvalidPayload, err)
	}
	if got := hash.Checksum(payload); got != want {
		return nil, fmt.Errorf("%w: got %016x, want %016x", errs.ErrChecksumMismatch, got, want)
	}

	r := payloadReader{engine: engine, buf: payload}
	points := r.readUint32()
	bins := r.readUint32()
	nLevels := r.readUint32()
	if r.err != nil {
		return nil, r.err
	}

	levels := make([]distribution.Level, 0, min(int(nLevels), r.remaining()/12))
	for range nLevels {
		blocks := int(r.readUint32())
		blockLen := r.readFloat64()
		if r.err != nil {
			return nil, r.err
		}
		if blocks < 1 || int(bins) < 1 {
			return nil, fmt.Errorf("%w: level with %d blocks of %d bins", errs.ErrInvalidPayload, blocks, bins)
		}
		if r.remaining()/8/int(bins) < blocks {
			return nil, fmt.Errorf("%w: truncated level d=%d", errs.ErrInvalidPayload, blocks)
		}

		lvl := distribution.Level{Blocks: blocks, BlockLen: blockLen, Dists: make([]distribution.Counts, blocks)}
		for i := range lvl.Dists {
			counts := make(distribution.Counts, bins)
			for j := range counts {
				counts[j] = r.readFloat64()
			}
			lvl.Dists[i] = counts
		}
		levels = append(levels, lvl)
	}
	if r.err != nil {
		return nil, r.err
	}
	if r.remaining() != 0 {
		return nil, fmt.Errorf("%w: %d trailing bytes", errs.ErrInvalidPayload, r.remaining())
	}

	return distribution.NewBlockPartition(h.Kind, int(points), int(bins), levels)
}

// payloadReader reads fixed-size fields and records the first short read.
type payloadReader struct {
	engine endian.EndianEngine
	buf    []byte
	off    int
	err    error
}

func (r *payloadReader) remaining() int {
	return len(r.buf) - r.off
}

func (r *payloadReader) next(n int) []byte {
	if r.err != nil {
		return nil
	}
	if r.remaining() < n {
		r.err = fmt.Errorf("%w: truncated at offset %d", errs.ErrInvalidPayload, r.off)
		return nil
	}
	b := r.buf[r.off : r.off+n]
	r.off += n

	return b
}

func (r *payloadReader) readUint32() uint32 {
	b := r.next(4)
	if b == nil {
		return 0
	}

	return r.engine.Uint32(b)
}

func (r *payloadReader) readFloat64() float64 {
	b := r.next(8)
	if b == nil {
		return 0
	}

	return endian.Float64(r.engine, b)
}
