package snapshot

import (
	"fmt"

	"github.com/arloliu/neurokl/endian"
	"github.com/arloliu/neurokl/errs"
	"github.com/arloliu/neurokl/format"
)

const (
	// Magic identifies a snapshot.
	Magic = "NKLP"
	// Version is the layout version written by Encode.
	Version uint8 = 1

	// HeaderSize is the size of the fixed header.
	HeaderSize = 16
	// ChecksumSize is the size of the payload checksum following the header.
	ChecksumSize = 8

	flagBigEndian uint8 = 0x01
	flagReserved        = ^flagBigEndian
)

// Header is the fixed-size header at the start of a snapshot.
type Header struct {
	Version     uint8
	Flags       uint8
	Compression format.CompressionType
	Kind        format.PartitionKind
	// PayloadLen is the length of the payload as stored, after compression.
	PayloadLen uint32
}

// IsBigEndian reports whether the multi-byte fields are big endian.
func (h Header) IsBigEndian() bool {
	return h.Flags&flagBigEndian != 0
}

// Engine returns the byte order engine declared by the flags.
func (h Header) Engine() endian.EndianEngine {
	return endian.FromBigEndianFlag(h.IsBigEndian())
}

// Bytes serializes the header.
func (h Header) Bytes() []byte {
	b := make([]byte, HeaderSize)
	copy(b[0:4], Magic)
	b[4] = h.Version
	b[5] = h.Flags
	b[6] = uint8(h.Compression)
	b[7] = uint8(h.Kind)
	h.Engine().PutUint32(b[8:12], h.PayloadLen)
	// bytes 12-15 reserved

	return b
}

// ParseHeader parses and validates the header at the start of data.
func ParseHeader(data []byte) (Header, error) {
	if len(data) < HeaderSize {
		return Header{}, fmt.Errorf("%w: %d bytes, need %d", errs.ErrInvalidHeader, len(data), HeaderSize)
	}
	if string(data[0:4]) != Magic {
		return Header{}, fmt.Errorf("%w: bad magic %q", errs.ErrInvalidHeader, data[0:4])
	}

	h := Header{
		Version:     data[4],
		Flags:       data[5],
		Compression: format.CompressionType(data[6]),
		Kind:        format.PartitionKind(data[7]),
	}
	h.PayloadLen = h.Engine().Uint32(data[8:12])

	if h.Version != Version {
		return Header{}, fmt.Errorf("%w: unsupported version %d", errs.ErrInvalidHeader, h.Version)
	}
	if h.Flags&flagReserved != 0 {
		return Header{}, fmt.Errorf("%w: reserved flag bits set (0x%02x)", errs.ErrInvalidHeader, h.Flags)
	}
	if !h.Kind.Valid() {
		return Header{}, fmt.Errorf("%w: unknown partition kind %d", errs.ErrInvalidHeader, h.Kind)
	}
	for _, b := range data[12:16] {
		if b != 0 {
			return Header{}, fmt.Errorf("%w: reserved bytes are not zero", errs.ErrInvalidHeader)
		}
	}

	return h, nil
}
