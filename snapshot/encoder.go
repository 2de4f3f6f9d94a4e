package snapshot

import (
	"fmt"
	"math"

	"github.com/arloliu/neurokl/compress"
	"github.com/arloliu/neurokl/distribution"
	"github.com/arloliu/neurokl/endian"
	"github.com/arloliu/neurokl/errs"
	"github.com/arloliu/neurokl/format"
	"github.com/arloliu/neurokl/internal/hash"
	"github.com/arloliu/neurokl/internal/options"
)

type encoderConfig struct {
	compression format.CompressionType
	engine      endian.EndianEngine
}

// EncodeOption configures Encode.
type EncodeOption = options.Option[*encoderConfig]

// WithCompression sets the payload compression. The default is none.
func WithCompression(ct format.CompressionType) EncodeOption {
	return options.New(func(cfg *encoderConfig) error {
		if _, err := compress.GetCodec(ct); err != nil {
			return err
		}
		cfg.compression = ct

		return nil
	})
}

// WithEndian sets the byte order of multi-byte fields. The default is little endian.
func WithEndian(engine endian.EndianEngine) EncodeOption {
	return options.New(func(cfg *encoderConfig) error {
		if engine == nil {
			return fmt.Errorf("%w: nil endian engine", errs.ErrInvalidInput)
		}
		cfg.engine = engine

		return nil
	})
}

// Encode serializes p.
func Encode(p *distribution.BlockPartition, opts ...EncodeOption) ([]byte, error) {
	cfg := &encoderConfig{
		compression: format.CompressionNone,
		engine:      endian.GetLittleEndianEngine(),
	}
	if err := options.Apply(cfg, opts...); err != nil {
		return nil, err
	}
	if p == nil {
		return nil, fmt.Errorf("%w: nil partition", errs.ErrInvalidInput)
	}
	if err := checkEncodable(p); err != nil {
		return nil, err
	}

	payload := encodePayload(cfg.engine, p)

	codec, err := compress.GetCodec(cfg.compression)
	if err != nil {
		return nil, err
	}
	stored, err := codec.Compress(payload)
	if err != nil {
		return nil, fmt.Errorf("compress %s payload: %w", cfg.compression, err)
	}
	if uint64(len(stored)) > math.MaxUint32 {
		return nil, fmt.Errorf("%w: payload of %d bytes is too large", errs.ErrInvalidInput, len(stored))
	}

	h := Header{
		Version:     Version,
		Compression: cfg.compression,
		Kind:        p.Kind,
		PayloadLen:  uint32(len(stored)), //nolint: gosec
	}
	if endian.IsBigEndian(cfg.engine) {
		h.Flags |= flagBigEndian
	}

	out := make([]byte, 0, HeaderSize+ChecksumSize+len(stored))
	out = append(out, h.Bytes()...)
	out = cfg.engine.AppendUint64(out, hash.Checksum(payload))
	out = append(out, stored...)

	return out, nil
}

func checkEncodable(p *distribution.BlockPartition) error {
	if !p.Kind.Valid() {
		return fmt.Errorf("%w: unknown partition kind %d", errs.ErrInvalidInput, p.Kind)
	}
	if p.Points < 0 || uint64(p.Points) > math.MaxUint32 || p.Bins < 0 || uint64(p.Bins) > math.MaxUint32 {
		return fmt.Errorf("%w: points=%d bins=%d out of range", errs.ErrInvalidInput, p.Points, p.Bins)
	}
	for _, lvl := range p.Levels {
		if len(lvl.Dists) != lvl.Blocks {
			return fmt.Errorf("%w: level d=%d holds %d blocks", errs.ErrShapeMismatch, lvl.Blocks, len(lvl.Dists))
		}
		for _, d := range lvl.Dists {
			if len(d) != p.Bins {
				return fmt.Errorf("%w: level d=%d has a block of %d bins, expected %d",
					errs.ErrShapeMismatch, lvl.Blocks, len(d), p.Bins)
			}
		}
	}

	return nil
}

func encodePayload(engine endian.EndianEngine, p *distribution.BlockPartition) []byte {
	size := 12
	for _, lvl := range p.Levels {
		size += 12 + 8*lvl.Blocks*p.Bins
	}

	buf := make([]byte, 0, size)
	buf = engine.AppendUint32(buf, uint32(p.Points)) //nolint: gosec
	buf = engine.AppendUint32(buf, uint32(p.Bins))   //nolint: gosec
	buf = engine.AppendUint32(buf, uint32(len(p.Levels)))

	for _, lvl := range p.Levels {
		buf = engine.AppendUint32(buf, uint32(lvl.Blocks)) //nolint: gosec
		buf = endian.AppendFloat64(engine, buf, lvl.BlockLen)
		for _, d := range lvl.Dists {
			for _, v := range d {
				buf = endian.AppendFloat64(engine, buf, v)
			}
		}
	}

	return buf
}
