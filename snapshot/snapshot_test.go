package snapshot

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/neurokl/distribution"
	"github.com/arloliu/neurokl/endian"
	"github.com/arloliu/neurokl/errs"
	"github.com/arloliu/neurokl/format"
	"github.com/arloliu/neurokl/internal/hash"
	"github.com/arloliu/neurokl/state"
)

var allCompressions = []format.CompressionType{
	format.CompressionNone,
	format.CompressionZstd,
	format.CompressionS2,
	format.CompressionLZ4,
}

func testSpikes(seed uint64, n, channels int) state.SpikeMatrix {
	rng := rand.New(rand.NewPCG(seed, seed+3))
	spikes := make(state.SpikeMatrix, n)
	for t := range spikes {
		row := make([]uint8, channels)
		for k := range row {
			if rng.Float64() < 0.1+0.2*float64(k) {
				row[k] = 1
			}
		}
		spikes[t] = row
	}

	return spikes
}

func testPartitions(t *testing.T) map[string]*distribution.BlockPartition {
	t.Helper()

	spikes := testSpikes(1, 1003, 3)
	states, err := state.Encode(spikes)
	require.NoError(t, err)

	observed, err := distribution.Partition(states, 3, 1003)
	require.NoError(t, err)
	independent, err := distribution.Independent(spikes, 3, 1003)
	require.NoError(t, err)
	transitions, err := distribution.TransitionPartition(states, 3, distribution.WithLag(2))
	require.NoError(t, err)

	return map[string]*distribution.BlockPartition{
		"states":      observed,
		"independent": independent,
		"transition":  transitions,
	}
}

func TestRoundTrip(t *testing.T) {
	engines := map[string]endian.EndianEngine{
		"little": endian.GetLittleEndianEngine(),
		"big":    endian.GetBigEndianEngine(),
	}

	for name, p := range testPartitions(t) {
		for _, ct := range allCompressions {
			for engineName, engine := range engines {
				t.Run(fmt.Sprintf("%s/%s/%s", name, ct, engineName), func(t *testing.T) {
					data, err := Encode(p, WithCompression(ct), WithEndian(engine))
					require.NoError(t, err)

					h, err := ParseHeader(data)
					require.NoError(t, err)
					require.Equal(t, ct, h.Compression)
					require.Equal(t, p.Kind, h.Kind)
					require.Equal(t, endian.IsBigEndian(engine), h.IsBigEndian())

					decoded, err := Decode(data)
					require.NoError(t, err)
					require.Equal(t, p, decoded)
				})
			}
		}
	}
}

func TestEncodeDefaults(t *testing.T) {
	p := testPartitions(t)["states"]

	data, err := Encode(p)
	require.NoError(t, err)
	require.Equal(t, Magic, string(data[:4]))

	h, err := ParseHeader(data)
	require.NoError(t, err)
	require.Equal(t, Version, h.Version)
	require.Equal(t, format.CompressionNone, h.Compression)
	require.False(t, h.IsBigEndian())
	require.Equal(t, len(data)-HeaderSize-ChecksumSize, int(h.PayloadLen))
}

func TestEncodeErrors(t *testing.T) {
	p := testPartitions(t)["states"]

	_, err := Encode(nil)
	require.ErrorIs(t, err, errs.ErrInvalidInput)

	_, err = Encode(p, WithCompression(format.CompressionType(9)))
	require.ErrorIs(t, err, errs.ErrUnsupportedCompression)

	_, err = Encode(p, WithEndian(nil))
	require.ErrorIs(t, err, errs.ErrInvalidInput)

	broken := *p
	broken.Kind = format.PartitionKind(0)
	_, err = Encode(&broken)
	require.ErrorIs(t, err, errs.ErrInvalidInput)
}

func TestDecodeCorruptedPayload(t *testing.T) {
	p := testPartitions(t)["states"]

	for _, ct := range allCompressions {
		t.Run(ct.String(), func(t *testing.T) {
			data, err := Encode(p, WithCompression(ct))
			require.NoError(t, err)

			corrupted := append([]byte(nil), data...)
			corrupted[len(corrupted)-1] ^= 0x5a

			_, err = Decode(corrupted)
			require.Error(t, err)
			require.True(t,
				errors.Is(err, errs.ErrChecksumMismatch) || errors.Is(err, errs.ErrInvalidPayload),
				"unexpected error: %v", err)
		})
	}
}

func TestDecodeCorruptedChecksum(t *testing.T) {
	data, err := Encode(testPartitions(t)["independent"])
	require.NoError(t, err)

	data[HeaderSize] ^= 0x01
	_, err = Decode(data)
	require.ErrorIs(t, err, errs.ErrChecksumMismatch)
}

func TestDecodeInvalidHeader(t *testing.T) {
	data, err := Encode(testPartitions(t)["states"], WithCompression(format.CompressionS2))
	require.NoError(t, err)

	mutate := func(fn func(b []byte) []byte) []byte {
		return fn(append([]byte(nil), data...))
	}

	tests := []struct {
		name string
		data []byte
		want error
	}{
		{"empty", nil, errs.ErrInvalidHeader},
		{"short header", data[:HeaderSize-1], errs.ErrInvalidHeader},
		{"missing checksum", data[:HeaderSize+3], errs.ErrInvalidHeader},
		{"truncated payload", data[:len(data)-1], errs.ErrInvalidHeader},
		{"trailing garbage", append(append([]byte(nil), data...), 0), errs.ErrInvalidHeader},
		{"bad magic", mutate(func(b []byte) []byte { b[0] = 'X'; return b }), errs.ErrInvalidHeader},
		{"bad version", mutate(func(b []byte) []byte { b[4] = 2; return b }), errs.ErrInvalidHeader},
		{"reserved flag", mutate(func(b []byte) []byte { b[5] |= 0x80; return b }), errs.ErrInvalidHeader},
		{"unknown kind", mutate(func(b []byte) []byte { b[7] = 0x7f; return b }), errs.ErrInvalidHeader},
		{"reserved bytes", mutate(func(b []byte) []byte { b[13] = 1; return b }), errs.ErrInvalidHeader},
		{"unknown compression", mutate(func(b []byte) []byte { b[6] = 0x7f; return b }), errs.ErrUnsupportedCompression},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(tt.data)
			require.ErrorIs(t, err, tt.want)
		})
	}
}

// rawSnapshot wraps a hand-built uncompressed payload in a valid header.
func rawSnapshot(kind format.PartitionKind, payload []byte) []byte {
	engine := endian.GetLittleEndianEngine()
	h := Header{
		Version:     Version,
		Compression: format.CompressionNone,
		Kind:        kind,
		PayloadLen:  uint32(len(payload)), //nolint: gosec
	}
	out := h.Bytes()
	out = engine.AppendUint64(out, hash.Checksum(payload))

	return append(out, payload...)
}

func TestDecodeMalformedPayload(t *testing.T) {
	engine := endian.GetLittleEndianEngine()
	header := func(points, bins, levels uint32) []byte {
		b := engine.AppendUint32(nil, points)
		b = engine.AppendUint32(b, bins)

		return engine.AppendUint32(b, levels)
	}

	t.Run("short preamble", func(t *testing.T) {
		_, err := Decode(rawSnapshot(format.KindTransition, []byte{1, 2, 3}))
		require.ErrorIs(t, err, errs.ErrInvalidPayload)
	})

	t.Run("level count larger than data", func(t *testing.T) {
		_, err := Decode(rawSnapshot(format.KindTransition, header(4, 2, 1000)))
		require.ErrorIs(t, err, errs.ErrInvalidPayload)
	})

	t.Run("truncated counts", func(t *testing.T) {
		payload := header(4, 2, 1)
		payload = engine.AppendUint32(payload, 2)
		payload = endian.AppendFloat64(engine, payload, 2)
		payload = endian.AppendFloat64(engine, payload, 1)
		_, err := Decode(rawSnapshot(format.KindTransition, payload))
		require.ErrorIs(t, err, errs.ErrInvalidPayload)
	})

	t.Run("zero bins", func(t *testing.T) {
		payload := header(4, 0, 1)
		payload = engine.AppendUint32(payload, 1)
		payload = endian.AppendFloat64(engine, payload, 4)
		_, err := Decode(rawSnapshot(format.KindTransition, payload))
		require.ErrorIs(t, err, errs.ErrInvalidPayload)
	})

	t.Run("trailing bytes", func(t *testing.T) {
		payload := header(2, 2, 1)
		payload = engine.AppendUint32(payload, 1)
		payload = endian.AppendFloat64(engine, payload, 1)
		payload = endian.AppendFloat64(engine, payload, 1)
		payload = endian.AppendFloat64(engine, payload, 1)
		payload = append(payload, 0xff)
		_, err := Decode(rawSnapshot(format.KindTransition, payload))
		require.ErrorIs(t, err, errs.ErrInvalidPayload)
	})

	t.Run("valid hand-built", func(t *testing.T) {
		payload := header(2, 2, 1)
		payload = engine.AppendUint32(payload, 1)
		payload = endian.AppendFloat64(engine, payload, 1)
		payload = endian.AppendFloat64(engine, payload, 0.5)
		payload = endian.AppendFloat64(engine, payload, 0.5)
		p, err := Decode(rawSnapshot(format.KindTransition, payload))
		require.NoError(t, err)
		require.Equal(t, []int{1}, p.BlockCounts())
	})
}

func TestDecodeRechecksConsistency(t *testing.T) {
	// Both levels hold four observations, but the two fine blocks do not add up
	// to the coarse one bin by bin.
	engine := endian.GetLittleEndianEngine()
	payload := engine.AppendUint32(nil, 4)
	payload = engine.AppendUint32(payload, 2)
	payload = engine.AppendUint32(payload, 2)

	payload = engine.AppendUint32(payload, 1)
	payload = endian.AppendFloat64(engine, payload, 4)
	payload = endian.AppendFloat64(engine, payload, 2)
	payload = endian.AppendFloat64(engine, payload, 2)

	payload = engine.AppendUint32(payload, 2)
	payload = endian.AppendFloat64(engine, payload, 2)
	for _, v := range []float64{1, 1, 0, 2} {
		payload = endian.AppendFloat64(engine, payload, v)
	}

	// The same payload is accepted when the kind is not consistency checked.
	_, err := Decode(rawSnapshot(format.KindTransition, payload))
	require.NoError(t, err)

	_, err = Decode(rawSnapshot(format.KindStates, payload))
	require.ErrorIs(t, err, errs.ErrConsistency)
}

func BenchmarkEncodeDecode(b *testing.B) {
	rng := rand.New(rand.NewPCG(1, 2))
	states := make(state.Sequence, 100000)
	for i := range states {
		states[i] = rng.IntN(1 << 10)
	}
	p, err := distribution.Partition(states, 10, len(states))
	if err != nil {
		b.Fatal(err)
	}

	for _, ct := range allCompressions {
		b.Run(ct.String(), func(b *testing.B) {
			b.ReportAllocs()
			for range b.N {
				data, err := Encode(p, WithCompression(ct))
				if err != nil {
					b.Fatal(err)
				}
				if _, err := Decode(data); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}
