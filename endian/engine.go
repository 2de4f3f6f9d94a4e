// Package endian selects the byte order of encoded snapshots.
//
// An EndianEngine combines binary.ByteOrder and binary.AppendByteOrder, so the
// same value can both read fixed-size fields and append them to a growing buffer:
//
//	engine := endian.GetLittleEndianEngine()
//	buf = engine.AppendUint32(buf, uint32(bins))
//	buf = endian.AppendFloat64(engine, buf, count)
//
// Snapshots are little endian unless the caller asks otherwise; the choice is
// recorded in the snapshot header so the decoder can pick the matching engine
// with FromBigEndianFlag.
//
// All functions in this package are safe for concurrent use. The returned
// engines are immutable and stateless.
package endian

import (
	"encoding/binary"
	"math"
)

// EndianEngine combines ByteOrder and AppendByteOrder from encoding/binary.
//
// binary.LittleEndian and binary.BigEndian both satisfy it.
type EndianEngine interface {
	binary.ByteOrder
	binary.AppendByteOrder
}

// GetLittleEndianEngine returns the little-endian engine.
func GetLittleEndianEngine() EndianEngine {
	return binary.LittleEndian
}

// GetBigEndianEngine returns the big-endian engine.
func GetBigEndianEngine() EndianEngine {
	return binary.BigEndian
}

// IsBigEndian reports whether engine writes the most significant byte first.
func IsBigEndian(engine EndianEngine) bool {
	return engine == binary.BigEndian
}

// FromBigEndianFlag returns the big-endian engine when bigEndian is set and the
// little-endian engine otherwise.
func FromBigEndianFlag(bigEndian bool) EndianEngine {
	if bigEndian {
		return binary.BigEndian
	}

	return binary.LittleEndian
}

// AppendFloat64 appends the IEEE 754 bits of v to buf.
func AppendFloat64(engine EndianEngine, buf []byte, v float64) []byte {
	return engine.AppendUint64(buf, math.Float64bits(v))
}

// Float64 decodes an IEEE 754 value from the first 8 bytes of b.
func Float64(engine EndianEngine, b []byte) float64 {
	return math.Float64frombits(engine.Uint64(b))
}
