// Package snapshot encodes a BlockPartition into a compact, checksummed byte
// form so callers can cache partitions or pass them to another process.
//
// # Layout
//
//	offset  size  field
//	0       4     magic "NKLP"
//	4       1     version (1)
//	5       1     flags (bit 0: big endian, other bits reserved)
//	6       1     compression (format.CompressionType)
//	7       1     partition kind (format.PartitionKind)
//	8       4     payload length in bytes, as stored
//	12      4     reserved, zero
//	16      8     xxHash64 of the uncompressed payload
//	24      n     payload, compressed as declared
//
// The uncompressed payload is
//
//	points u32, bins u32, levels u32
//	per level: blocks u32, blockLen f64, blocks*bins f64 counts
//
// All multi-byte fields use the byte order declared in the flags.
//
// Decode verifies the header, the checksum and the payload structure, then
// rebuilds the partition through distribution.NewBlockPartition, so a decoded
// state or independence partition is re-checked for consistency.
package snapshot
