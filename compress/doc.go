// Package compress provides the payload codecs used by the snapshot format.
//
// Every codec implements Codec and is selected by a format.CompressionType:
//
//   - None: payload stored as is
//   - Zstd: best ratio, suited to partitions kept around for a long time
//   - S2: fast, moderate ratio
//   - LZ4: fastest decompression
//
// Snapshot payloads are dense float64 histograms. Count histograms built from
// short blocks are mostly small integers and many exact zeros, so they compress
// well; independence-model histograms hold arbitrary reals and compress poorly.
//
// Zstd uses the pure Go github.com/klauspost/compress/zstd implementation by
// default. Building with both cgo and the gozstd tag switches to
// github.com/valyala/gozstd:
//
//	go build -tags gozstd ./...
//
// Both produce standard zstd frames and can read each other's output.
//
// All codecs are safe for concurrent use.
package compress
