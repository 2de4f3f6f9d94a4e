package format

type (
	CompressionType uint8
	PartitionKind   uint8
)

const (
	CompressionNone CompressionType = 0x1 // CompressionNone represents no compression.
	CompressionZstd CompressionType = 0x2 // CompressionZstd represents Zstandard compression.
	CompressionS2   CompressionType = 0x3 // CompressionS2 represents S2 compression.
	CompressionLZ4  CompressionType = 0x4 // CompressionLZ4 represents LZ4 compression.
)

const (
	KindStates      PartitionKind = 0x1 // KindStates is a partition of observed state counts.
	KindIndependent PartitionKind = 0x2 // KindIndependent is a channel-independence null model.
	KindTransition  PartitionKind = 0x3 // KindTransition is a partition of flattened transition matrices.
)

func (c CompressionType) String() string {
	switch c {
	case CompressionNone:
		return "None"
	case CompressionZstd:
		return "Zstd"
	case CompressionS2:
		return "S2"
	case CompressionLZ4:
		return "LZ4"
	default:
		return "Unknown"
	}
}

func (k PartitionKind) String() string {
	switch k {
	case KindStates:
		return "States"
	case KindIndependent:
		return "Independent"
	case KindTransition:
		return "Transition"
	default:
		return "Unknown"
	}
}

// Checked reports whether partitions of this kind must satisfy the
// cross-granularity consistency invariant.
func (k PartitionKind) Checked() bool {
	return k == KindStates || k == KindIndependent
}

// Valid reports whether k is a known partition kind.
func (k PartitionKind) Valid() bool {
	return k >= KindStates && k <= KindTransition
}
