package distribution

import (
	"fmt"
	"math/rand/v2"
	"slices"

	"github.com/arloliu/neurokl/errs"
	"github.com/arloliu/neurokl/format"
	"github.com/arloliu/neurokl/internal/options"
	"github.com/arloliu/neurokl/state"
)

// DefaultBlockCounts returns the canonical block counts {1, 2, 4}.
func DefaultBlockCounts() []int {
	return []int{1, 2, 4}
}

// Level holds the d block histograms of one granularity.
type Level struct {
	// Blocks is the block count d.
	Blocks int
	// BlockLen is the number of observations per block.
	BlockLen float64
	// Dists holds exactly Blocks histograms in sequence order.
	Dists []Counts
}

// Total returns the sum of counts over all blocks of the level.
func (l *Level) Total() float64 {
	total := 0.0
	for _, d := range l.Dists {
		total += d.Sum()
	}

	return total
}

// BlockPartition maps block counts to their block histograms.
//
// Levels are ordered by ascending block count. A partition is immutable once
// returned by one of the builders.
type BlockPartition struct {
	// Kind tells how the histograms were produced.
	Kind format.PartitionKind
	// Points is the number of observations N the partition was built from.
	Points int
	// Bins is the length of every histogram.
	Bins int
	// Levels holds one record per block count, ascending.
	Levels []Level
}

// NewBlockPartition assembles a partition from prebuilt levels and validates it.
//
// The levels are sorted by block count. Shape errors are reported as
// errs.ErrShapeMismatch or errs.ErrInvalidInput; partitions whose kind requires it
// are additionally checked for consistency.
func NewBlockPartition(kind format.PartitionKind, points, bins int, levels []Level) (*BlockPartition, error) {
	p := &BlockPartition{
		Kind:   kind,
		Points: points,
		Bins:   bins,
		Levels: slices.Clone(levels),
	}
	slices.SortFunc(p.Levels, func(a, b Level) int { return a.Blocks - b.Blocks })

	if err := p.validateShape(); err != nil {
		return nil, err
	}
	if kind.Checked() {
		if err := p.CheckConsistency(); err != nil {
			return nil, err
		}
	}

	return p, nil
}

// Level returns the level with block count d.
func (p *BlockPartition) Level(d int) (*Level, bool) {
	for i := range p.Levels {
		if p.Levels[i].Blocks == d {
			return &p.Levels[i], true
		}
	}

	return nil, false
}

// BlockCounts returns the block counts present, ascending.
func (p *BlockPartition) BlockCounts() []int {
	out := make([]int, len(p.Levels))
	for i := range p.Levels {
		out[i] = p.Levels[i].Blocks
	}

	return out
}

func (p *BlockPartition) validateShape() error {
	if !p.Kind.Valid() {
		return fmt.Errorf("%w: unknown partition kind %d", errs.ErrInvalidInput, p.Kind)
	}
	if p.Points < 1 || p.Bins < 1 {
		return fmt.Errorf("%w: points=%d bins=%d", errs.ErrInvalidInput, p.Points, p.Bins)
	}
	if len(p.Levels) == 0 {
		return fmt.Errorf("%w: partition has no levels", errs.ErrInvalidInput)
	}

	for i := range p.Levels {
		lvl := &p.Levels[i]
		if lvl.Blocks < 1 {
			return fmt.Errorf("%w: block count %d", errs.ErrInvalidInput, lvl.Blocks)
		}
		if i > 0 && p.Levels[i-1].Blocks == lvl.Blocks {
			return fmt.Errorf("%w: duplicate block count %d", errs.ErrInvalidInput, lvl.Blocks)
		}
		if len(lvl.Dists) != lvl.Blocks {
			return fmt.Errorf("%w: level d=%d holds %d blocks", errs.ErrShapeMismatch, lvl.Blocks, len(lvl.Dists))
		}
		for j, d := range lvl.Dists {
			if len(d) != p.Bins {
				return fmt.Errorf("%w: level d=%d block %d has %d bins, expected %d",
					errs.ErrShapeMismatch, lvl.Blocks, j, len(d), p.Bins)
			}
		}
	}

	return nil
}

type partitionConfig struct {
	blockCounts []int
	shuffle     bool
	rng         *rand.Rand
}

// PartitionOption configures Partition and Independent.
type PartitionOption = options.Option[*partitionConfig]

// WithBlockCounts sets the block counts to build. The default is {1, 2, 4}.
func WithBlockCounts(counts ...int) PartitionOption {
	return options.New(func(cfg *partitionConfig) error {
		if len(counts) == 0 {
			return fmt.Errorf("%w: at least one block count is required", errs.ErrInvalidInput)
		}
		cfg.blockCounts = slices.Clone(counts)

		return nil
	})
}

// WithShuffle randomly permutes the sequence with rng before partitioning.
//
// The permutation is drawn only from rng, so a seeded source reproduces it.
// Shuffling destroys temporal structure and is used to build null distributions.
func WithShuffle(rng *rand.Rand) PartitionOption {
	return options.New(func(cfg *partitionConfig) error {
		if rng == nil {
			return fmt.Errorf("%w: shuffle requires a random source", errs.ErrInvalidInput)
		}
		cfg.shuffle = true
		cfg.rng = rng

		return nil
	})
}

func newPartitionConfig(opts []PartitionOption) (*partitionConfig, error) {
	cfg := &partitionConfig{blockCounts: DefaultBlockCounts()}
	if err := options.Apply(cfg, opts...); err != nil {
		return nil, err
	}

	return cfg, nil
}

// normalizeBlockCounts returns counts sorted ascending after checking that every
// entry is unique and fits in nPoints observations.
func normalizeBlockCounts(counts []int, nPoints int) ([]int, error) {
	out := slices.Clone(counts)
	slices.Sort(out)
	for i, d := range out {
		if d < 1 || d > nPoints {
			return nil, fmt.Errorf("%w: block count %d outside [1, %d]", errs.ErrInvalidInput, d, nPoints)
		}
		if i > 0 && out[i-1] == d {
			return nil, fmt.Errorf("%w: duplicate block count %d", errs.ErrInvalidInput, d)
		}
	}

	return out, nil
}

// Partition builds unnormalized state histograms for every requested block count.
//
// Only the first nPoints states are used. For block count d the sequence is cut
// into d contiguous chunks of floor(nPoints/d) states; a trailing remainder is
// dropped. With WithShuffle, a permuted copy of the whole sequence is partitioned
// and states is left untouched. The result is checked with CheckConsistency.
func Partition(states state.Sequence, channels, nPoints int, opts ...PartitionOption) (*BlockPartition, error) {
	cfg, err := newPartitionConfig(opts)
	if err != nil {
		return nil, err
	}
	if err := checkChannels(channels); err != nil {
		return nil, err
	}
	if nPoints < 1 || nPoints > len(states) {
		return nil, fmt.Errorf("%w: n_points %d outside [1, %d]", errs.ErrInvalidInput, nPoints, len(states))
	}
	blockCounts, err := normalizeBlockCounts(cfg.blockCounts, nPoints)
	if err != nil {
		return nil, err
	}

	seq := states
	if cfg.shuffle {
		seq = slices.Clone(states)
		cfg.rng.Shuffle(len(seq), func(i, j int) {
			seq[i], seq[j] = seq[j], seq[i]
		})
	}

	p := &BlockPartition{
		Kind:   format.KindStates,
		Points: nPoints,
		Bins:   state.NumStates(channels),
		Levels: make([]Level, len(blockCounts)),
	}
	for li, d := range blockCounts {
		blockLen := nPoints / d
		lvl := Level{Blocks: d, BlockLen: float64(blockLen), Dists: make([]Counts, d)}
		for i := range d {
			lvl.Dists[i], err = Histogram(seq[i*blockLen:(i+1)*blockLen], channels, false)
			if err != nil {
				return nil, err
			}
		}
		p.Levels[li] = lvl
	}

	if err := p.CheckConsistency(); err != nil {
		return nil, err
	}

	return p, nil
}
