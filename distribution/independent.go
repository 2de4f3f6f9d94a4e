package distribution

import (
	"fmt"

	"gonum.org/v1/gonum/floats"

	"github.com/arloliu/neurokl/errs"
	"github.com/arloliu/neurokl/format"
	"github.com/arloliu/neurokl/state"
)

// FiringProbabilities returns p1[k], the fraction of the first nPoints time steps
// in which channel k is active.
func FiringProbabilities(spikes state.SpikeMatrix, channels, nPoints int) ([]float64, error) {
	actual, err := state.Channels(spikes)
	if err != nil {
		return nil, err
	}
	if err := checkChannels(channels); err != nil {
		return nil, err
	}
	if actual != channels {
		return nil, fmt.Errorf("%w: matrix has %d channels, expected %d", errs.ErrShapeMismatch, actual, channels)
	}
	if nPoints < 1 || nPoints > len(spikes) {
		return nil, fmt.Errorf("%w: n_points %d outside [1, %d]", errs.ErrInvalidInput, nPoints, len(spikes))
	}

	p1 := make([]float64, channels)
	for t, row := range spikes[:nPoints] {
		for k, v := range row {
			if v > 1 {
				return nil, fmt.Errorf("%w: input array must be binary, got %d at row %d channel %d",
					errs.ErrInvalidInput, v, t, k)
			}
			p1[k] += float64(v)
		}
	}
	floats.Scale(1/float64(nPoints), p1)

	return p1, nil
}

// IndependentDistribution returns the probability of every state under the
// assumption that channels fire independently with their empirical marginal rates:
// P(s) = prod_k (p1[k] if bit k of s is set, else 1 - p1[k]), channel 0 being the
// most significant bit.
func IndependentDistribution(spikes state.SpikeMatrix, channels, nPoints int) (Counts, error) {
	p1, err := FiringProbabilities(spikes, channels, nPoints)
	if err != nil {
		return nil, err
	}

	// each pass appends one less significant bit
	dist := make(Counts, 1, state.NumStates(channels))
	dist[0] = 1
	for _, p := range p1 {
		next := make(Counts, 2*len(dist))
		for i, v := range dist {
			next[2*i] = v * (1 - p)
			next[2*i+1] = v * p
		}
		dist = next
	}

	return dist, nil
}

// Independent builds a block partition of the channel-independence null model.
//
// For each block count d the independence distribution scaled by nPoints/d is
// replicated d times; blocks are identical rather than resampled. Only
// WithBlockCounts applies; WithShuffle is rejected because every block is the same.
func Independent(spikes state.SpikeMatrix, channels, nPoints int, opts ...PartitionOption) (*BlockPartition, error) {
	cfg, err := newPartitionConfig(opts)
	if err != nil {
		return nil, err
	}
	if cfg.shuffle {
		return nil, fmt.Errorf("%w: shuffling does not apply to the independence model", errs.ErrInvalidInput)
	}

	indep, err := IndependentDistribution(spikes, channels, nPoints)
	if err != nil {
		return nil, err
	}
	blockCounts, err := normalizeBlockCounts(cfg.blockCounts, nPoints)
	if err != nil {
		return nil, err
	}

	p := &BlockPartition{
		Kind:   format.KindIndependent,
		Points: nPoints,
		Bins:   len(indep),
		Levels: make([]Level, len(blockCounts)),
	}
	for li, d := range blockCounts {
		blockLen := float64(nPoints) / float64(d)
		block := indep.Clone()
		floats.Scale(blockLen, block)

		lvl := Level{Blocks: d, BlockLen: blockLen, Dists: make([]Counts, d)}
		for i := range d {
			lvl.Dists[i] = block.Clone()
		}
		p.Levels[li] = lvl
	}

	if err := p.CheckConsistency(); err != nil {
		return nil, err
	}

	return p, nil
}
