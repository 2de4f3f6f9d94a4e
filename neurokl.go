// Package neurokl estimates the entropy and Kullback-Leibler divergence of
// binarized multichannel activity, correcting the downward bias that plug-in
// estimates show at small sample sizes.
//
// # Pipeline
//
// A recording is a SpikeMatrix of shape (time steps, channels) holding 0 or 1.
// Each row is encoded as one integer state (channel 0 is the most significant
// bit), the state sequence is cut into 1, 2 and 4 contiguous blocks, and every
// block becomes a histogram over the 2^C states. The Bayesian posterior-mean
// estimator is evaluated on every block and the per-level averages are
// extrapolated to infinite sample size.
//
// The functions in this package run the whole pipeline in one call:
//
//	spikes := state.SpikeMatrix{{0, 1, 1}, {1, 0, 1}, ...}
//
//	h, err := neurokl.Entropy(spikes)
//
//	// multi-information: KL between the joint and the channel-independent model
//	kl, h, err := neurokl.IndependenceKL(spikes)
//
//	// KL between lagged transitions and the temporally independent model
//	kl, h, err := neurokl.TransitionKL(spikes, neurokl.WithLag(2))
//
// All results are in bits.
//
// # Package Structure
//
// The stages are available individually for callers composing their own
// estimators:
//
//   - state: spike matrix to state sequence and back
//   - distribution: histograms, block partitions and null models
//   - estimator: Bayesian and plug-in entropy and KL
//   - extrapolate: finite-size extrapolation over a block partition
//   - snapshot: binary encoding of block partitions
package neurokl

import (
	"fmt"
	"math/rand/v2"
	"slices"

	"github.com/rs/zerolog"

	"github.com/arloliu/neurokl/distribution"
	"github.com/arloliu/neurokl/errs"
	"github.com/arloliu/neurokl/extrapolate"
	"github.com/arloliu/neurokl/internal/options"
	"github.com/arloliu/neurokl/state"
)

type config struct {
	blockCounts []int
	pseudocount float64
	rng         *rand.Rand
	lag         int
	parallelism int
	logger      zerolog.Logger
}

// Option configures the pipeline functions.
type Option = options.Option[*config]

// WithBlockCounts sets the block counts of the partitions. At least three are
// needed for extrapolation. The default is {1, 2, 4}.
func WithBlockCounts(counts ...int) Option {
	return options.New(func(cfg *config) error {
		if len(counts) == 0 {
			return fmt.Errorf("%w: at least one block count is required", errs.ErrInvalidInput)
		}
		cfg.blockCounts = slices.Clone(counts)

		return nil
	})
}

// WithPseudocount sets the Dirichlet prior count added to every bin. The default is 1.
func WithPseudocount(pc float64) Option {
	return options.NoError(func(cfg *config) {
		cfg.pseudocount = pc
	})
}

// WithShuffle shuffles the observed state sequence with rng before it is
// partitioned, which destroys temporal structure. It applies to Entropy and
// IndependenceKL.
func WithShuffle(rng *rand.Rand) Option {
	return options.New(func(cfg *config) error {
		if rng == nil {
			return fmt.Errorf("%w: shuffle requires a random source", errs.ErrInvalidInput)
		}
		cfg.rng = rng

		return nil
	})
}

// WithLag sets the transition lag used by TransitionKL. The default is 1.
func WithLag(lag int) Option {
	return options.NoError(func(cfg *config) {
		cfg.lag = lag
	})
}

// WithParallelism estimates up to n blocks concurrently.
func WithParallelism(n int) Option {
	return options.NoError(func(cfg *config) {
		cfg.parallelism = n
	})
}

// WithLogger sets the logger for debug events. The default discards everything.
func WithLogger(logger zerolog.Logger) Option {
	return options.NoError(func(cfg *config) {
		cfg.logger = logger
	})
}

func newConfig(opts []Option) (*config, error) {
	cfg := &config{
		blockCounts: distribution.DefaultBlockCounts(),
		pseudocount: extrapolate.DefaultPseudocount,
		lag:         1,
		parallelism: 1,
		logger:      zerolog.Nop(),
	}
	if err := options.Apply(cfg, opts...); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (cfg *config) partitionOptions() []distribution.PartitionOption {
	opts := []distribution.PartitionOption{distribution.WithBlockCounts(cfg.blockCounts...)}
	if cfg.rng != nil {
		opts = append(opts, distribution.WithShuffle(cfg.rng))
	}

	return opts
}

func (cfg *config) extrapolateOptions() []extrapolate.Option {
	return []extrapolate.Option{
		extrapolate.WithPseudocount(cfg.pseudocount),
		extrapolate.WithParallelism(cfg.parallelism),
		extrapolate.WithLogger(cfg.logger),
	}
}

// encode returns the state sequence and channel count of spikes.
func encode(spikes state.SpikeMatrix) (state.Sequence, int, error) {
	channels, err := state.Channels(spikes)
	if err != nil {
		return nil, 0, err
	}
	states, err := state.Encode(spikes)
	if err != nil {
		return nil, 0, err
	}

	return states, channels, nil
}

// Entropy returns the bias-corrected entropy of the joint state distribution
// of spikes, in bits.
func Entropy(spikes state.SpikeMatrix, opts ...Option) (float64, error) {
	cfg, err := newConfig(opts)
	if err != nil {
		return 0, err
	}
	states, channels, err := encode(spikes)
	if err != nil {
		return 0, err
	}

	n := len(states)
	p, err := distribution.Partition(states, channels, n, cfg.partitionOptions()...)
	if err != nil {
		return 0, err
	}
	cfg.logger.Debug().Int("channels", channels).Int("points", n).Msg("estimating entropy")

	return extrapolate.Entropy(p, n, cfg.extrapolateOptions()...)
}

// IndependenceKL returns the bias-corrected KL divergence between the observed
// joint state distribution and the distribution channels would have if they
// fired independently with their observed rates, together with the
// bias-corrected joint entropy. Both are in bits.
func IndependenceKL(spikes state.SpikeMatrix, opts ...Option) (kl, h float64, err error) {
	cfg, err := newConfig(opts)
	if err != nil {
		return 0, 0, err
	}
	states, channels, err := encode(spikes)
	if err != nil {
		return 0, 0, err
	}

	n := len(states)
	p, err := distribution.Partition(states, channels, n, cfg.partitionOptions()...)
	if err != nil {
		return 0, 0, err
	}
	q, err := distribution.Independent(spikes, channels, n, distribution.WithBlockCounts(cfg.blockCounts...))
	if err != nil {
		return 0, 0, err
	}
	cfg.logger.Debug().Int("channels", channels).Int("points", n).Msg("estimating independence divergence")

	return extrapolate.KL(p, q, n, cfg.extrapolateOptions()...)
}

// TransitionKL returns the bias-corrected KL divergence between the observed
// distribution of state pairs (s[t], s[t+lag]) and the pair distribution of a
// temporally independent process with the same state marginals, together with
// the bias-corrected entropy of the transitions. Both are in bits.
//
// WithShuffle does not apply: the temporal order is what is measured.
func TransitionKL(spikes state.SpikeMatrix, opts ...Option) (kl, h float64, err error) {
	cfg, err := newConfig(opts)
	if err != nil {
		return 0, 0, err
	}
	if cfg.rng != nil {
		return 0, 0, fmt.Errorf("%w: shuffling does not apply to transitions", errs.ErrInvalidInput)
	}
	states, channels, err := encode(spikes)
	if err != nil {
		return 0, 0, err
	}

	topts := []distribution.TransitionOption{
		distribution.WithLag(cfg.lag),
		distribution.WithTransitionBlockCounts(cfg.blockCounts...),
	}
	p, err := distribution.TransitionPartition(states, channels, topts...)
	if err != nil {
		return 0, 0, err
	}
	q, err := distribution.TransitionPartition(states, channels, append(topts, distribution.WithIndependentInTime())...)
	if err != nil {
		return 0, 0, err
	}
	cfg.logger.Debug().
		Int("channels", channels).
		Int("points", len(states)).
		Int("lag", cfg.lag).
		Msg("estimating transition divergence")

	return extrapolate.KL(p, q, len(states), cfg.extrapolateOptions()...)
}
