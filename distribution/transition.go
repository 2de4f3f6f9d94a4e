package distribution

import (
	"fmt"

	"gonum.org/v1/gonum/floats"

	"github.com/arloliu/neurokl/errs"
	"github.com/arloliu/neurokl/format"
	"github.com/arloliu/neurokl/internal/options"
	"github.com/arloliu/neurokl/state"
)

// MaxTransitionChannels is the largest channel count accepted by the transition
// builders. A transition histogram holds 4^channels bins, so the state encoder's
// own limit would not fit in memory.
const MaxTransitionChannels = 12

// TransitionMatrix is a States x States histogram of (s[t], s[t+lag]) pairs
// stored row-major: row is the earlier state, column the later one.
type TransitionMatrix struct {
	States int
	Counts Counts
}

// At returns the number of transitions from state i to state j.
func (m *TransitionMatrix) At(i, j int) float64 {
	return m.Counts[i*m.States+j]
}

// TransitionCounts builds the joint histogram of states lag steps apart.
//
// A sequence of length L contributes max(L-lag, 0) pairs. States outside
// [0, nStates) are rejected with errs.ErrInvalidInput, as is nStates above
// 2^MaxTransitionChannels.
func TransitionCounts(states state.Sequence, nStates, lag int) (*TransitionMatrix, error) {
	if nStates < 1 || nStates > 1<<MaxTransitionChannels {
		return nil, fmt.Errorf("%w: number of states %d outside [1, %d]", errs.ErrInvalidInput, nStates, 1<<MaxTransitionChannels)
	}
	if lag < 1 {
		return nil, fmt.Errorf("%w: lag %d must be positive", errs.ErrInvalidInput, lag)
	}
	for t, s := range states {
		if s < 0 || s >= nStates {
			return nil, fmt.Errorf("%w: state %d at position %d outside [0, %d)", errs.ErrInvalidInput, s, t, nStates)
		}
	}

	m := &TransitionMatrix{States: nStates, Counts: make(Counts, nStates*nStates)}
	for t := 0; t+lag < len(states); t++ {
		m.Counts[states[t]*nStates+states[t+lag]]++
	}

	return m, nil
}

type transitionConfig struct {
	lag         int
	blockCounts []int
	independent bool
}

// TransitionOption configures TransitionPartition.
type TransitionOption = options.Option[*transitionConfig]

// WithLag sets the distance in time steps between paired states. The default is 1.
func WithLag(lag int) TransitionOption {
	return options.New(func(cfg *transitionConfig) error {
		if lag < 1 {
			return fmt.Errorf("%w: lag %d must be positive", errs.ErrInvalidInput, lag)
		}
		cfg.lag = lag

		return nil
	})
}

// WithTransitionBlockCounts sets the block counts to build. The default is {1, 2, 4}.
func WithTransitionBlockCounts(counts ...int) TransitionOption {
	return options.New(func(cfg *transitionConfig) error {
		if len(counts) == 0 {
			return fmt.Errorf("%w: at least one block count is required", errs.ErrInvalidInput)
		}
		cfg.blockCounts = counts

		return nil
	})
}

// WithIndependentInTime replaces every block's transition counts by the outer
// product of the block's marginal state distribution with itself, i.e. the
// transitions expected if successive states were independent.
func WithIndependentInTime() TransitionOption {
	return options.NoError(func(cfg *transitionConfig) {
		cfg.independent = true
	})
}

// TransitionPartition builds flattened transition histograms for every block count.
//
// The whole sequence is used (N = len(states)) and blocks are cut exactly as in
// Partition. Each block yields blockLen-lag pairs. The temporal-independence model
// is always scaled to blockLen-1, so its total matches the raw counts only at lag 1.
// Level.BlockLen records the per-block total of whichever model was built.
// Histograms are flattened row-major, so Bins is (2^channels)^2, and channels above
// MaxTransitionChannels are rejected. No consistency check is applied.
func TransitionPartition(states state.Sequence, channels int, opts ...TransitionOption) (*BlockPartition, error) {
	cfg := &transitionConfig{lag: 1, blockCounts: DefaultBlockCounts()}
	if err := options.Apply(cfg, opts...); err != nil {
		return nil, err
	}
	if err := checkChannels(channels); err != nil {
		return nil, err
	}
	if channels > MaxTransitionChannels {
		return nil, fmt.Errorf("%w: %d channels exceed the transition limit %d", errs.ErrInvalidInput, channels, MaxTransitionChannels)
	}

	nPoints := len(states)
	if nPoints < 1 {
		return nil, fmt.Errorf("%w: empty state sequence", errs.ErrInvalidInput)
	}
	blockCounts, err := normalizeBlockCounts(cfg.blockCounts, nPoints)
	if err != nil {
		return nil, err
	}

	nStates := state.NumStates(channels)
	p := &BlockPartition{
		Kind:   format.KindTransition,
		Points: nPoints,
		Bins:   nStates * nStates,
		Levels: make([]Level, len(blockCounts)),
	}
	for li, d := range blockCounts {
		blockLen := nPoints / d
		pairs := max(blockLen-cfg.lag, 0)
		if cfg.independent {
			pairs = blockLen - 1
		}
		lvl := Level{Blocks: d, BlockLen: float64(pairs), Dists: make([]Counts, d)}

		for i := range d {
			block := states[i*blockLen : (i+1)*blockLen]
			if cfg.independent {
				lvl.Dists[i], err = independentTransitions(block, channels, float64(pairs))
			} else {
				var m *TransitionMatrix
				m, err = TransitionCounts(block, nStates, cfg.lag)
				if m != nil {
					lvl.Dists[i] = m.Counts
				}
			}
			if err != nil {
				return nil, err
			}
		}
		p.Levels[li] = lvl
	}

	return p, nil
}

// independentTransitions returns outer(marginal, marginal) * pairs, flattened row-major.
func independentTransitions(block state.Sequence, channels int, pairs float64) (Counts, error) {
	marginal, err := Histogram(block, channels, true)
	if err != nil {
		return nil, err
	}

	n := len(marginal)
	out := make(Counts, n*n)
	for i, pi := range marginal {
		floats.ScaleTo(out[i*n:(i+1)*n], pi*pairs, marginal)
	}

	return out, nil
}
