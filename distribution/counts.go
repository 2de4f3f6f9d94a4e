package distribution

import (
	"fmt"

	"gonum.org/v1/gonum/floats"

	"github.com/arloliu/neurokl/errs"
	"github.com/arloliu/neurokl/state"
)

// Counts is a histogram over a fixed set of bins. Entries are float64 so that
// scaled null models and normalized distributions share the same type.
type Counts []float64

// Sum returns the total of all bins.
func (c Counts) Sum() float64 {
	return floats.Sum(c)
}

// Clone returns a copy of c.
func (c Counts) Clone() Counts {
	out := make(Counts, len(c))
	copy(out, c)

	return out
}

// Normalized returns a copy of c scaled to sum to 1. An empty or all-zero
// histogram cannot be normalized.
func (c Counts) Normalized() (Counts, error) {
	total := c.Sum()
	if total <= 0 {
		return nil, fmt.Errorf("%w: cannot normalize histogram with total %v", errs.ErrInvalidInput, total)
	}
	out := c.Clone()
	floats.Scale(1/total, out)

	return out, nil
}

// Histogram bins a state sequence into exactly 2^channels unit-width bins.
//
// With normalize set, the counts are divided by the number of observations and
// form a probability vector; otherwise they are raw counts summing to len(states).
// States outside [0, 2^channels) are rejected with errs.ErrInvalidInput.
func Histogram(states state.Sequence, channels int, normalize bool) (Counts, error) {
	if err := checkChannels(channels); err != nil {
		return nil, err
	}

	nStates := state.NumStates(channels)
	counts := make(Counts, nStates)
	for t, s := range states {
		if s < 0 || s >= nStates {
			return nil, fmt.Errorf("%w: state %d at position %d outside [0, %d)", errs.ErrInvalidInput, s, t, nStates)
		}
		counts[s]++
	}

	if !normalize {
		return counts, nil
	}
	if len(states) == 0 {
		return nil, fmt.Errorf("%w: cannot normalize an empty sequence", errs.ErrInvalidInput)
	}
	floats.Scale(1/float64(len(states)), counts)

	return counts, nil
}

func checkChannels(channels int) error {
	if channels < 1 || channels > state.MaxChannels {
		return fmt.Errorf("%w: channel count %d outside [1, %d]", errs.ErrInvalidInput, channels, state.MaxChannels)
	}

	return nil
}
