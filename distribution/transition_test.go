package distribution

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/neurokl/errs"
	"github.com/arloliu/neurokl/format"
	"github.com/arloliu/neurokl/state"
)

func TestTransitionCounts(t *testing.T) {
	states := state.Sequence{0, 1, 1, 2, 0, 1}

	m, err := TransitionCounts(states, 3, 1)
	require.NoError(t, err)
	require.Equal(t, 3, m.States)
	require.Equal(t, 5.0, m.Counts.Sum())
	require.Equal(t, 2.0, m.At(0, 1))
	require.Equal(t, 1.0, m.At(1, 1))
	require.Equal(t, 1.0, m.At(1, 2))
	require.Equal(t, 1.0, m.At(2, 0))
	require.Equal(t, 0.0, m.At(1, 0))

	m, err = TransitionCounts(states, 3, 2)
	require.NoError(t, err)
	require.Equal(t, 4.0, m.Counts.Sum())
	require.Equal(t, 1.0, m.At(0, 1)) // s[0]=0 -> s[2]=1
	require.Equal(t, 1.0, m.At(1, 2)) // s[1]=1 -> s[3]=2
	require.Equal(t, 1.0, m.At(1, 0)) // s[2]=1 -> s[4]=0
	require.Equal(t, 1.0, m.At(2, 1)) // s[3]=2 -> s[5]=1
}

func TestTransitionCountsShortSequence(t *testing.T) {
	m, err := TransitionCounts(state.Sequence{1}, 2, 1)
	require.NoError(t, err)
	require.Equal(t, Counts{0, 0, 0, 0}, m.Counts)
}

func TestTransitionCountsInvalid(t *testing.T) {
	_, err := TransitionCounts(state.Sequence{0, 3}, 3, 1)
	require.ErrorIs(t, err, errs.ErrInvalidInput)

	_, err = TransitionCounts(state.Sequence{0, 1}, 3, 0)
	require.ErrorIs(t, err, errs.ErrInvalidInput)

	_, err = TransitionCounts(state.Sequence{0, 1}, 0, 1)
	require.ErrorIs(t, err, errs.ErrInvalidInput)

	_, err = TransitionCounts(state.Sequence{0, 1}, 1<<(MaxTransitionChannels+1), 1)
	require.ErrorIs(t, err, errs.ErrInvalidInput)
}

func TestTransitionPartition(t *testing.T) {
	states := randomStates(31, 1000, 2)

	p, err := TransitionPartition(states, 2)
	require.NoError(t, err)
	require.Equal(t, format.KindTransition, p.Kind)
	require.Equal(t, 16, p.Bins)
	require.Equal(t, 1000, p.Points)
	require.Equal(t, []int{1, 2, 4}, p.BlockCounts())

	for _, lvl := range p.Levels {
		blockLen := 1000 / lvl.Blocks
		require.Equal(t, float64(blockLen-1), lvl.BlockLen)
		for i, d := range lvl.Dists {
			require.Equal(t, float64(blockLen-1), d.Sum())

			m, err := TransitionCounts(states[i*blockLen:(i+1)*blockLen], 4, 1)
			require.NoError(t, err)
			require.Equal(t, m.Counts, d)
		}
	}
}

func TestTransitionPartitionLag(t *testing.T) {
	states := randomStates(37, 400, 1)

	p, err := TransitionPartition(states, 1, WithLag(3), WithTransitionBlockCounts(1, 2))
	require.NoError(t, err)
	require.Equal(t, []int{1, 2}, p.BlockCounts())

	two, _ := p.Level(2)
	require.Equal(t, 197.0, two.BlockLen)
	for _, d := range two.Dists {
		require.Equal(t, 197.0, d.Sum())
	}

	// The temporal-independence model is scaled by blockLen-1 whatever the lag.
	q, err := TransitionPartition(states[:40], 1, WithLag(3), WithTransitionBlockCounts(1, 2), WithIndependentInTime())
	require.NoError(t, err)

	one, _ := q.Level(1)
	require.Equal(t, 39.0, one.BlockLen)
	require.InDelta(t, 39.0, one.Dists[0].Sum(), 1e-9)

	two, _ = q.Level(2)
	require.Equal(t, 19.0, two.BlockLen)
	for _, d := range two.Dists {
		require.InDelta(t, 19.0, d.Sum(), 1e-9)
	}
}

func TestTransitionPartitionIndependentInTime(t *testing.T) {
	states := randomStates(41, 800, 2)

	p, err := TransitionPartition(states, 2, WithIndependentInTime())
	require.NoError(t, err)

	for _, lvl := range p.Levels {
		blockLen := 800 / lvl.Blocks
		for i, d := range lvl.Dists {
			block := states[i*blockLen : (i+1)*blockLen]
			marginal, err := Histogram(block, 2, true)
			require.NoError(t, err)

			require.InDelta(t, float64(blockLen-1), d.Sum(), 1e-9)
			for a := range 4 {
				for b := range 4 {
					want := marginal[a] * marginal[b] * float64(blockLen-1)
					require.InDelta(t, want, d[a*4+b], 1e-9)
				}
			}
		}
	}
}

func TestTransitionPartitionInvalid(t *testing.T) {
	_, err := TransitionPartition(state.Sequence{}, 2)
	require.ErrorIs(t, err, errs.ErrInvalidInput)

	_, err = TransitionPartition(state.Sequence{0, 1, 2}, 2, WithLag(0))
	require.ErrorIs(t, err, errs.ErrInvalidInput)

	_, err = TransitionPartition(state.Sequence{0, 1, 2}, 2, WithTransitionBlockCounts(4))
	require.ErrorIs(t, err, errs.ErrInvalidInput)

	_, err = TransitionPartition(state.Sequence{0, 1, 7}, 2)
	require.ErrorIs(t, err, errs.ErrInvalidInput)

	for _, channels := range []int{MaxTransitionChannels + 1, state.MaxChannels} {
		_, err = TransitionPartition(make(state.Sequence, 16), channels)
		require.ErrorIs(t, err, errs.ErrInvalidInput)
	}
}
