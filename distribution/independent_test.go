package distribution

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/neurokl/errs"
	"github.com/arloliu/neurokl/format"
	"github.com/arloliu/neurokl/state"
)

func TestFiringProbabilities(t *testing.T) {
	spikes := state.SpikeMatrix{{1, 0}, {1, 1}, {0, 0}, {1, 0}}

	p1, err := FiringProbabilities(spikes, 2, 4)
	require.NoError(t, err)
	require.Equal(t, []float64{0.75, 0.25}, p1)

	p1, err = FiringProbabilities(spikes, 2, 2)
	require.NoError(t, err)
	require.Equal(t, []float64{1, 0.5}, p1)
}

func TestIndependentDistribution(t *testing.T) {
	spikes := state.SpikeMatrix{{1, 0}, {1, 1}, {0, 0}, {1, 0}}

	dist, err := IndependentDistribution(spikes, 2, 4)
	require.NoError(t, err)

	// p1 = [0.75, 0.25]; state code = 2*ch0 + ch1
	want := Counts{
		0.25 * 0.75, // 00
		0.25 * 0.25, // 01
		0.75 * 0.75, // 10
		0.75 * 0.25, // 11
	}
	require.InDeltaSlice(t, want, dist, 1e-15)
	require.InDelta(t, 1.0, dist.Sum(), 1e-12)
}

func TestIndependentDistributionMatchesBitProduct(t *testing.T) {
	rates := []float64{0.1, 0.5, 0.3, 0.8, 0.05}
	spikes := randomSpikes(13, 2000, rates)

	p1, err := FiringProbabilities(spikes, len(rates), len(spikes))
	require.NoError(t, err)
	dist, err := IndependentDistribution(spikes, len(rates), len(spikes))
	require.NoError(t, err)

	for s := range dist {
		bits, err := state.Decode(s, len(rates))
		require.NoError(t, err)
		prob := 1.0
		for k, b := range bits {
			if b == 1 {
				prob *= p1[k]
			} else {
				prob *= 1 - p1[k]
			}
		}
		require.InDelta(t, prob, dist[s], 1e-15, "state %d", s)
	}
}

func TestIndependent(t *testing.T) {
	spikes := randomSpikes(17, 1000, []float64{0.2, 0.4, 0.6})

	p, err := Independent(spikes, 3, 1000)
	require.NoError(t, err)
	require.Equal(t, format.KindIndependent, p.Kind)
	require.Equal(t, []int{1, 2, 4}, p.BlockCounts())

	indep, err := IndependentDistribution(spikes, 3, 1000)
	require.NoError(t, err)

	for _, lvl := range p.Levels {
		require.Len(t, lvl.Dists, lvl.Blocks)
		require.Equal(t, 1000.0/float64(lvl.Blocks), lvl.BlockLen)
		for _, d := range lvl.Dists {
			require.Equal(t, lvl.Dists[0], d, "blocks must be identical")
			require.InDelta(t, lvl.BlockLen, d.Sum(), 1e-9)
		}
		for x := range indep {
			require.InDelta(t, indep[x]*lvl.BlockLen, lvl.Dists[0][x], 1e-9)
		}
	}
	require.NoError(t, p.CheckConsistency())

	// blocks are independent copies
	one, _ := p.Level(4)
	one.Dists[0][0] += 1
	require.NotEqual(t, one.Dists[0], one.Dists[1])
}

func TestIndependentNonDivisible(t *testing.T) {
	spikes := randomSpikes(19, 999, []float64{0.3, 0.3})

	p, err := Independent(spikes, 2, 999, WithBlockCounts(1, 2, 4))
	require.NoError(t, err)

	four, _ := p.Level(4)
	require.InDelta(t, 999.0, four.Total(), 1e-9)
}

func TestIndependentInvalid(t *testing.T) {
	spikes := randomSpikes(23, 100, []float64{0.5, 0.5})

	_, err := Independent(spikes, 3, 100)
	require.ErrorIs(t, err, errs.ErrShapeMismatch)

	_, err = Independent(spikes, 2, 101)
	require.ErrorIs(t, err, errs.ErrInvalidInput)

	_, err = Independent(spikes, 2, 100, WithShuffle(rand.New(rand.NewPCG(1, 1))))
	require.ErrorIs(t, err, errs.ErrInvalidInput)

	_, err = Independent(state.SpikeMatrix{{0, 1}, {3, 0}}, 2, 2)
	require.ErrorIs(t, err, errs.ErrInvalidInput)
}
