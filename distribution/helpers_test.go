package distribution

import (
	"math/rand/v2"

	"github.com/arloliu/neurokl/state"
)

// randomStates returns n uniformly drawn states on the given number of channels.
func randomStates(seed uint64, n, channels int) state.Sequence {
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	states := make(state.Sequence, n)
	for i := range states {
		states[i] = rng.IntN(state.NumStates(channels))
	}

	return states
}

// randomSpikes returns an n x channels binary matrix where channel k fires with
// probability rates[k].
func randomSpikes(seed uint64, n int, rates []float64) state.SpikeMatrix {
	rng := rand.New(rand.NewPCG(seed, seed+1))
	spikes := make(state.SpikeMatrix, n)
	for t := range spikes {
		row := make([]uint8, len(rates))
		for k, r := range rates {
			if rng.Float64() < r {
				row[k] = 1
			}
		}
		spikes[t] = row
	}

	return spikes
}
