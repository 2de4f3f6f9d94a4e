// Package distribution builds the count histograms consumed by the estimators.
//
// Everything in this package produces unnormalized counts: the Bayesian estimators
// need raw observation counts so that a pseudocount can be added per bin.
//
// # Block Partitions
//
// Finite-size extrapolation evaluates an estimator at several subsample sizes.
// A BlockPartition stores, for every block count d (canonically 1, 2 and 4), the
// d histograms built from contiguous, equal-length, non-overlapping slices of the
// same sequence:
//
//	states, _ := state.Encode(spikes)
//	p, err := distribution.Partition(states, channels, len(states))
//	if err != nil {
//	    return err
//	}
//	for _, lvl := range p.Levels {
//	    fmt.Printf("d=%d block=%v\n", lvl.Blocks, lvl.BlockLen)
//	}
//
// Partitions of observed states and of the channel-independence model are checked
// for consistency across granularities: the fine blocks tiling a coarse block must
// add up to it. Transition partitions are not checked.
//
// # Builders
//
//   - Histogram: counts over the 2^C states of a sequence
//   - Partition: block partition of observed states, optionally shuffled
//   - Independent: block partition of the channel-independence null model
//   - TransitionCounts / TransitionPartition: lagged state-to-state counts, raw
//     or under a temporal-independence null model
package distribution
