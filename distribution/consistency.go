package distribution

import (
	"fmt"
	"math"

	"github.com/arloliu/neurokl/errs"
)

// ConsistencyTolerance is the absolute tolerance used when reconciling block
// histograms across granularities.
const ConsistencyTolerance = 1e-4

// CheckConsistency verifies that the levels of p reconcile with each other.
//
// Every block must hold BlockLen observations and no level may hold more than
// Points observations in total. For block counts d1 < d2 with d2 divisible by d1,
// the d2/d1 fine blocks tiling a coarse block are summed bin by bin: no bin may
// exceed its coarse counterpart, and the coarse block may only hold the extra
// observations left over by the floor division of block lengths. When N is
// divisible by d2 every coarse block is tiled exactly and must agree bin by bin;
// otherwise only the first coarse block is tiled and checked. Violations wrap
// errs.ErrConsistency.
func (p *BlockPartition) CheckConsistency() error {
	for i := range p.Levels {
		if err := p.checkLevel(&p.Levels[i]); err != nil {
			return err
		}
	}

	for i := range p.Levels {
		for j := i + 1; j < len(p.Levels); j++ {
			coarse, fine := &p.Levels[i], &p.Levels[j]
			if fine.Blocks%coarse.Blocks != 0 {
				continue
			}
			if err := checkTiling(coarse, fine); err != nil {
				return err
			}
		}
	}

	return nil
}

func (p *BlockPartition) checkLevel(lvl *Level) error {
	for b, d := range lvl.Dists {
		for x, v := range d {
			if v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
				return fmt.Errorf("%w: d=%d block %d bin %d holds %v", errs.ErrConsistency, lvl.Blocks, b, x, v)
			}
		}
		if sum := d.Sum(); math.Abs(sum-lvl.BlockLen) > ConsistencyTolerance {
			return fmt.Errorf("%w: d=%d block %d sums to %v, expected %v",
				errs.ErrConsistency, lvl.Blocks, b, sum, lvl.BlockLen)
		}
	}

	if total := lvl.Total(); total-float64(p.Points) > ConsistencyTolerance {
		return fmt.Errorf("%w: d=%d holds %v observations, more than N=%d",
			errs.ErrConsistency, lvl.Blocks, total, p.Points)
	}

	return nil
}

func checkTiling(coarse, fine *Level) error {
	ratio := fine.Blocks / coarse.Blocks
	dropped := coarse.BlockLen - float64(ratio)*fine.BlockLen
	bins := 0
	if len(coarse.Dists) > 0 {
		bins = len(coarse.Dists[0])
	}
	sum := make(Counts, bins)

	aligned := math.Abs(dropped) <= ConsistencyTolerance

	for j, c := range coarse.Dists {
		// with a remainder only the first coarse block starts where its fine blocks do
		if j > 0 && !aligned {
			break
		}
		clear(sum)
		for k := j * ratio; k < (j+1)*ratio; k++ {
			for x, v := range fine.Dists[k] {
				sum[x] += v
			}
		}

		for x := range sum {
			if sum[x]-c[x] > ConsistencyTolerance {
				return fmt.Errorf("%w: d=%d blocks %d..%d bin %d sum to %v, exceeding d=%d block %d (%v)",
					errs.ErrConsistency, fine.Blocks, j*ratio, (j+1)*ratio-1, x, sum[x], coarse.Blocks, j, c[x])
			}
		}
		if diff := c.Sum() - sum.Sum(); math.Abs(diff-dropped) > ConsistencyTolerance {
			return fmt.Errorf("%w: d=%d block %d differs from its d=%d tiling by %v observations, expected %v",
				errs.ErrConsistency, coarse.Blocks, j, fine.Blocks, diff, dropped)
		}
	}

	return nil
}
