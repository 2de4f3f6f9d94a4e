package extrapolate

import (
	"fmt"
	"math"
	"slices"

	"github.com/montanaflynn/stats"
	"golang.org/x/sync/errgroup"

	"github.com/arloliu/neurokl/distribution"
	"github.com/arloliu/neurokl/errs"
	"github.com/arloliu/neurokl/estimator"
	"github.com/arloliu/neurokl/internal/pool"
	"github.com/arloliu/neurokl/regression"
)

// minLevels is the number of sample sizes a quadratic fit needs.
const minLevels = 3

// Sample is the averaged estimate of one level.
type Sample struct {
	// Blocks is the block count d of the level.
	Blocks int `yaml:"blocks"`
	// N is the effective sample size of one block.
	N float64 `yaml:"n"`
	// Estimate is the mean of PerBlock, in bits.
	Estimate float64 `yaml:"estimate"`
	// PerBlock holds the posterior-mean estimate of every block, in sequence order.
	PerBlock []float64 `yaml:"per_block,flow"`
}

// Result is an extrapolated estimate together with the data it was fitted on.
// It can be stored as YAML and decoded with a working Model.Estimator.
type Result struct {
	// Value is the bias-corrected estimate in bits: the N² coefficient of the
	// quadratic fitted to N²·E(N).
	Value float64 `yaml:"value"`
	// Samples holds one entry per level, by decreasing block count.
	Samples []Sample `yaml:"samples"`
	// Model is the quadratic fit of N²·E(N) against N.
	Model *regression.Model `yaml:"model"`
	// InverseNLimit is the intercept of E(N) = a + b/N fitted to the same
	// samples. It is a diagnostic only; NaN if that fit failed.
	InverseNLimit float64 `yaml:"inverse_n_limit"`
}

// KLResult pairs the extrapolated KL divergence with the extrapolated entropy
// of the first distribution.
type KLResult struct {
	KL      *Result
	Entropy *Result
}

// level is one level scheduled for estimation.
type level struct {
	blocks int
	n      float64
	p, q   []distribution.Counts
}

// Entropy returns the bias-corrected entropy, in bits, of the distribution
// sampled by p. The value is positive (H >= 0); callers written against the
// negative-entropy convention of the posterior-mean formula must flip its sign.
func Entropy(p *distribution.BlockPartition, nPoints int, opts ...Option) (float64, error) {
	res, err := AnalyzeEntropy(p, nPoints, opts...)
	if err != nil {
		return 0, err
	}

	return res.Value, nil
}

// AnalyzeEntropy is Entropy returning the full Result.
func AnalyzeEntropy(p *distribution.BlockPartition, nPoints int, opts ...Option) (*Result, error) {
	s, err := newSettings(opts)
	if err != nil {
		return nil, err
	}

	levels, err := s.plan(p, nil, nPoints)
	if err != nil {
		return nil, err
	}

	h := allocate(levels)
	err = s.forEachBlock(levels, func(li, bi int) error {
		alpha, release := pool.GetShifted(levels[li].p[bi], s.cfg.Pseudocount)
		defer release()
		h[li][bi] = estimator.MeanEntropy(alpha)

		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.fit("entropy", levels, h)
}

// KL returns the bias-corrected KL divergence D(p||q) and the bias-corrected
// entropy of p, both in bits.
//
// p and q must have the same bins and the same block counts with matching block
// numbers; otherwise errs.ErrShapeMismatch is returned.
func KL(p, q *distribution.BlockPartition, nPoints int, opts ...Option) (kl, h float64, err error) {
	res, err := AnalyzeKL(p, q, nPoints, opts...)
	if err != nil {
		return 0, 0, err
	}

	return res.KL.Value, res.Entropy.Value, nil
}

// AnalyzeKL is KL returning both full Results.
func AnalyzeKL(p, q *distribution.BlockPartition, nPoints int, opts ...Option) (*KLResult, error) {
	s, err := newSettings(opts)
	if err != nil {
		return nil, err
	}
	if q == nil {
		return nil, fmt.Errorf("%w: nil partition", errs.ErrInvalidInput)
	}

	levels, err := s.plan(p, q, nPoints)
	if err != nil {
		return nil, err
	}

	h := allocate(levels)
	kl := allocate(levels)
	err = s.forEachBlock(levels, func(li, bi int) error {
		alpha, releaseAlpha := pool.GetShifted(levels[li].p[bi], s.cfg.Pseudocount)
		defer releaseAlpha()
		beta, releaseBeta := pool.GetShifted(levels[li].q[bi], s.cfg.Pseudocount)
		defer releaseBeta()

		h[li][bi] = estimator.MeanEntropy(alpha)
		v, err := estimator.MeanKL(alpha, beta)
		if err != nil {
			return err
		}
		kl[li][bi] = v

		return nil
	})
	if err != nil {
		return nil, err
	}

	klRes, err := s.fit("kl", levels, kl)
	if err != nil {
		return nil, err
	}
	hRes, err := s.fit("entropy", levels, h)
	if err != nil {
		return nil, err
	}

	return &KLResult{KL: klRes, Entropy: hRes}, nil
}

// plan selects the levels to evaluate, ordered by decreasing block count, and
// assigns their effective sample sizes.
func (s *settings) plan(p, q *distribution.BlockPartition, nPoints int) ([]level, error) {
	if p == nil {
		return nil, fmt.Errorf("%w: nil partition", errs.ErrInvalidInput)
	}
	if nPoints < 1 {
		return nil, fmt.Errorf("%w: n_points must be positive, got %d", errs.ErrInvalidInput, nPoints)
	}
	if q != nil && q.Bins != p.Bins {
		return nil, fmt.Errorf("%w: partitions have %d and %d bins", errs.ErrShapeMismatch, p.Bins, q.Bins)
	}

	blockCounts := s.cfg.BlockCounts
	if len(blockCounts) == 0 {
		blockCounts = p.BlockCounts()
		if q != nil && !slices.Equal(blockCounts, q.BlockCounts()) {
			return nil, fmt.Errorf("%w: partitions have block counts %v and %v",
				errs.ErrShapeMismatch, blockCounts, q.BlockCounts())
		}
	}
	if len(blockCounts) < minLevels {
		return nil, fmt.Errorf("%w: %d levels available, need at least %d",
			errs.ErrInsufficientData, len(blockCounts), minLevels)
	}

	ordered := slices.Clone(blockCounts)
	slices.Sort(ordered)
	slices.Reverse(ordered)

	levels := make([]level, 0, len(ordered))
	for _, d := range ordered {
		pl, ok := p.Level(d)
		if !ok {
			return nil, fmt.Errorf("%w: partition has no level d=%d", errs.ErrShapeMismatch, d)
		}
		lvl := level{blocks: d, p: pl.Dists}

		if q != nil {
			ql, ok := q.Level(d)
			if !ok {
				return nil, fmt.Errorf("%w: second partition has no level d=%d", errs.ErrShapeMismatch, d)
			}
			if len(ql.Dists) != len(pl.Dists) {
				return nil, fmt.Errorf("%w: level d=%d holds %d and %d blocks",
					errs.ErrShapeMismatch, d, len(pl.Dists), len(ql.Dists))
			}
			lvl.q = ql.Dists
		}

		if n, ok := s.cfg.SampleSizes[d]; ok {
			lvl.n = n
		} else {
			lvl.n = float64(nPoints / d)
		}
		if lvl.n <= 0 {
			return nil, fmt.Errorf("%w: level d=%d has no observations for n_points=%d", errs.ErrInvalidInput, d, nPoints)
		}

		levels = append(levels, lvl)
	}

	return levels, nil
}

func allocate(levels []level) [][]float64 {
	out := make([][]float64, len(levels))
	for i, lvl := range levels {
		out[i] = make([]float64, len(lvl.p))
	}

	return out
}

// forEachBlock calls fn for every block of every level. Each call owns the
// (level, block) slot it writes, so the parallel path needs no locking.
func (s *settings) forEachBlock(levels []level, fn func(li, bi int) error) error {
	if s.cfg.Parallelism < 2 {
		for li := range levels {
			for bi := range levels[li].p {
				if err := fn(li, bi); err != nil {
					return err
				}
			}
		}

		return nil
	}

	var g errgroup.Group
	g.SetLimit(s.cfg.Parallelism)
	for li := range levels {
		for bi := range levels[li].p {
			g.Go(func() error { return fn(li, bi) })
		}
	}

	return g.Wait()
}

// fit averages the per-block estimates of every level and extrapolates them.
func (s *settings) fit(quantity string, levels []level, perBlock [][]float64) (*Result, error) {
	res := &Result{Samples: make([]Sample, len(levels))}
	ns := make([]float64, len(levels))
	es := make([]float64, len(levels))
	ys := make([]float64, len(levels))

	for i, lvl := range levels {
		mean, err := stats.Mean(perBlock[i])
		if err != nil {
			return nil, fmt.Errorf("%w: level d=%d: %v", errs.ErrInvalidInput, lvl.blocks, err)
		}
		res.Samples[i] = Sample{Blocks: lvl.blocks, N: lvl.n, Estimate: mean, PerBlock: perBlock[i]}
		ns[i], es[i] = lvl.n, mean
		ys[i] = lvl.n * lvl.n * mean

		s.logger.Debug().
			Str("quantity", quantity).
			Int("blocks", lvl.blocks).
			Float64("n", lvl.n).
			Float64("estimate", mean).
			Msg("extrapolation sample")
	}

	model, err := regression.FitPolynomial(ns, ys)
	if err != nil {
		return nil, err
	}
	res.Model = model
	res.Value = model.Coefficients[2]

	res.InverseNLimit = math.NaN()
	if diag, err := regression.FitHyperbolic(ns, es); err == nil {
		res.InverseNLimit = diag.Coefficients[0]
	}

	s.logger.Debug().
		Str("quantity", quantity).
		Floats64("coefficients", model.Coefficients).
		Float64("r2", model.RSquared).
		Float64("value", res.Value).
		Float64("inverse_n_limit", res.InverseNLimit).
		Msg("extrapolation fit")

	return res, nil
}
