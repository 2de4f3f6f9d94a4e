package extrapolate

import (
	"maps"
	"slices"

	"github.com/rs/zerolog"

	"github.com/arloliu/neurokl/internal/options"
)

type settings struct {
	cfg    Config
	logger zerolog.Logger
}

// Option configures an extrapolation call.
type Option = options.Option[*settings]

// WithConfig replaces all settings with cfg. Options after it still apply.
func WithConfig(cfg Config) Option {
	return options.NoError(func(s *settings) {
		s.cfg = cfg
		s.cfg.BlockCounts = slices.Clone(cfg.BlockCounts)
		s.cfg.SampleSizes = maps.Clone(cfg.SampleSizes)
	})
}

// WithPseudocount sets the Dirichlet prior count added to every bin. The default is 1.
func WithPseudocount(pc float64) Option {
	return options.NoError(func(s *settings) {
		s.cfg.Pseudocount = pc
	})
}

// WithBlockCounts restricts the fit to the given levels of the partition.
func WithBlockCounts(counts ...int) Option {
	return options.NoError(func(s *settings) {
		s.cfg.BlockCounts = slices.Clone(counts)
	})
}

// WithSampleSizes overrides the effective sample size per block count.
func WithSampleSizes(sizes map[int]float64) Option {
	return options.NoError(func(s *settings) {
		s.cfg.SampleSizes = maps.Clone(sizes)
	})
}

// WithParallelism estimates up to n blocks concurrently. Results are identical
// to the serial path.
func WithParallelism(n int) Option {
	return options.NoError(func(s *settings) {
		s.cfg.Parallelism = n
	})
}

// WithLogger sets the logger used for per-level and per-fit debug events.
func WithLogger(logger zerolog.Logger) Option {
	return options.NoError(func(s *settings) {
		s.logger = logger
	})
}

func newSettings(opts []Option) (*settings, error) {
	s := &settings{
		cfg:    DefaultConfig(),
		logger: zerolog.Nop(),
	}
	if err := options.ApplyValidate(s, func(s *settings) error { return s.cfg.Validate() }, opts...); err != nil {
		return nil, err
	}

	return s, nil
}
