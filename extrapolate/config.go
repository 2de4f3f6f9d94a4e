package extrapolate

import (
	"fmt"
	"math"

	"gopkg.in/yaml.v3"

	"github.com/arloliu/neurokl/errs"
)

// DefaultPseudocount is the Dirichlet prior count added to every bin.
const DefaultPseudocount = 1.0

// Config holds the estimation settings that can be kept in a configuration
// document.
type Config struct {
	// Pseudocount is added to every bin before estimation. Must be positive.
	Pseudocount float64 `yaml:"pseudocount"`
	// BlockCounts restricts the fit to these levels. Empty means every level
	// of the partition.
	BlockCounts []int `yaml:"block_counts,omitempty"`
	// SampleSizes overrides the effective sample size of a level, keyed by
	// block count. Levels without an entry use floor(nPoints/d).
	SampleSizes map[int]float64 `yaml:"sample_sizes,omitempty"`
	// Parallelism bounds the number of blocks estimated concurrently.
	// Values below 2 run serially.
	Parallelism int `yaml:"parallelism"`
}

// DefaultConfig returns the default settings: pseudocount 1, every level, serial.
func DefaultConfig() Config {
	return Config{
		Pseudocount: DefaultPseudocount,
		Parallelism: 1,
	}
}

// LoadConfig parses a YAML document into a Config. Fields missing from the
// document keep their defaults.
//
// Example document:
//
//	pseudocount: 0.5
//	block_counts: [1, 2, 4]
//	sample_sizes:
//	  1: 10000
//	  2: 5000
//	  4: 2500
//	parallelism: 4
func LoadConfig(data []byte) (Config, error) {
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("%w: parse config: %v", errs.ErrInvalidInput, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// Validate reports the first invalid setting.
func (c Config) Validate() error {
	if !(c.Pseudocount > 0) || math.IsInf(c.Pseudocount, 0) {
		return fmt.Errorf("%w: pseudocount must be positive and finite, got %g", errs.ErrInvalidInput, c.Pseudocount)
	}

	seen := make(map[int]struct{}, len(c.BlockCounts))
	for _, d := range c.BlockCounts {
		if d < 1 {
			return fmt.Errorf("%w: block count %d", errs.ErrInvalidInput, d)
		}
		if _, dup := seen[d]; dup {
			return fmt.Errorf("%w: duplicate block count %d", errs.ErrInvalidInput, d)
		}
		seen[d] = struct{}{}
	}

	for d, n := range c.SampleSizes {
		if !(n > 0) || math.IsInf(n, 0) {
			return fmt.Errorf("%w: sample size for d=%d must be positive and finite, got %g", errs.ErrInvalidInput, d, n)
		}
	}

	if c.Parallelism < 0 {
		return fmt.Errorf("%w: parallelism %d", errs.ErrInvalidInput, c.Parallelism)
	}

	return nil
}
