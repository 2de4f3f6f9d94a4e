package estimator

import (
	"fmt"
	"math"

	"github.com/kzahedi/goent/discrete"
	"gonum.org/v1/gonum/stat"

	"github.com/arloliu/neurokl/errs"
)

// Entropy returns -sum p(x) log2 p(x) for a normalized distribution p.
//
// Any entry that is exactly zero fails with errs.ErrZeroBin; zero bins are never
// skipped. Negative entries and an empty p fail with errs.ErrInvalidInput.
func Entropy(p []float64) (float64, error) {
	if err := checkBins("p", p); err != nil {
		return 0, err
	}

	return discrete.EntropyBase2(p), nil
}

// KL returns sum p(x) (log2 p(x) - log2 q(x)) for normalized distributions p and q.
//
// A zero entry in either p or q fails with errs.ErrZeroBin.
func KL(p, q []float64) (float64, error) {
	if len(p) != len(q) {
		return 0, fmt.Errorf("%w: p has %d bins, q has %d", errs.ErrShapeMismatch, len(p), len(q))
	}
	if err := checkBins("p", p); err != nil {
		return 0, err
	}
	if err := checkBins("q", q); err != nil {
		return 0, err
	}

	return stat.KullbackLeibler(p, q) / math.Ln2, nil
}

func checkBins(name string, p []float64) error {
	if len(p) == 0 {
		return fmt.Errorf("%w: %s is empty", errs.ErrInvalidInput, name)
	}
	for x, v := range p {
		switch {
		case v == 0:
			return fmt.Errorf("%w: %s[%d] is zero", errs.ErrZeroBin, name, x)
		case v < 0 || math.IsNaN(v):
			return fmt.Errorf("%w: %s[%d] = %v is not a probability", errs.ErrInvalidInput, name, x, v)
		}
	}

	return nil
}
