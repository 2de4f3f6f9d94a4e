package estimator

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mathext"

	"github.com/arloliu/neurokl/errs"
)

// MeanEntropy returns the posterior mean of the entropy H(p) = -sum p log p, in
// bits, when p ~ Dirichlet(alpha):
//
//	<H> = [psi(alpha0+1) - sum_x alpha[x]/alpha0 * psi(alpha[x]+1)] / ln 2
//
// where alpha0 = sum(alpha) and psi is the digamma function. All components of
// alpha must be strictly positive.
func MeanEntropy(alpha []float64) float64 {
	alpha0 := floats.Sum(alpha)

	acc := 0.0
	for _, a := range alpha {
		acc += a * mathext.Digamma(a+1)
	}

	return (mathext.Digamma(alpha0+1) - acc/alpha0) / math.Ln2
}

// MeanKL returns the posterior mean of KL(p||q), in bits, with p ~ Dirichlet(alpha)
// and q ~ Dirichlet(beta) drawn independently:
//
//	<<KL>> = -<H(p)> - sum_x alpha[x]/alpha0 * (psi(beta[x]) - psi(beta0)) / ln 2
//
// The second term is minus the expected cross log-likelihood E[log q(x)] under the
// two posteriors. All components must be strictly positive; vectors of different
// lengths are rejected with errs.ErrShapeMismatch.
func MeanKL(alpha, beta []float64) (float64, error) {
	if len(alpha) != len(beta) {
		return 0, fmt.Errorf("%w: alpha has %d components, beta has %d", errs.ErrShapeMismatch, len(alpha), len(beta))
	}

	alpha0 := floats.Sum(alpha)
	psiBeta0 := mathext.Digamma(floats.Sum(beta))

	cross := 0.0
	for x, a := range alpha {
		cross += a / alpha0 * (mathext.Digamma(beta[x]) - psiBeta0)
	}

	return -MeanEntropy(alpha) - cross/math.Ln2, nil
}
