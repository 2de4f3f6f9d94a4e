// Package extrapolate removes the residual finite-size bias of the Bayesian
// entropy and KL estimators.
//
// A BlockPartition holds, for every block count d, d histograms built from
// contiguous sub-sequences of N_d = floor(N/d) observations. The engine
// evaluates the Dirichlet posterior-mean estimator on every block, averages the
// d estimates of a level into E(N_d), and fits N²·E(N) as a quadratic in N by
// least squares. The fitted N² coefficient is returned as the bias-corrected
// value: when E(N) = h + b/N + c/N² the coefficient is exactly h.
//
// At least three levels with distinct sample sizes are required; anything less
// fails with errs.ErrInsufficientData.
//
//	p, err := distribution.Partition(states, channels, len(states))
//	if err != nil {
//	    return err
//	}
//	h, err := extrapolate.Entropy(p, len(states))
//
// Use AnalyzeEntropy or AnalyzeKL to inspect the per-level samples and the fit.
package extrapolate
