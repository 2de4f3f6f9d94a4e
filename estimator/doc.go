// Package estimator computes entropy and Kullback-Leibler divergence in bits.
//
// Two families are provided:
//
//   - Bayesian estimators (MeanEntropy, MeanKL) return the posterior mean of the
//     quantity under Dirichlet posteriors over the unknown distributions. They take
//     Dirichlet parameters, i.e. observed counts plus a pseudocount, and every
//     component must be strictly positive.
//   - Direct estimators (Entropy, KL) evaluate the plug-in formulas on already
//     normalized distributions. They reject any bin that is exactly zero rather than
//     treating it as a zero contribution, so they are only meant for well-sampled,
//     strictly positive distributions.
//
// Bayesian estimates are the building block of the finite-size extrapolation in
// package extrapolate.
package estimator
