// Package regression fits the small least-squares models used by finite-size
// extrapolation.
//
// Two models are supported:
//
//   - Polynomial: y = a + b*x + c*x² (quadratic, needs at least three distinct x)
//   - Hyperbolic: y = a + b/x (needs at least two distinct positive x)
//
// Both fits return a Model carrying the coefficients, goodness-of-fit statistics
// and a concrete Estimator that evaluates the fitted curve:
//
//	model, err := regression.FitPolynomial(ns, ys)
//	if err != nil {
//	    return err
//	}
//	fmt.Println(model.Formula, model.RSquared)
//	leading := model.Coefficients[2] // coefficient of x²
//
// The polynomial fit solves the least-squares problem by QR decomposition of the
// Vandermonde matrix with x rescaled to [-1, 1], which keeps sample sizes in the
// millions well conditioned. With exactly three points the fit interpolates.
package regression
