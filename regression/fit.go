package regression

import (
	"fmt"
	"math"
	"slices"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"github.com/arloliu/neurokl/errs"
)

// FitPolynomial fits y = a + b*x + c*x² by least squares and returns the model
// with coefficients [a, b, c].
//
// It returns errs.ErrInsufficientData when x holds fewer than three distinct
// values and errs.ErrShapeMismatch when x and y differ in length.
func FitPolynomial(x, y []float64) (*Model, error) {
	if err := checkSamples(x, y, 3); err != nil {
		return nil, err
	}

	// Rescale x into [-1, 1] so the Vandermonde columns stay comparable.
	scale := floats.Max(x)
	if lo := -floats.Min(x); lo > scale {
		scale = lo
	}

	n := len(x)
	design := mat.NewDense(n, 3, nil)
	for i, xi := range x {
		z := xi / scale
		design.Set(i, 0, 1)
		design.Set(i, 1, z)
		design.Set(i, 2, z*z)
	}

	var beta mat.VecDense
	if err := beta.SolveVec(design, mat.NewVecDense(n, slices.Clone(y))); err != nil {
		return nil, fmt.Errorf("%w: polynomial fit is rank deficient: %v", errs.ErrInsufficientData, err)
	}

	a := beta.AtVec(0)
	b := beta.AtVec(1) / scale
	c := beta.AtVec(2) / (scale * scale)

	est := NewPolynomialEstimator(a, b, c)
	model := newModel(est)
	model.RSquared, model.RMSE = goodnessOfFit(x, y, est)

	return model, nil
}

// FitHyperbolic fits y = a + b/x by ordinary least squares on 1/x and returns
// the model with coefficients [a, b].
//
// All x must be positive. At least two distinct values are required.
func FitHyperbolic(x, y []float64) (*Model, error) {
	if err := checkSamples(x, y, 2); err != nil {
		return nil, err
	}

	inv := make([]float64, len(x))
	for i, xi := range x {
		if xi <= 0 {
			return nil, fmt.Errorf("%w: hyperbolic fit requires positive x, got %g", errs.ErrInvalidInput, xi)
		}
		inv[i] = 1 / xi
	}

	a, b := stat.LinearRegression(inv, y, nil, false)

	est := NewHyperbolicEstimator(a, b)
	model := newModel(est)
	model.RSquared, model.RMSE = goodnessOfFit(x, y, est)

	return model, nil
}

func checkSamples(x, y []float64, minDistinct int) error {
	if len(x) != len(y) {
		return fmt.Errorf("%w: %d x values but %d y values", errs.ErrShapeMismatch, len(x), len(y))
	}

	for i := range x {
		if math.IsNaN(x[i]) || math.IsInf(x[i], 0) || math.IsNaN(y[i]) || math.IsInf(y[i], 0) {
			return fmt.Errorf("%w: non-finite sample at index %d", errs.ErrInvalidInput, i)
		}
	}

	distinct := slices.Clone(x)
	slices.Sort(distinct)
	distinct = slices.Compact(distinct)
	if len(distinct) < minDistinct {
		return fmt.Errorf("%w: need at least %d distinct x values, got %d",
			errs.ErrInsufficientData, minDistinct, len(distinct))
	}

	return nil
}

// goodnessOfFit returns R² and RMSE of est over the samples.
func goodnessOfFit(x, y []float64, est Estimator) (float64, float64) {
	mean := stat.Mean(y, nil)

	var ssRes, ssTot float64
	for i := range x {
		r := y[i] - est.Estimate(x[i])
		ssRes += r * r
		d := y[i] - mean
		ssTot += d * d
	}

	rmse := math.Sqrt(ssRes / float64(len(x)))
	if ssTot == 0 {
		return 0, rmse
	}

	return 1 - ssRes/ssTot, rmse
}
