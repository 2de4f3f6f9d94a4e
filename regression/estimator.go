package regression

import (
	"fmt"
	"math"
	"slices"
	"strings"
)

// ModelType represents the type of regression model.
type ModelType int

const (
	// ModelTypeHyperbolic represents the hyperbolic model: y = a + b / x
	ModelTypeHyperbolic ModelType = iota
	// ModelTypePolynomial represents the quadratic model: y = a + b*x + c*x²
	ModelTypePolynomial
)

var modelTypeNames = map[ModelType]string{
	ModelTypeHyperbolic: "hyperbolic",
	ModelTypePolynomial: "polynomial",
}

// String returns the string representation of the model type.
func (mt ModelType) String() string {
	if name, exists := modelTypeNames[mt]; exists {
		return name
	}

	return "unknown"
}

// ModelTypeFromString returns the ModelType for a given name, or ModelType(-1)
// for unknown names.
func ModelTypeFromString(name string) ModelType {
	for mt, n := range modelTypeNames {
		if n == strings.ToLower(name) {
			return mt
		}
	}

	return ModelType(-1)
}

// Estimator evaluates a fitted model.
type Estimator interface {
	// Estimate evaluates the model at x.
	Estimate(x float64) float64
	// Type returns the model type.
	Type() ModelType
	// Coefficients returns the model coefficients, constant term first.
	Coefficients() []float64
	// SetCoefficients replaces the coefficients; the count must match the model.
	SetCoefficients(coeffs []float64) error
}

// HyperbolicEstimator implements y = a + b / x.
type HyperbolicEstimator struct {
	a, b float64
}

var _ Estimator = (*HyperbolicEstimator)(nil)

// NewHyperbolicEstimator creates a hyperbolic estimator with the given coefficients.
func NewHyperbolicEstimator(a, b float64) *HyperbolicEstimator {
	return &HyperbolicEstimator{a: a, b: b}
}

// Estimate returns a + b/x, or +Inf for non-positive x.
func (h *HyperbolicEstimator) Estimate(x float64) float64 {
	if x <= 0 {
		return math.Inf(1)
	}

	return h.a + h.b/x
}

// Type returns ModelTypeHyperbolic.
func (h *HyperbolicEstimator) Type() ModelType {
	return ModelTypeHyperbolic
}

// Coefficients returns [a, b].
func (h *HyperbolicEstimator) Coefficients() []float64 {
	return []float64{h.a, h.b}
}

// SetCoefficients expects exactly [a, b].
func (h *HyperbolicEstimator) SetCoefficients(coeffs []float64) error {
	if len(coeffs) != 2 {
		return fmt.Errorf("hyperbolic model expects exactly 2 coefficients, got %d", len(coeffs))
	}
	h.a, h.b = coeffs[0], coeffs[1]

	return nil
}

// PolynomialEstimator implements y = a + b*x + c*x².
type PolynomialEstimator struct {
	a, b, c float64
}

var _ Estimator = (*PolynomialEstimator)(nil)

// NewPolynomialEstimator creates a quadratic estimator with the given coefficients.
func NewPolynomialEstimator(a, b, c float64) *PolynomialEstimator {
	return &PolynomialEstimator{a: a, b: b, c: c}
}

// Estimate returns a + b*x + c*x².
func (p *PolynomialEstimator) Estimate(x float64) float64 {
	return p.a + x*(p.b+x*p.c)
}

// Type returns ModelTypePolynomial.
func (p *PolynomialEstimator) Type() ModelType {
	return ModelTypePolynomial
}

// Coefficients returns [a, b, c].
func (p *PolynomialEstimator) Coefficients() []float64 {
	return []float64{p.a, p.b, p.c}
}

// SetCoefficients expects exactly [a, b, c].
func (p *PolynomialEstimator) SetCoefficients(coeffs []float64) error {
	if len(coeffs) != 3 {
		return fmt.Errorf("polynomial model expects exactly 3 coefficients, got %d", len(coeffs))
	}
	p.a, p.b, p.c = coeffs[0], coeffs[1], coeffs[2]

	return nil
}

// NewEstimator creates an estimator by model name ("hyperbolic" or "polynomial",
// case-insensitive) and coefficients.
func NewEstimator(name string, coeffs []float64) (Estimator, error) {
	var est Estimator
	switch ModelTypeFromString(name) {
	case ModelTypeHyperbolic:
		est = &HyperbolicEstimator{}
	case ModelTypePolynomial:
		est = &PolynomialEstimator{}
	default:
		supported := make([]string, 0, len(modelTypeNames))
		for _, n := range modelTypeNames {
			supported = append(supported, n)
		}
		slices.Sort(supported)

		return nil, fmt.Errorf("unknown model type: %s. Supported types: %s", name, strings.Join(supported, ", "))
	}

	if err := est.SetCoefficients(coeffs); err != nil {
		return nil, err
	}

	return est, nil
}
