package regression

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// Model is a fitted regression model.
//
// A Model round-trips through YAML: only the type, coefficients and fit quality
// are stored, and decoding rebuilds Estimator and Formula from them.
type Model struct {
	// Type is the model type.
	Type ModelType
	// Coefficients holds the fitted parameters, constant term first.
	Coefficients []float64
	// RSquared is the coefficient of determination. It is 0 when the observations
	// have no variance.
	RSquared float64
	// RMSE is the root mean square error of the fit.
	RMSE float64
	// Formula is a human-readable representation of the model.
	Formula string
	// Estimator evaluates the fitted curve.
	Estimator Estimator
}

type modelDocument struct {
	Type         string    `yaml:"type"`
	Coefficients []float64 `yaml:"coefficients,flow"`
	RSquared     float64   `yaml:"r_squared"`
	RMSE         float64   `yaml:"rmse"`
}

// newModel wraps est in a Model with its formula filled in.
func newModel(est Estimator) *Model {
	return &Model{
		Type:         est.Type(),
		Coefficients: est.Coefficients(),
		Formula:      formula(est),
		Estimator:    est,
	}
}

func formula(est Estimator) string {
	c := est.Coefficients()
	switch est.Type() {
	case ModelTypeHyperbolic:
		return fmt.Sprintf("y = %.6g + %.6g/x", c[0], c[1])
	case ModelTypePolynomial:
		return fmt.Sprintf("y = %.6g + %.6g*x + %.6g*x²", c[0], c[1], c[2])
	default:
		return ""
	}
}

// String returns a string representation of the model.
func (m *Model) String() string {
	return fmt.Sprintf("Model{Type: %s, R²: %.4f, RMSE: %.4g, Formula: %s}",
		m.Type, m.RSquared, m.RMSE, m.Formula)
}

// MarshalYAML implements yaml.Marshaler.
func (m *Model) MarshalYAML() (any, error) {
	return modelDocument{
		Type:         m.Type.String(),
		Coefficients: m.Coefficients,
		RSquared:     m.RSquared,
		RMSE:         m.RMSE,
	}, nil
}

// UnmarshalYAML implements yaml.Unmarshaler. Unknown model types and coefficient
// counts that do not match the type are rejected.
func (m *Model) UnmarshalYAML(node *yaml.Node) error {
	var doc modelDocument
	if err := node.Decode(&doc); err != nil {
		return err
	}
	est, err := NewEstimator(doc.Type, doc.Coefficients)
	if err != nil {
		return fmt.Errorf("decoding model: %w", err)
	}

	*m = *newModel(est)
	m.RSquared, m.RMSE = doc.RSquared, doc.RMSE

	return nil
}
