package regression

import (
	"testing"

	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestModel_YAMLRoundTrip(t *testing.T) {
	fits := map[string]func(x, y []float64) (*Model, error){
		"polynomial": FitPolynomial,
		"hyperbolic": FitHyperbolic,
	}
	x := []float64{250, 500, 1000, 2000}
	y := []float64{3.1, 2.4, 2.05, 2.01}

	for name, fit := range fits {
		t.Run(name, func(t *testing.T) {
			model, err := fit(x, y)
			require.NoError(t, err)

			data, err := yaml.Marshal(model)
			require.NoError(t, err)
			require.Contains(t, string(data), "type: "+name)

			var decoded Model
			require.NoError(t, yaml.Unmarshal(data, &decoded))
			require.Equal(t, *model, decoded)
			require.Equal(t, model.Estimator.Estimate(750), decoded.Estimator.Estimate(750))
		})
	}
}

func TestModel_UnmarshalYAMLRejectsBadModels(t *testing.T) {
	var m Model

	err := yaml.Unmarshal([]byte("type: cubic\ncoefficients: [1, 2, 3, 4]\n"), &m)
	require.ErrorContains(t, err, "unknown model type")

	err = yaml.Unmarshal([]byte("type: polynomial\ncoefficients: [1, 2]\n"), &m)
	require.ErrorContains(t, err, "expects exactly 3 coefficients")

	err = yaml.Unmarshal([]byte("type: [polynomial]\n"), &m)
	require.Error(t, err)
}
