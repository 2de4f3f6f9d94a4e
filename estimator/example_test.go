package estimator_test

import (
	"fmt"

	"github.com/arloliu/neurokl/estimator"
)

func ExampleEntropy() {
	h, err := estimator.Entropy([]float64{0.25, 0.25, 0.25, 0.25})
	if err != nil {
		fmt.Println(err)
		return
	}
	fmt.Printf("%.4f bits\n", h)

	_, err = estimator.Entropy([]float64{0.5, 0.5, 0})
	fmt.Println(err)

	// Output:
	// 2.0000 bits
	// zero bins found: p[2] is zero
}

func ExampleMeanEntropy() {
	// observed counts {3, 0, 1, 0} plus a pseudocount of 1
	alpha := []float64{4, 1, 2, 1}
	fmt.Printf("%.4f bits\n", estimator.MeanEntropy(alpha))
}
