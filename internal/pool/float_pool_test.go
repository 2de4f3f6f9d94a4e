package pool

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGetFloat64Slice(t *testing.T) {
	t.Run("returns slice with requested size", func(t *testing.T) {
		slice, cleanup := GetFloat64Slice(64)
		defer cleanup()

		require.Len(t, slice, 64)
		require.GreaterOrEqual(t, cap(slice), 64)
	})

	t.Run("zero size", func(t *testing.T) {
		slice, cleanup := GetFloat64Slice(0)
		defer cleanup()

		require.Empty(t, slice)
	})

	t.Run("grows when capacity is insufficient", func(t *testing.T) {
		_, cleanup1 := GetFloat64Slice(4)
		cleanup1()

		slice, cleanup2 := GetFloat64Slice(4096)
		defer cleanup2()

		require.Len(t, slice, 4096)
	})
}

func TestGetShifted(t *testing.T) {
	counts := []float64{0, 3, 5, 0}

	alpha, cleanup := GetShifted(counts, 1.0)
	defer cleanup()

	require.Equal(t, []float64{1, 4, 6, 1}, alpha)
	require.Equal(t, []float64{0, 3, 5, 0}, counts, "input must not be modified")
}

func BenchmarkGetShifted(b *testing.B) {
	counts := make([]float64, 1<<12)
	for i := range counts {
		counts[i] = float64(i % 7)
	}
	b.ResetTimer()
	for b.Loop() {
		_, cleanup := GetShifted(counts, 0.5)
		cleanup()
	}
}
