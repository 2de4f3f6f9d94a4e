package pool

import "sync"

// float64SlicePool recycles the scratch vectors that hold Dirichlet parameters
// while a block is being estimated. Their length is 2^C or n_states², so
// reusing them avoids one large allocation per block and per extrapolation level.
var float64SlicePool = sync.Pool{
	New: func() any { return &[]float64{} },
}

// GetFloat64Slice retrieves a float64 slice of exactly size elements from the pool.
//
// The contents of the returned slice are unspecified. The caller must call the
// returned cleanup function (typically with defer) once the slice is no longer used.
//
// Example:
//
//	buf, cleanup := pool.GetFloat64Slice(1 << channels)
//	defer cleanup()
func GetFloat64Slice(size int) ([]float64, func()) {
	ptr, _ := float64SlicePool.Get().(*[]float64)
	slice := (*ptr)[:0]

	if cap(slice) < size {
		slice = make([]float64, size)
	} else {
		slice = slice[:size]
	}
	*ptr = slice

	return slice, func() { float64SlicePool.Put(ptr) }
}

// GetShifted returns a pooled copy of counts with shift added to every element.
//
// This is how posterior Dirichlet parameters are built from raw counts and a
// pseudocount. The counts slice itself is never modified.
func GetShifted(counts []float64, shift float64) ([]float64, func()) {
	out, cleanup := GetFloat64Slice(len(counts))
	for i, c := range counts {
		out[i] = c + shift
	}

	return out, cleanup
}
