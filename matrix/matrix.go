package matrix

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// ColSums returns a slice containing m column sums.
// It panics if m is nil.
func ColSums(m mat.Matrix) []float64 {
	_, cols := m.Dims()
	sum := make([]float64, cols)

	for i := 0; i < cols; i++ {
		sum[i] = floats.Sum(mat.Col(nil, i, m))
	}

	return sum
}

// ColMeans returns a slice containing m column means.
// It panics if m is nil.
func ColMeans(m mat.Matrix) []float64 {
	rows, _ := m.Dims()
	mean := ColSums(m)
	floats.Scale(1/float64(rows), mean)

	return mean
}

// Flatten returns the elements of m in row-major order.
// It panics if m is nil.
func Flatten(m mat.Matrix) []float64 {
	rows, cols := m.Dims()
	data := make([]float64, 0, rows*cols)

	for i := 0; i < rows; i++ {
		data = append(data, mat.Row(nil, i, m)...)
	}

	return data
}
