package matrix

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"gonum.org/v1/gonum/mat"
)

func TestColSumsMeans(t *testing.T) {
	assert := assert.New(t)

	data := []float64{1.2, 3.4, 4.5, 6.7, 8.9, 10.0}
	colSums := []float64{14.6, 20.1}
	colMeans := []float64{14.6 / 3, 20.1 / 3}
	delta := 0.001

	m := mat.NewDense(3, 2, data)
	assert.NotNil(m)

	resSums := ColSums(m)
	assert.NotNil(resSums)
	assert.InDeltaSlice(colSums, resSums, delta)

	resMeans := ColMeans(m)
	assert.NotNil(resMeans)
	assert.InDeltaSlice(colMeans, resMeans, delta)

	// should panic
	assert.Panics(func() { ColSums(nil) })
	assert.Panics(func() { ColMeans(nil) })
}

func TestFlatten(t *testing.T) {
	assert := assert.New(t)

	data := []float64{1, 2, 3, 4, 5, 6}
	m := mat.NewDense(2, 3, data)
	assert.Equal(data, Flatten(m))

	assert.Equal([]float64{1, 4, 2, 5, 3, 6}, Flatten(m.T()))

	v := mat.NewVecDense(3, []float64{7, 8, 9})
	assert.Equal([]float64{7, 8, 9}, Flatten(v))

	assert.Panics(func() { Flatten(nil) })
}
