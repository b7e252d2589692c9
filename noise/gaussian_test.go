package noise

import (
	"errors"
	"testing"

	filter "github.com/milosgajdos/go-enkf"
	"github.com/stretchr/testify/assert"
	"gonum.org/v1/gonum/mat"
)

func TestNewGaussian(t *testing.T) {
	assert := assert.New(t)
	for _, test := range []struct {
		mean []float64
		cov  *mat.SymDense
	}{
		{
			mean: []float64{2, 3},
			cov:  mat.NewSymDense(2, []float64{1, 0.1, 0.1, 1}),
		},
		{
			mean: []float64{0},
			cov:  mat.NewSymDense(1, []float64{0}),
		},
	} {
		g, err := NewGaussian(test.mean, test.cov)
		assert.NotNil(g)
		assert.NoError(err)
	}

	// mean and covariance dimensions differ
	g, err := NewGaussian([]float64{0, 0, 0}, mat.NewSymDense(2, nil))
	assert.Nil(g)
	assert.True(errors.Is(err, filter.ErrDimensionMismatch))

	// not positive semi-definite
	g, err = NewGaussian([]float64{0, 0}, mat.NewSymDense(2, []float64{1, 2, 2, 1}))
	assert.Nil(g)
	assert.True(errors.Is(err, filter.ErrInvalidCovariance))

	g, err = NewGaussian(nil, nil)
	assert.Nil(g)
	assert.Error(err)
}

func TestMeanCov(t *testing.T) {
	assert := assert.New(t)

	mean := []float64{2, 3}
	cov := mat.NewSymDense(2, []float64{1, 0.1, 0.1, 1})

	g, err := NewGaussian(mean, cov)
	assert.NotNil(g)
	assert.NoError(err)

	gCov := g.Cov()
	assert.Equal(cov.SymmetricDim(), gCov.SymmetricDim())
	assert.True(mat.Equal(cov, gCov))

	gMean := g.Mean()
	assert.EqualValues(mean, gMean)

	// returned values are copies
	gMean[0] = 100
	assert.EqualValues(mean, g.Mean())
}

func TestSample(t *testing.T) {
	assert := assert.New(t)
	for _, test := range []struct {
		mean []float64
		cov  *mat.SymDense
	}{
		{
			mean: []float64{2, 3},
			cov:  mat.NewSymDense(2, []float64{1, 0.1, 0.1, 1}),
		},
		{
			mean: []float64{1, 1},
			cov:  mat.NewSymDense(2, []float64{1, 1, 1, 1}),
		},
	} {
		g, err := NewGaussian(test.mean, test.cov)
		assert.NotNil(g)
		assert.NoError(err)

		sample := g.Sample()
		r, _ := sample.Dims()
		assert.Equal(r, len(test.mean))
	}
}

func TestSampleZeroCov(t *testing.T) {
	assert := assert.New(t)

	g, err := NewGaussianWithSeed([]float64{0, 0}, mat.NewSymDense(2, nil), 1)
	assert.NoError(err)

	for i := 0; i < 10; i++ {
		sample := g.Sample()
		assert.Equal(0.0, sample.AtVec(0))
		assert.Equal(0.0, sample.AtVec(1))
	}

	g, err = NewGaussianWithSeed([]float64{1.5}, mat.NewSymDense(1, nil), 1)
	assert.NoError(err)
	assert.Equal(1.5, g.Sample().AtVec(0))
}

func TestReset(t *testing.T) {
	assert := assert.New(t)
	mean := []float64{2, 3}
	cov := mat.NewSymDense(2, []float64{1, 0.1, 0.1, 1})

	g, err := NewGaussianWithSeed(mean, cov, 7)
	assert.NotNil(g)
	assert.NoError(err)

	sample1 := g.Sample()
	sample2 := g.Sample()
	assert.False(mat.Equal(sample1, sample2))

	err = g.Reset()
	assert.NoError(err)

	sample3 := g.Sample()
	assert.True(mat.Equal(sample1, sample3))
}

func TestString(t *testing.T) {
	assert := assert.New(t)

	str := `Gaussian{
Mean=[2 3]
Cov=⎡  1  0.1⎤
    ⎣0.1    1⎦
}`
	mean := []float64{2, 3}
	cov := mat.NewSymDense(2, []float64{1, 0.1, 0.1, 1})

	g, err := NewGaussian(mean, cov)
	assert.NotNil(g)
	assert.NoError(err)
	assert.Equal(str, g.String())
}
