package rand

import (
	"errors"
	"math"
	"testing"

	filter "github.com/milosgajdos/go-enkf"
	"github.com/stretchr/testify/assert"
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/mat"
)

func TestSqrtCov(t *testing.T) {
	assert := assert.New(t)

	cov := mat.NewSymDense(2, []float64{4.0, 1.0, 1.0, 2.0})
	L, err := SqrtCov(cov)
	assert.NoError(err)
	assert.NotNil(L)

	llt := &mat.Dense{}
	llt.Mul(L, L.T())
	assert.True(mat.EqualApprox(llt, cov, 1e-9))

	// singular but positive semi-definite
	cov = mat.NewSymDense(2, []float64{1.0, 1.0, 1.0, 1.0})
	L, err = SqrtCov(cov)
	assert.NoError(err)
	llt.Reset()
	llt.Mul(L, L.T())
	assert.True(mat.EqualApprox(llt, cov, 1e-9))

	// zero matrix yields zero square root
	L, err = SqrtCov(mat.NewSymDense(3, nil))
	assert.NoError(err)
	assert.Equal(0.0, mat.Norm(L, 1))

	// indefinite matrix
	L, err = SqrtCov(mat.NewSymDense(2, []float64{1.0, 2.0, 2.0, 1.0}))
	assert.Nil(L)
	assert.True(errors.Is(err, filter.ErrInvalidCovariance))

	L, err = SqrtCov(nil)
	assert.Nil(L)
	assert.Error(err)

	for _, v := range []float64{math.NaN(), math.Inf(1)} {
		L, err = SqrtCov(mat.NewSymDense(2, []float64{1.0, 0.0, 0.0, v}))
		assert.Nil(L)
		assert.True(errors.Is(err, filter.ErrInvalidCovariance))
	}
}

func TestWithCovN(t *testing.T) {
	assert := assert.New(t)

	data := []float64{1.0, 0.0, 0.0, 1.0}
	covTest := mat.NewSymDense(2, data)
	covR, _ := covTest.Dims()

	// n must be bigger than 1
	nTest := -3
	res, err := WithCovN(covTest, nTest, nil)
	assert.Error(err)
	assert.Nil(res)

	nTest = 1
	res, err = WithCovN(covTest, nTest, nil)
	assert.NoError(err)
	assert.NotNil(res)

	// 2 samples
	nTest = 2
	res, err = WithCovN(covTest, nTest, rand.NewSource(42))
	assert.NoError(err)
	assert.NotNil(res)
	r, c := res.Dims()
	assert.Equal(r, covR)
	assert.Equal(c, nTest)

	// same seed, same samples
	again, err := WithCovN(covTest, nTest, rand.NewSource(42))
	assert.NoError(err)
	assert.True(mat.Equal(res, again))
}
