package sim

import (
	"errors"
	"os"
	"testing"

	filter "github.com/milosgajdos/go-enkf"
	"github.com/stretchr/testify/assert"
	"gonum.org/v1/gonum/mat"
)

var (
	x    *mat.VecDense
	A, C *mat.Dense
)

func setup() {
	x = mat.NewVecDense(2, []float64{0.5, 0.6})

	A = mat.NewDense(2, 2, []float64{0.0, 1.0, -1.0, 0.0})
	C = mat.NewDense(1, 2, []float64{1.0, 0.0})
}

func TestMain(m *testing.M) {
	// set up tests
	setup()
	// run the tests
	retCode := m.Run()
	// call with result of m.Run()
	os.Exit(retCode)
}

func TestInitCond(t *testing.T) {
	assert := assert.New(t)

	state := mat.NewVecDense(2, []float64{1.0, 3.0})
	cov := mat.NewSymDense(2, []float64{0.25, 0, 0, 0.25})

	ic := NewInitCond(state, cov)

	s := ic.State()
	for i := 0; i < state.Len(); i++ {
		assert.Equal(state.AtVec(i), s.AtVec(i))
	}

	c := ic.Cov()
	for i := 0; i < cov.SymmetricDim(); i++ {
		for j := 0; j < cov.SymmetricDim(); j++ {
			assert.Equal(cov.At(i, j), c.At(i, j))
		}
	}
}

func TestNewEuler(t *testing.T) {
	assert := assert.New(t)

	rhs := filter.RHSFunc(func(t float64, x mat.Vector) (mat.Vector, error) {
		return mat.NewVecDense(x.Len(), nil), nil
	})

	e, err := NewEuler(rhs, 0.01, false)
	assert.NotNil(e)
	assert.NoError(err)
	assert.Equal(0.01, e.Step())

	for _, dt := range []float64{0, -0.1} {
		e, err = NewEuler(rhs, dt, false)
		assert.Nil(e)
		assert.Error(err)
	}

	e, err = NewEuler(nil, 0.01, false)
	assert.Nil(e)
	assert.Error(err)
}

func TestEulerPropagate(t *testing.T) {
	assert := assert.New(t)

	zero := filter.RHSFunc(func(t float64, x mat.Vector) (mat.Vector, error) {
		return mat.NewVecDense(x.Len(), nil), nil
	})

	for _, dt := range []float64{0.001, 0.1, 10} {
		e, err := NewEuler(zero, dt, false)
		assert.NoError(err)

		v, err := e.Propagate(x)
		assert.NoError(err)
		assert.True(mat.Equal(x, v))
	}

	ones := filter.RHSFunc(func(t float64, x mat.Vector) (mat.Vector, error) {
		dx := mat.NewVecDense(x.Len(), nil)
		for i := 0; i < x.Len(); i++ {
			dx.SetVec(i, 1.0)
		}
		return dx, nil
	})

	e, err := NewEuler(ones, 0.1, false)
	assert.NoError(err)

	v, err := e.Propagate(x)
	assert.NoError(err)
	for i := 0; i < x.Len(); i++ {
		assert.InDelta(x.AtVec(i)+0.1, v.AtVec(i), 1e-12)
	}

	short := filter.RHSFunc(func(t float64, x mat.Vector) (mat.Vector, error) {
		return mat.NewVecDense(1, nil), nil
	})
	e, err = NewEuler(short, 0.1, false)
	assert.NoError(err)

	v, err = e.Propagate(x)
	assert.Nil(v)
	assert.True(errors.Is(err, filter.ErrDimensionMismatch))

	rhsErr := errors.New("rhs failed")
	failing := filter.RHSFunc(func(t float64, x mat.Vector) (mat.Vector, error) {
		return nil, rhsErr
	})
	e, err = NewEuler(failing, 0.1, false)
	assert.NoError(err)

	v, err = e.Propagate(x)
	assert.Nil(v)
	assert.Equal(rhsErr, err)
}

func TestEulerTime(t *testing.T) {
	assert := assert.New(t)

	var times []float64
	rhs := filter.RHSFunc(func(t float64, x mat.Vector) (mat.Vector, error) {
		times = append(times, t)
		return mat.NewVecDense(x.Len(), nil), nil
	})

	e, err := NewEuler(rhs, 0.5, false)
	assert.NoError(err)
	for i := 0; i < 3; i++ {
		_, err = e.Propagate(x)
		assert.NoError(err)
		e.Advance()
	}
	assert.Equal([]float64{0, 0, 0}, times)
	assert.Equal(0.0, e.Time())

	times = nil
	e, err = NewEuler(rhs, 0.5, true)
	assert.NoError(err)
	for i := 0; i < 3; i++ {
		_, err = e.Propagate(x)
		assert.NoError(err)
		e.Advance()
	}
	assert.Equal([]float64{0, 0.5, 1.0}, times)
	assert.Equal(1.5, e.Time())
}

func TestLinear(t *testing.T) {
	assert := assert.New(t)

	l, err := NewLinear(A)
	assert.NotNil(l)
	assert.NoError(err)

	dx, err := l.Derivative(0, x)
	assert.NoError(err)
	assert.InDeltaSlice([]float64{0.6, -0.5}, []float64{dx.AtVec(0), dx.AtVec(1)}, 1e-12)

	dx, err = l.Derivative(0, mat.NewVecDense(3, nil))
	assert.Nil(dx)
	assert.True(errors.Is(err, filter.ErrDimensionMismatch))

	l, err = NewLinear(mat.NewDense(2, 3, nil))
	assert.Nil(l)
	assert.Error(err)

	l, err = NewLinear(nil)
	assert.Nil(l)
	assert.Error(err)
}

func TestLinearDiscretize(t *testing.T) {
	assert := assert.New(t)

	l, err := NewLinear(A)
	assert.NoError(err)

	d, err := l.Discretize(0.0)
	assert.Nil(d)
	assert.Error(err)

	// A is a rotation generator: exp(A*Ts) preserves the norm of x
	d, err = l.Discretize(0.1)
	assert.NotNil(d)
	assert.NoError(err)

	v, err := d.Propagate(x)
	assert.NoError(err)
	assert.InDelta(mat.Norm(x, 2), mat.Norm(v, 2), 1e-9)

	// zero system matrix discretizes to identity
	z, err := NewLinear(mat.NewDense(2, 2, nil))
	assert.NoError(err)
	d, err = z.Discretize(0.1)
	assert.NoError(err)
	v, err = d.Propagate(x)
	assert.NoError(err)
	assert.True(mat.EqualApprox(x, v, 1e-12))

	v, err = d.Propagate(mat.NewVecDense(3, nil))
	assert.Nil(v)
	assert.True(errors.Is(err, filter.ErrDimensionMismatch))
}

func TestLorenz63(t *testing.T) {
	assert := assert.New(t)

	l := NewLorenz63()

	// origin is a fixed point
	dx, err := l.Derivative(0, mat.NewVecDense(3, nil))
	assert.NoError(err)
	assert.Equal(0.0, mat.Norm(dx, 2))

	dx, err = l.Derivative(0, mat.NewVecDense(3, []float64{1, 2, 3}))
	assert.NoError(err)
	assert.InDelta(10.0, dx.AtVec(0), 1e-12)
	assert.InDelta(1*(28-3)-2.0, dx.AtVec(1), 1e-12)
	assert.InDelta(1*2-8.0, dx.AtVec(2), 1e-12)

	dx, err = l.Derivative(0, mat.NewVecDense(2, nil))
	assert.Nil(dx)
	assert.True(errors.Is(err, filter.ErrDimensionMismatch))
}

func TestObserver(t *testing.T) {
	assert := assert.New(t)

	o, err := NewObserver(C)
	assert.NotNil(o)
	assert.NoError(err)

	ny, nx := o.Dims()
	assert.Equal(1, ny)
	assert.Equal(2, nx)

	y, err := o.Observe(x)
	assert.NoError(err)
	assert.Equal(0.5, y.AtVec(0))

	y, err = o.Observe(mat.NewVecDense(3, nil))
	assert.Nil(y)
	assert.True(errors.Is(err, filter.ErrDimensionMismatch))

	o, err = NewObserver(nil)
	assert.Nil(o)
	assert.Error(err)
}

func TestIdentity(t *testing.T) {
	assert := assert.New(t)

	o, err := Identity(2)
	assert.NotNil(o)
	assert.NoError(err)

	y, err := o.Observe(x)
	assert.NoError(err)
	assert.True(mat.Equal(x, y))

	o, err = Identity(0)
	assert.Nil(o)
	assert.Error(err)
}
