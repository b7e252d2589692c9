package sim

import (
	"fmt"

	filter "github.com/milosgajdos/go-enkf"
	"gonum.org/v1/gonum/mat"
)

// Linear is a linear, continuous-time, autonomous dynamical system
//
//	dx/dt = A*x
type Linear struct {
	// A is system matrix
	A *mat.Dense
}

// NewLinear creates a linear continuous-time system with system matrix A.
// It returns error if A is nil or not square.
func NewLinear(A mat.Matrix) (*Linear, error) {
	if A == nil {
		return nil, fmt.Errorf("system matrix must be defined for a model")
	}

	r, c := A.Dims()
	if r != c {
		return nil, fmt.Errorf("%w: system matrix [%d x %d]", filter.ErrDimensionMismatch, r, c)
	}

	return &Linear{A: mat.DenseCopyOf(A)}, nil
}

// Derivative returns A*x. Time t is ignored.
func (l *Linear) Derivative(t float64, x mat.Vector) (mat.Vector, error) {
	nx, _ := l.A.Dims()
	if x.Len() != nx {
		return nil, fmt.Errorf("%w: state length %d, system %d", filter.ErrDimensionMismatch, x.Len(), nx)
	}

	out := mat.NewVecDense(nx, nil)
	out.MulVec(l.A, x)

	return out, nil
}

// Discretize creates a discrete-time model of the system sampled with period Ts:
//
//	x[k+1] = exp(A*Ts)*x[k]
func (l *Linear) Discretize(Ts float64) (*Discrete, error) {
	if Ts <= 0 {
		return nil, fmt.Errorf("invalid sampling period: %v", Ts)
	}

	Ad := &mat.Dense{}
	Ad.Scale(Ts, l.A)
	Ad.Exp(Ad)

	return &Discrete{A: Ad}, nil
}

// Discrete is a linear, discrete-time, autonomous dynamical system
//
//	x[k+1] = A*x[k]
type Discrete struct {
	// A is state transition matrix
	A *mat.Dense
}

// Propagate returns the next internal state of the system.
func (d *Discrete) Propagate(x mat.Vector) (mat.Vector, error) {
	nx, _ := d.A.Dims()
	if x.Len() != nx {
		return nil, fmt.Errorf("%w: state length %d, system %d", filter.ErrDimensionMismatch, x.Len(), nx)
	}

	out := mat.NewVecDense(nx, nil)
	out.MulVec(d.A, x)

	return out, nil
}
