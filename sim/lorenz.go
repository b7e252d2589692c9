package sim

import (
	"fmt"

	filter "github.com/milosgajdos/go-enkf"
	"gonum.org/v1/gonum/mat"
)

// Lorenz63 is the Lorenz 1963 convection model:
//
//	dx/dt = Sigma*(y-x)
//	dy/dt = x*(Rho-z) - y
//	dz/dt = x*y - Beta*z
type Lorenz63 struct {
	Sigma float64
	Rho   float64
	Beta  float64
}

// NewLorenz63 returns Lorenz63 system with the classic chaotic parameters.
func NewLorenz63() *Lorenz63 {
	return &Lorenz63{
		Sigma: 10.0,
		Rho:   28.0,
		Beta:  8.0 / 3.0,
	}
}

// Derivative returns the time derivative of state x. Time t is ignored.
func (l *Lorenz63) Derivative(t float64, x mat.Vector) (mat.Vector, error) {
	if x.Len() != 3 {
		return nil, fmt.Errorf("%w: state length %d, system 3", filter.ErrDimensionMismatch, x.Len())
	}

	x0, x1, x2 := x.AtVec(0), x.AtVec(1), x.AtVec(2)

	return mat.NewVecDense(3, []float64{
		l.Sigma * (x1 - x0),
		x0*(l.Rho-x2) - x1,
		x0*x1 - l.Beta*x2,
	}), nil
}
