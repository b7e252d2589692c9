package sim

import (
	"fmt"
	"math"

	filter "github.com/milosgajdos/go-enkf"
	"gonum.org/v1/gonum/mat"
)

// Euler propagates system state by integrating the right hand side
// of the system equations with the explicit (forward) Euler method:
//
//	x[k+1] = x[k] + dt*f(t, x[k])
type Euler struct {
	// rhs is the right hand side of the system
	rhs filter.RHS
	// dt is integration step
	dt float64
	// t is the time passed to rhs
	t float64
	// track advances t by dt on every Advance call
	track bool
}

// NewEuler creates new Euler propagator with integration step dt and returns it.
// When track is false rhs is always evaluated at time 0,
// otherwise the time advances by dt on every call to Advance.
// It returns error if rhs is nil or dt is not a finite positive number.
func NewEuler(rhs filter.RHS, dt float64, track bool) (*Euler, error) {
	if rhs == nil {
		return nil, fmt.Errorf("invalid right hand side: %v", rhs)
	}

	if dt <= 0 || math.IsInf(dt, 0) || math.IsNaN(dt) {
		return nil, fmt.Errorf("invalid integration step: %v", dt)
	}

	return &Euler{
		rhs:   rhs,
		dt:    dt,
		track: track,
	}, nil
}

// Propagate integrates state x by one step and returns the result.
// Errors returned by the right hand side are returned unchanged.
func (e *Euler) Propagate(x mat.Vector) (mat.Vector, error) {
	dx, err := e.rhs.Derivative(e.t, x)
	if err != nil {
		return nil, err
	}

	if dx == nil || dx.Len() != x.Len() {
		return nil, fmt.Errorf("%w: derivative length %d, state length %d", filter.ErrDimensionMismatch, lenOf(dx), x.Len())
	}

	out := mat.NewVecDense(x.Len(), nil)
	out.AddScaledVec(x, e.dt, dx)

	return out, nil
}

// Advance moves integration time forward by dt if time tracking is enabled.
func (e *Euler) Advance() {
	if e.track {
		e.t += e.dt
	}
}

// Time returns the time at which the right hand side is evaluated.
func (e *Euler) Time() float64 {
	return e.t
}

// Step returns integration step.
func (e *Euler) Step() float64 {
	return e.dt
}

func lenOf(v mat.Vector) int {
	if v == nil {
		return 0
	}
	return v.Len()
}
