package filter

import "gonum.org/v1/gonum/mat"

// Filter is an ensemble filter of a dynamical system.
type Filter interface {
	// Predict advances the filter state to the next step
	Predict() error
	// Update corrects the filter state using external measurement
	Update(mat.Vector) error
}

// Propagator propagates internal state of the system to the next step
type Propagator interface {
	// Propagate propagates internal state of the system to the next step
	Propagate(mat.Vector) (mat.Vector, error)
}

// PropagatorFunc is an adapter that allows ordinary functions to be used as Propagator
type PropagatorFunc func(mat.Vector) (mat.Vector, error)

// Propagate calls f(x)
func (f PropagatorFunc) Propagate(x mat.Vector) (mat.Vector, error) {
	return f(x)
}

// Observer observes external state (output) of the system
type Observer interface {
	// Observe maps internal state of the system to observation space
	Observe(mat.Vector) (mat.Vector, error)
}

// ObserverFunc is an adapter that allows ordinary functions to be used as Observer
type ObserverFunc func(mat.Vector) (mat.Vector, error)

// Observe calls f(x)
func (f ObserverFunc) Observe(x mat.Vector) (mat.Vector, error) {
	return f(x)
}

// RHS is the right hand side of a system of ordinary differential equations
type RHS interface {
	// Derivative returns dx/dt at time t and state x
	Derivative(t float64, x mat.Vector) (mat.Vector, error)
}

// RHSFunc is an adapter that allows ordinary functions to be used as RHS
type RHSFunc func(float64, mat.Vector) (mat.Vector, error)

// Derivative calls f(t, x)
func (f RHSFunc) Derivative(t float64, x mat.Vector) (mat.Vector, error) {
	return f(t, x)
}

// Advancer is implemented by propagators which need to know
// when the whole ensemble has been propagated by one step.
type Advancer interface {
	// Advance marks the end of a propagation step
	Advance()
}

// InitCond is initial state condition of the filter
type InitCond interface {
	// State returns initial filter state
	State() mat.Vector
	// Cov returns initial state covariance
	Cov() mat.Symmetric
}

// Estimate is dynamical system filter estimate
type Estimate interface {
	// Val returns estimate value
	Val() mat.Vector
	// Cov returns estimate covariance
	Cov() mat.Symmetric
}

// Noise is dynamical system noise
type Noise interface {
	// Mean returns noise mean
	Mean() []float64
	// Cov returns covariance matrix of the noise
	Cov() mat.Symmetric
	// Sample returns a sample of the noise
	Sample() mat.Vector
	// Reset resets the noise
	Reset() error
}
