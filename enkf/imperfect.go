package enkf

import (
	filter "github.com/milosgajdos/go-enkf"
	"github.com/milosgajdos/go-enkf/sim"
	"gonum.org/v1/gonum/mat"
)

// DefaultDt is the default integration step of the imperfect model filter.
const DefaultDt = 0.01

// NewImperfect creates new EnKF which advances ensemble members by integrating
// the right hand side rhs with forward Euler method and step c.Dt.
// Unless c.TrackTime is set, rhs is always evaluated at time 0.
// R is observation noise covariance. See New for the rest of the parameters.
// It returns error if R is not a valid covariance matrix, c.Dt is invalid or if New fails.
func NewImperfect(ens mat.Matrix, o filter.Observer, R mat.Matrix, rhs filter.RHS, c *Config) (*EnKF, error) {
	if c == nil {
		c = &Config{}
	}

	dt := c.Dt
	if dt == 0 {
		dt = DefaultDt
	}

	p, err := sim.NewEuler(rhs, dt, c.TrackTime)
	if err != nil {
		return nil, err
	}

	r, err := newObsNoise(R, c.Seed)
	if err != nil {
		return nil, err
	}

	return New(ens, o, r, p, c)
}
