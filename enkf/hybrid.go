package enkf

import (
	filter "github.com/milosgajdos/go-enkf"
	"gonum.org/v1/gonum/mat"
)

// NewHybrid creates new EnKF which advances ensemble members with forecast f.
// R is observation noise covariance. See New for the rest of the parameters.
// It returns error if R is not a valid covariance matrix or if New fails.
func NewHybrid(ens mat.Matrix, o filter.Observer, R mat.Matrix, f filter.Propagator, c *Config) (*EnKF, error) {
	if c == nil {
		c = &Config{}
	}

	r, err := newObsNoise(R, c.Seed)
	if err != nil {
		return nil, err
	}

	return New(ens, o, r, f, c)
}
