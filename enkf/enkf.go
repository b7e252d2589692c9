// Package enkf implements a stochastic (perturbed observation) Ensemble Kalman Filter.
//
// The filter owns an ensemble of state vectors. Predict advances every member
// with a forecast strategy and Update corrects every member with an observation:
//
//	x[i] += z - h(x[i]) + v[i],  v[i] ~ N(0, R)
//
// Two forecast strategies are provided: a caller supplied one-step forecast
// (NewHybrid) and forward Euler integration of a right hand side (NewImperfect).
package enkf

import (
	"fmt"
	"math"
	"time"

	filter "github.com/milosgajdos/go-enkf"
	"github.com/milosgajdos/go-enkf/ensemble"
	"github.com/milosgajdos/go-enkf/noise"
	"gonum.org/v1/gonum/mat"
)

// symTol is the tolerance used when checking the symmetry of R.
const symTol = 1e-12

// stage is the position of the filter in the predict/update cycle.
type stage int

const (
	idle stage = iota
	predicted
)

// Config contains EnKF configuration parameters
type Config struct {
	// Dt is the integration step of the imperfect model filter.
	// Zero value means DefaultDt.
	Dt float64
	// Strict enforces alternation of Predict and Update calls:
	// out of order calls fail with filter.ErrOutOfOrder.
	Strict bool
	// TrackTime passes elapsed time k*Dt to the imperfect model right hand side
	// instead of constant 0.
	TrackTime bool
	// Seed seeds observation noise. Zero value seeds from the current time.
	Seed uint64
}

// EnKF is Ensemble Kalman Filter
type EnKF struct {
	// ens is filter ensemble
	ens *ensemble.Ensemble
	// p is forecast strategy
	p filter.Propagator
	// o maps ensemble members to observation space
	o filter.Observer
	// r is observation noise
	r filter.Noise
	// strict enforces predict/update alternation
	strict bool
	// stage is the current stage of the predict/update cycle
	stage stage
	// inn is innovation vector: measurement minus mean predicted observation
	inn *mat.VecDense
	// yMean is mean predicted observation
	yMean *mat.VecDense
}

// New creates new EnKF and returns it.
// It accepts the following parameters:
//   - ens:  initial ensemble; members are stored in rows (N x D)
//   - o:    observer mapping ensemble members to observation space
//   - r:    observation noise; its dimension must match the ensemble member dimension
//   - p:    forecast strategy
//   - c:    filter configuration; nil means default configuration
//
// It returns error if either of the following conditions is met:
//   - the ensemble is empty
//   - observer, noise or propagator are nil
//   - noise dimension differs from the ensemble member dimension
func New(ens mat.Matrix, o filter.Observer, r filter.Noise, p filter.Propagator, c *Config) (*EnKF, error) {
	if c == nil {
		c = &Config{}
	}

	e, err := ensemble.New(ens)
	if err != nil {
		return nil, err
	}

	if o == nil {
		return nil, fmt.Errorf("invalid observer: %v", o)
	}

	if p == nil {
		return nil, fmt.Errorf("invalid propagator: %v", p)
	}

	if r == nil {
		return nil, fmt.Errorf("invalid observation noise: %v", r)
	}

	// innovation is added to ensemble members so the observation
	// space must have the same dimension as the state space
	ny := r.Cov().SymmetricDim()
	if ny != e.Dim() {
		return nil, fmt.Errorf("%w: observation noise %d, ensemble member %d", filter.ErrDimensionMismatch, ny, e.Dim())
	}

	return &EnKF{
		ens:    e,
		p:      p,
		o:      o,
		r:      r,
		strict: c.Strict,
		stage:  idle,
		inn:    mat.NewVecDense(ny, nil),
		yMean:  mat.NewVecDense(ny, nil),
	}, nil
}

// Predict propagates every ensemble member to the next step.
// The ensemble is modified only if every member was propagated successfully.
// Errors returned by the propagator are returned unchanged.
func (k *EnKF) Predict() error {
	if k.strict && k.stage == predicted {
		return fmt.Errorf("%w: predict called twice", filter.ErrOutOfOrder)
	}

	n, d := k.ens.Dims()
	xNext := mat.NewDense(n, d, nil)

	for i := 0; i < n; i++ {
		x, err := k.p.Propagate(k.ens.Member(i))
		if err != nil {
			return err
		}

		if x == nil || x.Len() != d {
			return fmt.Errorf("%w: member %d propagated to length %d, want %d", filter.ErrDimensionMismatch, i, vecLen(x), d)
		}

		xNext.SetRow(i, mat.Col(nil, 0, x))
	}

	if err := k.ens.Set(xNext); err != nil {
		return err
	}

	if a, ok := k.p.(filter.Advancer); ok {
		a.Advance()
	}

	k.stage = predicted

	return nil
}

// Update corrects every ensemble member using the measurement z:
// each member is moved by the difference between z and its predicted
// observation perturbed by a fresh sample of observation noise.
// The ensemble is modified only if every member was corrected successfully;
// an update which turns a member into NaN fails with filter.ErrNumerical.
// Errors returned by the observer are returned unchanged.
func (k *EnKF) Update(z mat.Vector) error {
	if k.strict && k.stage != predicted {
		return fmt.Errorf("%w: update called before predict", filter.ErrOutOfOrder)
	}

	n, d := k.ens.Dims()

	if z == nil || z.Len() != d {
		return fmt.Errorf("%w: measurement length %d, want %d", filter.ErrDimensionMismatch, vecLen(z), d)
	}

	// predicted observations stored in rows
	y := mat.NewDense(n, d, nil)
	for i := 0; i < n; i++ {
		yi, err := k.o.Observe(k.ens.Member(i))
		if err != nil {
			return err
		}

		if yi == nil || yi.Len() != d {
			return fmt.Errorf("%w: member %d observed with length %d, want %d", filter.ErrDimensionMismatch, i, vecLen(yi), d)
		}

		y.SetRow(i, mat.Col(nil, 0, yi))
	}

	yMean := mat.NewVecDense(d, nil)
	for i := 0; i < n; i++ {
		yMean.AddVec(yMean, y.RowView(i))
	}
	yMean.ScaleVec(1/float64(n), yMean)

	xNext := k.ens.Matrix()
	pert := mat.NewVecDense(d, nil)
	for i := 0; i < n; i++ {
		v := k.r.Sample()
		if v.Len() != d {
			return fmt.Errorf("%w: noise sample length %d, want %d", filter.ErrDimensionMismatch, v.Len(), d)
		}

		// perturbed innovation: z - y[i] + v[i]
		pert.SubVec(z, y.RowView(i))
		pert.AddVec(pert, v)

		x := xNext.RowView(i).(*mat.VecDense)
		x.AddVec(x, pert)

		if hasNaN(x) {
			return fmt.Errorf("%w: member %d updated to NaN", filter.ErrNumerical, i)
		}
	}

	if err := k.ens.Set(xNext); err != nil {
		return err
	}

	k.inn.SubVec(z, yMean)
	k.yMean.CopyVec(yMean)
	k.stage = idle

	return nil
}

// Run runs one step of EnKF for measurement z: it propagates the ensemble
// to the next step and corrects it using z.
// It returns error if it either fails to propagate or correct the ensemble.
func (k *EnKF) Run(z mat.Vector) error {
	if err := k.Predict(); err != nil {
		return err
	}

	return k.Update(z)
}

// Ensemble returns a copy of ensemble members stored in rows.
func (k *EnKF) Ensemble() *mat.Dense {
	return k.ens.Matrix()
}

// Estimate returns ensemble mean and its covariance.
func (k *EnKF) Estimate() (filter.Estimate, error) {
	return k.ens.Estimate()
}

// Innovation returns the difference between the last measurement
// and the mean predicted observation.
func (k *EnKF) Innovation() mat.Vector {
	inn := &mat.VecDense{}
	inn.CloneFromVec(k.inn)

	return inn
}

// PredictedObs returns the mean predicted observation of the last update.
func (k *EnKF) PredictedObs() mat.Vector {
	y := &mat.VecDense{}
	y.CloneFromVec(k.yMean)

	return y
}

// Propagator returns EnKF forecast strategy
func (k *EnKF) Propagator() filter.Propagator {
	return k.p
}

// Observer returns EnKF observer
func (k *EnKF) Observer() filter.Observer {
	return k.o
}

// Noise returns observation noise
func (k *EnKF) Noise() filter.Noise {
	return k.r
}

// newObsNoise creates zero-mean gaussian observation noise with covariance R.
// Zero R yields noise.Zero.
func newObsNoise(R mat.Matrix, seed uint64) (filter.Noise, error) {
	cov, err := toSym(R)
	if err != nil {
		return nil, err
	}

	if isZero(cov) {
		z, err := noise.NewZero(cov.SymmetricDim())
		if err != nil {
			return nil, err
		}
		return z, nil
	}

	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}

	r, err := noise.NewGaussianWithSeed(make([]float64, cov.SymmetricDim()), cov, seed)
	if err != nil {
		return nil, err
	}

	return r, nil
}

// toSym returns a symmetric copy of R.
// It returns filter.ErrInvalidCovariance if R is nil, empty, not square,
// not symmetric or has non-finite entries.
func toSym(R mat.Matrix) (*mat.SymDense, error) {
	if R == nil {
		return nil, fmt.Errorf("%w: nil matrix", filter.ErrInvalidCovariance)
	}

	var cov *mat.SymDense
	if s, ok := R.(mat.Symmetric); ok {
		if s.SymmetricDim() == 0 {
			return nil, fmt.Errorf("%w: empty matrix", filter.ErrInvalidCovariance)
		}
		cov = mat.NewSymDense(s.SymmetricDim(), nil)
		cov.CopySym(s)
	} else {
		r, c := R.Dims()
		if r != c || r == 0 {
			return nil, fmt.Errorf("%w: matrix [%d x %d] is not square", filter.ErrInvalidCovariance, r, c)
		}

		cov = mat.NewSymDense(r, nil)
		for i := 0; i < r; i++ {
			for j := i; j < r; j++ {
				if math.Abs(R.At(i, j)-R.At(j, i)) > symTol*math.Max(1, math.Abs(R.At(i, j))) {
					return nil, fmt.Errorf("%w: matrix is not symmetric", filter.ErrInvalidCovariance)
				}
				cov.SetSym(i, j, R.At(i, j))
			}
		}
	}

	n := cov.SymmetricDim()
	for i := 0; i < n; i++ {
		for j := i; j < n; j++ {
			if v := cov.At(i, j); math.IsNaN(v) || math.IsInf(v, 0) {
				return nil, fmt.Errorf("%w: non-finite entry at (%d, %d)", filter.ErrInvalidCovariance, i, j)
			}
		}
	}

	return cov, nil
}

func isZero(s mat.Symmetric) bool {
	n := s.SymmetricDim()
	for i := 0; i < n; i++ {
		for j := i; j < n; j++ {
			if s.At(i, j) != 0 {
				return false
			}
		}
	}
	return true
}

func hasNaN(v mat.Vector) bool {
	for i := 0; i < v.Len(); i++ {
		if math.IsNaN(v.AtVec(i)) {
			return true
		}
	}
	return false
}

func vecLen(v mat.Vector) int {
	if v == nil {
		return 0
	}
	return v.Len()
}
