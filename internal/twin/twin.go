// Package twin runs twin experiments: a synthetic truth is generated by Lorenz-63 system,
// observed with noise and estimated by an ensemble Kalman filter whose model
// may differ from the system generating the truth.
package twin

import (
	"context"
	"fmt"
	"time"

	filter "github.com/milosgajdos/go-enkf"
	"github.com/milosgajdos/go-enkf/enkf"
	"github.com/milosgajdos/go-enkf/ensemble"
	"github.com/milosgajdos/go-enkf/internal/config"
	"github.com/milosgajdos/go-enkf/metrics"
	"github.com/milosgajdos/go-enkf/noise"
	"github.com/milosgajdos/go-enkf/sim"
	"github.com/milosgajdos/matrix"
	"go.uber.org/zap"
	xrand "golang.org/x/exp/rand"
	"gonum.org/v1/gonum/mat"
)

// Result holds trajectories of a twin experiment; every trajectory stores one step per row.
type Result struct {
	// Truth is the trajectory of the true system
	Truth *mat.Dense
	// Measure holds noisy observations of the truth
	Measure *mat.Dense
	// Filter is the trajectory of the ensemble mean
	Filter *mat.Dense
	// FilterReport scores the ensemble mean against the truth
	FilterReport *metrics.Report
	// MeasureReport scores the observations against the truth
	MeasureReport *metrics.Report
}

// Runner runs twin experiments.
type Runner struct {
	cfg *config.Experiment
	log *zap.Logger
}

// New creates new twin experiment runner and returns it.
// If log is nil, nothing is logged.
func New(cfg *config.Experiment, log *zap.Logger) (*Runner, error) {
	if cfg == nil {
		return nil, fmt.Errorf("%w: nil experiment", config.ErrInvalidConfig)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if log == nil {
		log = zap.NewNop()
	}

	return &Runner{
		cfg: cfg,
		log: log,
	}, nil
}

// Run runs the experiment. It stops early with ctx error when ctx is done.
func (r *Runner) Run(ctx context.Context) (*Result, error) {
	cfg := r.cfg

	seed := cfg.Seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}

	r.log.Info("starting twin experiment",
		zap.String("filter", cfg.Filter),
		zap.Int("ensemble", cfg.Ensemble),
		zap.Int("steps", cfg.Steps),
		zap.Float64("dt", cfg.Dt),
		zap.Uint64("seed", seed))

	truth, err := sim.NewEuler(lorenz(cfg.Truth), cfg.Dt, false)
	if err != nil {
		return nil, fmt.Errorf("failed to create truth system: %w", err)
	}

	obs, err := sim.Identity(3)
	if err != nil {
		return nil, fmt.Errorf("failed to create observer: %w", err)
	}

	R := diag(3, cfg.ObsNoise)
	measNoise, err := newMeasNoise(R, cfg.ObsNoise, seed)
	if err != nil {
		return nil, fmt.Errorf("failed to create measurement noise: %w", err)
	}

	x0 := mat.NewVecDense(3, append([]float64(nil), cfg.InitState...))
	ic := sim.NewInitCond(x0, diag(3, cfg.InitSpread))
	ens, err := ensemble.NewFromInitCond(ic, cfg.Ensemble, xrand.NewSource(seed+1))
	if err != nil {
		return nil, fmt.Errorf("failed to create initial ensemble: %w", err)
	}

	f, err := r.newFilter(ens.Matrix(), obs, R, seed+2)
	if err != nil {
		return nil, fmt.Errorf("failed to create filter: %w", err)
	}

	res := &Result{
		Truth:   mat.NewDense(cfg.Steps, 3, nil),
		Measure: mat.NewDense(cfg.Steps, 3, nil),
		Filter:  mat.NewDense(cfg.Steps, 3, nil),
	}

	var x mat.Vector = x0
	z := mat.NewVecDense(3, nil)

	for i := 0; i < cfg.Steps; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		x, err = truth.Propagate(x)
		if err != nil {
			return nil, fmt.Errorf("truth propagation failed at step %d: %w", i, err)
		}

		y, err := obs.Observe(x)
		if err != nil {
			return nil, fmt.Errorf("truth observation failed at step %d: %w", i, err)
		}
		z.AddVec(y, measNoise.Sample())

		if err := f.Run(z); err != nil {
			return nil, fmt.Errorf("filter failed at step %d: %w", i, err)
		}

		est, err := f.Estimate()
		if err != nil {
			return nil, fmt.Errorf("failed to estimate state at step %d: %w", i, err)
		}

		res.Truth.SetRow(i, mat.Col(nil, 0, x))
		res.Measure.SetRow(i, mat.Col(nil, 0, z))
		res.Filter.SetRow(i, mat.Col(nil, 0, est.Val()))

		if ce := r.log.Check(zap.DebugLevel, "assimilation step"); ce != nil {
			ce.Write(
				zap.Int("step", i),
				zap.Stringer("truth", stringer{x}),
				zap.Stringer("measurement", stringer{z}),
				zap.Stringer("estimate", stringer{est.Val()}),
				zap.Stringer("innovation", stringer{f.Innovation()}))
		}
	}

	res.FilterReport, err = metrics.EvaluateMatrix(res.Filter, res.Truth)
	if err != nil {
		return nil, fmt.Errorf("failed to score filter: %w", err)
	}

	res.MeasureReport, err = metrics.EvaluateMatrix(res.Measure, res.Truth)
	if err != nil {
		return nil, fmt.Errorf("failed to score measurements: %w", err)
	}

	r.log.Info("twin experiment finished",
		zap.Stringer("filter", res.FilterReport),
		zap.Stringer("measurement", res.MeasureReport))

	return res, nil
}

// newFilter creates the configured filter.
// Hybrid filter advances members with cfg.Substeps Euler steps of the model per cfg.Dt.
func (r *Runner) newFilter(members *mat.Dense, obs filter.Observer, R mat.Symmetric, seed uint64) (*enkf.EnKF, error) {
	cfg := r.cfg
	model := lorenz(cfg.Model)

	c := &enkf.Config{
		Dt:        cfg.Dt,
		Strict:    cfg.Strict,
		TrackTime: cfg.TrackTime,
		Seed:      seed,
	}

	switch cfg.Filter {
	case config.Hybrid:
		e, err := sim.NewEuler(model, cfg.Dt/float64(cfg.Substeps), false)
		if err != nil {
			return nil, err
		}
		forecast := filter.PropagatorFunc(func(x mat.Vector) (mat.Vector, error) {
			var err error
			for k := 0; k < cfg.Substeps; k++ {
				if x, err = e.Propagate(x); err != nil {
					return nil, err
				}
			}
			return x, nil
		})
		return enkf.NewHybrid(members, obs, R, forecast, c)
	case config.Imperfect:
		return enkf.NewImperfect(members, obs, R, model, c)
	}

	return nil, fmt.Errorf("%w: unknown filter %q", config.ErrInvalidConfig, cfg.Filter)
}

// newMeasNoise creates measurement noise with covariance R; zero variance yields no noise.
func newMeasNoise(R mat.Symmetric, variance float64, seed uint64) (filter.Noise, error) {
	if variance == 0 {
		z, err := noise.NewZero(R.SymmetricDim())
		if err != nil {
			return nil, err
		}
		return z, nil
	}

	g, err := noise.NewGaussianWithSeed(make([]float64, R.SymmetricDim()), R, seed)
	if err != nil {
		return nil, err
	}

	return g, nil
}

func lorenz(l config.Lorenz) *sim.Lorenz63 {
	return &sim.Lorenz63{
		Sigma: l.Sigma,
		Rho:   l.Rho,
		Beta:  l.Beta,
	}
}

func diag(n int, v float64) *mat.SymDense {
	s := mat.NewSymDense(n, nil)
	for i := 0; i < n; i++ {
		s.SetSym(i, i, v)
	}
	return s
}

// stringer formats matrices in log fields
type stringer struct {
	m mat.Matrix
}

func (s stringer) String() string {
	return fmt.Sprintf("%v", matrix.Format(s.m))
}
