// Package config loads YAML configuration of twin experiments and model comparisons.
package config

import (
	"errors"
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"
)

// Filter kinds
const (
	// Hybrid advances ensemble members with a one-step forecast
	Hybrid = "hybrid"
	// Imperfect integrates an imperfect model with forward Euler method
	Imperfect = "imperfect"
)

// Experiment defaults
const (
	DefaultFilter     = Imperfect
	DefaultEnsemble   = 50
	DefaultSteps      = 1000
	DefaultDt         = 0.01
	DefaultSubsteps   = 1
	DefaultObsNoise   = 1.0
	DefaultInitSpread = 1.0
)

// ErrInvalidConfig is returned when configuration fails validation.
var ErrInvalidConfig = errors.New("invalid config")

// Lorenz holds parameters of Lorenz-63 system.
type Lorenz struct {
	Sigma float64 `yaml:"sigma"`
	Rho   float64 `yaml:"rho"`
	Beta  float64 `yaml:"beta"`
}

// DefaultLorenz returns the classic chaotic parameters.
func DefaultLorenz() Lorenz {
	return Lorenz{Sigma: 10.0, Rho: 28.0, Beta: 8.0 / 3.0}
}

// Experiment configures a twin experiment.
type Experiment struct {
	// Filter is either hybrid or imperfect
	Filter string `yaml:"filter"`
	// Ensemble is the number of ensemble members
	Ensemble int `yaml:"ensemble"`
	// Steps is the number of assimilation steps
	Steps int `yaml:"steps"`
	// Dt is the integration step of both truth and model
	Dt float64 `yaml:"dt"`
	// Substeps is the number of Euler steps the hybrid forecast makes per Dt
	Substeps int `yaml:"substeps"`
	// ObsNoise is the variance of observation noise of every state component.
	// Zero turns observation noise off.
	ObsNoise float64 `yaml:"obs_noise"`
	// InitState is the initial state of the truth
	InitState []float64 `yaml:"init_state"`
	// InitSpread is the variance of the initial ensemble around InitState
	InitSpread float64 `yaml:"init_spread"`
	// Seed seeds all random sources; 0 seeds from the current time
	Seed uint64 `yaml:"seed"`
	// Strict enforces predict/update alternation
	Strict bool `yaml:"strict"`
	// TrackTime passes elapsed time to the model right hand side
	TrackTime bool `yaml:"track_time"`
	// Truth parametrizes the system generating the truth
	Truth Lorenz `yaml:"truth"`
	// Model parametrizes the filter model; it may differ from Truth
	Model Lorenz `yaml:"model"`
}

// Default returns experiment configuration with default values.
// Model equals Truth.
func Default() *Experiment {
	return &Experiment{
		Filter:     DefaultFilter,
		Ensemble:   DefaultEnsemble,
		Steps:      DefaultSteps,
		Dt:         DefaultDt,
		Substeps:   DefaultSubsteps,
		ObsNoise:   DefaultObsNoise,
		InitState:  []float64{1.0, 1.0, 1.0},
		InitSpread: DefaultInitSpread,
		Truth:      DefaultLorenz(),
		Model:      DefaultLorenz(),
	}
}

// Validate checks experiment configuration.
func (e *Experiment) Validate() error {
	switch e.Filter {
	case Hybrid, Imperfect:
	default:
		return fmt.Errorf("%w: unknown filter %q", ErrInvalidConfig, e.Filter)
	}

	if e.Ensemble < 1 {
		return fmt.Errorf("%w: ensemble size %d", ErrInvalidConfig, e.Ensemble)
	}

	if e.Steps < 1 {
		return fmt.Errorf("%w: steps %d", ErrInvalidConfig, e.Steps)
	}

	if !positive(e.Dt) {
		return fmt.Errorf("%w: dt %v", ErrInvalidConfig, e.Dt)
	}

	if e.Substeps < 1 {
		return fmt.Errorf("%w: substeps %d", ErrInvalidConfig, e.Substeps)
	}

	if e.ObsNoise < 0 || math.IsNaN(e.ObsNoise) || math.IsInf(e.ObsNoise, 0) {
		return fmt.Errorf("%w: observation noise %v", ErrInvalidConfig, e.ObsNoise)
	}

	if e.InitSpread < 0 || math.IsNaN(e.InitSpread) || math.IsInf(e.InitSpread, 0) {
		return fmt.Errorf("%w: initial spread %v", ErrInvalidConfig, e.InitSpread)
	}

	if len(e.InitState) != 3 {
		return fmt.Errorf("%w: initial state must have 3 components, got %d", ErrInvalidConfig, len(e.InitState))
	}

	return nil
}

// Parse parses experiment configuration from YAML data over the defaults
// and validates the result. Fields missing in data keep their default values
// except model parameters, which default to the truth parameters.
func Parse(data []byte) (*Experiment, error) {
	e := Default()
	if err := yaml.Unmarshal(data, e); err != nil {
		return nil, fmt.Errorf("failed to parse experiment config: %w", err)
	}

	var raw struct {
		Model yaml.Node `yaml:"model"`
	}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse experiment config: %w", err)
	}

	e.Model = e.Truth
	if !raw.Model.IsZero() {
		if err := raw.Model.Decode(&e.Model); err != nil {
			return nil, fmt.Errorf("failed to parse model parameters: %w", err)
		}
	}

	if err := e.Validate(); err != nil {
		return nil, err
	}

	return e, nil
}

// Load reads experiment configuration from file at path.
func Load(path string) (*Experiment, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read experiment config: %w", err)
	}

	return Parse(data)
}

func positive(v float64) bool {
	return v > 0 && !math.IsInf(v, 0) && !math.IsNaN(v)
}
