package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Model is a named model trajectory.
type Model struct {
	Name   string    `yaml:"name"`
	Values []float64 `yaml:"values"`
}

// Comparison holds the truth and trajectories of the models scored against it.
type Comparison struct {
	Truth  []float64 `yaml:"truth"`
	Models []Model   `yaml:"models"`
}

// DefaultComparison returns a small comparison of three models
// used when no trajectories are available.
func DefaultComparison() *Comparison {
	return &Comparison{
		Truth: []float64{1.0, 2.0, 3.0, 4.0, 5.0},
		Models: []Model{
			{Name: "ESN", Values: []float64{1.1, 2.1, 2.9, 4.2, 5.2}},
			{Name: "Imperfect", Values: []float64{1.5, 2.0, 3.0, 4.5, 5.5}},
			{Name: "Hybrid", Values: []float64{1.0, 2.0, 3.1, 4.1, 5.0}},
		},
	}
}

// Validate checks every model trajectory has the same length as the truth.
func (c *Comparison) Validate() error {
	if len(c.Truth) == 0 {
		return fmt.Errorf("%w: empty truth", ErrInvalidConfig)
	}

	if len(c.Models) == 0 {
		return fmt.Errorf("%w: no models", ErrInvalidConfig)
	}

	seen := make(map[string]bool)
	for i, m := range c.Models {
		if m.Name == "" {
			return fmt.Errorf("%w: model %d has no name", ErrInvalidConfig, i)
		}
		if seen[m.Name] {
			return fmt.Errorf("%w: duplicate model %q", ErrInvalidConfig, m.Name)
		}
		seen[m.Name] = true

		if len(m.Values) != len(c.Truth) {
			return fmt.Errorf("%w: model %q has %d values, truth has %d", ErrInvalidConfig, m.Name, len(m.Values), len(c.Truth))
		}
	}

	return nil
}

// ParseComparison parses and validates comparison from YAML data.
func ParseComparison(data []byte) (*Comparison, error) {
	c := &Comparison{}
	if err := yaml.Unmarshal(data, c); err != nil {
		return nil, fmt.Errorf("failed to parse comparison: %w", err)
	}

	if err := c.Validate(); err != nil {
		return nil, err
	}

	return c, nil
}

// LoadComparison reads comparison from file at path.
func LoadComparison(path string) (*Comparison, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read comparison: %w", err)
	}

	return ParseComparison(data)
}
