package search

import (
	"fmt"

	"github.com/lk16/flippy-engine/internal/evaluate"
)

const (
	// DefaultSafetyMargin is the fraction of the time limit that is never used for searching.
	DefaultSafetyMargin = 0.01

	// DefaultMaxDepth covers all 60 moves of a game plus passes.
	DefaultMaxDepth = 64
)

// Config holds the settings of an Engine. It is copied into the engine and never changed afterwards.
type Config struct {
	Weights      evaluate.Weights
	SafetyMargin float64
	MaxDepth     int
}

// DefaultConfig returns the configuration used when nothing else is configured.
func DefaultConfig() Config {
	return Config{
		Weights:      evaluate.DefaultWeights(),
		SafetyMargin: DefaultSafetyMargin,
		MaxDepth:     DefaultMaxDepth,
	}
}

// Validate checks the configuration.
func (c Config) Validate() error {
	if err := c.Weights.Validate(); err != nil {
		return &ConfigurationError{Field: "weights", Reason: err.Error()}
	}

	if c.SafetyMargin < 0 || c.SafetyMargin >= 1 {
		return &ConfigurationError{Field: "safety_margin", Reason: fmt.Sprintf("must be in [0, 1), got %f", c.SafetyMargin)}
	}

	if c.MaxDepth < 1 {
		return &ConfigurationError{Field: "max_depth", Reason: fmt.Sprintf("must be positive, got %d", c.MaxDepth)}
	}

	return nil
}
