package evaluate

import (
	"errors"
	"fmt"
)

// Weights holds the multiplier of every evaluation feature.
// Penalty weights are positive and subtracted from the score.
type Weights struct {
	Corner   float64 `json:"corner"`
	Stable   float64 `json:"stable"`
	Mobility float64 `json:"mobility"`
	Edge     float64 `json:"edge"`
	Center   float64 `json:"center"`
	Frontier float64 `json:"frontier"`
	XSquare  float64 `json:"x_square"`
	CSquare  float64 `json:"c_square"`

	// Terminal is multiplied with the final disc difference of a finished game.
	Terminal float64 `json:"terminal"`
}

// DefaultWeights returns the weights used when nothing else is configured.
func DefaultWeights() Weights {
	return Weights{
		Corner:   16,
		Stable:   16,
		Mobility: 8,
		Edge:     4,
		Center:   4,
		Frontier: 0.25,
		XSquare:  1.0 / 16,
		CSquare:  1.0 / 16,
		Terminal: 10000,
	}
}

// HeuristicBound returns an upper bound on the absolute value of any non-terminal evaluation.
func (w Weights) HeuristicBound() float64 {
	return w.Corner*4 +
		w.Stable*64 +
		w.Mobility*64 +
		max(w.Edge*16, w.Center*16) +
		w.Frontier*64 +
		w.XSquare*4 +
		w.CSquare*8
}

// Validate checks that all weights are non-negative and a decided game outweighs any heuristic score.
func (w Weights) Validate() error {
	for name, value := range map[string]float64{
		"corner":   w.Corner,
		"stable":   w.Stable,
		"mobility": w.Mobility,
		"edge":     w.Edge,
		"center":   w.Center,
		"frontier": w.Frontier,
		"x_square": w.XSquare,
		"c_square": w.CSquare,
	} {
		if value < 0 {
			return fmt.Errorf("weight %s must not be negative, got %f", name, value)
		}
	}

	if w.Terminal <= w.HeuristicBound() {
		return errors.New("terminal weight must exceed the heuristic bound")
	}

	return nil
}
