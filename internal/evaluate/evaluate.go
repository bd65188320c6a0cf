package evaluate

import (
	"math/bits"

	"github.com/lk16/flippy-engine/internal/othello"
)

// Features holds the net value (player to move minus opponent) of every evaluation feature.
type Features struct {
	Corners  int `json:"corners"`
	Stable   int `json:"stable"`
	Mobility int `json:"mobility"`
	Edges    int `json:"edges"`
	Center   int `json:"center"`
	Frontier int `json:"frontier"`
	XSquares int `json:"x_squares"`
	CSquares int `json:"c_squares"`
}

// Breakdown describes how an evaluation was computed.
type Breakdown struct {
	Score    float64           `json:"score"`
	Phase    othello.GamePhase `json:"phase"`
	Terminal bool              `json:"terminal"`
	Features Features          `json:"features"`
}

// Evaluator scores boards from the perspective of the player to move.
// It holds no state besides its weights, so one Evaluator can be shared freely.
type Evaluator struct {
	weights Weights
}

// NewEvaluator creates a new evaluator with the given weights.
func NewEvaluator(weights Weights) *Evaluator {
	return &Evaluator{
		weights: weights,
	}
}

// Weights returns the weights of the evaluator.
func (e *Evaluator) Weights() Weights {
	return e.weights
}

// Evaluate returns the score of a board for the player to move. Positive scores favor the player to move.
// Finished games are scored by disc difference, scaled to outweigh every heuristic score.
func (e *Evaluator) Evaluate(board othello.Board) float64 {
	return e.Breakdown(board).Score
}

// Breakdown evaluates a board and returns the score together with the features it is based on.
func (e *Evaluator) Breakdown(board othello.Board) Breakdown {
	pos := board.Position()
	passed := pos.DoMove(othello.PassMove)

	moves := pos.Moves()
	opponentMoves := passed.Moves()

	phase := board.Phase()

	if moves == 0 && opponentMoves == 0 {
		return Breakdown{
			Score:    e.weights.Terminal * float64(board.DiscDifference()),
			Phase:    phase,
			Terminal: true,
		}
	}

	features := computeFeatures(pos.Player(), pos.Opponent(), moves, opponentMoves)

	return Breakdown{
		Score:    e.Score(features, phase),
		Phase:    phase,
		Terminal: false,
		Features: features,
	}
}

// Score combines features into a score, enabling features according to the game phase.
func (e *Evaluator) Score(f Features, phase othello.GamePhase) float64 {
	w := e.weights

	score := w.Corner*float64(f.Corners) +
		w.Stable*float64(f.Stable) +
		w.Mobility*float64(f.Mobility) -
		w.Frontier*float64(f.Frontier) -
		w.XSquare*float64(f.XSquares) -
		w.CSquare*float64(f.CSquares)

	if phase == othello.PhaseEarly {
		score += w.Center * float64(f.Center)
	} else {
		score += w.Edge * float64(f.Edges)
	}

	return score
}

// computeFeatures computes all features for the player to move.
func computeFeatures(me, opp, moves, opponentMoves uint64) Features {
	empties := ^(me | opp)
	frontier := adjacent(empties)

	return Features{
		Corners:  netCount(me, opp, cornerMask),
		Stable:   bits.OnesCount64(stableDiscs(me)) - bits.OnesCount64(stableDiscs(opp)),
		Mobility: bits.OnesCount64(moves) - bits.OnesCount64(opponentMoves),
		Edges:    netCount(me, opp, edgeMask),
		Center:   netCount(me, opp, centerMask),
		Frontier: netCount(me, opp, frontier),
		XSquares: netCount(me, opp, xSquareMask),
		CSquares: netCount(me, opp, cSquareMask),
	}
}

// netCount returns how many more squares of mask the player occupies than the opponent.
func netCount(me, opp, mask uint64) int {
	return bits.OnesCount64(me&mask) - bits.OnesCount64(opp&mask)
}
