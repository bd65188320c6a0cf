package models

import (
	"errors"
	"fmt"
	"math"

	"github.com/lk16/flippy-engine/internal/evaluate"
	"github.com/lk16/flippy-engine/internal/othello"
)

// MoveRequest asks the engine to pick a move.
type MoveRequest struct {
	Position string `json:"position"`

	// TimeLimit is in seconds. Zero means the configured default.
	TimeLimit float64 `json:"time_limit"`
}

// Validate checks the request and parses the position.
func (r *MoveRequest) Validate(maxTimeLimit float64) (othello.Board, error) {
	board, err := othello.NewBoardFromString(r.Position)
	if err != nil {
		return othello.Board{}, fmt.Errorf("invalid position: %w", err)
	}

	if math.IsNaN(r.TimeLimit) || r.TimeLimit < 0 {
		return othello.Board{}, errors.New("time_limit must be positive")
	}

	if r.TimeLimit > maxTimeLimit {
		return othello.Board{}, fmt.Errorf("time_limit must be at most %g seconds", maxTimeLimit)
	}

	return board, nil
}

// MoveResponse is the engine's answer to a MoveRequest.
type MoveResponse struct {
	ID string `json:"id"`

	// Move is "(row,col)" or "pass".
	Move     string  `json:"move"`
	Field    string  `json:"field"`
	Index    int     `json:"index"`
	Score    float64 `json:"score"`
	Depth    int     `json:"depth"`
	Nodes    uint64  `json:"nodes"`
	Elapsed  float64 `json:"elapsed"`
	Fallback bool    `json:"fallback"`
}

// NewMoveResponse creates a response from a stored search.
func NewMoveResponse(record SearchRecord) MoveResponse {
	move := record.ChosenMove()

	return MoveResponse{
		ID:       record.ID,
		Move:     move.String(),
		Field:    move.Field(),
		Index:    move.Index,
		Score:    record.Score,
		Depth:    record.Depth,
		Nodes:    record.Nodes,
		Elapsed:  record.Elapsed,
		Fallback: record.Fallback,
	}
}

// EvaluateRequest asks for the static evaluation of a position.
type EvaluateRequest struct {
	Position string `json:"position"`
}

// Validate checks the request and parses the position.
func (r *EvaluateRequest) Validate() (othello.Board, error) {
	board, err := othello.NewBoardFromString(r.Position)
	if err != nil {
		return othello.Board{}, fmt.Errorf("invalid position: %w", err)
	}
	return board, nil
}

// EvaluateResponse holds the static evaluation of a position.
type EvaluateResponse struct {
	Position string            `json:"position"`
	Score    float64           `json:"score"`
	Phase    othello.GamePhase `json:"phase"`
	Terminal bool              `json:"terminal"`
	Features evaluate.Features `json:"features"`
	Moves    []string          `json:"moves"`
}

// NewEvaluateResponse creates a response from an evaluation breakdown.
func NewEvaluateResponse(board othello.Board, breakdown evaluate.Breakdown) EvaluateResponse {
	moves := board.LegalMoves()

	fields := make([]string, len(moves))
	for i, move := range moves {
		fields[i] = move.Field()
	}

	return EvaluateResponse{
		Position: board.String(),
		Score:    breakdown.Score,
		Phase:    breakdown.Phase,
		Terminal: breakdown.Terminal,
		Features: breakdown.Features,
		Moves:    fields,
	}
}

// LookupSearchesPayload represents a request to look up searches by id.
type LookupSearchesPayload struct {
	IDs []string `json:"ids"`
}

// Validate validates the payload.
func (p *LookupSearchesPayload) Validate() error {
	if len(p.IDs) == 0 {
		return errors.New("ids is empty")
	}

	if len(p.IDs) > MaxLookupIDs {
		return fmt.Errorf("at most %d ids can be looked up at once", MaxLookupIDs)
	}

	return nil
}

// MaxLookupIDs limits the size of a LookupSearchesPayload.
const MaxLookupIDs = 100

type VersionResponse struct {
	Commit string `json:"commit"`
}
