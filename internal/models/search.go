package models

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lk16/flippy-engine/internal/othello"
	"github.com/lk16/flippy-engine/internal/search"
)

// SearchRecord is a finished search as it is stored.
type SearchRecord struct {
	ID        string    `json:"id"         db:"id"`
	Position  string    `json:"position"   db:"position"`
	DiscCount int       `json:"disc_count" db:"disc_count"`
	TimeLimit float64   `json:"time_limit" db:"time_limit"`
	Move      int       `json:"move"       db:"move"`
	Score     float64   `json:"score"      db:"score"`
	Depth     int       `json:"depth"      db:"depth"`
	Nodes     uint64    `json:"nodes"      db:"nodes"`
	Elapsed   float64   `json:"elapsed"    db:"elapsed"`
	Fallback  bool      `json:"fallback"   db:"fallback"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`

	// DepthMoves holds the move chosen at every completed depth.
	DepthMoves MoveList `json:"depth_moves" db:"depth_moves"`
}

// NewSearchRecord creates a record with a fresh id for a search result.
func NewSearchRecord(board othello.Board, timeLimit float64, result search.Result) SearchRecord {
	depthMoves := make(MoveList, len(result.Iterations))
	for i, iteration := range result.Iterations {
		depthMoves[i] = iteration.Move.Index
	}

	return SearchRecord{
		ID:         uuid.New().String(),
		Position:   board.String(),
		DiscCount:  board.CountDiscs(),
		TimeLimit:  timeLimit,
		Move:       result.Move.Index,
		Score:      result.Score,
		Depth:      result.Depth,
		Nodes:      result.Nodes,
		Elapsed:    result.Elapsed.Seconds(),
		Fallback:   result.Fallback,
		CreatedAt:  time.Now(),
		DepthMoves: depthMoves,
	}
}

// Board parses the stored position.
func (r *SearchRecord) Board() (othello.Board, error) {
	return othello.NewBoardFromString(r.Position)
}

// ChosenMove reconstructs the chosen move including its flips.
func (r *SearchRecord) ChosenMove() othello.Move {
	if r.Move == othello.PassMove {
		return othello.NewPassMove()
	}

	move := othello.Move{Index: r.Move}

	if board, err := r.Board(); err == nil {
		move.Flips = board.Position().Flipped(r.Move)
	}

	return move
}

// Validate checks that the record describes a legal move on its position.
func (r *SearchRecord) Validate() error {
	if _, err := uuid.Parse(r.ID); err != nil {
		return fmt.Errorf("invalid id: %w", err)
	}

	board, err := r.Board()
	if err != nil {
		return err
	}

	if _, err = board.Apply(r.ChosenMove()); err != nil {
		return err
	}

	if r.Depth < 0 || len(r.DepthMoves) != r.Depth {
		return errors.New("depth does not match depth moves")
	}

	return nil
}

// MoveList is a slice of move indexes that implements sql.Scanner.
type MoveList []int

// Scan implements the sql.Scanner interface for MoveList.
func (m *MoveList) Scan(value interface{}) error {
	bytes, ok := value.([]byte)
	if !ok {
		return fmt.Errorf("cannot scan %T into MoveList", value)
	}

	if bytes == nil {
		return errors.New("cannot scan nil into MoveList")
	}

	// We should have a string that looks like "{1,2,3}"
	s := strings.Trim(string(bytes), "{}")

	if s == "" {
		*m = MoveList{}
		return nil
	}

	parts := strings.Split(s, ",")

	moves := make(MoveList, len(parts))
	for i, part := range parts {
		move, err := strconv.Atoi(part)
		if err != nil {
			return fmt.Errorf("cannot convert %s to int: %w", part, err)
		}
		moves[i] = move
	}
	*m = moves

	return nil
}

// DepthStats counts searches by their completed depth.
type DepthStats struct {
	Depth int `json:"depth" db:"depth"`
	Count int `json:"count" db:"count"`
}

// SearchStats summarizes the searches done by the server.
type SearchStats struct {
	Total  int            `json:"total"`
	Depths []DepthStats   `json:"depths"`
	Recent []SearchRecord `json:"recent"`
}
