package search

import (
	"cmp"
	"math"
	"slices"

	"github.com/lk16/flippy-engine/internal/othello"
)

const (
	PriorityCorner  = 1000
	PriorityEdge    = 100
	PriorityCenter  = 10
	PriorityRegular = 1
	PriorityCSquare = -500
	PriorityXSquare = -1000
	PriorityPass    = math.MinInt
)

// squarePriority holds the static ordering priority of every square.
var squarePriority = [64]int{
	1000, -500, 100, 100, 100, 100, -500, 1000,
	-500, -1000, 1, 1, 1, 1, -1000, -500,
	100, 1, 10, 10, 10, 10, 1, 100,
	100, 1, 10, 10, 10, 10, 1, 100,
	100, 1, 10, 10, 10, 10, 1, 100,
	100, 1, 10, 10, 10, 10, 1, 100,
	-500, -1000, 1, 1, 1, 1, -1000, -500,
	1000, -500, 100, 100, 100, 100, -500, 1000,
}

// Priority returns the static ordering priority of a move.
func Priority(move othello.Move) int {
	if move.IsPass() {
		return PriorityPass
	}
	return squarePriority[move.Index]
}

// OrderMoves returns the moves sorted by descending priority. Ties are broken by square index.
// The input slice is not modified.
func OrderMoves(moves []othello.Move) []othello.Move {
	ordered := slices.Clone(moves)

	slices.SortFunc(ordered, func(a, b othello.Move) int {
		if c := cmp.Compare(Priority(b), Priority(a)); c != 0 {
			return c
		}
		return cmp.Compare(a.Index, b.Index)
	})

	return ordered
}
