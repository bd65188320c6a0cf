package evaluate

import (
	"math/bits"

	"github.com/lk16/flippy-engine/internal/othello"
)

// axes holds one direction for each line through a square: horizontal, vertical and both diagonals.
var axes = [4][2]int{{1, 0}, {0, 1}, {1, 1}, {1, -1}}

// stableDiscs returns the discs that can never be flipped again.
// A disc is stable if on every axis at least one side is filled with the same color up to the board edge.
func stableDiscs(discs uint64) uint64 {
	stable := discs & cornerMask

	for remaining := discs &^ cornerMask; remaining != 0; remaining &= remaining - 1 {
		index := bits.TrailingZeros64(remaining)

		if isStable(discs, index) {
			stable |= uint64(1) << index
		}
	}

	return stable
}

// isStable checks the axis rule for a single disc.
func isStable(discs uint64, index int) bool {
	for _, axis := range axes {
		dx, dy := axis[0], axis[1]

		if !isFilledToEdge(discs, index, dx, dy) && !isFilledToEdge(discs, index, -dx, -dy) {
			return false
		}
	}

	return true
}

// isFilledToEdge returns whether every square after index in direction (dx, dy) holds a disc.
// This is trivially true when index is on the edge in that direction.
func isFilledToEdge(discs uint64, index, dx, dy int) bool {
	x := (index % othello.MaxX) + dx
	y := (index / othello.MaxX) + dy

	for x >= 0 && x < othello.MaxX && y >= 0 && y < othello.MaxY {
		if discs&(uint64(1)<<(y*othello.MaxX+x)) == 0 {
			return false
		}

		x += dx
		y += dy
	}

	return true
}
