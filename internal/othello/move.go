package othello

import (
	"fmt"
	"math/bits"
	"strings"
)

// Move is a disc placement or a pass, together with the discs it flips.
type Move struct {
	// Index is the square the disc is placed on (0-63), or PassMove.
	Index int

	// Flips holds the opponent discs flipped by this move, for all capturing directions combined.
	Flips uint64
}

// NewPassMove returns the pass move.
func NewPassMove() Move {
	return Move{Index: PassMove}
}

// IsPass returns whether the move is a pass.
func (m Move) IsPass() bool {
	return m.Index == PassMove
}

// Row returns the zero-based row, or -1 for a pass.
func (m Move) Row() int {
	if m.IsPass() {
		return -1
	}
	return m.Index / MaxX
}

// Col returns the zero-based column, or -1 for a pass.
func (m Move) Col() int {
	if m.IsPass() {
		return -1
	}
	return m.Index % MaxX
}

// FlipCount returns the number of discs flipped by the move.
func (m Move) FlipCount() int {
	return bits.OnesCount64(m.Flips)
}

// Field returns the move in field notation, such as "c4". A pass is "--".
func (m Move) Field() string {
	return IndexToField(m.Index)
}

// String returns the move as "(row,col)" with one-based coordinates, or "pass".
func (m Move) String() string {
	if m.IsPass() {
		return "pass"
	}
	return fmt.Sprintf("(%d,%d)", m.Row()+1, m.Col()+1)
}

// IndexToField converts an index (0-63) to field notation (e.g. "a1", "h8").
// PassMove is converted to "--".
func IndexToField(index int) string {
	if index == PassMove {
		return "--"
	}

	if index < 0 || index >= 64 {
		return "??"
	}

	return fmt.Sprintf("%c%d", 'a'+index%MaxX, index/MaxX+1)
}

// FieldToIndex converts a field notation (e.g. "a1", "h8") to an index (0-63)
// PassMove is returned if the field is "--", "ps", or "pa"
func FieldToIndex(field string) (int, error) {
	if len(field) != 2 {
		return 0, fmt.Errorf("invalid field length: %s", field)
	}

	field = strings.ToLower(field)

	if field == "--" || field == "ps" || field == "pa" {
		return PassMove, nil
	}

	if !('a' <= field[0] && field[0] <= 'h' && '1' <= field[1] && field[1] <= '8') {
		return 0, fmt.Errorf("invalid field: %s", field)
	}

	x := int(field[0] - 'a')
	y := int(field[1] - '1')
	return y*MaxX + x, nil
}

// InvalidMoveError is returned when applying a move that is not legal on the board.
type InvalidMoveError struct {
	Move  Move
	Board Board
}

func (e *InvalidMoveError) Error() string {
	return fmt.Sprintf("invalid move %s (flips %016x) for board %s", e.Move, e.Move.Flips, e.Board)
}
