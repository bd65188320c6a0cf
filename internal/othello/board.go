package othello

import (
	"fmt"
	"math/bits"
	"strings"
)

// Color is the state of a square or the identity of a player.
type Color int

const (
	BLACK Color = 0
	WHITE Color = 1
	EMPTY Color = 2
	DRAW        = EMPTY
)

// BoardStringLength is the length of the textual board encoding.
const BoardStringLength = 65

// Opponent returns the other player.
func (c Color) Opponent() Color {
	return BLACK + WHITE - c
}

// String returns the name of the color.
func (c Color) String() string {
	switch c {
	case BLACK:
		return "black"
	case WHITE:
		return "white"
	default:
		return "empty"
	}
}

// Board represents an Othello board with position and turn information.
type Board struct {
	position Position
	turn     Color
}

// NewBoard creates a board from a position relative to the player to move.
func NewBoard(position Position, turn Color) Board {
	return Board{
		position: position,
		turn:     turn,
	}
}

// NewBoardStart creates a new board with the starting position.
func NewBoardStart() Board {
	return Board{
		position: NewPositionStart(),
		turn:     BLACK,
	}
}

// NewBoardEmpty creates a new board with an empty position.
func NewBoardEmpty() Board {
	return Board{
		position: NewPositionEmpty(),
		turn:     BLACK,
	}
}

// NewBoardFromString creates a new board from a string representation.
// The first character is the player to move ('W' or 'B'), followed by 64 squares in row-major order:
// 'E' for empty, 'O' for white and 'X' for black.
func NewBoardFromString(s string) (Board, error) {
	if len(s) != BoardStringLength {
		return Board{}, fmt.Errorf("board string must be %d characters long, got %d", BoardStringLength, len(s))
	}

	var turn Color
	switch s[0] {
	case 'W':
		turn = WHITE
	case 'B':
		turn = BLACK
	default:
		return Board{}, fmt.Errorf("invalid turn: %c", s[0])
	}

	var black, white uint64
	for i := range 64 {
		mask := uint64(1) << i

		switch s[i+1] {
		case 'E':
		case 'O':
			white |= mask
		case 'X':
			black |= mask
		default:
			return Board{}, fmt.Errorf("invalid square %d: %c", i, s[i+1])
		}
	}

	if turn == WHITE {
		return Board{position: NewPositionMust(white, black), turn: turn}, nil
	}

	return Board{position: NewPositionMust(black, white), turn: turn}, nil
}

// Position returns the underlying position.
func (b Board) Position() Position {
	return b.position
}

// Turn returns the turn.
func (b Board) Turn() Color {
	return b.turn
}

// opponent returns the opponent color.
func (b Board) opponent() Color {
	return b.turn.Opponent()
}

// WithTurn returns the same discs with the given player to move.
func (b Board) WithTurn(turn Color) Board {
	if turn == b.turn {
		return b
	}

	return Board{
		position: b.position.DoMove(PassMove),
		turn:     turn,
	}
}

// IsValidMove checks if a move is valid.
func (b Board) IsValidMove(move int) bool {
	return b.position.IsValidMove(move)
}

// MoveBits returns the legal moves as a bitset.
func (b Board) MoveBits() uint64 {
	return b.position.Moves()
}

// HasMoves checks if the board has moves.
func (b Board) HasMoves() bool {
	return b.position.HasMoves()
}

// LegalMoves returns all legal moves in row-major order.
// If the player to move cannot place a disc, the only legal move is a pass.
func (b Board) LegalMoves() []Move {
	moveBits := b.position.Moves()

	if moveBits == 0 {
		return []Move{NewPassMove()}
	}

	moves := make([]Move, 0, bits.OnesCount64(moveBits))
	for moveBits != 0 {
		index := bits.TrailingZeros64(moveBits)
		moveBits &= moveBits - 1

		moves = append(moves, Move{
			Index: index,
			Flips: b.position.Flipped(index),
		})
	}

	return moves
}

// Apply validates the move against the legal moves of this board and returns the resulting board.
func (b Board) Apply(move Move) (Board, error) {
	if move.IsPass() {
		if b.HasMoves() {
			return Board{}, &InvalidMoveError{Move: move, Board: b}
		}
		return b.DoMove(move), nil
	}

	if !b.IsValidMove(move.Index) || b.position.Flipped(move.Index) != move.Flips {
		return Board{}, &InvalidMoveError{Move: move, Board: b}
	}

	return b.DoMove(move), nil
}

// DoMove performs a move obtained from LegalMoves and returns the new board. It does not validate the move.
func (b Board) DoMove(move Move) Board {
	if move.IsPass() {
		return Board{
			position: b.position.DoMove(PassMove),
			turn:     b.opponent(),
		}
	}

	return Board{
		position: b.position.apply(move.Index, move.Flips),
		turn:     b.opponent(),
	}
}

// DoMoveIndex looks up the flips for a move index and performs it.
// Invalid moves return the same board.
func (b Board) DoMoveIndex(move int) Board {
	position := b.position.DoMove(move)

	// If the move is invalid, return the same board
	if position == b.position {
		return b
	}

	return Board{
		position: position,
		turn:     b.opponent(),
	}
}

// GetChildren returns all possible child boards.
func (b Board) GetChildren() []Board {
	positions := b.position.GetChildren()
	children := make([]Board, len(positions))
	for i, pos := range positions {
		children[i] = Board{
			position: pos,
			turn:     b.opponent(),
		}
	}
	return children
}

// Equal checks if two boards are equal.
func (b Board) Equal(other Board) bool {
	return b.position == other.position && b.turn == other.turn
}

// GetSquare returns the color of the square at the given index.
func (b Board) GetSquare(index int) Color {
	mask := uint64(1) << index
	if b.position.player&mask != 0 {
		return b.turn
	}
	if b.position.opponent&mask != 0 {
		return b.opponent()
	}
	return EMPTY
}

// Discs returns the bitboard of discs of the given color.
func (b Board) Discs(color Color) uint64 {
	switch color {
	case b.turn:
		return b.position.player
	case b.opponent():
		return b.position.opponent
	default:
		return b.position.Empties()
	}
}

// CountDiscs returns the number of discs on the board.
func (b Board) CountDiscs() int {
	return b.position.CountDiscs()
}

// CountColor returns the number of discs of a color.
func (b Board) CountColor(color Color) int {
	return bits.OnesCount64(b.Discs(color))
}

// DiscDifference returns the number of discs of the player to move minus those of the opponent.
func (b Board) DiscDifference() int {
	return bits.OnesCount64(b.position.player) - bits.OnesCount64(b.position.opponent)
}

// IsTerminal returns whether neither player can place a disc.
func (b Board) IsTerminal() bool {
	return b.position.IsGameEnd()
}

// GetFinalScore returns the final score of the board.
func (b Board) GetFinalScore() int {
	return b.position.GetFinalScore()
}

// Phase returns the game phase derived from the disc count.
func (b Board) Phase() GamePhase {
	return PhaseForDiscs(b.CountDiscs())
}

// ASCIIArtLines returns the ascii art lines for the position.
func (b Board) ASCIIArtLines() []string {
	moves := b.MoveBits()

	black := b.Discs(BLACK)
	white := b.Discs(WHITE)

	lines := make([]string, MaxY+2)

	lines[0] = "+-a-b-c-d-e-f-g-h-+"
	for y := range MaxY {
		line := fmt.Sprintf("%d ", y+1)

		for x := range MaxX {
			index := (y * MaxX) + x
			mask := uint64(1) << index

			switch {
			case white&mask != 0:
				line += "○ "
			case black&mask != 0:
				line += "● "
			case moves&mask != 0:
				line += "· "
			default:
				line += "  "
			}
		}

		lines[y+1] = line + "|"
	}

	lines[MaxY+1] = "+-----------------+"

	return lines
}

// Print prints the board to the console. This is used for debugging.
func (b Board) Print() {
	lines := b.ASCIIArtLines()
	for _, line := range lines {
		fmt.Println(line)
	}
	fmt.Printf("To move: %s\n", b.turn)
}

// String returns the string representation of the board, in the format read by NewBoardFromString.
func (b Board) String() string {
	var sb strings.Builder
	sb.Grow(BoardStringLength)

	if b.turn == WHITE {
		sb.WriteByte('W')
	} else {
		sb.WriteByte('B')
	}

	for i := range 64 {
		switch b.GetSquare(i) {
		case WHITE:
			sb.WriteByte('O')
		case BLACK:
			sb.WriteByte('X')
		default:
			sb.WriteByte('E')
		}
	}

	return sb.String()
}
