package othello

import (
	"fmt"
)

// Game represents an Othello game, either complete or in progress.
type Game struct {
	// moves is the list of moves in the game. Pass moves are added automatically.
	moves []int

	// start board is the board before any move is played. This allows for custom start positions.
	start Board
}

// NewGameWithStart creates a new empty game with custom start Board.
func NewGameWithStart(start Board) *Game {
	return &Game{
		moves: make([]int, 0),
		start: start,
	}
}

// NewGame creates a new empty game.
func NewGame() *Game {
	start := NewBoardStart()
	return NewGameWithStart(start)
}

// NewGameFromFields creates a new game from a list of moves in field notation, such as "f5 d6 c3".
func NewGameFromFields(fields []string) (*Game, error) {
	game := NewGame()

	for _, field := range fields {
		move, err := FieldToIndex(field)
		if err != nil {
			return nil, fmt.Errorf("failed to parse move %s: %w", field, err)
		}

		if err = game.PushMove(move); err != nil {
			return nil, fmt.Errorf("failed to push move: %w", err)
		}
	}

	return game, nil
}

// Moves returns a copy of the moves played so far.
func (g *Game) Moves() []int {
	moves := make([]int, len(g.moves))
	copy(moves, g.moves)
	return moves
}

// GetBoard returns the last board in the game.
func (g *Game) GetBoard() Board {
	return g.getBoard(len(g.moves))
}

// getBoard returns the board after doing the moves up to the given move index.
func (g *Game) getBoard(moveIndex int) Board {
	board := g.start

	for i := range moveIndex {
		board = board.DoMoveIndex(g.moves[i])
	}

	return board
}

// PushMove appends a move to the game.
func (g *Game) PushMove(move int) error {
	moveCount := len(g.moves)

	if moveCount > 0 {
		lastMove := g.moves[moveCount-1]

		// Prevent double pass.
		if lastMove == PassMove && move == PassMove {
			return nil
		}
	}

	board := g.GetBoard()
	if !board.IsValidMove(move) {
		return &InvalidMoveError{Move: Move{Index: move}, Board: board}
	}

	g.moves = append(g.moves, move)

	// Try adding a pass move if we didn't pass last move.
	if move != PassMove {
		board = g.GetBoard()
		passed := board.DoMoveIndex(PassMove)

		// Add pass move if current player doesn't have moves but opponent does.
		if !board.HasMoves() && passed.HasMoves() {
			g.moves = append(g.moves, PassMove)
		}
	}

	return nil
}

// PopMove undoes the last move.
func (g *Game) PopMove() {
	if len(g.moves) == 0 {
		return
	}

	poppedMoves := 1
	// Prevent having a last board without moves.
	if g.moves[len(g.moves)-1] == PassMove && len(g.moves) > 1 {
		poppedMoves = 2
	}

	g.moves = g.moves[:len(g.moves)-poppedMoves]
}

// IsOver returns whether neither player can move on the last board.
func (g *Game) IsOver() bool {
	return g.GetBoard().IsTerminal()
}

// Winner returns the color with most discs on the last board, or DRAW.
func (g *Game) Winner() Color {
	board := g.GetBoard()
	black := board.CountColor(BLACK)
	white := board.CountColor(WHITE)

	switch {
	case black > white:
		return BLACK
	case white > black:
		return WHITE
	default:
		return DRAW
	}
}
