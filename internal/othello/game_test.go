package othello

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

// blackMovesTwice has two "edge, black, white, empty" rows, so black can play c1 and c8 and white never moves.
const blackMovesTwice = "B" +
	"XOEEEEEE" +
	"EEEEEEEE" +
	"EEEEEEEE" +
	"EEEEEEEE" +
	"EEEEEEEE" +
	"EEEEEEEE" +
	"EEEEEEEE" +
	"XOEEEEEE"

func TestNewGame(t *testing.T) {
	game := NewGame()

	require.Empty(t, game.Moves())
	require.True(t, game.GetBoard().Equal(NewBoardStart()))
	require.False(t, game.IsOver())
}

func TestNewGameFromFields(t *testing.T) {
	game, err := NewGameFromFields([]string{"f5", "d6", "c3"})
	require.NoError(t, err)

	require.Equal(t, []int{37, 43, 18}, game.Moves())
	require.Equal(t, WHITE, game.GetBoard().Turn())
	require.Equal(t, 7, game.GetBoard().CountDiscs())
}

func TestNewGameFromFieldsErrors(t *testing.T) {
	_, err := NewGameFromFields([]string{"z9"})
	require.Error(t, err)

	_, err = NewGameFromFields([]string{"a1"})
	require.Error(t, err)

	var invalidMoveErr *InvalidMoveError
	require.True(t, errors.As(err, &invalidMoveErr))
	require.Equal(t, 0, invalidMoveErr.Move.Index)
}

func TestGame_PushMoveAddsPass(t *testing.T) {
	board := mustBoard(t, blackMovesTwice)
	game := NewGameWithStart(board)

	require.NoError(t, game.PushMove(2))
	require.Equal(t, []int{2, PassMove}, game.Moves())
	require.Equal(t, BLACK, game.GetBoard().Turn())
	require.False(t, game.IsOver())

	// Pushing a second pass is ignored.
	require.NoError(t, game.PushMove(PassMove))
	require.Equal(t, []int{2, PassMove}, game.Moves())

	require.NoError(t, game.PushMove(58))
	require.True(t, game.IsOver())
	require.Equal(t, BLACK, game.Winner())
	require.Equal(t, 64, game.GetBoard().WithTurn(BLACK).GetFinalScore())
}

func TestGame_PopMove(t *testing.T) {
	board := mustBoard(t, blackMovesTwice)
	game := NewGameWithStart(board)

	require.NoError(t, game.PushMove(2))
	game.PopMove()
	require.Empty(t, game.Moves())
	require.True(t, game.GetBoard().Equal(board))

	// Popping an empty game does nothing.
	game.PopMove()
	require.Empty(t, game.Moves())
}

func TestGame_Winner(t *testing.T) {
	game := NewGame()
	require.Equal(t, DRAW, game.Winner())

	require.NoError(t, game.PushMove(19))
	require.Equal(t, BLACK, game.Winner())
}
