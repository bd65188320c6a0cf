package search

import (
	"errors"
	"math"
	"math/rand"
	"strings"
	"testing"
	"time"

	"github.com/lk16/flippy-engine/internal/othello"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stepClock advances by a fixed step every time it is read.
type stepClock struct {
	current time.Time
	step    time.Duration
}

func (c *stepClock) now() time.Time {
	current := c.current
	c.current = c.current.Add(c.step)
	return current
}

func newTestEngine(t *testing.T) *Engine {
	t.Helper()
	engine, err := NewEngine(DefaultConfig())
	require.NoError(t, err)
	return engine
}

func boardWithDiscs(t *testing.T, turn byte, black []int, white []int) othello.Board {
	t.Helper()

	squares := []byte(strings.Repeat("E", 64))
	for _, index := range black {
		squares[index] = 'X'
	}
	for _, index := range white {
		squares[index] = 'O'
	}

	board, err := othello.NewBoardFromString(string(turn) + string(squares))
	require.NoError(t, err)
	return board
}

// cornerBoard has black to move with exactly two moves: the a1 corner and the h4 edge.
// Both lead to a drawn game after two plies.
func cornerBoard(t *testing.T) othello.Board {
	return boardWithDiscs(t, 'B', []int{2, 47}, []int{1, 39})
}

func TestNewEngineInvalidConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MaxDepth = 0

	_, err := NewEngine(cfg)

	var configErr *ConfigurationError
	require.ErrorAs(t, err, &configErr)
	require.Equal(t, "max_depth", configErr.Field)
}

func TestConfigValidate(t *testing.T) {
	require.NoError(t, DefaultConfig().Validate())

	tests := []struct {
		name   string
		modify func(cfg *Config)
		field  string
	}{
		{"negative margin", func(cfg *Config) { cfg.SafetyMargin = -0.1 }, "safety_margin"},
		{"full margin", func(cfg *Config) { cfg.SafetyMargin = 1 }, "safety_margin"},
		{"zero depth", func(cfg *Config) { cfg.MaxDepth = 0 }, "max_depth"},
		{"negative weight", func(cfg *Config) { cfg.Weights.Corner = -1 }, "weights"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.modify(&cfg)

			var configErr *ConfigurationError
			require.ErrorAs(t, cfg.Validate(), &configErr)
			require.Equal(t, tt.field, configErr.Field)
		})
	}
}

func TestChooseMoveInvalidTimeLimit(t *testing.T) {
	engine := newTestEngine(t)
	board := othello.NewBoardStart()

	for _, limit := range []float64{0, -1, math.NaN(), math.Inf(1), math.Inf(-1)} {
		move, err := engine.ChooseMove(board, othello.BLACK, limit)

		var configErr *ConfigurationError
		require.ErrorAs(t, err, &configErr, "limit %v", limit)
		require.Equal(t, "time_limit", configErr.Field)
		require.True(t, move.IsPass())
	}

	move, err := engine.ChooseMove(board, othello.EMPTY, 1.0)
	require.Error(t, err)
	require.True(t, move.IsPass())
}

func TestChooseMoveSubNanosecondLimit(t *testing.T) {
	engine := newTestEngine(t)
	board := othello.NewBoardStart()

	move, err := engine.ChooseMove(board, othello.BLACK, 1e-10)
	require.NoError(t, err)
	require.Contains(t, []int{19, 26, 37, 44}, move.Index)

	_, err = board.Apply(move)
	require.NoError(t, err)
}

func TestChooseMoveOpening(t *testing.T) {
	engine := newTestEngine(t)

	move, err := engine.ChooseMove(othello.NewBoardStart(), othello.BLACK, 1.0)
	require.NoError(t, err)
	require.Contains(t, []int{19, 26, 37, 44}, move.Index)
	require.Equal(t, 1, move.FlipCount())
}

func TestChooseMoveWhite(t *testing.T) {
	engine := newTestEngine(t)
	board := othello.NewBoardStart().WithTurn(othello.WHITE)

	move, err := engine.ChooseMove(othello.NewBoardStart(), othello.WHITE, 0.2)
	require.NoError(t, err)

	_, err = board.Apply(move)
	require.NoError(t, err)
}

func TestChooseMovePass(t *testing.T) {
	engine := newTestEngine(t)

	// Black owns b1 next to white's a1 corner and cannot move, white can.
	board := boardWithDiscs(t, 'B', []int{1}, []int{0})
	require.False(t, board.IsTerminal())

	move, err := engine.ChooseMove(board, othello.BLACK, 1.0)
	require.NoError(t, err)
	require.True(t, move.IsPass())
	require.Equal(t, "pass", move.String())
}

func TestSearchPrefersCorner(t *testing.T) {
	engine := newTestEngine(t)
	board := cornerBoard(t)

	moves := board.LegalMoves()
	require.Len(t, moves, 2)

	result, err := engine.Search(board, time.Second)
	require.NoError(t, err)

	require.Equal(t, 0, result.Move.Index)
	require.False(t, result.Fallback)

	// The game ends within two plies, so deepening stops there.
	require.Equal(t, 2, result.Depth)
	require.Zero(t, result.Score)
	require.Len(t, result.Iterations, 2)

	scores, err := engine.RootScores(board, 2)
	require.NoError(t, err)
	require.Len(t, scores, 2)
	require.Equal(t, 0, scores[0].Move.Index)
	require.Equal(t, 31, scores[1].Move.Index)
	require.GreaterOrEqual(t, scores[0].Score, scores[1].Score)
}

func TestSearchDoesNotModifyBoard(t *testing.T) {
	engine := newTestEngine(t)
	board := othello.NewBoardStart()
	before := board.String()

	_, err := engine.Search(board, 50*time.Millisecond)
	require.NoError(t, err)

	require.Equal(t, before, board.String())
	require.True(t, board.Equal(othello.NewBoardStart()))
}

func TestSearchRespectsTimeLimit(t *testing.T) {
	engine := newTestEngine(t)
	limit := 200 * time.Millisecond

	start := time.Now()
	result, err := engine.Search(othello.NewBoardStart(), limit)
	elapsed := time.Since(start)

	require.NoError(t, err)
	require.GreaterOrEqual(t, result.Depth, 1)
	require.Less(t, elapsed, limit+100*time.Millisecond)
}

func TestSearchMatchesCompletedDepth(t *testing.T) {
	engine := newTestEngine(t)
	clock := &stepClock{current: time.Unix(0, 0), step: time.Microsecond}
	engine.now = clock.now

	board := othello.NewBoardStart().DoMoveIndex(19)

	result, err := engine.Search(board, 10*time.Millisecond)
	require.NoError(t, err)
	require.False(t, result.Fallback)
	require.GreaterOrEqual(t, result.Depth, 1)
	require.Less(t, result.Depth, DefaultMaxDepth)
	require.Len(t, result.Iterations, result.Depth)

	// The aborted depth must not leak into the result.
	engine.now = time.Now
	fixed, err := engine.SearchDepth(board, result.Depth)
	require.NoError(t, err)

	require.Equal(t, fixed.Move, result.Move)
	require.Equal(t, fixed.Score, result.Score)

	last := result.Iterations[len(result.Iterations)-1]
	require.Equal(t, result.Move, last.Move)
	require.Equal(t, result.Score, last.Score)
}

func TestSearchFallback(t *testing.T) {
	engine := newTestEngine(t)
	clock := &stepClock{current: time.Unix(0, 0), step: time.Hour}
	engine.now = clock.now

	board := cornerBoard(t)

	result, err := engine.Search(board, time.Second)
	require.NoError(t, err)

	require.True(t, result.Fallback)
	require.Zero(t, result.Depth)
	require.Empty(t, result.Iterations)
	require.Equal(t, OrderMoves(board.LegalMoves())[0], result.Move)
}

func TestSearchInvalidTimeLimit(t *testing.T) {
	engine := newTestEngine(t)

	_, err := engine.Search(othello.NewBoardStart(), 0)

	var configErr *ConfigurationError
	require.True(t, errors.As(err, &configErr))
}

func TestSearchDepthInvalid(t *testing.T) {
	engine := newTestEngine(t)

	_, err := engine.SearchDepth(othello.NewBoardStart(), 0)
	require.Error(t, err)

	_, err = engine.RootScores(othello.NewBoardStart(), -1)
	require.Error(t, err)
}

// minimax is a plain search without pruning.
func minimax(engine *Engine, board othello.Board, depth int) float64 {
	if board.IsTerminal() || depth == 0 {
		return engine.Evaluator().Evaluate(board)
	}

	best := math.Inf(-1)
	for _, move := range board.LegalMoves() {
		best = math.Max(best, -minimax(engine, board.DoMove(move), depth-1))
	}
	return best
}

func TestSearchDepthMatchesMinimax(t *testing.T) {
	engine := newTestEngine(t)
	rng := rand.New(rand.NewSource(42))

	for range 20 {
		position, err := othello.NewPositionRandom(rng, 12+rng.Intn(40))
		require.NoError(t, err)
		board := othello.NewBoard(position, othello.BLACK)

		if board.IsTerminal() || !board.HasMoves() {
			continue
		}

		result, err := engine.SearchDepth(board, 3)
		require.NoError(t, err)

		assert.InDelta(t, minimax(engine, board, 3), result.Score, 1e-9, board.String())

		scores, err := engine.RootScores(board, 3)
		require.NoError(t, err)

		best := math.Inf(-1)
		for _, score := range scores {
			best = math.Max(best, score.Score)
		}
		assert.InDelta(t, best, result.Score, 1e-9)

		// The chosen move is the first move in ordering order with the best score.
		for _, score := range scores {
			if score.Score == best {
				assert.Equal(t, score.Move, result.Move)
				break
			}
		}
	}
}

func TestSearchWithProgress(t *testing.T) {
	engine := newTestEngine(t)
	board := cornerBoard(t)

	var iterations []Iteration
	result, err := engine.SearchWithProgress(board, time.Second, func(iteration Iteration) {
		iterations = append(iterations, iteration)
	})
	require.NoError(t, err)

	require.Equal(t, result.Iterations, iterations)
	require.Equal(t, 1, iterations[0].Depth)
	require.Equal(t, 2, iterations[1].Depth)
}
