package evaluate

import (
	"math"
	"math/bits"
	"math/rand"
	"strings"
	"testing"

	"github.com/lk16/flippy-engine/internal/othello"
	"github.com/stretchr/testify/require"
)

func mustBoard(t *testing.T, s string) othello.Board {
	t.Helper()
	board, err := othello.NewBoardFromString(s)
	require.NoError(t, err)
	return board
}

func TestMasks(t *testing.T) {
	require.Equal(t, 4, bits.OnesCount64(cornerMask))
	require.Equal(t, 4, bits.OnesCount64(xSquareMask))
	require.Equal(t, 8, bits.OnesCount64(cSquareMask))
	require.Equal(t, 16, bits.OnesCount64(edgeMask))
	require.Equal(t, 16, bits.OnesCount64(centerMask))
	require.Equal(t, 28, bits.OnesCount64(borderMask))

	require.Zero(t, cornerMask&xSquareMask)
	require.Zero(t, cornerMask&cSquareMask)
	require.Zero(t, edgeMask&(cornerMask|cSquareMask))
	require.Zero(t, centerMask&borderMask)
}

func TestAdjacent(t *testing.T) {
	tests := []struct {
		name   string
		input  uint64
		output uint64
	}{
		{"a1", 1 << 0, 1<<1 | 1<<8 | 1<<9},
		{"h1", 1 << 7, 1<<6 | 1<<14 | 1<<15},
		{"a8", 1 << 56, 1<<48 | 1<<49 | 1<<57},
		{"h8", 1 << 63, 1<<54 | 1<<55 | 1<<62},
		{"d4", 1 << 27, 1<<18 | 1<<19 | 1<<20 | 1<<26 | 1<<28 | 1<<34 | 1<<35 | 1<<36},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.output, adjacent(tt.input)&^tt.input)
		})
	}
}

func TestStableDiscs(t *testing.T) {
	tests := []struct {
		name   string
		discs  uint64
		stable uint64
	}{
		{"empty", 0, 0},
		{"lone corner", 1 << 0, 1 << 0},
		{"lone C-square", 1 << 1, 0},
		{"lone center disc", 1 << 27, 0},
		{"edge run from corner", 1<<0 | 1<<1 | 1<<2, 1<<0 | 1<<1 | 1<<2},
		{"edge run without corner", 1<<1 | 1<<2, 0},
		{"full top row", 0xFF, 0xFF},
		{"full board", math.MaxUint64, math.MaxUint64},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.stable, stableDiscs(tt.discs))
		})
	}
}

func TestStableDiscsAllAxes(t *testing.T) {
	// b2 is covered horizontally, vertically and diagonally through a1,
	// but its anti-diagonal runs into the empty c1 and a3.
	discs := uint64(0xFF) | 0x0101010101010101 | 1<<9
	discs &^= 1<<2 | 1<<16
	require.Zero(t, stableDiscs(discs)&(1<<9))

	// Filling c1 fixes the anti-diagonal on one side.
	discs |= 1 << 2
	require.NotZero(t, stableDiscs(discs)&(1<<9))
}

func TestEvaluateStart(t *testing.T) {
	evaluator := NewEvaluator(DefaultWeights())
	board := othello.NewBoardStart()

	breakdown := evaluator.Breakdown(board)
	require.False(t, breakdown.Terminal)
	require.Equal(t, othello.PhaseEarly, breakdown.Phase)
	require.Equal(t, Features{}, breakdown.Features)
	require.Zero(t, breakdown.Score)
}

func TestEvaluateFeatures(t *testing.T) {
	evaluator := NewEvaluator(DefaultWeights())

	// Black owns a1 and b2, white owns b1.
	board := mustBoard(t, "B"+"XOEEEEEE"+"EXEEEEEE"+strings.Repeat("E", 48))

	breakdown := evaluator.Breakdown(board)
	require.False(t, breakdown.Terminal)
	require.Equal(t, Features{
		Corners:  1,
		Stable:   1,
		Mobility: 0,
		Edges:    0,
		Center:   0,
		Frontier: 1,
		XSquares: 1,
		CSquares: -1,
	}, breakdown.Features)
	require.InDelta(t, 31.75, breakdown.Score, 1e-9)

	// The same board from white's perspective negates every feature.
	white := evaluator.Breakdown(board.WithTurn(othello.WHITE))
	require.Equal(t, -1, white.Features.Corners)
	require.Equal(t, 1, white.Features.CSquares)
	require.InDelta(t, -31.75, white.Score, 1e-9)
}

func TestScorePhaseGating(t *testing.T) {
	evaluator := NewEvaluator(DefaultWeights())
	features := Features{Edges: 2, Center: 1}

	require.InDelta(t, 4.0, evaluator.Score(features, othello.PhaseEarly), 1e-9)
	require.InDelta(t, 8.0, evaluator.Score(features, othello.PhaseMid), 1e-9)
	require.InDelta(t, 8.0, evaluator.Score(features, othello.PhaseLate), 1e-9)
}

func TestScorePenalties(t *testing.T) {
	evaluator := NewEvaluator(DefaultWeights())

	require.InDelta(t, -1.0, evaluator.Score(Features{Frontier: 4}, othello.PhaseMid), 1e-9)
	require.InDelta(t, -1.0, evaluator.Score(Features{XSquares: 16}, othello.PhaseMid), 1e-9)
	require.InDelta(t, -1.0, evaluator.Score(Features{CSquares: 16}, othello.PhaseMid), 1e-9)
	require.InDelta(t, 16+16+8.0, evaluator.Score(Features{Corners: 1, Stable: 1, Mobility: 1}, othello.PhaseLate), 1e-9)
}

func TestEvaluateTerminal(t *testing.T) {
	evaluator := NewEvaluator(DefaultWeights())
	bound := DefaultWeights().HeuristicBound()

	tests := []struct {
		name  string
		board string
		sign  int
	}{
		{"black wins, black to move", "B" + strings.Repeat("X", 40) + strings.Repeat("O", 24), 1},
		{"black wins, white to move", "W" + strings.Repeat("X", 40) + strings.Repeat("O", 24), -1},
		{"white wins by wipeout", "B" + strings.Repeat("O", 10) + strings.Repeat("E", 54), -1},
		{"draw", "W" + strings.Repeat("X", 32) + strings.Repeat("O", 32), 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			breakdown := evaluator.Breakdown(mustBoard(t, tt.board))
			require.True(t, breakdown.Terminal)

			switch tt.sign {
			case 1:
				require.Greater(t, breakdown.Score, bound)
			case -1:
				require.Less(t, breakdown.Score, -bound)
			default:
				require.Zero(t, breakdown.Score)
			}
		})
	}
}

func TestEvaluateDeterministicAndBounded(t *testing.T) {
	evaluator := NewEvaluator(DefaultWeights())
	bound := DefaultWeights().HeuristicBound()
	rng := rand.New(rand.NewSource(7))

	for discs := 4; discs <= 64; discs++ {
		position, err := othello.NewPositionRandom(rng, discs)
		require.NoError(t, err)
		board := othello.NewBoard(position, othello.BLACK)

		first := evaluator.Evaluate(board)
		require.Equal(t, first, evaluator.Evaluate(board))

		if !board.IsTerminal() {
			require.LessOrEqual(t, math.Abs(first), bound)
		}
	}
}

func TestWeightsValidate(t *testing.T) {
	require.NoError(t, DefaultWeights().Validate())

	negative := DefaultWeights()
	negative.Mobility = -1
	require.Error(t, negative.Validate())

	weakTerminal := DefaultWeights()
	weakTerminal.Terminal = 100
	require.Error(t, weakTerminal.Validate())
}
