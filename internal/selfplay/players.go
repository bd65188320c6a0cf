package selfplay

import (
	"math/rand"
	"time"

	"github.com/lk16/flippy-engine/internal/models"
	"github.com/lk16/flippy-engine/internal/othello"
	"github.com/lk16/flippy-engine/internal/search"
)

// Player picks moves during a game.
type Player interface {
	Name() string

	// ChooseMove returns a legal move for the player to move on board.
	ChooseMove(board othello.Board) (othello.Move, error)
}

// EnginePlayer plays with a time limited search.
type EnginePlayer struct {
	name      string
	engine    *search.Engine
	timeLimit float64

	// OnSearch is called after every search if it is set.
	OnSearch func(board othello.Board, record models.SearchRecord)
}

// NewEnginePlayer creates a new EnginePlayer. The time limit is in seconds.
func NewEnginePlayer(name string, engine *search.Engine, timeLimit float64) *EnginePlayer {
	return &EnginePlayer{
		name:      name,
		engine:    engine,
		timeLimit: timeLimit,
	}
}

func (p *EnginePlayer) Name() string {
	return p.name
}

func (p *EnginePlayer) ChooseMove(board othello.Board) (othello.Move, error) {
	result, err := p.engine.Search(board, time.Duration(p.timeLimit*float64(time.Second)))
	if err != nil {
		return othello.Move{}, err
	}

	if p.OnSearch != nil {
		p.OnSearch(board, models.NewSearchRecord(board, p.timeLimit, result))
	}

	return result.Move, nil
}

// GreedyPlayer plays the move that flips the most discs. Ties go to the best ordered move.
type GreedyPlayer struct{}

func (GreedyPlayer) Name() string {
	return "greedy"
}

func (GreedyPlayer) ChooseMove(board othello.Board) (othello.Move, error) {
	moves := search.OrderMoves(board.LegalMoves())

	best := moves[0]
	for _, move := range moves[1:] {
		if move.FlipCount() > best.FlipCount() {
			best = move
		}
	}

	return best, nil
}

// RandomPlayer plays a uniformly random legal move.
type RandomPlayer struct {
	rng *rand.Rand
}

// NewRandomPlayer creates a RandomPlayer with a seeded generator.
func NewRandomPlayer(seed int64) *RandomPlayer {
	return &RandomPlayer{rng: rand.New(rand.NewSource(seed))} //nolint:gosec
}

func (p *RandomPlayer) Name() string {
	return "random"
}

func (p *RandomPlayer) ChooseMove(board othello.Board) (othello.Move, error) {
	moves := board.LegalMoves()
	return moves[p.rng.Intn(len(moves))], nil
}
