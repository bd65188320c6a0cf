package search

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/lk16/flippy-engine/internal/evaluate"
	"github.com/lk16/flippy-engine/internal/othello"
)

// Iteration describes one completed depth of iterative deepening.
type Iteration struct {
	Depth   int           `json:"depth"`
	Move    othello.Move  `json:"-"`
	Score   float64       `json:"score"`
	Nodes   uint64        `json:"nodes"`
	Elapsed time.Duration `json:"elapsed"`
}

// Result is the outcome of a search.
type Result struct {
	// Move is the chosen move.
	Move othello.Move

	// Score is the score of Move at Depth, for the player to move.
	Score float64

	// Depth is the deepest completed depth, or 0 if no depth completed.
	Depth int

	// Nodes counts the nodes visited, including those of an aborted depth.
	Nodes uint64

	// Elapsed is the wall-clock time spent.
	Elapsed time.Duration

	// Fallback is set when no depth completed and Move is the highest priority move.
	Fallback bool

	// Iterations lists every completed depth.
	Iterations []Iteration
}

// MoveScore is the backed-up score of a single root move.
type MoveScore struct {
	Move  othello.Move
	Score float64
}

// Engine chooses moves using iterative deepening alpha-beta search.
// Engines share nothing between calls, so one Engine can serve concurrent searches.
type Engine struct {
	cfg       Config
	evaluator *evaluate.Evaluator

	// now is replaced in tests.
	now func() time.Time
}

// NewEngine creates a new engine.
func NewEngine(cfg Config) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &Engine{
		cfg:       cfg,
		evaluator: evaluate.NewEvaluator(cfg.Weights),
		now:       time.Now,
	}, nil
}

// Config returns the configuration of the engine.
func (e *Engine) Config() Config {
	return e.cfg
}

// Evaluator returns the evaluator used at the leaves of the search.
func (e *Engine) Evaluator() *evaluate.Evaluator {
	return e.evaluator
}

// ChooseMove picks a move for side on board within timeLimitSeconds.
// On error the returned move is a pass and must not be played.
func (e *Engine) ChooseMove(board othello.Board, side othello.Color, timeLimitSeconds float64) (othello.Move, error) {
	if !(timeLimitSeconds > 0) || math.IsInf(timeLimitSeconds, 1) {
		return othello.NewPassMove(), &ConfigurationError{
			Field:  "time_limit",
			Reason: fmt.Sprintf("must be a positive number of seconds, got %v", timeLimitSeconds),
		}
	}

	if side != othello.BLACK && side != othello.WHITE {
		return othello.NewPassMove(), &ConfigurationError{Field: "side", Reason: fmt.Sprintf("invalid side %d", side)}
	}

	// Limits below a nanosecond still get a move, through the fallback.
	timeLimit := max(time.Duration(timeLimitSeconds*float64(time.Second)), time.Nanosecond)

	result, err := e.Search(board.WithTurn(side), timeLimit)
	if err != nil {
		return othello.NewPassMove(), err
	}

	return result.Move, nil
}

// Search runs iterative deepening until the time limit minus the safety margin has passed.
// Only fully completed depths are used for the result.
func (e *Engine) Search(board othello.Board, timeLimit time.Duration) (Result, error) {
	return e.SearchWithProgress(board, timeLimit, nil)
}

// SearchWithProgress works like Search, but calls onIteration after every completed depth if it is set.
func (e *Engine) SearchWithProgress(board othello.Board, timeLimit time.Duration, onIteration func(Iteration)) (Result, error) {
	if timeLimit <= 0 {
		return Result{}, &ConfigurationError{
			Field:  "time_limit",
			Reason: fmt.Sprintf("must be positive, got %s", timeLimit),
		}
	}

	start := e.now()
	deadline := start.Add(time.Duration(float64(timeLimit) * (1 - e.cfg.SafetyMargin)))

	moves := OrderMoves(board.LegalMoves())

	result := Result{
		Move:     moves[0],
		Fallback: true,
	}

	if moves[0].IsPass() {
		result.Fallback = false
		result.Elapsed = e.now().Sub(start)
		slog.Debug("No moves available, passing", "board", board.String())
		return result, nil
	}

	for depth := 1; depth <= e.cfg.MaxDepth; depth++ {
		ctx := e.newSearchContext(depth, deadline)

		move, score, err := ctx.searchRoot(board, moves)
		result.Nodes += ctx.nodes

		if errors.Is(err, errDeadlineExceeded) {
			slog.Debug("Search depth aborted", "depth", depth, "nodes", ctx.nodes)
			break
		}

		result.Move = move
		result.Score = score
		result.Depth = depth
		result.Fallback = false
		iteration := Iteration{
			Depth:   depth,
			Move:    move,
			Score:   score,
			Nodes:   ctx.nodes,
			Elapsed: e.now().Sub(start),
		}
		result.Iterations = append(result.Iterations, iteration)

		if onIteration != nil {
			onIteration(iteration)
		}

		slog.Debug("Search depth completed", "depth", depth, "move", move.Field(), "score", score, "nodes", ctx.nodes)

		// The whole game tree fits in this depth, searching deeper gives the same result.
		if !ctx.depthLimited {
			break
		}
	}

	result.Elapsed = e.now().Sub(start)

	if result.Fallback {
		slog.Warn("No search depth completed, using fallback move", "move", result.Move.Field(), "timeLimit", timeLimit)
	}

	return result, nil
}

// SearchDepth searches to a fixed depth without a time limit.
func (e *Engine) SearchDepth(board othello.Board, depth int) (Result, error) {
	if depth < 1 {
		return Result{}, &ConfigurationError{Field: "depth", Reason: fmt.Sprintf("must be positive, got %d", depth)}
	}

	start := e.now()
	moves := OrderMoves(board.LegalMoves())

	if moves[0].IsPass() {
		return Result{Move: moves[0], Elapsed: e.now().Sub(start)}, nil
	}

	ctx := e.newSearchContext(depth, time.Time{})

	move, score, err := ctx.searchRoot(board, moves)
	if err != nil {
		return Result{}, err
	}

	return Result{
		Move:    move,
		Score:   score,
		Depth:   depth,
		Nodes:   ctx.nodes,
		Elapsed: e.now().Sub(start),
	}, nil
}

// RootScores returns the exact score of every root move at a fixed depth, in move ordering order.
func (e *Engine) RootScores(board othello.Board, depth int) ([]MoveScore, error) {
	if depth < 1 {
		return nil, &ConfigurationError{Field: "depth", Reason: fmt.Sprintf("must be positive, got %d", depth)}
	}

	moves := OrderMoves(board.LegalMoves())
	scores := make([]MoveScore, len(moves))

	for i, move := range moves {
		ctx := e.newSearchContext(depth, time.Time{})

		score, err := ctx.alphaBeta(board.DoMove(move), depth-1, math.Inf(-1), math.Inf(1))
		if err != nil {
			return nil, err
		}

		scores[i] = MoveScore{Move: move, Score: -score}
	}

	return scores, nil
}

// searchContext holds the state of searching a single depth.
type searchContext struct {
	evaluator *evaluate.Evaluator
	now       func() time.Time

	depth    int
	alpha    float64
	beta     float64
	deadline time.Time
	nodes    uint64

	// depthLimited is set when a leaf was evaluated because the depth ran out rather than the game ending.
	depthLimited bool
}

// newSearchContext creates a context for one depth. A zero deadline means no time limit.
func (e *Engine) newSearchContext(depth int, deadline time.Time) *searchContext {
	return &searchContext{
		evaluator: e.evaluator,
		now:       e.now,
		depth:     depth,
		alpha:     math.Inf(-1),
		beta:      math.Inf(1),
		deadline:  deadline,
	}
}

// expired returns whether the deadline has passed.
func (s *searchContext) expired() bool {
	return !s.deadline.IsZero() && !s.now().Before(s.deadline)
}

// searchRoot searches all root moves in the given order.
// A later move only replaces the best move if it scores strictly higher.
func (s *searchContext) searchRoot(board othello.Board, moves []othello.Move) (othello.Move, float64, error) {
	bestMove := moves[0]
	bestScore := math.Inf(-1)
	alpha := s.alpha

	for _, move := range moves {
		if s.expired() {
			return othello.Move{}, 0, errDeadlineExceeded
		}

		score, err := s.alphaBeta(board.DoMove(move), s.depth-1, -s.beta, -alpha)
		if err != nil {
			return othello.Move{}, 0, err
		}
		score = -score

		if score > bestScore {
			bestScore = score
			bestMove = move
		}

		if score > alpha {
			alpha = score
		}
	}

	return bestMove, bestScore, nil
}

// alphaBeta returns the score of board for the player to move. Scores outside (alpha, beta) are bounds.
func (s *searchContext) alphaBeta(board othello.Board, depth int, alpha, beta float64) (float64, error) {
	if s.expired() {
		return 0, errDeadlineExceeded
	}

	s.nodes++

	if board.IsTerminal() {
		return s.evaluator.Evaluate(board), nil
	}

	if depth == 0 {
		s.depthLimited = true
		return s.evaluator.Evaluate(board), nil
	}

	// Passing is the only move when no disc can be placed, and uses one ply like any other move.
	moves := OrderMoves(board.LegalMoves())

	best := math.Inf(-1)

	for _, move := range moves {
		score, err := s.alphaBeta(board.DoMove(move), depth-1, -beta, -alpha)
		if err != nil {
			return 0, err
		}
		score = -score

		if score > best {
			best = score
		}

		if score > alpha {
			alpha = score
		}

		if alpha >= beta {
			break
		}
	}

	return best, nil
}
