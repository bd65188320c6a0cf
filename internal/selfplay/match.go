package selfplay

import (
	"errors"
	"fmt"
	"log/slog"
	"math/rand"

	"github.com/lk16/flippy-engine/internal/othello"
)

// GameResult describes a finished game.
type GameResult struct {
	Black      string
	White      string
	Opening    othello.Board
	Moves      []int
	BlackDiscs int
	WhiteDiscs int
	Winner     othello.Color
}

// WinnerName returns the name of the winning player, or an empty string for a draw.
func (r GameResult) WinnerName() string {
	switch r.Winner {
	case othello.BLACK:
		return r.Black
	case othello.WHITE:
		return r.White
	default:
		return ""
	}
}

// PlayGame plays a game from start until neither player can move.
func PlayGame(black, white Player, start othello.Board) (GameResult, error) {
	game := othello.NewGameWithStart(start)

	for !game.IsOver() {
		board := game.GetBoard()

		player := black
		if board.Turn() == othello.WHITE {
			player = white
		}

		move, err := player.ChooseMove(board)
		if err != nil {
			return GameResult{}, fmt.Errorf("%s failed to choose a move: %w", player.Name(), err)
		}

		if _, err = board.Apply(move); err != nil {
			return GameResult{}, fmt.Errorf("%s chose an illegal move: %w", player.Name(), err)
		}

		if err = game.PushMove(move.Index); err != nil {
			return GameResult{}, err
		}
	}

	board := game.GetBoard()

	return GameResult{
		Black:      black.Name(),
		White:      white.Name(),
		Opening:    start,
		Moves:      game.Moves(),
		BlackDiscs: board.CountColor(othello.BLACK),
		WhiteDiscs: board.CountColor(othello.WHITE),
		Winner:     game.Winner(),
	}, nil
}

// RandomOpening plays random moves from the start position.
// It stops early rather than returning a finished game.
func RandomOpening(rng *rand.Rand, plies int) othello.Board {
	game := othello.NewGame()

	for range plies {
		moves := game.GetBoard().LegalMoves()

		// PushMove cannot fail for a legal move.
		_ = game.PushMove(moves[rng.Intn(len(moves))].Index)

		if game.IsOver() {
			game.PopMove()
			break
		}
	}

	return game.GetBoard()
}

// MatchConfig configures a series of games.
type MatchConfig struct {
	Games        int
	OpeningPlies int
	Seed         int64
}

// Validate checks the configuration.
func (c MatchConfig) Validate() error {
	if c.Games < 1 {
		return errors.New("games must be positive")
	}

	if c.OpeningPlies < 0 || c.OpeningPlies > 20 {
		return errors.New("opening plies must be between 0 and 20")
	}

	return nil
}

// PlayerStats aggregates the results of one player.
type PlayerStats struct {
	Name   string
	Wins   int
	Losses int
	Draws  int
	Discs  int
	Games  int
}

// AverageDiscs returns the average disc count at the end of the games.
func (s PlayerStats) AverageDiscs() float64 {
	if s.Games == 0 {
		return 0
	}
	return float64(s.Discs) / float64(s.Games)
}

// Score counts a win as 1 and a draw as a half.
func (s PlayerStats) Score() float64 {
	return float64(s.Wins) + float64(s.Draws)/2
}

// Summary holds the results of a match.
type Summary struct {
	First  PlayerStats
	Second PlayerStats
}

func (s *Summary) add(result GameResult, firstIsBlack bool) {
	firstDiscs, secondDiscs := result.BlackDiscs, result.WhiteDiscs
	if !firstIsBlack {
		firstDiscs, secondDiscs = secondDiscs, firstDiscs
	}

	s.First.Games++
	s.Second.Games++
	s.First.Discs += firstDiscs
	s.Second.Discs += secondDiscs

	switch {
	case firstDiscs > secondDiscs:
		s.First.Wins++
		s.Second.Losses++
	case secondDiscs > firstDiscs:
		s.Second.Wins++
		s.First.Losses++
	default:
		s.First.Draws++
		s.Second.Draws++
	}
}

// RunMatch plays games between two players, switching colors every game.
// Each pair of games starts from the same opening. onGame is called after every game if it is set.
func RunMatch(first, second Player, cfg MatchConfig, onGame func(GameResult)) (Summary, error) {
	if err := cfg.Validate(); err != nil {
		return Summary{}, err
	}

	summary := Summary{
		First:  PlayerStats{Name: first.Name()},
		Second: PlayerStats{Name: second.Name()},
	}

	var opening othello.Board

	for i := range cfg.Games {
		firstIsBlack := i%2 == 0

		if firstIsBlack {
			rng := rand.New(rand.NewSource(cfg.Seed + int64(i/2))) //nolint:gosec
			opening = RandomOpening(rng, cfg.OpeningPlies)
		}

		black, white := first, second
		if !firstIsBlack {
			black, white = second, first
		}

		result, err := PlayGame(black, white, opening)
		if err != nil {
			return Summary{}, fmt.Errorf("game %d: %w", i+1, err)
		}

		summary.add(result, firstIsBlack)

		slog.Debug("Game finished", "game", i+1, "black", result.Black, "white", result.White,
			"blackDiscs", result.BlackDiscs, "whiteDiscs", result.WhiteDiscs)

		if onGame != nil {
			onGame(result)
		}
	}

	return summary, nil
}
