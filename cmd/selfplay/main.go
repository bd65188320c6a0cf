package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/lk16/flippy-engine/internal/config"
	"github.com/lk16/flippy-engine/internal/models"
	"github.com/lk16/flippy-engine/internal/othello"
	"github.com/lk16/flippy-engine/internal/repository"
	"github.com/lk16/flippy-engine/internal/search"
	"github.com/lk16/flippy-engine/internal/selfplay"
	"github.com/lk16/flippy-engine/internal/services"
)

func main() {
	games := flag.Int("games", 10, "number of games to play")
	timeLimit := flag.Float64("time", 0, "time limit per move in seconds, defaults to FLIPPY_ENGINE_TIME_LIMIT")
	openingPlies := flag.Int("opening", 4, "number of random moves before the players take over")
	seed := flag.Int64("seed", time.Now().UnixNano(), "seed for the random openings")
	opponent := flag.String("opponent", "default", "opponent: default (engine with default weights), greedy or random")
	store := flag.Bool("store", false, "store every search in Postgres, using FLIPPY_POSTGRES_URL")
	flag.Parse()

	config.SetLogLevel()
	cfg := config.LoadEngineConfig()

	if *timeLimit == 0 {
		*timeLimit = cfg.TimeLimit
	}

	engine, err := cfg.NewEngine()
	if err != nil {
		slog.Error("Failed to create engine", "error", err)
		os.Exit(1)
	}

	player := selfplay.NewEnginePlayer("engine", engine, *timeLimit)

	var second selfplay.Player

	switch *opponent {
	case "default":
		defaultEngine, err := search.NewEngine(search.DefaultConfig())
		if err != nil {
			slog.Error("Failed to create engine", "error", err)
			os.Exit(1)
		}
		second = selfplay.NewEnginePlayer("default", defaultEngine, *timeLimit)
	case "greedy":
		second = selfplay.GreedyPlayer{}
	case "random":
		second = selfplay.NewRandomPlayer(*seed)
	default:
		slog.Error("Unknown opponent", "opponent", *opponent)
		os.Exit(1)
	}

	if *store {
		repo, closeRepo := newRepository()
		defer closeRepo()

		player.OnSearch = func(board othello.Board, record models.SearchRecord) {
			if err := repo.SaveSearch(context.Background(), board, record); err != nil {
				slog.Error("Failed to save search", "id", record.ID, "error", err)
			}
		}
	}

	matchCfg := selfplay.MatchConfig{
		Games:        *games,
		OpeningPlies: *openingPlies,
		Seed:         *seed,
	}

	slog.Info("Starting match", "games", *games, "timeLimit", *timeLimit, "opponent", second.Name(), "seed", *seed)

	summary, err := selfplay.RunMatch(player, second, matchCfg, func(result selfplay.GameResult) {
		fmt.Printf("%-8s %2d - %2d %-8s\n", result.Black, result.BlackDiscs, result.WhiteDiscs, result.White)
	})
	if err != nil {
		slog.Error("Match failed", "error", err)
		os.Exit(1)
	}

	fmt.Println()
	for _, stats := range []selfplay.PlayerStats{summary.First, summary.Second} {
		fmt.Printf("%-8s wins %3d | losses %3d | draws %3d | score %5.1f | average discs %5.2f\n",
			stats.Name, stats.Wins, stats.Losses, stats.Draws, stats.Score(), stats.AverageDiscs())
	}
}

// newRepository connects to Postgres for logging searches.
func newRepository() (*repository.SearchRepository, func()) {
	url := os.Getenv("FLIPPY_POSTGRES_URL")
	if url == "" {
		slog.Error("Environment variable is not set", "key", "FLIPPY_POSTGRES_URL")
		os.Exit(1)
	}

	postgres, err := services.InitPostgres(url)
	if err != nil {
		slog.Error("Failed to connect to Postgres", "error", err)
		os.Exit(1)
	}

	svc := &services.Services{
		Postgres: postgres,
		Cache:    models.NewCache(),
	}

	closeFunc := func() {
		if err := svc.Close(); err != nil {
			slog.Error("Failed to close services", "error", err)
		}
	}

	return repository.NewSearchRepositoryFromServices(svc, config.DefaultResultTTL), closeFunc
}
