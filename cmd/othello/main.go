package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/lk16/flippy-engine/internal/config"
	"github.com/lk16/flippy-engine/internal/othello"
)

const defaultPosition = "BEXEXOOOXEEXXOEXEEEEOOXOEEEOOOEEEEOOOOEEEEEXOEEEEEEEEEEEEEEEEEEEE"

func usage() {
	fmt.Fprintf(os.Stderr, "Usage: %s [flags] [position] [time_limit]\n\n", os.Args[0])
	fmt.Fprintf(os.Stderr, "Prints the chosen move as (row,col) or pass.\n\n")
	flag.PrintDefaults()
}

func main() {
	showBoard := flag.Bool("board", false, "print the board to stderr before searching")
	showStats := flag.Bool("stats", false, "print search statistics to stderr")
	flag.Usage = usage
	flag.Parse()

	config.SetLogLevel()
	cfg := config.LoadEngineConfig()

	positionString := defaultPosition
	timeLimit := cfg.TimeLimit

	args := flag.Args()

	if len(args) > 0 {
		positionString = args[0]
	}

	if len(args) > 1 {
		var err error
		timeLimit, err = strconv.ParseFloat(args[1], 64)
		if err != nil {
			fmt.Fprintln(os.Stderr, "Error: Time limit must be a number")
			os.Exit(1)
		}
	}

	board, err := othello.NewBoardFromString(positionString)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}

	if *showBoard {
		for _, line := range board.ASCIIArtLines() {
			fmt.Fprintln(os.Stderr, line)
		}
	}

	engine, err := cfg.NewEngine()
	if err != nil {
		slog.Error("Failed to create engine", "error", err)
		os.Exit(1)
	}

	if !*showStats {
		move, err := engine.ChooseMove(board, board.Turn(), timeLimit)
		if err != nil {
			fmt.Fprintln(os.Stderr, "Error:", err)
			os.Exit(1)
		}

		fmt.Println(move.String())
		return
	}

	if !(timeLimit > 0) {
		fmt.Fprintln(os.Stderr, "Error: Time limit must be positive")
		os.Exit(1)
	}

	result, err := engine.Search(board, time.Duration(timeLimit*float64(time.Second)))
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}

	for _, iteration := range result.Iterations {
		fmt.Fprintf(os.Stderr, "depth %2d | move %s | score %10.2f | nodes %10d | %s\n",
			iteration.Depth, iteration.Move.Field(), iteration.Score, iteration.Nodes, iteration.Elapsed)
	}
	fmt.Fprintf(os.Stderr, "total nodes %d in %s, fallback: %t\n", result.Nodes, result.Elapsed, result.Fallback)

	fmt.Println(result.Move.String())
}
