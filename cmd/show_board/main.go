package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/lk16/flippy-engine/internal/evaluate"
	"github.com/lk16/flippy-engine/internal/othello"
)

func main() {
	boardString := flag.String("board", "", "the board to show, in the 65 character position format")
	showEval := flag.Bool("eval", false, "also show the static evaluation")
	flag.Parse()

	board, err := othello.NewBoardFromString(*boardString)
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
	board.Print()

	if !*showEval {
		return
	}

	breakdown := evaluate.NewEvaluator(evaluate.DefaultWeights()).Breakdown(board)

	fmt.Printf("phase:    %s\n", breakdown.Phase)
	fmt.Printf("terminal: %t\n", breakdown.Terminal)
	fmt.Printf("score:    %.2f\n", breakdown.Score)
	fmt.Printf("features: %+v\n", breakdown.Features)
}
