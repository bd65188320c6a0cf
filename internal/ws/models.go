package ws

import (
	"encoding/json"

	"github.com/lk16/flippy-engine/internal/models"
)

const (
	eventMoveRequest     = "move_request"
	eventEvaluateRequest = "evaluate_request"
	eventIteration       = "iteration"
	eventMove            = "move"
	eventEvaluation      = "evaluation"
	eventError           = "error"
)

type Incoming struct {
	Event string          `json:"event"`
	ID    int             `json:"id"`
	Data  json.RawMessage `json:"data"`
}

type Outgoing struct {
	Event string `json:"event"`
	ID    int    `json:"id"`
	Data  any    `json:"data"`
}

// IterationProgress is sent for every completed depth of a running search.
type IterationProgress struct {
	Depth   int     `json:"depth"`
	Move    string  `json:"move"`
	Field   string  `json:"field"`
	Score   float64 `json:"score"`
	Nodes   uint64  `json:"nodes"`
	Elapsed float64 `json:"elapsed"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

type MoveResponse = models.MoveResponse
