package ws

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/gofiber/contrib/websocket"
	"github.com/lk16/flippy-engine/internal/config"
	"github.com/lk16/flippy-engine/internal/models"
	"github.com/lk16/flippy-engine/internal/repository"
	"github.com/lk16/flippy-engine/internal/search"
	"github.com/lk16/flippy-engine/internal/services"
)

const (
	saveTimeout = 2 * time.Second
)

// Conn is the part of a websocket connection the Handler uses.
type Conn interface {
	ReadMessage() (int, []byte, error)
	WriteMessage(messageType int, data []byte) error
}

type Handler struct {
	services *services.Services
	cfg      *config.ServerConfig
	ws       Conn
}

// NewHandler creates a new Handler.
func NewHandler(ws Conn, services *services.Services, cfg *config.ServerConfig) *Handler {
	return &Handler{services: services, cfg: cfg, ws: ws}
}

// decodeError is returned for text messages that are not valid JSON.
type decodeError struct {
	err error
}

func (e *decodeError) Error() string {
	return fmt.Sprintf("unmarshal error: %s", e.err)
}

func (e *decodeError) Unwrap() error {
	return e.err
}

func (h *Handler) readMessage() (*Incoming, error) {
	var req Incoming

	// Read errors are returned as is, so close errors can be recognized.
	msgType, msg, err := h.ws.ReadMessage()
	if err != nil {
		return nil, err
	}

	slog.Debug("read ws message", "msgType", msgType, "msg", msg)

	if msgType != websocket.TextMessage {
		return nil, fmt.Errorf("unexpected message type: %d", msgType)
	}

	if err = json.Unmarshal(msg, &req); err != nil {
		return nil, &decodeError{err: err}
	}

	return &req, nil
}

func (h *Handler) writeMessage(outgoing *Outgoing) error {
	msg, err := json.Marshal(outgoing)
	if err != nil {
		return fmt.Errorf("marshal error: %w", err)
	}

	slog.Debug("write ws message", "msg", string(msg))

	if err = h.ws.WriteMessage(websocket.TextMessage, msg); err != nil {
		return fmt.Errorf("write error: %w", err)
	}

	return nil
}

func (h *Handler) handleMessage(req *Incoming) (*Outgoing, error) {
	if req.Event == "" {
		return nil, errors.New("event field is either empty or missing")
	}

	switch req.Event {
	case eventMoveRequest:
		return h.handleMoveRequest(req)
	case eventEvaluateRequest:
		return h.handleEvaluateRequest(req)
	default:
		return nil, fmt.Errorf("unknown event: %s", req.Event)
	}
}

// Handle handles the websocket connection until it is closed.
// Invalid requests are answered with an error event and do not close the connection.
func (h *Handler) Handle() error {
	for {
		req, err := h.readMessage()

		var decodeErr *decodeError
		if errors.As(err, &decodeErr) {
			if err = h.writeError(0, decodeErr); err != nil {
				return err
			}
			continue
		}

		if err != nil {
			return err
		}

		respData, err := h.handleMessage(req)
		if err != nil {
			if err = h.writeError(req.ID, err); err != nil {
				return err
			}
			continue
		}

		if err = h.writeMessage(respData); err != nil {
			return fmt.Errorf("ws write error: %w", err)
		}
	}
}

func (h *Handler) writeError(id int, handleErr error) error {
	err := h.writeMessage(&Outgoing{
		Event: eventError,
		ID:    id,
		Data:  ErrorResponse{Error: handleErr.Error()},
	})
	if err != nil {
		return fmt.Errorf("ws write error: %w", err)
	}

	return nil
}

func (h *Handler) handleMoveRequest(req *Incoming) (*Outgoing, error) {
	var reqData models.MoveRequest
	if err := json.Unmarshal(req.Data, &reqData); err != nil {
		return nil, fmt.Errorf("ws move request unmarshal error: %w", err)
	}

	board, err := reqData.Validate(h.cfg.MaxTimeLimit)
	if err != nil {
		return nil, err
	}

	timeLimit := reqData.TimeLimit
	if timeLimit == 0 {
		timeLimit = h.cfg.Engine.TimeLimit
	}

	var writeErr error

	onIteration := func(iteration search.Iteration) {
		if writeErr != nil {
			return
		}

		writeErr = h.writeMessage(&Outgoing{
			Event: eventIteration,
			ID:    req.ID,
			Data: IterationProgress{
				Depth:   iteration.Depth,
				Move:    iteration.Move.String(),
				Field:   iteration.Move.Field(),
				Score:   iteration.Score,
				Nodes:   iteration.Nodes,
				Elapsed: iteration.Elapsed.Seconds(),
			},
		})
	}

	result, err := h.services.Engine.SearchWithProgress(board, time.Duration(timeLimit*float64(time.Second)), onIteration)
	if err != nil {
		return nil, err
	}

	if writeErr != nil {
		return nil, writeErr
	}

	record := models.NewSearchRecord(board, timeLimit, result)

	ctx, cancel := context.WithTimeout(context.Background(), saveTimeout)
	defer cancel()

	repo := repository.NewSearchRepositoryFromServices(h.services, h.cfg.ResultTTL)
	if err = repo.SaveSearch(ctx, board, record); err != nil {
		slog.Error("Failed to save search", "id", record.ID, "error", err)
	}

	return &Outgoing{
		Event: eventMove,
		ID:    req.ID,
		Data:  models.NewMoveResponse(record),
	}, nil
}

func (h *Handler) handleEvaluateRequest(req *Incoming) (*Outgoing, error) {
	var reqData models.EvaluateRequest
	if err := json.Unmarshal(req.Data, &reqData); err != nil {
		return nil, fmt.Errorf("ws evaluate request unmarshal error: %w", err)
	}

	board, err := reqData.Validate()
	if err != nil {
		return nil, err
	}

	breakdown := h.services.Engine.Evaluator().Breakdown(board)

	return &Outgoing{
		Event: eventEvaluation,
		ID:    req.ID,
		Data:  models.NewEvaluateResponse(board, breakdown),
	}, nil
}
