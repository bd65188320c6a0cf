package api

import (
	"errors"
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/lk16/flippy-engine/internal/config"
	"github.com/lk16/flippy-engine/internal/middleware"
	"github.com/lk16/flippy-engine/internal/models"
	"github.com/lk16/flippy-engine/internal/repository"
	"github.com/lk16/flippy-engine/internal/search"
	"github.com/lk16/flippy-engine/internal/services"
)

// ChooseMove runs a time limited search and stores the result.
func ChooseMove(c *fiber.Ctx) error {
	var req models.MoveRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	cfg := c.Locals("config").(*config.ServerConfig) //nolint: errcheck

	board, err := req.Validate(cfg.MaxTimeLimit)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	timeLimit := req.TimeLimit
	if timeLimit == 0 {
		timeLimit = cfg.Engine.TimeLimit
	}

	engine := c.Locals("services").(*services.Services).Engine //nolint: errcheck

	result, err := engine.Search(board, time.Duration(timeLimit*float64(time.Second)))
	if err != nil {
		var configErr *search.ConfigurationError
		if errors.As(err, &configErr) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": err.Error(),
			})
		}

		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	record := models.NewSearchRecord(board, timeLimit, result)
	c.Locals(middleware.SearchIDKey, record.ID)

	// The move is still returned when it could not be stored.
	repo := repository.NewSearchRepository(c)
	if err = repo.SaveSearch(c.Context(), board, record); err != nil {
		slog.Error("Failed to save search", "id", record.ID, "error", err)
	}

	return c.Status(fiber.StatusOK).JSON(models.NewMoveResponse(record))
}

// Evaluate returns the static evaluation of a position.
func Evaluate(c *fiber.Ctx) error {
	var req models.EvaluateRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	board, err := req.Validate()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	evaluator := c.Locals("services").(*services.Services).Engine.Evaluator() //nolint: errcheck

	return c.Status(fiber.StatusOK).JSON(models.NewEvaluateResponse(board, evaluator.Breakdown(board)))
}
