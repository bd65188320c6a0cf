package api

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/lk16/flippy-engine/internal/models"
	"github.com/lk16/flippy-engine/internal/othello"
	"github.com/lk16/flippy-engine/internal/repository"
)

// GetSearch returns a stored search.
func GetSearch(c *fiber.Ctx) error {
	id := c.Params("id")
	if _, err := uuid.Parse(id); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid search id",
		})
	}

	repo := repository.NewSearchRepository(c)
	record, err := repo.GetSearch(c.Context(), id)
	if err != nil {
		return searchError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(record)
}

// LookupSearches handles search lookup requests.
func LookupSearches(c *fiber.Ctx) error {
	var payload models.LookupSearchesPayload
	if err := c.BodyParser(&payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	if err := payload.Validate(); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	repo := repository.NewSearchRepository(c)
	records, err := repo.LookupSearches(c.Context(), payload.IDs)
	if err != nil {
		return searchError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(records)
}

// GetPositionResult returns the deepest stored search for a position.
func GetPositionResult(c *fiber.Ctx) error {
	board, err := othello.NewBoardFromString(c.Params("position"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	repo := repository.NewSearchRepository(c)
	record, err := repo.LookupResult(c.Context(), board)
	if err != nil {
		return searchError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(models.NewMoveResponse(record))
}

// GetSearchStats returns statistics about the searches.
func GetSearchStats(c *fiber.Ctx) error {
	repo := repository.NewSearchRepository(c)
	stats, err := repo.GetSearchStats(c.Context())
	if err != nil {
		return searchError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(stats)
}

func searchError(c *fiber.Ctx, err error) error {
	if errors.Is(err, repository.ErrSearchNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"error": err.Error(),
	})
}
