package api

import (
	"github.com/gofiber/fiber/v2"
	"github.com/lk16/flippy-engine/internal/middleware"
)

// SetupRoutes sets up the API routes.
func SetupRoutes(app *fiber.App) {
	apiGroup := app.Group("/api", middleware.AuthOrToken())

	// Engine routes
	apiGroup.Post("/move", ChooseMove)
	apiGroup.Post("/evaluate", Evaluate)

	// Search routes
	apiGroup.Get("/searches/stats", GetSearchStats)
	apiGroup.Post("/searches/lookup", LookupSearches)
	apiGroup.Get("/searches/:id", GetSearch)
	apiGroup.Get("/positions/:position/result", GetPositionResult)
}
