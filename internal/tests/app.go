package tests

import (
	"bytes"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/lk16/flippy-engine/internal"
	"github.com/lk16/flippy-engine/internal/config"
	"github.com/lk16/flippy-engine/internal/models"
	"github.com/lk16/flippy-engine/internal/search"
	"github.com/lk16/flippy-engine/internal/services"
	"github.com/stretchr/testify/require"
)

const (
	TestToken    = "test-token"
	TestUsername = "test-user"
	TestPassword = "test-pass"
)

// NewTestApp creates an app without Redis and Postgres, searches are kept in memory.
func NewTestApp(t *testing.T) *fiber.App {
	t.Helper()

	engineCfg := config.LoadEngineConfig()
	engineCfg.TimeLimit = 0.1

	cfg := &config.ServerConfig{
		BasicAuthUsername: TestUsername,
		BasicAuthPassword: TestPassword,
		Token:             TestToken,
		MaxTimeLimit:      2,
		ResultTTL:         config.DefaultResultTTL,
		Engine:            engineCfg,
	}

	engine, err := search.NewEngine(engineCfg.SearchConfig())
	require.NoError(t, err)

	return internal.BuildApp(cfg, &services.Services{
		Engine: engine,
		Cache:  models.NewCache(),
	})
}

// NewRequest creates an authenticated request with an optional JSON body.
func NewRequest(t *testing.T, method, url string, body interface{}) *http.Request {
	t.Helper()

	var buffer bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buffer).Encode(body))
	}

	req, err := http.NewRequest(method, url, &buffer)
	require.NoError(t, err)

	req.Header.Set("x-token", TestToken)
	req.Header.Set("Content-Type", "application/json")

	return req
}

// Do sends a request to the app and decodes the JSON response into target if it is not nil.
func Do(t *testing.T, app *fiber.App, req *http.Request, target interface{}) int {
	t.Helper()

	// Searches may take up to the max time limit of the test app.
	resp, err := app.Test(req, 5000)
	require.NoError(t, err)

	defer resp.Body.Close()

	if target != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(target))
	}

	return resp.StatusCode
}
