package config

import (
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/lk16/flippy-engine/internal/evaluate"
	"github.com/lk16/flippy-engine/internal/search"
)

const (
	// DefaultTimeLimit is the time limit in seconds for a move when none is given.
	DefaultTimeLimit = 1.0

	// DefaultMaxTimeLimit caps the time limit a server request can ask for.
	DefaultMaxTimeLimit = 30.0

	// DefaultResultTTL is how long search results are kept in Redis.
	DefaultResultTTL = 24 * time.Hour
)

// ServerConfig holds all configuration values loaded from environment variables.
type ServerConfig struct {
	ServerHost        string
	ServerPort        string
	BasicAuthUsername string
	BasicAuthPassword string
	Token             string
	Prefork           bool

	// RedisURL and PostgresURL are optional, an empty value disables the service.
	RedisURL    string
	PostgresURL string

	ResultTTL    time.Duration
	MaxTimeLimit float64
	Engine       *EngineConfig
}

// LoadServerConfig loads configuration from environment variables.
func LoadServerConfig() *ServerConfig {
	return &ServerConfig{
		ServerHost:        getEnvMust("FLIPPY_ENGINE_SERVER_HOST"),
		ServerPort:        getEnvMust("FLIPPY_ENGINE_SERVER_PORT"),
		BasicAuthUsername: getEnvMust("FLIPPY_ENGINE_SERVER_BASIC_AUTH_USER"),
		BasicAuthPassword: getEnvMust("FLIPPY_ENGINE_SERVER_BASIC_AUTH_PASS"),
		Token:             getEnvMust("FLIPPY_ENGINE_SERVER_TOKEN"),
		Prefork:           getEnvBool("FLIPPY_ENGINE_SERVER_PREFORK", false),
		RedisURL:          os.Getenv("FLIPPY_REDIS_URL"),
		PostgresURL:       os.Getenv("FLIPPY_POSTGRES_URL"),
		ResultTTL:         getEnvDuration("FLIPPY_ENGINE_RESULT_TTL", DefaultResultTTL),
		MaxTimeLimit:      getEnvFloat("FLIPPY_ENGINE_SERVER_MAX_TIME_LIMIT", DefaultMaxTimeLimit),
		Engine:            LoadEngineConfig(),
	}
}

// EngineConfig holds the engine settings. Every field has a default.
type EngineConfig struct {
	Weights      evaluate.Weights
	SafetyMargin float64
	MaxDepth     int
	TimeLimit    float64
}

// LoadEngineConfig loads engine configuration from environment variables.
func LoadEngineConfig() *EngineConfig {
	defaults := evaluate.DefaultWeights()

	return &EngineConfig{
		Weights: evaluate.Weights{
			Corner:   getEnvFloat("FLIPPY_ENGINE_WEIGHT_CORNER", defaults.Corner),
			Stable:   getEnvFloat("FLIPPY_ENGINE_WEIGHT_STABLE", defaults.Stable),
			Mobility: getEnvFloat("FLIPPY_ENGINE_WEIGHT_MOBILITY", defaults.Mobility),
			Edge:     getEnvFloat("FLIPPY_ENGINE_WEIGHT_EDGE", defaults.Edge),
			Center:   getEnvFloat("FLIPPY_ENGINE_WEIGHT_CENTER", defaults.Center),
			Frontier: getEnvFloat("FLIPPY_ENGINE_WEIGHT_FRONTIER", defaults.Frontier),
			XSquare:  getEnvFloat("FLIPPY_ENGINE_WEIGHT_X_SQUARE", defaults.XSquare),
			CSquare:  getEnvFloat("FLIPPY_ENGINE_WEIGHT_C_SQUARE", defaults.CSquare),
			Terminal: getEnvFloat("FLIPPY_ENGINE_WEIGHT_TERMINAL", defaults.Terminal),
		},
		SafetyMargin: getEnvFloat("FLIPPY_ENGINE_SAFETY_MARGIN", search.DefaultSafetyMargin),
		MaxDepth:     getEnvInt("FLIPPY_ENGINE_MAX_DEPTH", search.DefaultMaxDepth),
		TimeLimit:    getEnvFloat("FLIPPY_ENGINE_TIME_LIMIT", DefaultTimeLimit),
	}
}

// SearchConfig converts the engine configuration to a search configuration.
func (c *EngineConfig) SearchConfig() search.Config {
	return search.Config{
		Weights:      c.Weights,
		SafetyMargin: c.SafetyMargin,
		MaxDepth:     c.MaxDepth,
	}
}

// NewEngine creates a search engine from the configuration.
func (c *EngineConfig) NewEngine() (*search.Engine, error) {
	return search.NewEngine(c.SearchConfig())
}

// getEnvMust either returns the environment variable or logs a fatal error if it is not set.
func getEnvMust(key string) string {
	value := os.Getenv(key)
	if value == "" {
		slog.Error("Environment variable is not set", "key", key)
		os.Exit(1)
	}
	return value
}

func getEnvBool(key string, fallback bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}

	if value != "true" && value != "false" {
		slog.Error("Cannot load environment variable, it must be \"true\" or \"false\"", "key", key, "value", value)
		os.Exit(1)
	}

	return value == "true"
}

func getEnvFloat(key string, fallback float64) float64 {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}

	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		slog.Error("Cannot load environment variable, it must be a number", "key", key, "value", value)
		os.Exit(1)
	}

	return parsed
}

func getEnvInt(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}

	parsed, err := strconv.Atoi(value)
	if err != nil {
		slog.Error("Cannot load environment variable, it must be an integer", "key", key, "value", value)
		os.Exit(1)
	}

	return parsed
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}

	parsed, err := time.ParseDuration(value)
	if err != nil {
		slog.Error("Cannot load environment variable, it must be a duration", "key", key, "value", value)
		os.Exit(1)
	}

	return parsed
}
