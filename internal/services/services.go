package services

import (
	"log/slog"

	"github.com/jmoiron/sqlx"
	"github.com/lk16/flippy-engine/internal/config"
	"github.com/lk16/flippy-engine/internal/models"
	"github.com/lk16/flippy-engine/internal/search"
	"github.com/redis/go-redis/v9"
)

// Services contains the engine and the connections to the external services.
type Services struct {
	Engine *search.Engine

	// Postgres and Redis are nil when not configured.
	Postgres *sqlx.DB
	Redis    *redis.Client

	// Cache replaces Redis when it is not configured.
	Cache *models.Cache
}

func InitServices(cfg *config.ServerConfig) (*Services, error) {
	engine, err := cfg.Engine.NewEngine()
	if err != nil {
		return nil, err
	}

	services := &Services{
		Engine: engine,
		Cache:  models.NewCache(),
	}

	if cfg.PostgresURL != "" {
		services.Postgres, err = InitPostgres(cfg.PostgresURL)
		if err != nil {
			return nil, err
		}
	} else {
		slog.Warn("Postgres is not configured, searches will not be logged")
	}

	if cfg.RedisURL != "" {
		services.Redis, err = InitRedis(cfg.RedisURL)
		if err != nil {
			return nil, err
		}
	} else {
		slog.Warn("Redis is not configured, keeping search results in memory")
	}

	return services, nil
}

// Close closes the connections to the external services.
func (s *Services) Close() error {
	if s.Redis != nil {
		if err := s.Redis.Close(); err != nil {
			return err
		}
	}

	if s.Postgres != nil {
		return s.Postgres.Close()
	}

	return nil
}
