package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/lib/pq"
	"github.com/lk16/flippy-engine/internal/config"
	"github.com/lk16/flippy-engine/internal/models"
	"github.com/lk16/flippy-engine/internal/othello"
	"github.com/lk16/flippy-engine/internal/services"
	"github.com/redis/go-redis/v9"
)

const (
	searchKeyPrefix = "search:"
	resultKeyPrefix = "search_result:"
	depthStatsKey   = "search_depths"
	recentSearches  = 10
)

// ErrSearchNotFound is returned when no search matches a lookup.
var ErrSearchNotFound = errors.New("search not found")

// SearchRepository stores finished searches.
// Postgres logs every search, Redis keeps the best result per position with a TTL.
// Without Redis the in-memory cache is used instead.
type SearchRepository struct {
	services  *services.Services
	resultTTL time.Duration
}

// NewSearchRepository creates a new SearchRepository.
func NewSearchRepository(c *fiber.Ctx) *SearchRepository {
	services := c.Locals("services").(*services.Services) //nolint: errcheck
	cfg := c.Locals("config").(*config.ServerConfig)      //nolint: errcheck

	return NewSearchRepositoryFromServices(services, cfg.ResultTTL)
}

func NewSearchRepositoryFromServices(services *services.Services, resultTTL time.Duration) *SearchRepository {
	return &SearchRepository{
		services:  services,
		resultTTL: resultTTL,
	}
}

// SaveSearch stores a finished search.
func (repo *SearchRepository) SaveSearch(ctx context.Context, board othello.Board, record models.SearchRecord) error {
	if repo.services.Postgres != nil {
		if err := repo.insertSearch(ctx, record); err != nil {
			return err
		}
	}

	if repo.services.Redis == nil {
		repo.services.Cache.Add(board, record)
		return nil
	}

	return repo.saveInRedis(ctx, board, record)
}

func (repo *SearchRepository) insertSearch(ctx context.Context, record models.SearchRecord) error {
	pgConn := repo.services.Postgres

	query := `
		INSERT INTO searches
			(id, position, disc_count, time_limit, move, score, depth, nodes, elapsed, fallback, depth_moves, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`

	_, err := pgConn.ExecContext(ctx, query,
		record.ID,
		record.Position,
		record.DiscCount,
		record.TimeLimit,
		record.Move,
		record.Score,
		record.Depth,
		int64(record.Nodes), //nolint:gosec
		record.Elapsed,
		record.Fallback,
		pq.Array([]int(record.DepthMoves)),
		record.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("error inserting search: %w", err)
	}

	return nil
}

func (repo *SearchRepository) saveInRedis(ctx context.Context, board othello.Board, record models.SearchRecord) error {
	redisConn := repo.services.Redis

	jsonData, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("error marshaling search: %w", err)
	}

	resultKey := resultKeyPrefix + board.String()

	previous, err := repo.getFromRedis(ctx, resultKey)
	if err != nil && !errors.Is(err, ErrSearchNotFound) {
		return err
	}

	pipe := redisConn.Pipeline()
	pipe.Set(ctx, searchKeyPrefix+record.ID, jsonData, repo.resultTTL)

	// Only replace the best known result with a deeper one.
	if errors.Is(err, ErrSearchNotFound) || record.Depth > previous.Depth {
		pipe.Set(ctx, resultKey, jsonData, repo.resultTTL)
	}

	pipe.HIncrBy(ctx, depthStatsKey, strconv.Itoa(record.Depth), 1)

	if _, err = pipe.Exec(ctx); err != nil {
		return fmt.Errorf("error storing search in Redis: %w", err)
	}

	return nil
}

func (repo *SearchRepository) getFromRedis(ctx context.Context, key string) (models.SearchRecord, error) {
	jsonData, err := repo.services.Redis.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return models.SearchRecord{}, ErrSearchNotFound
		}
		return models.SearchRecord{}, fmt.Errorf("error getting search from Redis: %w", err)
	}

	var record models.SearchRecord
	if err = json.Unmarshal(jsonData, &record); err != nil {
		return models.SearchRecord{}, fmt.Errorf("error unmarshaling search: %w", err)
	}

	return record, nil
}

// LookupResult returns the deepest known search for a board.
func (repo *SearchRepository) LookupResult(ctx context.Context, board othello.Board) (models.SearchRecord, error) {
	if repo.services.Redis == nil {
		record, ok := repo.services.Cache.Lookup(board)
		if !ok {
			return models.SearchRecord{}, ErrSearchNotFound
		}
		return record, nil
	}

	return repo.getFromRedis(ctx, resultKeyPrefix+board.String())
}

// GetSearch returns a search by id.
func (repo *SearchRepository) GetSearch(ctx context.Context, id string) (models.SearchRecord, error) {
	if repo.services.Redis == nil {
		if record, ok := repo.services.Cache.Get(id); ok {
			return record, nil
		}
	} else {
		record, err := repo.getFromRedis(ctx, searchKeyPrefix+id)
		if !errors.Is(err, ErrSearchNotFound) {
			return record, err
		}
	}

	// Redis entries expire, Postgres keeps everything.
	if repo.services.Postgres == nil {
		return models.SearchRecord{}, ErrSearchNotFound
	}

	records, err := repo.LookupSearches(ctx, []string{id})
	if err != nil {
		return models.SearchRecord{}, err
	}

	if len(records) == 0 {
		return models.SearchRecord{}, ErrSearchNotFound
	}

	return records[0], nil
}

// LookupSearches looks up searches for the given ids. Unknown ids are skipped.
func (repo *SearchRepository) LookupSearches(ctx context.Context, ids []string) ([]models.SearchRecord, error) {
	if repo.services.Postgres == nil {
		records := make([]models.SearchRecord, 0, len(ids))
		for _, id := range ids {
			record, err := repo.GetSearch(ctx, id)
			if errors.Is(err, ErrSearchNotFound) {
				continue
			}
			if err != nil {
				return nil, err
			}
			records = append(records, record)
		}
		return records, nil
	}

	pgConn := repo.services.Postgres

	query := `
		SELECT id, position, disc_count, time_limit, move, score, depth, nodes, elapsed, fallback, depth_moves, created_at
		FROM searches
		WHERE id::text = ANY($1)
		ORDER BY created_at DESC
	`

	rows, err := pgConn.QueryxContext(ctx, query, pq.Array(ids))
	if err != nil {
		return nil, fmt.Errorf("error looking up searches: %w", err)
	}
	defer rows.Close()

	records := make([]models.SearchRecord, 0)

	for rows.Next() {
		var record models.SearchRecord
		err = rows.StructScan(&record)
		if err != nil {
			return nil, fmt.Errorf("error scanning searches: %w", err)
		}
		records = append(records, record)
	}

	return records, rows.Err()
}

// GetSearchStats returns the depth histogram and the most recent searches.
func (repo *SearchRepository) GetSearchStats(ctx context.Context) (models.SearchStats, error) {
	if repo.services.Redis == nil {
		return repo.services.Cache.Stats(recentSearches), nil
	}

	depths, err := repo.getDepthStats(ctx)
	if err != nil {
		return models.SearchStats{}, err
	}

	stats := models.SearchStats{
		Depths: depths,
		Recent: make([]models.SearchRecord, 0),
	}

	for _, depth := range depths {
		stats.Total += depth.Count
	}

	if repo.services.Postgres != nil {
		query := `
			SELECT id, position, disc_count, time_limit, move, score, depth, nodes, elapsed, fallback, depth_moves, created_at
			FROM searches
			ORDER BY created_at DESC
			LIMIT $1
		`

		if err = repo.services.Postgres.SelectContext(ctx, &stats.Recent, query, recentSearches); err != nil {
			return models.SearchStats{}, fmt.Errorf("error loading recent searches: %w", err)
		}
	}

	return stats, nil
}

func (repo *SearchRepository) getDepthStats(ctx context.Context) ([]models.DepthStats, error) {
	redisConn := repo.services.Redis

	counts, err := redisConn.HGetAll(ctx, depthStatsKey).Result()
	if err != nil {
		return nil, fmt.Errorf("error getting depth stats from Redis: %w", err)
	}

	if len(counts) == 0 && repo.services.Postgres != nil {
		if err = repo.buildInitialDepthStats(ctx); err != nil {
			return nil, fmt.Errorf("error building initial depth stats: %w", err)
		}

		// Try reading from Redis again after building stats
		counts, err = redisConn.HGetAll(ctx, depthStatsKey).Result()
		if err != nil {
			return nil, fmt.Errorf("error getting depth stats from Redis after build: %w", err)
		}
	}

	depths := make([]models.DepthStats, 0, len(counts))

	for key, value := range counts {
		var depthStat models.DepthStats

		if depthStat.Depth, err = strconv.Atoi(key); err != nil {
			return nil, fmt.Errorf("error parsing depth stats key: %w", err)
		}

		if depthStat.Count, err = strconv.Atoi(value); err != nil {
			return nil, fmt.Errorf("error parsing depth stats value: %w", err)
		}

		depths = append(depths, depthStat)
	}

	slices.SortFunc(depths, func(a, b models.DepthStats) int {
		return a.Depth - b.Depth
	})

	return depths, nil
}

// buildInitialDepthStats fills the Redis depth histogram from Postgres.
func (repo *SearchRepository) buildInitialDepthStats(ctx context.Context) error {
	pgConn := repo.services.Postgres
	redisConn := repo.services.Redis

	query := `
		SELECT depth, count(*) AS count
		FROM searches
		GROUP BY depth
	`

	var depths []models.DepthStats
	if err := pgConn.SelectContext(ctx, &depths, query); err != nil {
		return fmt.Errorf("error loading depth stats: %w", err)
	}

	if len(depths) == 0 {
		return nil
	}

	statsMap := make(map[string]interface{}, len(depths))
	for _, depth := range depths {
		statsMap[strconv.Itoa(depth.Depth)] = depth.Count
	}

	if err := redisConn.HSet(ctx, depthStatsKey, statsMap).Err(); err != nil {
		return fmt.Errorf("error storing depth stats in Redis: %w", err)
	}

	return nil
}
