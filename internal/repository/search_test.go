package repository

import (
	"context"
	"math/rand"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/lk16/flippy-engine/internal/models"
	"github.com/lk16/flippy-engine/internal/othello"
	"github.com/lk16/flippy-engine/internal/search"
	"github.com/lk16/flippy-engine/internal/services"
	"github.com/stretchr/testify/require"
)

func newTestRecord(t *testing.T, board othello.Board, depth int) models.SearchRecord {
	t.Helper()

	iterations := make([]search.Iteration, depth)
	for i := range iterations {
		iterations[i] = search.Iteration{Depth: i + 1, Move: board.LegalMoves()[0]}
	}

	record := models.NewSearchRecord(board, 1, search.Result{
		Move:       board.LegalMoves()[0],
		Depth:      depth,
		Iterations: iterations,
	})
	require.NoError(t, record.Validate())
	return record
}

func newMemoryRepository() *SearchRepository {
	return NewSearchRepositoryFromServices(&services.Services{Cache: models.NewCache()}, time.Hour)
}

func TestSearchRepositoryMemory(t *testing.T) {
	ctx := context.Background()
	repo := newMemoryRepository()
	board := othello.NewBoardStart()

	_, err := repo.LookupResult(ctx, board)
	require.ErrorIs(t, err, ErrSearchNotFound)

	deep := newTestRecord(t, board, 4)
	shallow := newTestRecord(t, board, 2)

	require.NoError(t, repo.SaveSearch(ctx, board, deep))
	require.NoError(t, repo.SaveSearch(ctx, board, shallow))

	best, err := repo.LookupResult(ctx, board)
	require.NoError(t, err)
	require.Equal(t, deep.ID, best.ID)

	found, err := repo.GetSearch(ctx, shallow.ID)
	require.NoError(t, err)
	require.Equal(t, shallow, found)

	_, err = repo.GetSearch(ctx, uuid.New().String())
	require.ErrorIs(t, err, ErrSearchNotFound)

	records, err := repo.LookupSearches(ctx, []string{deep.ID, uuid.New().String(), shallow.ID})
	require.NoError(t, err)
	require.Len(t, records, 2)

	stats, err := repo.GetSearchStats(ctx)
	require.NoError(t, err)
	require.Equal(t, 2, stats.Total)
	require.Equal(t, []models.DepthStats{{Depth: 2, Count: 1}, {Depth: 4, Count: 1}}, stats.Depths)
}

// TestSearchRepositoryExternal runs against real services when they are configured.
func TestSearchRepositoryExternal(t *testing.T) {
	redisURL := os.Getenv("FLIPPY_TEST_REDIS_URL")
	postgresURL := os.Getenv("FLIPPY_TEST_POSTGRES_URL")

	if redisURL == "" || postgresURL == "" {
		t.Skip("FLIPPY_TEST_REDIS_URL and FLIPPY_TEST_POSTGRES_URL are not set")
	}

	redisClient, err := services.InitRedis(redisURL)
	require.NoError(t, err)

	postgres, err := services.InitPostgres(postgresURL)
	require.NoError(t, err)

	svc := &services.Services{Redis: redisClient, Postgres: postgres, Cache: models.NewCache()}
	defer svc.Close()

	ctx := context.Background()
	repo := NewSearchRepositoryFromServices(svc, time.Minute)

	// Use a random reachable position so runs don't share a best result.
	position, err := othello.NewPositionRandom(rand.New(rand.NewSource(time.Now().UnixNano())), 20)
	require.NoError(t, err)
	board := othello.NewBoard(position, othello.BLACK)
	if !board.HasMoves() {
		t.Skip("random position has no moves")
	}

	shallow := newTestRecord(t, board, 1)
	deep := newTestRecord(t, board, 3)

	require.NoError(t, repo.SaveSearch(ctx, board, shallow))
	require.NoError(t, repo.SaveSearch(ctx, board, deep))

	best, err := repo.LookupResult(ctx, board)
	require.NoError(t, err)
	require.Equal(t, deep.ID, best.ID)

	found, err := repo.GetSearch(ctx, shallow.ID)
	require.NoError(t, err)
	require.Equal(t, shallow.Position, found.Position)

	records, err := repo.LookupSearches(ctx, []string{shallow.ID, deep.ID})
	require.NoError(t, err)
	require.Len(t, records, 2)
	require.Equal(t, deep.DepthMoves, records[0].DepthMoves)

	stats, err := repo.GetSearchStats(ctx)
	require.NoError(t, err)
	require.GreaterOrEqual(t, stats.Total, 2)
	require.NotEmpty(t, stats.Recent)
}
