package services

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

// schema creates the table every search is logged to.
const schema = `
	CREATE TABLE IF NOT EXISTS searches (
		id          UUID PRIMARY KEY,
		position    CHAR(65) NOT NULL,
		disc_count  INTEGER NOT NULL,
		time_limit  DOUBLE PRECISION NOT NULL,
		move        INTEGER NOT NULL,
		score       DOUBLE PRECISION NOT NULL,
		depth       INTEGER NOT NULL,
		nodes       BIGINT NOT NULL,
		elapsed     DOUBLE PRECISION NOT NULL,
		fallback    BOOLEAN NOT NULL,
		depth_moves INTEGER[] NOT NULL,
		created_at  TIMESTAMPTZ NOT NULL
	);

	CREATE INDEX IF NOT EXISTS searches_position_idx ON searches (position);
	CREATE INDEX IF NOT EXISTS searches_created_at_idx ON searches (created_at);
`

// InitPostgres initializes the database connection and creates the schema.
func InitPostgres(url string) (*sqlx.DB, error) {
	db, err := sqlx.Connect("postgres", url)
	if err != nil {
		return nil, fmt.Errorf("error connecting to database: %w", err)
	}

	// Test the connection
	if err = db.Ping(); err != nil {
		return nil, fmt.Errorf("error pinging database: %w", err)
	}

	if _, err = db.ExecContext(context.Background(), schema); err != nil {
		return nil, fmt.Errorf("error creating schema: %w", err)
	}

	return db, nil
}
