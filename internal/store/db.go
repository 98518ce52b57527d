package store

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
)

// ErrNoDatabaseURL is returned when DATABASE_URL is not set after loading
// the env files.
var ErrNoDatabaseURL = errors.New("DATABASE_URL environment variable not set")

// DatabaseURL loads the given env files, in order, and returns DATABASE_URL.
// Files that do not exist are skipped. Variables already present in the
// environment are never overridden, so earlier files win over later ones.
func DatabaseURL(envFiles ...string) (string, error) {
	for _, f := range envFiles {
		if _, err := os.Stat(f); err != nil {
			continue
		}
		if err := godotenv.Load(f); err != nil {
			return "", fmt.Errorf("failed to load %s: %w", f, err)
		}
	}

	url := os.Getenv("DATABASE_URL")
	if url == "" {
		return "", ErrNoDatabaseURL
	}
	return url, nil
}

// Connect opens a connection pool and checks that the server answers.
func Connect(ctx context.Context, url string) (*pgxpool.Pool, error) {
	config, err := pgxpool.ParseConfig(url)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database config: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("unable to create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("unable to connect to database: %w", err)
	}

	return pool, nil
}
