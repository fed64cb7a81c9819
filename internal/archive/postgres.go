// Package archive persists merged articles to Postgres. It is optional:
// the aggregator runs fully in memory when no database is configured.
package archive

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/newsweave/aggregator/internal/aggregate"
)

const upsertSQL = `
INSERT INTO articles (title, url, tokens)
VALUES ($1, $2, $3)
ON CONFLICT (title, url) DO UPDATE SET
	tokens = EXCLUDED.tokens, crawled_at = NOW()
`

// Store batch-upserts merged articles into the articles table.
type Store struct {
	pool *pgxpool.Pool
}

// Connect opens a connection pool against databaseURL and verifies it with
// a ping.
func Connect(ctx context.Context, databaseURL string) (*Store, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("connect: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping: %w", err)
	}
	return &Store{pool: pool}, nil
}

func (s *Store) Close() { s.pool.Close() }

// StoreBatch writes every entry in a single transaction.
func (s *Store) StoreBatch(ctx context.Context, entries []aggregate.IndexedArticle) error {
	if len(entries) == 0 {
		return nil
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	batch := &pgx.Batch{}
	for _, e := range entries {
		batch.Queue(upsertSQL, e.Article.Title, e.Article.URL, e.Tokens)
	}

	br := tx.SendBatch(ctx, batch)
	for i := 0; i < batch.Len(); i++ {
		if _, err := br.Exec(); err != nil {
			br.Close()
			return fmt.Errorf("batch exec %d: %w", i, err)
		}
	}
	br.Close()

	return tx.Commit(ctx)
}
