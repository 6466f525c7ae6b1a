// Package cache provides an optional local retrieval cache so repeated
// questions do not burn search quota.
package cache

import (
	"context"
	"database/sql"
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/wonderben-code/honestgpt/internal/model"
)

// SQLiteCache stores retrieval batches in a local SQLite database.
type SQLiteCache struct {
	db  *sql.DB
	ttl time.Duration
}

// NewSQLite opens a SQLite database at the given path and configures WAL
// mode. Entries older than ttl are treated as misses.
func NewSQLite(dsn string, ttl time.Duration) (*SQLiteCache, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "cache: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "cache: exec %s", pragma)
		}
	}
	return &SQLiteCache{db: db, ttl: ttl}, nil
}

const migration = `
CREATE TABLE IF NOT EXISTS retrieval_cache (
	id         TEXT PRIMARY KEY,
	query      TEXT NOT NULL,
	batch      TEXT NOT NULL,
	created_at DATETIME NOT NULL DEFAULT (datetime('now')),
	expires_at DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_retrieval_cache_query ON retrieval_cache(query);
CREATE INDEX IF NOT EXISTS idx_retrieval_cache_expires_at ON retrieval_cache(expires_at);
`

func (c *SQLiteCache) Migrate(ctx context.Context) error {
	_, err := c.db.ExecContext(ctx, migration)
	return eris.Wrap(err, "cache: migrate")
}

func (c *SQLiteCache) Close() error {
	return c.db.Close()
}

// Get returns the cached batch for a query, or nil on a miss. Expired
// entries are misses.
func (c *SQLiteCache) Get(ctx context.Context, query string) (*model.RetrievalBatch, error) {
	row := c.db.QueryRowContext(ctx,
		`SELECT batch FROM retrieval_cache
		 WHERE query = ? AND expires_at > datetime('now')
		 ORDER BY created_at DESC LIMIT 1`,
		normalizeQuery(query),
	)

	var batchJSON string
	err := row.Scan(&batchJSON)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, eris.Wrap(err, "cache: get")
	}

	var batch model.RetrievalBatch
	if err := json.Unmarshal([]byte(batchJSON), &batch); err != nil {
		return nil, eris.Wrap(err, "cache: unmarshal batch")
	}
	return &batch, nil
}

// Put stores a batch for a query with the configured TTL.
func (c *SQLiteCache) Put(ctx context.Context, query string, batch *model.RetrievalBatch) error {
	batchJSON, err := json.Marshal(batch)
	if err != nil {
		return eris.Wrap(err, "cache: marshal batch")
	}

	now := time.Now().UTC()
	_, err = c.db.ExecContext(ctx,
		`INSERT INTO retrieval_cache (id, query, batch, created_at, expires_at) VALUES (?, ?, ?, ?, ?)`,
		uuid.New().String(), normalizeQuery(query), string(batchJSON), now, now.Add(c.ttl),
	)
	return eris.Wrap(err, "cache: put")
}

// DeleteExpired removes expired entries and returns how many were deleted.
func (c *SQLiteCache) DeleteExpired(ctx context.Context) (int, error) {
	res, err := c.db.ExecContext(ctx,
		`DELETE FROM retrieval_cache WHERE expires_at <= datetime('now')`,
	)
	if err != nil {
		return 0, eris.Wrap(err, "cache: delete expired")
	}
	n, err := res.RowsAffected()
	return int(n), eris.Wrap(err, "cache: rows affected")
}

// normalizeQuery keys the cache on a whitespace-collapsed, lowercased
// form so trivially restated questions hit the same entry.
func normalizeQuery(query string) string {
	return strings.Join(strings.Fields(strings.ToLower(query)), " ")
}
