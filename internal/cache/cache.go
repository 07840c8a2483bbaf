// Package cache provides a sqlite-backed store of accepted search matches.
//
// The matcher consults it before running the query cascade, so repeated
// conversions of overlapping playlists skip redundant search calls. It stores
// only track-to-candidate resolutions, never conversion history.
package cache

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/abhiiee-sharma/yt-spotify/internal/metrics"
	"github.com/abhiiee-sharma/yt-spotify/internal/models"
	"github.com/abhiiee-sharma/yt-spotify/internal/shared"
	_ "github.com/mattn/go-sqlite3"
)

const schema = `
CREATE TABLE IF NOT EXISTS search_matches (
	key         TEXT PRIMARY KEY,
	uri         TEXT NOT NULL,
	title       TEXT NOT NULL,
	artists     TEXT NOT NULL,
	duration_ms INTEGER NOT NULL,
	preview_url TEXT NOT NULL DEFAULT '',
	score       REAL NOT NULL,
	created_at  TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);
`

// SearchCache implements the matcher's cache store on sqlite.
type SearchCache struct {
	db *sql.DB
}

// Open opens (or creates) the cache database at path and bootstraps its
// schema. The path can be ":memory:" for an in-memory cache.
func Open(path string, maxOpenConns, maxIdleConns int) (*SearchCache, error) {
	if path == "" {
		return nil, fmt.Errorf("%w: no cache path configured", shared.ErrCacheUnavailable)
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to open database: %v", shared.ErrCacheUnavailable, err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: failed to ping database: %v", shared.ErrCacheUnavailable, err)
	}

	if maxOpenConns > 0 {
		db.SetMaxOpenConns(maxOpenConns)
	}
	if maxIdleConns > 0 {
		db.SetMaxIdleConns(maxIdleConns)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: failed to create schema: %v", shared.ErrCacheUnavailable, err)
	}

	return &SearchCache{db: db}, nil
}

// Close releases the underlying database handle.
func (c *SearchCache) Close() error {
	return c.db.Close()
}

// Get retrieves a previously accepted match for the given key.
func (c *SearchCache) Get(ctx context.Context, key string) (*models.MatchResult, bool, error) {
	row := c.db.QueryRowContext(ctx,
		`SELECT uri, title, artists, duration_ms, preview_url, score FROM search_matches WHERE key = ?`, key)

	var (
		result      models.MatchResult
		artistsJSON string
	)
	err := row.Scan(
		&result.Candidate.URI,
		&result.Candidate.Title,
		&artistsJSON,
		&result.Candidate.DurationMS,
		&result.Candidate.PreviewURL,
		&result.Score,
	)
	if errors.Is(err, sql.ErrNoRows) {
		metrics.CacheMisses.Inc()
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to read cache entry: %w", err)
	}

	if err := json.Unmarshal([]byte(artistsJSON), &result.Candidate.Artists); err != nil {
		return nil, false, fmt.Errorf("failed to decode cached artists: %w", err)
	}

	metrics.CacheHits.Inc()
	return &result, true, nil
}

// Put stores an accepted match under the given key, replacing any prior entry.
func (c *SearchCache) Put(ctx context.Context, key string, result models.MatchResult) error {
	artistsJSON, err := json.Marshal(result.Candidate.Artists)
	if err != nil {
		return fmt.Errorf("failed to encode artists: %w", err)
	}

	_, err = c.db.ExecContext(ctx,
		`INSERT INTO search_matches (key, uri, title, artists, duration_ms, preview_url, score)
		 VALUES (?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET
			uri = excluded.uri,
			title = excluded.title,
			artists = excluded.artists,
			duration_ms = excluded.duration_ms,
			preview_url = excluded.preview_url,
			score = excluded.score`,
		key,
		result.Candidate.URI,
		result.Candidate.Title,
		string(artistsJSON),
		result.Candidate.DurationMS,
		result.Candidate.PreviewURL,
		result.Score,
	)
	if err != nil {
		return fmt.Errorf("failed to write cache entry: %w", err)
	}

	return nil
}
