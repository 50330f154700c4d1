// Package cache stores compiled bundles in a local sqlite database, keyed
// by a fingerprint of the unit's source text plus a fingerprint of the
// host's native catalog. A changed host registration set invalidates every
// entry it compiled.
package cache

import (
	"bytes"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/cespare/xxhash/v2"
	_ "modernc.org/sqlite"

	"github.com/quillscript/quill/internal/bundle"
)

// ErrMiss indicates no cached bundle exists for the key.
var ErrMiss = errors.New("cache miss")

// Cache is a sqlite-backed bundle store. Safe for concurrent use.
type Cache struct {
	db *sql.DB
	mu sync.Mutex
}

// Fingerprint hashes source text into a cache key component.
func Fingerprint(data []byte) uint64 {
	return xxhash.Sum64(data)
}

// Open opens (creating if needed) the cache database at path.
func Open(path string) (*Cache, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating cache directory: %w", err)
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening cache database: %w", err)
	}
	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("setting busy timeout: %w", err)
	}
	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS bundles (
		source_fp INTEGER NOT NULL,
		engine_fp INTEGER NOT NULL,
		build_id  TEXT NOT NULL,
		data      BLOB NOT NULL,
		PRIMARY KEY (source_fp, engine_fp)
	)`); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating bundles table: %w", err)
	}
	return &Cache{db: db}, nil
}

// Close closes the underlying database.
func (c *Cache) Close() error {
	if c.db != nil {
		return c.db.Close()
	}
	return nil
}

// Put stores a bundle under (sourceFP, engineFP), replacing any previous
// entry for the key.
func (c *Cache) Put(sourceFP, engineFP uint64, b *bundle.Bundle) error {
	var buf bytes.Buffer
	if err := b.Encode(&buf); err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	_, err := c.db.Exec(
		"INSERT OR REPLACE INTO bundles (source_fp, engine_fp, build_id, data) VALUES (?, ?, ?, ?)",
		int64(sourceFP), int64(engineFP), b.BuildID, buf.Bytes(),
	)
	if err != nil {
		return fmt.Errorf("storing bundle %s: %w", b.Source, err)
	}
	return nil
}

// Get loads the bundle stored under (sourceFP, engineFP), or ErrMiss.
func (c *Cache) Get(sourceFP, engineFP uint64) (*bundle.Bundle, error) {
	var data []byte
	err := c.db.QueryRow(
		"SELECT data FROM bundles WHERE source_fp = ? AND engine_fp = ?",
		int64(sourceFP), int64(engineFP),
	).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrMiss
	}
	if err != nil {
		return nil, fmt.Errorf("querying bundle: %w", err)
	}
	return bundle.Decode(bytes.NewReader(data))
}

// Clear removes every cached bundle.
func (c *Cache) Clear() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, err := c.db.Exec("DELETE FROM bundles"); err != nil {
		return fmt.Errorf("clearing cache: %w", err)
	}
	return nil
}

// Stats reports the entry count and total stored bytes.
func (c *Cache) Stats() (entries int64, size int64, err error) {
	err = c.db.QueryRow("SELECT COUNT(*), COALESCE(SUM(LENGTH(data)), 0) FROM bundles").Scan(&entries, &size)
	if err != nil {
		return 0, 0, fmt.Errorf("reading cache stats: %w", err)
	}
	return entries, size, nil
}
