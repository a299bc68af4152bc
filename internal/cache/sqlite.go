package cache

import (
	"context"
	"database/sql"
	stderrors "errors"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"git.home.luguber.info/inful/scc/internal/foundation/errors"
)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db  *sql.DB
	mu  sync.RWMutex
	now func() time.Time
}

// NewSQLiteStore opens or creates the cache database at dbPath, creating
// parent directories. Use ":memory:" for a throwaway cache.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	if dbPath != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(dbPath), 0o750); err != nil {
			return nil, errors.WrapError(err, errors.CategoryCache, "create cache directory").
				WithContext("path", dbPath).
				Build()
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryCache, "open sqlite database").
			WithContext("path", dbPath).
			Build()
	}
	// A :memory: database exists per connection.
	db.SetMaxOpenConns(1)

	store := &SQLiteStore{db: db, now: time.Now}
	if err := store.initialize(); err != nil {
		_ = db.Close() // Best effort cleanup on initialization error
		return nil, errors.WrapError(err, errors.CategoryCache, "initialize cache schema").
			WithContext("path", dbPath).
			Build()
	}

	return store, nil
}

func (s *SQLiteStore) initialize() error {
	schema := `
	CREATE TABLE IF NOT EXISTS renders (
		fingerprint TEXT NOT NULL,
		target TEXT NOT NULL,
		settings TEXT NOT NULL,
		output TEXT NOT NULL,
		created_at INTEGER NOT NULL,
		PRIMARY KEY (fingerprint, target, settings)
	);
	CREATE INDEX IF NOT EXISTS idx_renders_created_at ON renders(created_at);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Get looks up a cached output.
func (s *SQLiteStore) Get(ctx context.Context, key Key) (Entry, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var e Entry
	var created int64
	err := s.db.QueryRowContext(ctx,
		"SELECT output, created_at FROM renders WHERE fingerprint = ? AND target = ? AND settings = ?",
		key.Fingerprint, key.Target, key.Settings,
	).Scan(&e.Output, &created)
	if stderrors.Is(err, sql.ErrNoRows) {
		return Entry{}, false, nil
	}
	if err != nil {
		return Entry{}, false, errors.CacheError("query render").WithCause(err).Build()
	}
	e.Key = key
	e.CreatedAt = time.Unix(created, 0)
	return e, true, nil
}

// Put stores output, replacing an existing entry for the same key.
func (s *SQLiteStore) Put(ctx context.Context, key Key, output string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO renders (fingerprint, target, settings, output, created_at) VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (fingerprint, target, settings) DO UPDATE SET output = excluded.output, created_at = excluded.created_at`,
		key.Fingerprint, key.Target, key.Settings, output, s.now().Unix(),
	)
	if err != nil {
		return errors.CacheError("insert render").WithCause(err).Build()
	}
	return nil
}

// Prune deletes entries created before olderThan and reports how many went.
func (s *SQLiteStore) Prune(ctx context.Context, olderThan time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, "DELETE FROM renders WHERE created_at < ?", olderThan.Unix())
	if err != nil {
		return 0, errors.CacheError("prune renders").WithCause(err).Build()
	}
	return res.RowsAffected()
}

// Stats counts entries and stored output bytes.
func (s *SQLiteStore) Stats(ctx context.Context) (Stats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var st Stats
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(*), COALESCE(SUM(LENGTH(CAST(output AS BLOB))), 0) FROM renders",
	).Scan(&st.Entries, &st.Bytes)
	if err != nil {
		return Stats{}, errors.CacheError("query stats").WithCause(err).Build()
	}
	return st, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.db.Close()
}
