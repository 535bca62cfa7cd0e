package cache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
	_ "modernc.org/sqlite" // SQLite driver
)

// Driver names accepted by SQLiteConfig.
const (
	DriverSQLite  = "sqlite"  // modernc.org/sqlite
	DriverSQLite3 = "sqlite3" // github.com/mattn/go-sqlite3
)

// SQLiteConfig contains configuration for the SQLite backend.
type SQLiteConfig struct {
	// Driver is DriverSQLite or DriverSQLite3.
	// Default: DriverSQLite
	Driver string

	// Path is the database file path. Parent directories are created.
	Path string

	// BusyTimeout is the duration to wait when the database is locked.
	// Default: 5 seconds
	BusyTimeout time.Duration
}

// SQLiteStore implements Store on SQLite.
type SQLiteStore struct {
	db     *sql.DB
	config SQLiteConfig
	now    func() time.Time

	closeOnce sync.Once
}

// NewSQLiteStore opens (creating if needed) the cache database.
func NewSQLiteStore(cfg SQLiteConfig, opts ...Option) (*SQLiteStore, error) {
	if cfg.Driver == "" {
		cfg.Driver = DriverSQLite
	}
	if cfg.BusyTimeout == 0 {
		cfg.BusyTimeout = 5 * time.Second
	}
	if cfg.Path == "" {
		return nil, NewStorageError(cfg.Driver, "open", errors.New("db path cannot be empty"))
	}

	if dir := filepath.Dir(cfg.Path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, NewStorageError(cfg.Driver, "open", err)
		}
	}

	db, err := sql.Open(cfg.Driver, cfg.Path)
	if err != nil {
		return nil, NewStorageError(cfg.Driver, "open", err)
	}

	// One connection keeps the pragmas in effect and serializes writers.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	s := &SQLiteStore{
		db:     db,
		config: cfg,
		now:    buildOptions(opts).now,
	}

	if err := s.initialize(); err != nil {
		db.Close()
		return nil, err
	}

	return s, nil
}

// initialize sets pragmas, creates the schema and checks its version.
func (s *SQLiteStore) initialize() error {
	if _, err := s.db.Exec("PRAGMA journal_mode=WAL;"); err != nil {
		return s.fail("enable_wal", err)
	}
	if _, err := s.db.Exec(fmt.Sprintf("PRAGMA busy_timeout=%d;", s.config.BusyTimeout.Milliseconds())); err != nil {
		return s.fail("set_busy_timeout", err)
	}

	if _, err := s.db.Exec(Schema); err != nil {
		return s.fail("create_schema", err)
	}
	if _, err := s.db.Exec(InsertSchemaVersion, SchemaVersion); err != nil {
		return s.fail("insert_schema_version", err)
	}

	var version sql.NullInt64
	if err := s.db.QueryRow(GetSchemaVersion).Scan(&version); err != nil {
		return s.fail("get_schema_version", err)
	}
	if version.Int64 != SchemaVersion {
		return s.fail("schema_version_mismatch",
			fmt.Errorf("expected schema version %d, got %d", SchemaVersion, version.Int64))
	}

	return nil
}

func (s *SQLiteStore) fail(op string, err error) error {
	return NewStorageError(s.config.Driver, op, err)
}

// Get returns the entry for key and marks it used.
func (s *SQLiteStore) Get(ctx context.Context, key Key) (*Entry, bool, error) {
	hash := key.Hash()

	res, err := s.db.ExecContext(ctx, touchEntry, s.now().UnixNano(), hash)
	if err != nil {
		return nil, false, s.fail("get", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, false, nil
	}

	entry, err := s.load(ctx, hash)
	if err != nil {
		return nil, false, s.fail("get", err)
	}
	return entry, true, nil
}

// Put stores output for key, keeping the entry's ID and creation time
// when it already exists.
func (s *SQLiteStore) Put(ctx context.Context, key Key, output string) (*Entry, error) {
	hash := key.Hash()
	now := s.now().UnixNano()

	_, err := s.db.ExecContext(ctx, upsertEntry,
		uuid.NewString(), hash, key.Expression, key.Options, output, now, now,
	)
	if err != nil {
		return nil, s.fail("put", err)
	}

	entry, err := s.load(ctx, hash)
	if err != nil {
		return nil, s.fail("put", err)
	}
	return entry, nil
}

func (s *SQLiteStore) load(ctx context.Context, hash string) (*Entry, error) {
	var (
		entry             Entry
		created, lastUsed int64
	)
	err := s.db.QueryRowContext(ctx, selectEntry, hash).Scan(
		&entry.ID, &entry.Hash, &entry.Expression, &entry.Options, &entry.Output,
		&created, &lastUsed, &entry.Hits,
	)
	if err != nil {
		return nil, err
	}
	entry.CreatedAt = time.Unix(0, created)
	entry.LastUsed = time.Unix(0, lastUsed)
	return &entry, nil
}

// Stats summarizes the store.
func (s *SQLiteStore) Stats(ctx context.Context) (Stats, error) {
	stats := Stats{Backend: s.config.Driver}

	var oldest, newest int64
	err := s.db.QueryRowContext(ctx, statsQuery).Scan(&stats.Entries, &stats.Hits, &oldest, &newest)
	if err != nil {
		return Stats{}, s.fail("stats", err)
	}
	if stats.Entries > 0 {
		stats.Oldest = time.Unix(0, oldest)
		stats.Newest = time.Unix(0, newest)
	}
	return stats, nil
}

// Prune removes cold entries. See Store.Prune.
func (s *SQLiteStore) Prune(ctx context.Context, olderThan time.Time, maxEntries int) (int64, error) {
	var removed int64

	if !olderThan.IsZero() {
		res, err := s.db.ExecContext(ctx, pruneByAge, olderThan.UnixNano())
		if err != nil {
			return removed, s.fail("prune", err)
		}
		n, _ := res.RowsAffected()
		removed += n
	}

	if maxEntries > 0 {
		res, err := s.db.ExecContext(ctx, pruneByCount, maxEntries)
		if err != nil {
			return removed, s.fail("prune", err)
		}
		n, _ := res.RowsAffected()
		removed += n
	}

	return removed, nil
}

// Clear removes every entry.
func (s *SQLiteStore) Clear(ctx context.Context) (int64, error) {
	res, err := s.db.ExecContext(ctx, clearEntries)
	if err != nil {
		return 0, s.fail("clear", err)
	}
	n, _ := res.RowsAffected()
	return n, nil
}

// Ping checks the database connection.
func (s *SQLiteStore) Ping(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return s.fail("ping", err)
	}
	return nil
}

// Close closes the database. It is safe to call more than once.
func (s *SQLiteStore) Close() error {
	var err error
	s.closeOnce.Do(func() {
		err = s.db.Close()
	})
	return err
}

// Path returns the database file path.
func (s *SQLiteStore) Path() string {
	return s.config.Path
}
