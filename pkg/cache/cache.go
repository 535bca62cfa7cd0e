package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"mercator-hq/symc/pkg/config"
)

// Key identifies one conversion.
type Key struct {
	// Expression is the input text as given.
	Expression string

	// Options fingerprints the settings that affect the output.
	Options string
}

// NewKey returns the key for expression converted under options.
func NewKey(expression, options string) Key {
	return Key{Expression: expression, Options: options}
}

// Hash returns the hex SHA-256 of the key. It is the lookup column.
func (k Key) Hash() string {
	h := sha256.New()
	h.Write([]byte(k.Options))
	h.Write([]byte{0})
	h.Write([]byte(k.Expression))
	return hex.EncodeToString(h.Sum(nil))
}

// Entry is a cached conversion.
type Entry struct {
	ID         string    `json:"id" yaml:"id"`
	Hash       string    `json:"hash" yaml:"hash"`
	Expression string    `json:"expression" yaml:"expression"`
	Options    string    `json:"options" yaml:"options"`
	Output     string    `json:"output" yaml:"output"`
	CreatedAt  time.Time `json:"created_at" yaml:"created_at"`
	LastUsed   time.Time `json:"last_used" yaml:"last_used"`
	Hits       int64     `json:"hits" yaml:"hits"`
}

// Stats summarizes a store.
type Stats struct {
	Backend string    `json:"backend" yaml:"backend"`
	Entries int64     `json:"entries" yaml:"entries"`
	Hits    int64     `json:"hits" yaml:"hits"`
	Oldest  time.Time `json:"oldest,omitzero" yaml:"oldest,omitempty"`
	Newest  time.Time `json:"newest,omitzero" yaml:"newest,omitempty"`
}

// Store is a conversion cache backend. Implementations are safe for
// concurrent use.
type Store interface {
	// Get returns the entry for key and marks it used.
	Get(ctx context.Context, key Key) (*Entry, bool, error)

	// Put stores output for key, replacing any previous output.
	Put(ctx context.Context, key Key, output string) (*Entry, error)

	// Stats returns entry counts and age bounds.
	Stats(ctx context.Context) (Stats, error)

	// Prune removes entries last used before olderThan (skipped when zero)
	// and then all but the maxEntries most recently used (skipped when
	// maxEntries <= 0). It returns the number of entries removed.
	Prune(ctx context.Context, olderThan time.Time, maxEntries int) (int64, error)

	// Clear removes every entry and returns how many were removed.
	Clear(ctx context.Context) (int64, error)

	// Ping reports whether the backend is usable.
	Ping(ctx context.Context) error

	// Close releases the backend.
	Close() error
}

// Option configures a store.
type Option func(*options)

type options struct {
	now func() time.Time
}

// WithClock sets the time source used for CreatedAt and LastUsed.
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

func buildOptions(opts []Option) options {
	o := options{now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// Open opens the backend selected by cfg.Driver.
func Open(cfg *config.CacheConfig, opts ...Option) (Store, error) {
	switch cfg.Driver {
	case "memory":
		return NewMemoryStore(opts...), nil
	case DriverSQLite, DriverSQLite3:
		return NewSQLiteStore(SQLiteConfig{
			Driver:      cfg.Driver,
			Path:        cfg.Path,
			BusyTimeout: cfg.BusyTimeout,
		}, opts...)
	default:
		return nil, NewStorageError(cfg.Driver, "open", fmt.Errorf("unknown driver %q", cfg.Driver))
	}
}
