// Package cache stores the last successful list payloads so pages can still
// show data when the API is unreachable.
package cache

import (
	"context"
	"database/sql"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/pressly/goose/v3"
	"github.com/proptic/proptic/internal/csync"
	_ "modernc.org/sqlite"
)

//go:embed migrations/*.sql
var migrations embed.FS

var (
	// ErrMiss is returned by [Store.Get] when no snapshot exists.
	ErrMiss = errors.New("cache: miss")
	// ErrOwnerChanged is returned by [Store.Put] when the owner it was
	// given is no longer the signed in user.
	ErrOwnerChanged = errors.New("cache: owner changed")
)

// Snapshot keys.
const (
	KeyUnits    = "units"
	KeyTenants  = "tenants"
	KeyProjects = "projects"
)

// Store is a snapshot store on SQLite.
type Store struct {
	db *sql.DB
	// owner scopes snapshots to the signed in user. It is set from the UI
	// while commands read and write snapshots.
	owner *csync.Value[string]
	// mu orders owner checked writes against Clear.
	mu  sync.Mutex
	now func() time.Time
}

// Open opens the store at path, creating it and running migrations as
// needed.
func Open(ctx context.Context, path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}
	db, err := sql.Open("sqlite", "file:"+path+"?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)")
	if err != nil {
		return nil, fmt.Errorf("failed to open cache: %w", err)
	}
	db.SetMaxOpenConns(1)
	if err := migrate(ctx, db); err != nil {
		db.Close()
		return nil, err
	}
	return &Store{db: db, owner: csync.NewValue(""), now: time.Now}, nil
}

func newMigrator(db *sql.DB) (*goose.Provider, error) {
	fsys, err := fs.Sub(migrations, "migrations")
	if err != nil {
		return nil, err
	}
	p, err := goose.NewProvider(goose.DialectSQLite3, db, fsys)
	if err != nil {
		return nil, fmt.Errorf("failed to load cache migrations: %w", err)
	}
	return p, nil
}

func migrate(ctx context.Context, db *sql.DB) error {
	p, err := newMigrator(db)
	if err != nil {
		return err
	}
	results, err := p.Up(ctx)
	if err != nil {
		return fmt.Errorf("failed to migrate cache: %w", err)
	}
	for _, r := range results {
		slog.Debug("Applied cache migration", "version", r.Source.Version, "took", r.Duration)
	}
	return nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// SetOwner records the signed in user. Writes for any other owner are
// refused from then on.
func (s *Store) SetOwner(owner string) {
	s.owner.Set(owner)
}

// Owner returns the signed in user. Callers capture it before starting a
// request and pass it to [Store.Put] and [Store.Get] afterwards.
func (s *Store) Owner() string {
	return s.owner.Get()
}

// Put stores v as the snapshot of key for owner. It returns
// [ErrOwnerChanged] when owner has signed out in the meantime.
func (s *Store) Put(ctx context.Context, owner, key string, v any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if owner != s.owner.Get() {
		return ErrOwnerChanged
	}
	payload, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode snapshot %s: %w", key, err)
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO snapshots (key, owner, payload, updated_at) VALUES (?, ?, ?, ?)
		ON CONFLICT (key) DO UPDATE SET owner = excluded.owner, payload = excluded.payload, updated_at = excluded.updated_at`,
		scoped(owner, key), owner, payload, s.now().Unix())
	if err != nil {
		return fmt.Errorf("failed to store snapshot %s: %w", key, err)
	}
	slog.Debug("Stored snapshot", "key", key, "bytes", len(payload))
	return nil
}

// Get decodes the snapshot of key for owner into out and returns when it
// was stored.
func (s *Store) Get(ctx context.Context, owner, key string, out any) (time.Time, error) {
	var payload []byte
	var updated int64
	err := s.db.QueryRowContext(ctx,
		`SELECT payload, updated_at FROM snapshots WHERE key = ?`, scoped(owner, key),
	).Scan(&payload, &updated)
	if errors.Is(err, sql.ErrNoRows) {
		return time.Time{}, ErrMiss
	}
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to read snapshot %s: %w", key, err)
	}
	if err := json.Unmarshal(payload, out); err != nil {
		return time.Time{}, fmt.Errorf("failed to decode snapshot %s: %w", key, err)
	}
	return time.Unix(updated, 0), nil
}

// Clear removes every snapshot, for all owners.
func (s *Store) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := s.db.ExecContext(ctx, `DELETE FROM snapshots`); err != nil {
		return fmt.Errorf("failed to clear cache: %w", err)
	}
	return nil
}

func scoped(owner, key string) string {
	if owner == "" {
		return key
	}
	return owner + ":" + key
}
