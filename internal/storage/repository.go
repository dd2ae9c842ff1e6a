package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

// sortableTime keeps a fixed width so expiry comparisons can be done on text.
const sortableTime = "2006-01-02T15:04:05.000000000Z"

// Repository is sqlite-backed session storage. Entries expire ttl after their
// last write, which stands in for the end of a browsing session.
type Repository struct {
	db    *sql.DB
	ttl   time.Duration
	nowFn func() time.Time
}

func NewRepository(path string, ttl time.Duration) (*Repository, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}
	return &Repository{db: db, ttl: ttl, nowFn: time.Now}, nil
}

func (r *Repository) Close() error {
	if r == nil || r.db == nil {
		return nil
	}
	return r.db.Close()
}

// Init creates the schema and drops entries from expired sessions.
func (r *Repository) Init(ctx context.Context) error {
	const schema = `
CREATE TABLE IF NOT EXISTS session_entries (
  key TEXT PRIMARY KEY,
  value TEXT NOT NULL,
  expires_at TEXT NOT NULL
);
`
	if _, err := r.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, `DELETE FROM session_entries WHERE expires_at <= ?`, r.now()); err != nil {
		return fmt.Errorf("purge expired session entries: %w", err)
	}
	return nil
}

// CheckWritable performs a throwaway write so startup fails early on a
// read-only database path.
func (r *Repository) CheckWritable(ctx context.Context) error {
	const probe = "__write_probe__"
	if err := r.Set(ctx, probe, "1"); err != nil {
		return err
	}
	return r.Delete(ctx, probe)
}

func (r *Repository) Get(ctx context.Context, key string) (string, bool, error) {
	var value string
	err := r.db.QueryRowContext(ctx, `
SELECT value FROM session_entries
WHERE key = ? AND expires_at > ?
`, key, r.now()).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("get session entry %q: %w", key, err)
	}
	return value, true, nil
}

func (r *Repository) Set(ctx context.Context, key, value string) error {
	expiresAt := r.nowFn().Add(r.ttl).UTC().Format(sortableTime)
	_, err := r.db.ExecContext(ctx, `
INSERT INTO session_entries (key, value, expires_at)
VALUES (?, ?, ?)
ON CONFLICT(key) DO UPDATE SET
  value=excluded.value,
  expires_at=excluded.expires_at
`, key, value, expiresAt)
	if err != nil {
		return fmt.Errorf("set session entry %q: %w", key, err)
	}
	return nil
}

func (r *Repository) Delete(ctx context.Context, key string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM session_entries WHERE key = ?`, key); err != nil {
		return fmt.Errorf("delete session entry %q: %w", key, err)
	}
	return nil
}

func (r *Repository) now() string {
	return r.nowFn().UTC().Format(sortableTime)
}
