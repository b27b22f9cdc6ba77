// Package sqlite implements the domain repositories on a single SQLite file.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"vitals/internal/domain"

	_ "modernc.org/sqlite"
)

// schemaVersion is stored in PRAGMA user_version.
const schemaVersion = 1

// DB wraps a *sql.DB and implements domain repository interfaces.
type DB struct {
	sql *sql.DB
	cal domain.Calendar
}

var _ domain.Store = (*DB)(nil)

// Open opens or creates the database at path and applies migrations.
func Open(path string, cal domain.Calendar) (*DB, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create db dir: %w", err)
		}
	}

	s, err := sql.Open("sqlite", dsn(path))
	if err != nil {
		return nil, err
	}
	// SQLite is single-writer; one connection serializes writes and id assignment.
	s.SetMaxOpenConns(1)
	s.SetMaxIdleConns(1)
	s.SetConnMaxLifetime(0)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.PingContext(ctx); err != nil {
		_ = s.Close()
		return nil, err
	}

	d := &DB{sql: s, cal: cal}
	if err := d.migrate(ctx); err != nil {
		_ = s.Close()
		return nil, err
	}
	return d, nil
}

// Close closes the underlying database connection.
func (d *DB) Close() error {
	return d.sql.Close()
}

func (d *DB) migrate(ctx context.Context) error {
	var version int
	if err := d.sql.QueryRowContext(ctx, `PRAGMA user_version;`).Scan(&version); err != nil {
		return fmt.Errorf("migrate: user_version: %w", err)
	}
	if version >= schemaVersion {
		return nil
	}

	stmts := []string{
		`CREATE TABLE IF NOT EXISTS weights (
			day TEXT PRIMARY KEY, -- YYYY-MM-DD in local time
			value REAL NOT NULL,
			unit TEXT NOT NULL CHECK(unit IN ('kg','lb')),
			recorded_at INTEGER NOT NULL -- unix nanoseconds
		);`,
		`CREATE TABLE IF NOT EXISTS water_events (
			id INTEGER PRIMARY KEY AUTOINCREMENT, -- AUTOINCREMENT: ids are never reused
			delta_liters REAL NOT NULL,
			occurred_at INTEGER NOT NULL -- unix nanoseconds
		);`,
		`CREATE INDEX IF NOT EXISTS idx_water_events_occurred_at ON water_events(occurred_at);`,
		fmt.Sprintf(`PRAGMA user_version = %d;`, schemaVersion),
	}

	for _, stmt := range stmts {
		if _, err := d.sql.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	return nil
}

// dsn builds a file: URI for path. The path is escaped so '?', '#' and '%'
// stay part of the file name.
func dsn(path string) string {
	u := url.URL{Path: filepath.ToSlash(filepath.Clean(path))}
	// busy_timeout waits on locks, WAL lets readers run during a write.
	return "file:" + u.EscapedPath() +
		"?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&_pragma=synchronous(NORMAL)&_pragma=foreign_keys(1)"
}

func toNanos(t time.Time) int64 {
	return t.UTC().UnixNano()
}

func fromNanos(n int64) time.Time {
	return time.Unix(0, n).UTC()
}
