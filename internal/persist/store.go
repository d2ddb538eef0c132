package persist

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/gofrs/flock"
	_ "modernc.org/sqlite"

	"sawmill/internal/logging"
)

// ErrLocked is returned by Open when another process holds the database lock.
var ErrLocked = errors.New("level database is locked by another process")

const schema = `
CREATE TABLE IF NOT EXISTS channel_levels (
    name       TEXT PRIMARY KEY,
    level      TEXT NOT NULL,
    updated_at TEXT NOT NULL
)`

// Store manages channel-level persistence backed by SQLite. It satisfies the
// logging ConfiguratorPlugin contract: restores are consulted on channel
// registration, saves happen on every explicit level change.
type Store struct {
	db   *sql.DB
	path string
	lock *flock.Flock
}

// Open initializes or connects to the level database at path and acquires its
// file lock.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create level database directory: %w", err)
	}

	lock := flock.New(path + ".lock")
	ok, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire level database lock: %w", err)
	}
	if !ok {
		return nil, ErrLocked
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		_ = lock.Unlock()
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			_ = lock.Unlock()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		_ = lock.Unlock()
		return nil, fmt.Errorf("create channel_levels table: %w", err)
	}

	return &Store{db: db, path: path, lock: lock}, nil
}

// Close releases the database connection and the file lock.
func (s *Store) Close() error {
	if s == nil {
		return nil
	}
	var firstErr error
	if s.db != nil {
		firstErr = s.db.Close()
	}
	if s.lock != nil {
		if err := s.lock.Unlock(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// Path returns the database file path.
func (s *Store) Path() string { return s.path }

// RestoreChannelLevel reports the persisted level for a channel name.
func (s *Store) RestoreChannelLevel(name string) (logging.Level, bool) {
	row := s.db.QueryRow(`SELECT level FROM channel_levels WHERE name = ?`, name)
	var raw string
	if err := row.Scan(&raw); err != nil {
		return 0, false
	}
	level, ok := logging.ParseLevel(raw)
	if !ok {
		return 0, false
	}
	return level, true
}

// SaveChannelLevel records an explicit level change. Persistence is
// best-effort; a write failure leaves the previous value in place and the
// in-memory level still changed.
func (s *Store) SaveChannelLevel(name string, level logging.Level) {
	_, _ = s.db.Exec(
		`INSERT INTO channel_levels (name, level, updated_at) VALUES (?, ?, ?)
         ON CONFLICT(name) DO UPDATE SET level = excluded.level, updated_at = excluded.updated_at`,
		name,
		level.String(),
		time.Now().UTC().Format(time.RFC3339Nano),
	)
}

// SavedLevel is one persisted channel-level row.
type SavedLevel struct {
	Name      string
	Level     logging.Level
	UpdatedAt time.Time
}

// Levels returns every persisted channel level ordered by channel name.
func (s *Store) Levels() ([]SavedLevel, error) {
	rows, err := s.db.Query(`SELECT name, level, updated_at FROM channel_levels`)
	if err != nil {
		return nil, fmt.Errorf("query channel levels: %w", err)
	}
	defer rows.Close()

	var out []SavedLevel
	for rows.Next() {
		var (
			name       string
			rawLevel   string
			rawUpdated string
		)
		if err := rows.Scan(&name, &rawLevel, &rawUpdated); err != nil {
			return nil, fmt.Errorf("scan channel level: %w", err)
		}
		level, ok := logging.ParseLevel(rawLevel)
		if !ok {
			// Rows written by a newer version; skip rather than guess.
			continue
		}
		saved := SavedLevel{Name: name, Level: level}
		if updated, err := time.Parse(time.RFC3339Nano, rawUpdated); err == nil {
			saved.UpdatedAt = updated
		}
		out = append(out, saved)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// Forget removes the persisted level for a channel name. It reports whether a
// row existed.
func (s *Store) Forget(name string) (bool, error) {
	res, err := s.db.Exec(`DELETE FROM channel_levels WHERE name = ?`, name)
	if err != nil {
		return false, fmt.Errorf("delete channel level: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return affected > 0, nil
}

// Clear removes every persisted channel level.
func (s *Store) Clear() (int64, error) {
	res, err := s.db.Exec(`DELETE FROM channel_levels`)
	if err != nil {
		return 0, fmt.Errorf("clear channel levels: %w", err)
	}
	return res.RowsAffected()
}
