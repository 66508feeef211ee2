package store

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

const currentVersion = 1

// SQLitePersistence keeps the document in a single-row-per-slot table.
type SQLitePersistence struct {
	db   *sql.DB
	slot string
}

// NewSQLite opens (or creates) the SQLite database at dbPath and runs migrations.
func NewSQLite(dbPath, slot string) (*SQLitePersistence, error) {
	if slot == "" {
		slot = DefaultSlot
	}
	if dbPath != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
			return nil, fmt.Errorf("create db directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db.SetMaxOpenConns(1)

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=FULL",
		"PRAGMA busy_timeout=5000",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			db.Close()
			return nil, fmt.Errorf("exec pragma %q: %w", p, err)
		}
	}

	s := &SQLitePersistence{db: db, slot: slot}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

func (s *SQLitePersistence) Close() error {
	return s.db.Close()
}

func (s *SQLitePersistence) migrate() error {
	var version int
	err := s.db.QueryRow("PRAGMA user_version").Scan(&version)
	if err != nil {
		return fmt.Errorf("read user_version: %w", err)
	}

	if version >= currentVersion {
		return nil
	}

	if version < 1 {
		if err := s.migrateV1(); err != nil {
			return err
		}
	}

	_, err = s.db.Exec(fmt.Sprintf("PRAGMA user_version = %d", currentVersion))
	return err
}

func (s *SQLitePersistence) migrateV1() error {
	const ddl = `
	CREATE TABLE IF NOT EXISTS slots (
		key         TEXT PRIMARY KEY,
		value       TEXT NOT NULL,
		updated_at  TEXT NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%SZ','now'))
	);
	`
	_, err := s.db.Exec(ddl)
	return err
}

func (s *SQLitePersistence) Load() (UserState, bool) {
	var value string
	err := s.db.QueryRow(`SELECT value FROM slots WHERE key = ?`, s.slot).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return UserState{}, false
	}
	if err != nil {
		log().Warnw("read slot", "backend", "sqlite", "slot", s.slot, "error", err)
		return UserState{}, false
	}
	return decodeSlot([]byte(value), "sqlite")
}

func (s *SQLitePersistence) Save(state UserState) error {
	data, err := Encode(state)
	if err != nil {
		return err
	}
	now := time.Now().UTC().Format(time.RFC3339)
	_, err = s.db.Exec(
		`INSERT INTO slots (key, value, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		s.slot, string(data), now,
	)
	if err != nil {
		return fmt.Errorf("write slot %q: %w", s.slot, err)
	}
	return nil
}

func (s *SQLitePersistence) Erase() error {
	if _, err := s.db.Exec(`DELETE FROM slots WHERE key = ?`, s.slot); err != nil {
		return fmt.Errorf("erase slot %q: %w", s.slot, err)
	}
	return nil
}

// UpdatedAt reports when the slot was last written.
func (s *SQLitePersistence) UpdatedAt() (time.Time, error) {
	var v string
	err := s.db.QueryRow(`SELECT updated_at FROM slots WHERE key = ?`, s.slot).Scan(&v)
	if err != nil {
		return time.Time{}, fmt.Errorf("get updated_at: %w", err)
	}
	return time.Parse(time.RFC3339, v)
}

// DefaultDBPath returns ~/.config/quadra/quadra.db
func DefaultDBPath() (string, error) {
	cfg, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(cfg, "quadra", "quadra.db"), nil
}
