package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

const (
	dbFileName    = "planboard.sqlite"
	schemaVersion = "1"
)

// Store is the local sqlite database: session, response cache and UI state.
type Store struct {
	Dir string

	db *sql.DB
}

// Open creates dir if needed and opens (or creates) the database in it.
func Open(ctx context.Context, dir string) (*Store, error) {
	dir = strings.TrimSpace(dir)
	if dir == "" {
		return nil, errors.New("store: empty data dir")
	}
	s := &Store{Dir: dir}
	if err := s.Ensure(); err != nil {
		return nil, err
	}
	db, err := openSQLite(ctx, s.Path())
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", s.Path(), err)
	}
	s.db = db
	return s, nil
}

func (s *Store) Ensure() error {
	return os.MkdirAll(s.Dir, 0o755)
}

func (s *Store) Path() string {
	return filepath.Join(s.Dir, dbFileName)
}

func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// InstallID is a random id generated the first time the database is created.
func (s *Store) InstallID(ctx context.Context) (string, error) {
	return ensureMetaUUID(ctx, s.db, "install_id")
}

func openSQLite(ctx context.Context, path string) (*sql.DB, error) {
	// modernc.org/sqlite driver name is "sqlite".
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// The TUI and a CLI invocation may hold the file at the same time.
	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA foreign_keys=ON;",
		"PRAGMA busy_timeout=5000;",
	}
	for _, p := range pragmas {
		if _, err := db.ExecContext(ctx, p); err != nil {
			_ = db.Close()
			return nil, err
		}
	}
	if err := migrateSQLite(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

func migrateSQLite(ctx context.Context, db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS meta (
			k TEXT PRIMARY KEY,
			v TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS session (
			id INTEGER PRIMARY KEY CHECK (id = 1),
			api_url TEXT NOT NULL,
			token TEXT NOT NULL,
			user_json TEXT NOT NULL,
			created_at_unixms INTEGER NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS response_cache (
			k TEXT PRIMARY KEY,
			body BLOB NOT NULL,
			stored_at_unixms INTEGER NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS ui_state (
			k TEXT PRIMARY KEY,
			v TEXT NOT NULL
		);`,
	}
	for _, st := range stmts {
		if _, err := db.ExecContext(ctx, st); err != nil {
			return err
		}
	}
	_, err := db.ExecContext(ctx, `INSERT OR REPLACE INTO meta(k, v) VALUES('schema_version', ?)`, schemaVersion)
	if err != nil {
		return err
	}
	_, err = ensureMetaUUID(ctx, db, "install_id")
	return err
}

func ensureMetaUUID(ctx context.Context, db *sql.DB, key string) (string, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		return "", errors.New("empty meta key")
	}
	var v string
	err := db.QueryRowContext(ctx, `SELECT v FROM meta WHERE k = ?`, key).Scan(&v)
	if err == nil && strings.TrimSpace(v) != "" {
		return v, nil
	}
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return "", err
	}
	id := uuid.NewString()
	if _, err := db.ExecContext(ctx, `INSERT OR REPLACE INTO meta(k, v) VALUES(?, ?)`, key, id); err != nil {
		return "", err
	}
	return id, nil
}
