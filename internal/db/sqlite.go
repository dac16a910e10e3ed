package db

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

const schema = `
CREATE TABLE IF NOT EXISTS submissions (
    id TEXT PRIMARY KEY,
    kind TEXT NOT NULL,
    fields BLOB NOT NULL,
    created_at DATETIME DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS submissions_kind_created_at ON submissions (kind, created_at);`

type SQLite struct {
	path string
	conn *sql.DB
}

// NewSQLite returns an unopened database at path. ":memory:" is accepted.
func NewSQLite(path string) *SQLite {
	return &SQLite{
		path: path,
	}
}

func (s *SQLite) InitDB() error {
	conn, err := sql.Open("sqlite3", s.path)
	if err != nil {
		return fmt.Errorf("error opening %s: %w", s.path, err)
	}
	if s.path == ":memory:" {
		// Every new connection to :memory: is a separate empty database
		conn.SetMaxOpenConns(1)
	}
	s.conn = conn

	if _, err := s.conn.Exec(schema); err != nil {
		return fmt.Errorf("error creating schema: %w", err)
	}

	dbLogger.Info().Str("path", s.path).Msg("Database initialized")
	return nil
}

func (s *SQLite) Get() *sql.DB {
	return s.conn
}

func (s *SQLite) Close() error {
	if s.conn != nil {
		return s.conn.Close()
	}
	return nil
}

func (s *SQLite) Query(query string, args ...interface{}) (*sql.Rows, error) {
	dbLogger.Debug().Str("query", query).Msg("Query")
	return s.conn.Query(query, args...)
}

func (s *SQLite) QueryRow(query string, args ...interface{}) *sql.Row {
	dbLogger.Debug().Str("query", query).Msg("QueryRow")
	return s.conn.QueryRow(query, args...)
}

func (s *SQLite) Exec(query string, args ...interface{}) (sql.Result, error) {
	dbLogger.Debug().Str("query", query).Msg("Exec")
	return s.conn.Exec(query, args...)
}
