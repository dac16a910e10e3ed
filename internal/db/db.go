// Package db wraps the SQL database that stores form submissions.
package db

import (
	"database/sql"

	"github.com/rs/zerolog"
)

type DB interface {
	InitDB() error

	Get() *sql.DB
	Close() error

	Query(query string, args ...interface{}) (*sql.Rows, error)
	QueryRow(query string, args ...interface{}) *sql.Row
	Exec(query string, args ...interface{}) (sql.Result, error)
}

var dbLogger = zerolog.Nop()

func SetLogger(l zerolog.Logger) {
	dbLogger = l
}
