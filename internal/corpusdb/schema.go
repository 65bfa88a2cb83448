// Package corpusdb loads generated corpora into DuckDB for analytics.
package corpusdb

import (
	"database/sql"
	_ "embed"
	"errors"

	_ "github.com/duckdb/duckdb-go/v2"
)

// schemaDDL holds the DuckDB schema definition.
//
//go:embed schema.sql
var schemaDDL string

// SchemaDDL returns the schema DDL used for initializing DuckDB databases.
func SchemaDDL() string {
	return schemaDDL
}

// Open opens or creates a DuckDB database file.
func Open(path string) (*sql.DB, error) {
	return sql.Open("duckdb", path)
}

// EnsureSchema applies the schema DDL to the provided database connection.
func EnsureSchema(db *sql.DB) error {
	if db == nil {
		return errors.New("corpusdb: db is nil")
	}
	_, err := db.Exec(schemaDDL)
	return err
}
