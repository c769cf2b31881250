package db

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

// InitDB opens/creates the SQLite file and ensures the schema exists.
func InitDB(path string) (*sql.DB, error) {
	db, err := sql.Open(sqliteDriverName, path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite at %q: %w", path, err)
	}

	// single writer: the evaluation log worker and the HTTP layer share one connection
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	for _, pragma := range []string{
		"PRAGMA journal_mode = WAL;",
		"PRAGMA foreign_keys = ON;",
		"PRAGMA busy_timeout = 5000;",
	} {
		if _, err := db.Exec(pragma); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply %q: %w", pragma, err)
		}
	}

	if err := ensureSchema(db); err != nil {
		_ = db.Close()
		return nil, err
	}

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}

	return db, nil
}

const sqliteDriverName = "sqlite"

const schemaMachineState = `
CREATE TABLE IF NOT EXISTS machine_state (
    id INTEGER PRIMARY KEY CHECK (id = 1),
    record_id TEXT NOT NULL,
    class TEXT NOT NULL,
    interpretation TEXT NOT NULL,
    foundation_temp_c REAL NOT NULL,
    capacity_pct REAL NOT NULL,
    saturated BOOLEAN NOT NULL,
    opacity_pct INTEGER NOT NULL,
    heat_w REAL NOT NULL,
    solar_w REAL NOT NULL,
    injected_w REAL NOT NULL,
    updated_at TIMESTAMP NOT NULL
);
`

const schemaEvaluationLog = `
CREATE TABLE IF NOT EXISTS evaluation_log (
    id TEXT PRIMARY KEY,
    occurred_at TIMESTAMP NOT NULL,
    class TEXT NOT NULL,
    interpretation TEXT NOT NULL,
    state TEXT NOT NULL,
    injected_w REAL NOT NULL,
    advisory TEXT,
    meta TEXT
);
`

const indexEvaluationLog = `
CREATE INDEX IF NOT EXISTS idx_evaluation_log_occurred_at ON evaluation_log (occurred_at);
`

const schemaOperators = `
CREATE TABLE IF NOT EXISTS operators (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    username TEXT UNIQUE NOT NULL,
    password_hash TEXT NOT NULL
);
`

func ensureSchema(db *sql.DB) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("begin schema transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	for i, stmt := range []string{
		schemaMachineState,
		schemaEvaluationLog,
		indexEvaluationLog,
		schemaOperators,
	} {
		if _, err := tx.Exec(stmt); err != nil {
			return fmt.Errorf("apply schema statement %d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit schema transaction: %w", err)
	}
	return nil
}
