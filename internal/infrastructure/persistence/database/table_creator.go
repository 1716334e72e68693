package database

import "fmt"

var tables = []string{
	`CREATE TABLE IF NOT EXISTS session_state (
		session_id TEXT NOT NULL,
		state_key TEXT NOT NULL,
		payload TEXT NOT NULL,
		updated_at TIMESTAMP NOT NULL,
		PRIMARY KEY (session_id, state_key)
	)`,
	`CREATE TABLE IF NOT EXISTS events (
		id TEXT PRIMARY KEY,
		session_id TEXT NOT NULL,
		verb TEXT NOT NULL,
		object_id TEXT NOT NULL,
		object_type TEXT NOT NULL,
		count INTEGER,
		created_at TIMESTAMP NOT NULL
	)`,
}

var indexes = []string{
	`CREATE INDEX IF NOT EXISTS idx_session_state_updated ON session_state(updated_at)`,
	`CREATE INDEX IF NOT EXISTS idx_events_session ON events(session_id)`,
	`CREATE INDEX IF NOT EXISTS idx_events_verb ON events(verb, created_at)`,
}

// TableCreator handles the creation of the database schema.
type TableCreator struct{}

// NewTableCreator creates a new TableCreator.
func NewTableCreator() *TableCreator {
	return &TableCreator{}
}

// CreateSchema executes all necessary queries to build the tables and indexes.
func (tc *TableCreator) CreateSchema(db *DB) error {
	for _, tableSQL := range tables {
		if _, err := db.Exec(tableSQL); err != nil {
			return fmt.Errorf("failed to create table for query [%s]: %w", tableSQL, err)
		}
	}

	for _, indexSQL := range indexes {
		if _, err := db.Exec(indexSQL); err != nil {
			return fmt.Errorf("failed to create index for query [%s]: %w", indexSQL, err)
		}
	}
	return nil
}
