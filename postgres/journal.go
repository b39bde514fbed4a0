// Package postgres provides a PostgreSQL-backed journal for exclusive workers.
package postgres

import (
	"database/sql"

	ppersistence "github.com/petrijr/exclusive/postgres/internal/persistence"
)

// PostgresJournal records worker events in a PostgreSQL table.
type PostgresJournal = ppersistence.PostgresJournal

// NewPostgresJournal creates the events table (default "task_events") if
// needed and returns a Journal backed by it. db must use a PostgreSQL
// driver such as github.com/jackc/pgx/v5/stdlib.
func NewPostgresJournal(db *sql.DB, table string) (*PostgresJournal, error) {
	return ppersistence.NewPostgresJournal(db, table)
}
