package database

import (
	"context"
	_ "embed"
	"fmt"
	"log/slog"
)

//go:embed migrations/001_initial.up.sql
var initialSQL string

//go:embed migrations/002_book_fields.up.sql
var bookFieldsSQL string

//go:embed migrations/003_transactions.up.sql
var transactionsSQL string

//go:embed migrations/004_reservations.up.sql
var reservationsSQL string

//go:embed migrations/005_fines.up.sql
var finesSQL string

var migrations = []struct {
	name string
	sql  string
}{
	{"001_initial", initialSQL},
	{"002_book_fields", bookFieldsSQL},
	{"003_transactions", transactionsSQL},
	{"004_reservations", reservationsSQL},
	{"005_fines", finesSQL},
}

var requiredTables = []string{
	"users",
	"auth_events",
	"books",
	"members",
	"staff",
	"transactions",
	"reservations",
	"fines",
}

// EnsureSchema applies all migrations at startup. Every statement is
// idempotent (IF NOT EXISTS), so re-running on an existing database is safe.
func (db *DB) EnsureSchema(ctx context.Context) error {
	if db == nil || db.Pool == nil {
		return fmt.Errorf("database pool is not initialized")
	}

	for _, m := range migrations {
		if _, err := db.Pool.Exec(ctx, m.sql); err != nil {
			return fmt.Errorf("apply migration %s: %w", m.name, err)
		}
	}

	ok, err := db.hasAllRequiredTables(ctx)
	if err != nil {
		return fmt.Errorf("check tables after migration: %w", err)
	}
	if !ok {
		return fmt.Errorf("schema initialization incomplete: required tables are still missing")
	}

	slog.Info("database schema ensured")
	return nil
}

func (db *DB) hasAllRequiredTables(ctx context.Context) (bool, error) {
	var count int
	err := db.Pool.QueryRow(ctx, `
		SELECT COUNT(*)
		FROM information_schema.tables
		WHERE table_schema = 'public'
		  AND table_name = ANY($1)
	`, requiredTables).Scan(&count)
	if err != nil {
		return false, err
	}

	return count == len(requiredTables), nil
}
