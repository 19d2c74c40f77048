package storage

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"path"
	"slices"
	"strings"
	"time"
)

//go:embed migrations/*.sql
var migrationFiles embed.FS

const migrationsTable = `CREATE TABLE IF NOT EXISTS schema_migrations (
	version TEXT PRIMARY KEY,
	applied_at TEXT NOT NULL
)`

// MigrateUp applies every migration not yet recorded in schema_migrations,
// oldest first.
func MigrateUp(db *sql.DB) error {
	ctx := context.Background()
	applied, err := appliedVersions(ctx, db)
	if err != nil {
		return err
	}
	versions, err := migrationVersions()
	if err != nil {
		return err
	}
	for _, version := range versions {
		if slices.Contains(applied, version) {
			continue
		}
		err := runMigration(ctx, db, version, ".up.sql",
			`INSERT INTO schema_migrations (version, applied_at) VALUES (?, ?)`,
			version, formatTime(time.Now()))
		if err != nil {
			return err
		}
	}
	return nil
}

// MigrateDown reverts every applied migration, newest first.
func MigrateDown(db *sql.DB) error {
	ctx := context.Background()
	applied, err := appliedVersions(ctx, db)
	if err != nil {
		return err
	}
	slices.Reverse(applied)
	for _, version := range applied {
		err := runMigration(ctx, db, version, ".down.sql",
			`DELETE FROM schema_migrations WHERE version = ?`, version)
		if err != nil {
			return err
		}
	}
	return nil
}

func migrationVersions() ([]string, error) {
	entries, err := fs.Glob(migrationFiles, "migrations/*.up.sql")
	if err != nil {
		return nil, fmt.Errorf("glob migrations: %w", err)
	}
	out := make([]string, 0, len(entries))
	for _, name := range entries {
		out = append(out, strings.TrimSuffix(path.Base(name), ".up.sql"))
	}
	slices.Sort(out)
	return out, nil
}

// appliedVersions returns recorded versions in ascending order.
func appliedVersions(ctx context.Context, db *sql.DB) ([]string, error) {
	if _, err := db.ExecContext(ctx, migrationsTable); err != nil {
		return nil, fmt.Errorf("create schema_migrations: %w", err)
	}
	rows, err := db.QueryContext(ctx, `SELECT version FROM schema_migrations ORDER BY version`)
	if err != nil {
		return nil, fmt.Errorf("list migrations: %w", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var version string
		if err := rows.Scan(&version); err != nil {
			return nil, err
		}
		out = append(out, version)
	}
	return out, rows.Err()
}

func runMigration(ctx context.Context, db *sql.DB, version, suffix, record string, args ...any) error {
	name := "migrations/" + version + suffix
	sqlBytes, err := migrationFiles.ReadFile(name)
	if err != nil {
		return fmt.Errorf("read migration %s: %w", name, err)
	}
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin migration %s: %w", name, err)
	}
	if _, err := tx.ExecContext(ctx, string(sqlBytes)); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("apply migration %s: %w", name, err)
	}
	if _, err := tx.ExecContext(ctx, record, args...); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("record migration %s: %w", name, err)
	}
	return tx.Commit()
}
