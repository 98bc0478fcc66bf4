package database

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// RunMigrations applies all pending migrations from the directory. Files are
// named NNN_description.sql and split into Up/Down sections with
// "-- +migrate Up" / "-- +migrate Down" markers.
func RunMigrations(ctx context.Context, db *pgxpool.Pool, migrationsDir string, log *zap.Logger) error {
	log.Info("running migrations", zap.String("dir", migrationsDir))

	if err := createMigrationsTable(ctx, db); err != nil {
		return fmt.Errorf("failed to create migrations table: %w", err)
	}

	applied, err := getAppliedMigrations(ctx, db)
	if err != nil {
		return fmt.Errorf("failed to get applied migrations: %w", err)
	}

	files, err := os.ReadDir(migrationsDir)
	if err != nil {
		return fmt.Errorf("failed to read migrations directory: %w", err)
	}
	sort.Slice(files, func(i, j int) bool {
		return files[i].Name() < files[j].Name()
	})

	for _, file := range files {
		if !strings.HasSuffix(file.Name(), ".sql") {
			continue
		}

		version := migrationVersion(file.Name())
		if version == 0 {
			log.Warn("skipping invalid migration file", zap.String("file", file.Name()))
			continue
		}
		if applied[version] {
			continue
		}

		if err := applyMigration(ctx, db, filepath.Join(migrationsDir, file.Name()), version); err != nil {
			return fmt.Errorf("failed to apply migration %d: %w", version, err)
		}
		log.Info("applied migration", zap.Int("version", version), zap.String("file", file.Name()))
	}

	return nil
}

func createMigrationsTable(ctx context.Context, db *pgxpool.Pool) error {
	sql := `
		CREATE TABLE IF NOT EXISTS migrations (
			version INTEGER PRIMARY KEY,
			applied_at TIMESTAMP WITH TIME ZONE DEFAULT CURRENT_TIMESTAMP
		)`
	_, err := db.Exec(ctx, sql)
	return err
}

func getAppliedMigrations(ctx context.Context, db *pgxpool.Pool) (map[int]bool, error) {
	rows, err := db.Query(ctx, `SELECT version FROM migrations`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	applied := make(map[int]bool)
	for rows.Next() {
		var version int
		if err := rows.Scan(&version); err != nil {
			return nil, err
		}
		applied[version] = true
	}
	return applied, rows.Err()
}

func migrationVersion(filename string) int {
	var version int
	if _, err := fmt.Sscanf(filename, "%d_", &version); err != nil {
		return 0
	}
	return version
}

func applyMigration(ctx context.Context, db *pgxpool.Pool, path string, version int) error {
	content, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	parts := strings.Split(string(content), "-- +migrate Down")
	if len(parts) != 2 {
		return fmt.Errorf("invalid migration file format: %s", path)
	}
	upSQL := strings.TrimSpace(strings.TrimPrefix(parts[0], "-- +migrate Up"))

	tx, err := db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, upSQL); err != nil {
		return fmt.Errorf("failed to execute migration: %w", err)
	}
	if _, err := tx.Exec(ctx, "INSERT INTO migrations (version) VALUES ($1)", version); err != nil {
		return fmt.Errorf("failed to mark migration as applied: %w", err)
	}

	return tx.Commit(ctx)
}
