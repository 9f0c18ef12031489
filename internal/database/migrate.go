package database

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"quiz-sentinel/internal/logger"

	"go.uber.org/zap"
)

// DefaultMigrationsDir is relative to the repository root.
const DefaultMigrationsDir = "database/migrations"

// SQLExecer is satisfied by *sql.DB and *sqlx.DB.
type SQLExecer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// MigrationFiles lists the files of one direction ("up" or "down") in apply order.
// Down migrations are returned newest first.
func MigrationFiles(dir, direction string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("could not read migrations directory: %w", err)
	}

	suffix := "." + direction + ".sql"
	var files []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), suffix) {
			files = append(files, filepath.Join(dir, e.Name()))
		}
	}
	sort.Strings(files)
	if direction == "down" {
		for i, j := 0, len(files)-1; i < j; i, j = i+1, j-1 {
			files[i], files[j] = files[j], files[i]
		}
	}
	return files, nil
}

// RunMigrations executes every migration file of direction against db, one
// statement per file. Trailing semicolons are stripped since Oracle rejects them.
func RunMigrations(ctx context.Context, db SQLExecer, dir, direction string) error {
	files, err := MigrationFiles(dir, direction)
	if err != nil {
		return err
	}

	l := logger.Get()
	for _, file := range files {
		content, err := os.ReadFile(file)
		if err != nil {
			return fmt.Errorf("could not read migration file %s: %w", file, err)
		}
		stmt := strings.TrimSuffix(strings.TrimSpace(string(content)), ";")
		if stmt == "" {
			continue
		}
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("could not execute migration %s: %w", filepath.Base(file), err)
		}
		l.Info("Executed migration", zap.String("file", filepath.Base(file)))
	}

	l.Info("Migrations completed", zap.String("direction", direction), zap.Int("files", len(files)))
	return nil
}
