package store

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/jackc/pgx/v5/pgxpool"
)

// MigrationFiles returns the *.sql files in dir sorted by name.
func MigrationFiles(dir string) ([]string, error) {
	files, err := filepath.Glob(filepath.Join(dir, "*.sql"))
	if err != nil {
		return nil, err
	}
	sort.Strings(files)
	return files, nil
}

// Migrate executes every migration in dir in name order. Migrations are
// written to be idempotent, so re-running them is safe.
func Migrate(ctx context.Context, db *pgxpool.Pool, dir string) (int, error) {
	files, err := MigrationFiles(dir)
	if err != nil {
		return 0, err
	}

	for i, f := range files {
		sql, err := os.ReadFile(f)
		if err != nil {
			return i, fmt.Errorf("read migration %s: %w", filepath.Base(f), err)
		}
		if _, err := db.Exec(ctx, string(sql)); err != nil {
			return i, fmt.Errorf("apply migration %s: %w", filepath.Base(f), err)
		}
	}
	return len(files), nil
}
