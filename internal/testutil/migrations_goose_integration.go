//go:build integration

package testutil

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/Gunvolt24/printshop_console/internal/repo/postgres"
)

// MigrationsDir — <repo_root>/migrations
// (<repo_root> вычисляем как два уровня вверх от этого файла).
func MigrationsDir() (string, error) {
	// Этот файл: <repo>/internal/testutil/migrations_goose_integration.go
	_, thisFile, _, _ := runtime.Caller(0)
	repoRoot := filepath.Clean(filepath.Join(filepath.Dir(thisFile), "..", ".."))
	dir := filepath.Join(repoRoot, "migrations")

	if st, err := os.Stat(dir); err != nil || !st.IsDir() {
		return "", fmt.Errorf("migrations dir not found: %q (рассчитан от %s)", dir, thisFile)
	}
	return dir, nil
}

// ApplyMigrationsGoose — миграции эталонного хранилища тем же кодом, что и при старте cmd/store.
func ApplyMigrationsGoose(ctx context.Context, dsn string) error {
	dir, err := MigrationsDir()
	if err != nil {
		return err
	}
	return postgres.Migrate(ctx, dsn, dir)
}
