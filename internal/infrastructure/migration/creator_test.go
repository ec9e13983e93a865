package migration

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateMigration(t *testing.T) {
	dir := t.TempDir()

	mf, err := CreateMigration(dir, "Add Debt Index", "index sale_lines by customer")
	require.NoError(t, err)

	assert.Len(t, mf.Version, 14, "version is YYYYMMDDHHMMSS")
	assert.Equal(t, filepath.Join(dir, mf.Version+"_add_debt_index.up.sql"), mf.UpPath)
	assert.Equal(t, filepath.Join(dir, mf.Version+"_add_debt_index.down.sql"), mf.DownPath)

	up, err := os.ReadFile(mf.UpPath)
	require.NoError(t, err)
	assert.Contains(t, string(up), "-- Migration: Add Debt Index")
	assert.Contains(t, string(up), "index sale_lines by customer")

	down, err := os.ReadFile(mf.DownPath)
	require.NoError(t, err)
	assert.Contains(t, string(down), "Rollback")
}

func TestCreateMigration_MakesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "migrations")

	_, err := CreateMigration(dir, "init", "")
	require.NoError(t, err)

	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestSlugify(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"Add Debt Index", "add_debt_index"},
		{"add-debt-index", "add_debt_index"},
		{"  spaced  out  ", "spaced_out"},
		{"MixedCASE123", "mixedcase123"},
		{"weird!@#chars", "weirdchars"},
		{"trailing_", "trailing"},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, slugify(tt.input))
		})
	}
}

func TestListMigrations(t *testing.T) {
	dir := t.TempDir()

	for _, name := range []string{
		"20250901100000_initial_schema.up.sql",
		"20250901100000_initial_schema.down.sql",
		"20250901100001_seed_plans.up.sql",
		"20250901100001_seed_plans.down.sql",
		"notes.txt",
	} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("--"), 0644))
	}

	migrations, err := ListMigrations(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{
		"20250901100000_initial_schema",
		"20250901100001_seed_plans",
	}, migrations)
}

func TestListMigrations_MissingDirectory(t *testing.T) {
	migrations, err := ListMigrations(filepath.Join(t.TempDir(), "nope"))
	require.NoError(t, err)
	assert.Empty(t, migrations)
}
