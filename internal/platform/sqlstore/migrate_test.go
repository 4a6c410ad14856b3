package sqlstore

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrate_UpStatusDown(t *testing.T) {
	ctx := context.Background()
	db, err := Open(ctx, SQLite, filepath.Join(t.TempDir(), "migrate.db"), quietLogger())
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	require.NoError(t, Migrate(ctx, db, SQLite, MigrateUp, quietLogger()))
	require.NoError(t, Migrate(ctx, db, SQLite, MigrateStatus, quietLogger()))
	require.NoError(t, Migrate(ctx, db, SQLite, MigrateVersion, quietLogger()))

	var tables int
	require.NoError(t, db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name IN ('tasks', 'categories', 'context_entries')`).
		Scan(&tables))
	assert.Equal(t, 3, tables)

	require.NoError(t, Migrate(ctx, db, SQLite, MigrateDown, quietLogger()))

	require.NoError(t, db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name IN ('tasks', 'categories', 'context_entries')`).
		Scan(&tables))
	assert.Equal(t, 0, tables)
}

func TestMigrate_UnknownCommand(t *testing.T) {
	db := newTestDB(t)
	err := Migrate(context.Background(), db, SQLite, "sideways", quietLogger())
	assert.ErrorContains(t, err, "unknown migration command")
}

func TestParseDialect(t *testing.T) {
	d, err := ParseDialect("Postgres")
	require.NoError(t, err)
	assert.Equal(t, Postgres, d)

	d, err = ParseDialect("sqlite")
	require.NoError(t, err)
	assert.Equal(t, SQLite, d)

	_, err = ParseDialect("mysql")
	assert.Error(t, err)
}
