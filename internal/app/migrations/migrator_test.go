package migrations

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yigit/skillshare/internal/db"
)

func TestUpIsIdempotent(t *testing.T) {
	ctx := context.Background()
	database, err := db.OpenSQLite(ctx, filepath.Join(t.TempDir(), "migrate.db"))
	require.NoError(t, err)
	defer database.Close()

	m := NewMigrator(database)
	require.NoError(t, m.Up(ctx))
	require.NoError(t, m.Up(ctx))

	var versions []string
	require.NoError(t, database.Select(&versions, `SELECT version FROM schema_migrations`))
	assert.Equal(t, []string{"001"}, versions)

	for _, table := range []string{"users", "refresh_tokens", "skills", "reviews", "sessions", "skill_students", "notifications"} {
		var count int
		assert.NoError(t, database.Get(&count, `SELECT COUNT(*) FROM `+table), table)
	}
}

func TestSplitStatements(t *testing.T) {
	script := "-- header\nCREATE TABLE a (id INT);\n\nCREATE INDEX i ON a(id);\n"
	assert.Equal(t, []string{"CREATE TABLE a (id INT)", "CREATE INDEX i ON a(id)"}, splitStatements(script))
}
