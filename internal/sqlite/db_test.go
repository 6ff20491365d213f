package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// NewTestDB creates a new in-memory SQLite database for testing
func NewTestDB(t *testing.T) *DB {
	t.Helper()

	db, err := New(":memory:")
	require.NoError(t, err, "failed to create test database")

	err = db.RunMigrations(context.Background())
	require.NoError(t, err, "failed to run migrations")

	t.Cleanup(func() {
		db.Close()
	})

	return db
}

// TestMigrations verifies that migrations run successfully
func TestMigrations(t *testing.T) {
	db := NewTestDB(t)

	tables := []string{
		"projects",
		"sessions",
		"app_state",
		"activity_log",
		"schema_migrations",
	}

	for _, table := range tables {
		var count int
		err := db.QueryRow("SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name=?", table).Scan(&count)
		require.NoError(t, err, "failed to query table %s", table)
		require.Equal(t, 1, count, "table %s not found", table)
	}
}

func TestMigrationsAreIdempotent(t *testing.T) {
	db := NewTestDB(t)
	require.NoError(t, db.RunMigrations(context.Background()))

	var applied int
	require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM schema_migrations").Scan(&applied))
	require.Equal(t, 2, applied)
}

// TestForeignKeys verifies that foreign key constraints are enabled
func TestForeignKeys(t *testing.T) {
	db := NewTestDB(t)

	var enabled int
	err := db.QueryRow("PRAGMA foreign_keys").Scan(&enabled)
	require.NoError(t, err)
	require.Equal(t, 1, enabled, "foreign keys not enabled")
}

// TestLegacyFile opens a database laid out by the original desktop app,
// before the activity log existed, and migrates it in place.
func TestLegacyFile(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "timetracker.db")

	legacy, err := New(path)
	require.NoError(t, err)
	_, err = legacy.Exec(`
		CREATE TABLE projects (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT NOT NULL UNIQUE,
			color TEXT NOT NULL DEFAULT '#4A9EFF',
			created_at TEXT NOT NULL DEFAULT (datetime('now')),
			archived INTEGER NOT NULL DEFAULT 0
		);
		CREATE TABLE sessions (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			project_id INTEGER NOT NULL REFERENCES projects(id) ON DELETE CASCADE,
			start_time TEXT NOT NULL,
			end_time TEXT,
			duration INTEGER NOT NULL DEFAULT 0,
			note TEXT
		);
		CREATE TABLE app_state (key TEXT PRIMARY KEY, value TEXT);
		INSERT INTO projects (name) VALUES ('Website');
		INSERT INTO sessions (project_id, start_time, end_time, duration)
		VALUES (1, '2024-03-04T09:00:00.123456', '2024-03-04T09:00:05.123456', 5);
	`)
	require.NoError(t, err)
	require.NoError(t, legacy.Close())

	db, err := New(path)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, db.RunMigrations(ctx))

	proj, err := NewProjectRepository(db).Get(ctx, 1)
	require.NoError(t, err)
	require.Equal(t, "Website", proj.Name)
	require.Equal(t, "#4A9EFF", proj.Color)
	require.False(t, proj.CreatedAt.IsZero())

	sess, err := NewSessionRepository(db).Get(ctx, 1)
	require.NoError(t, err)
	require.Equal(t, int64(5), sess.Duration)
	require.Equal(t, 9, sess.StartTime.Hour())
}
