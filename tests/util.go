package testutil

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/ntic/scicon/core"
	"github.com/ntic/scicon/core/submission"
	"github.com/ntic/scicon/storage/database"
)

// Config returns a test-mode configuration backed by a fresh SQLite file.
func Config(t *testing.T) *core.Config {
	t.Helper()
	return &core.Config{
		Debug:           true,
		TestMode:        true,
		Env:             "TEST",
		AppName:         "Scicon",
		FrontendBaseURL: "http://localhost:3000",
		Database: core.DatabaseConfig{
			Engine: core.EngineSQLite,
			Path:   filepath.Join(t.TempDir(), "scicon_test.db"),
		},
		Storage: core.StorageConfig{Key: submission.DefaultStorageKey},
		Workspace: core.WorkspaceConfig{
			AuthorID:    "author-1",
			AuthorName:  "Test Author",
			AuthorEmail: "author@test.test",
		},
	}
}

// PrepareDB opens and migrates the database described by conf. It is closed when the test ends.
func PrepareDB(t *testing.T, conf *core.Config) *sql.DB {
	t.Helper()
	db, err := database.Open(conf)
	if err != nil {
		t.Fatalf("PrepareDB() failed: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	if err := database.Migrate(db, conf.Database.Engine); err != nil {
		t.Fatalf("PrepareDB() failed: %v", err)
	}
	return db
}

// PrepareStore returns a loaded Store over a migrated test database.
func PrepareStore(t *testing.T, conf *core.Config) (*submission.Store, *sql.DB) {
	t.Helper()
	db := PrepareDB(t, conf)
	store := submission.NewStore(
		database.NewBlobRepository(db, conf),
		submission.WithStorageKey(conf.Storage.Key),
	)
	if _, err := store.Load(context.Background()); err != nil {
		t.Fatalf("PrepareStore() failed: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store, db
}
