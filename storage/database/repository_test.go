package database_test

import (
	"context"
	"os"
	"strconv"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"

	"github.com/ntic/scicon/core"
	"github.com/ntic/scicon/core/submission"
	"github.com/ntic/scicon/storage/database"
	"github.com/ntic/scicon/storage/database/inmem"
	"github.com/ntic/scicon/tests"
)

func testBlobRepository(t *testing.T, repo submission.Repository) {
	ctx := context.Background()
	key := "author_submissions_test"

	if _, err := repo.GetBlob(ctx, key); errors.Cause(err) != submission.ErrBlobNotFound {
		t.Fatalf("GetBlob() error = %v, want %v", err, submission.ErrBlobNotFound)
	}

	if err := repo.PutBlob(ctx, key, []byte(`[{"id":"a"}]`)); err != nil {
		t.Fatalf("PutBlob() error = %v", err)
	}
	got, err := repo.GetBlob(ctx, key)
	if err != nil {
		t.Fatalf("GetBlob() error = %v", err)
	}
	assert.Equal(t, `[{"id":"a"}]`, string(got))

	// overwrite
	if err := repo.PutBlob(ctx, key, []byte(`[]`)); err != nil {
		t.Fatalf("PutBlob() error = %v", err)
	}
	got, _ = repo.GetBlob(ctx, key)
	assert.Equal(t, `[]`, string(got))

	// keys are independent
	if _, err := repo.GetBlob(ctx, key+"_other"); errors.Cause(err) != submission.ErrBlobNotFound {
		t.Errorf("GetBlob() error = %v, want %v", err, submission.ErrBlobNotFound)
	}

	if err := repo.DeleteBlob(ctx, key); err != nil {
		t.Fatalf("DeleteBlob() error = %v", err)
	}
	if _, err := repo.GetBlob(ctx, key); errors.Cause(err) != submission.ErrBlobNotFound {
		t.Errorf("GetBlob() error = %v, want %v", err, submission.ErrBlobNotFound)
	}
	// deleting a missing key is not an error
	if err := repo.DeleteBlob(ctx, key); err != nil {
		t.Errorf("DeleteBlob() error = %v", err)
	}
}

func TestInmemBlobRepository(t *testing.T) {
	db, _ := inmemdb.Open()
	testBlobRepository(t, inmemdb.NewBlobRepository(db))
}

func TestSQLiteBlobRepository(t *testing.T) {
	conf := testutil.Config(t)
	db := testutil.PrepareDB(t, conf)
	testBlobRepository(t, database.NewBlobRepository(db, conf))
}

// TestPostgresBlobRepository runs against TEST_PG_HOST when it is set.
func TestPostgresBlobRepository(t *testing.T) {
	host := os.Getenv("TEST_PG_HOST")
	if host == "" {
		t.Skip("TEST_PG_HOST not set")
	}
	port, _ := strconv.Atoi(os.Getenv("TEST_PG_PORT"))
	if port == 0 {
		port = 5432
	}

	conf := testutil.Config(t)
	conf.Database = core.DatabaseConfig{
		Engine:     core.EnginePostgres,
		Host:       host,
		Port:       port,
		Name:       "scicon_test",
		User:       os.Getenv("TEST_PG_USER"),
		Password:   os.Getenv("TEST_PG_PASSWORD"),
		DisableTLS: true,
	}
	if err := database.CreateIfNotExist(conf); err != nil {
		t.Fatalf("CreateIfNotExist() error = %v", err)
	}
	db := testutil.PrepareDB(t, conf)
	testBlobRepository(t, database.NewBlobRepository(db, conf))
}

func TestStoreOverSQLite(t *testing.T) {
	ctx := context.Background()
	conf := testutil.Config(t)
	store, db := testutil.PrepareStore(t, conf)

	if _, err := store.Update(ctx, "sub-101", func(s *submission.Submission) (bool, error) {
		s.Status = submission.StatusWithdrawn
		return true, nil
	}); err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	// a new store over the same storage sees the change
	reopened := submission.NewStore(database.NewBlobRepository(db, conf))
	records, err := reopened.Load(ctx)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	assert.Equal(t, submission.StatusWithdrawn, records[0].Status)
}

func TestOpen_unsupportedEngine(t *testing.T) {
	conf := testutil.Config(t)
	conf.Database.Engine = "mysql"
	if _, err := database.Open(conf); err == nil {
		t.Error("Open() should refuse an unsupported engine")
	}
}
