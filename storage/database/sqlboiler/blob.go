package boiledrepos

import (
	"context"
	"database/sql"
	"time"

	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"
	"github.com/volatiletech/sqlboiler/v4/queries"

	"github.com/ntic/scicon/core"
	"github.com/ntic/scicon/core/submission"
)

type kvRow struct {
	StorageKey string    `boil:"storage_key"`
	Payload    string    `boil:"payload"`
	UpdatedAt  null.Time `boil:"updated_at"`
}

type blobRepository struct {
	exec core.DBExecutor
}

var _ submission.Repository = (*blobRepository)(nil) // interface compliance check

func NewBlobRepository(exec core.DBExecutor) submission.Repository {
	return &blobRepository{exec: exec}
}

// trapNoRowsErr maps psql "no rows" err to submission.ErrBlobNotFound
func (repo blobRepository) trapNoRowsErr(err error, msg string) error {
	if errors.Cause(err) == sql.ErrNoRows {
		return submission.ErrBlobNotFound
	}
	return errors.Wrap(err, msg)
}

func (repo blobRepository) GetBlob(ctx context.Context, key string) ([]byte, error) {
	var row kvRow
	err := queries.Raw(
		`SELECT storage_key, payload, updated_at FROM durable_kv WHERE storage_key = $1`, key,
	).Bind(ctx, repo.exec, &row)
	if err != nil {
		return nil, repo.trapNoRowsErr(err, "selecting blob")
	}
	return []byte(row.Payload), nil
}

func (repo blobRepository) PutBlob(ctx context.Context, key string, blob []byte) error {
	row := kvRow{
		StorageKey: key,
		Payload:    string(blob),
		UpdatedAt:  null.TimeFrom(time.Now().UTC()),
	}
	_, err := queries.Raw(
		`INSERT INTO durable_kv (storage_key, payload, updated_at) VALUES ($1, $2, $3)
		ON CONFLICT (storage_key) DO UPDATE SET payload = EXCLUDED.payload, updated_at = EXCLUDED.updated_at`,
		row.StorageKey, row.Payload, row.UpdatedAt,
	).ExecContext(ctx, repo.exec)
	if err != nil {
		return errors.Wrap(err, "upserting blob")
	}
	return nil
}

func (repo blobRepository) DeleteBlob(ctx context.Context, key string) error {
	_, err := queries.Raw(`DELETE FROM durable_kv WHERE storage_key = $1`, key).ExecContext(ctx, repo.exec)
	if err != nil {
		return errors.Wrap(err, "deleting blob")
	}
	return nil
}
