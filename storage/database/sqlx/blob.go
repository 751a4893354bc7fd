package sqlxrepos

import (
	"context"
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/ntic/scicon/core/submission"
)

type kvRow struct {
	StorageKey string    `db:"storage_key"`
	Payload    string    `db:"payload"`
	UpdatedAt  time.Time `db:"updated_at"`
}

type blobRepository struct {
	db *sqlx.DB
}

var _ submission.Repository = (*blobRepository)(nil) // interface compliance check

// NewBlobRepository wraps db, opened with driverName, into a durable_kv repository.
func NewBlobRepository(db *sql.DB, driverName string) submission.Repository {
	return &blobRepository{db: sqlx.NewDb(db, driverName)}
}

func (repo *blobRepository) GetBlob(ctx context.Context, key string) ([]byte, error) {
	var payload string
	q := repo.db.Rebind(`SELECT payload FROM durable_kv WHERE storage_key = ?`)
	if err := repo.db.GetContext(ctx, &payload, q, key); err != nil {
		if err == sql.ErrNoRows {
			return nil, submission.ErrBlobNotFound
		}
		return nil, errors.Wrap(err, "selecting blob")
	}
	return []byte(payload), nil
}

func (repo *blobRepository) PutBlob(ctx context.Context, key string, blob []byte) error {
	row := kvRow{
		StorageKey: key,
		Payload:    string(blob),
		UpdatedAt:  time.Now().UTC(),
	}
	q := `INSERT INTO durable_kv (storage_key, payload, updated_at)
		VALUES (:storage_key, :payload, :updated_at)
		ON CONFLICT (storage_key) DO UPDATE SET payload = excluded.payload, updated_at = excluded.updated_at`
	if _, err := repo.db.NamedExecContext(ctx, q, row); err != nil {
		return errors.Wrap(err, "upserting blob")
	}
	return nil
}

func (repo *blobRepository) DeleteBlob(ctx context.Context, key string) error {
	q := repo.db.Rebind(`DELETE FROM durable_kv WHERE storage_key = ?`)
	if _, err := repo.db.ExecContext(ctx, q, key); err != nil {
		return errors.Wrap(err, "deleting blob")
	}
	return nil
}
