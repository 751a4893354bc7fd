package inmemdb

import (
	"context"
	"sync"

	"github.com/ntic/scicon/core/submission"
)

type (
	DB struct {
		kv *kvTable
	}

	kvTable struct {
		sync.RWMutex
		table map[string][]byte
	}
)

func Open() (*DB, error) {
	db := &DB{
		kv: &kvTable{table: make(map[string][]byte)},
	}
	return db, nil
}

type blobRepository struct {
	db *kvTable
}

var _ submission.Repository = (*blobRepository)(nil) // interface compliance check

func NewBlobRepository(db *DB) submission.Repository {
	return &blobRepository{db: db.kv}
}

func (repo *blobRepository) GetBlob(_ context.Context, key string) ([]byte, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	blob, ok := repo.db.table[key]
	if !ok {
		return nil, submission.ErrBlobNotFound
	}
	return append([]byte(nil), blob...), nil
}

func (repo *blobRepository) PutBlob(_ context.Context, key string, blob []byte) error {
	repo.db.Lock()
	defer repo.db.Unlock()
	repo.db.table[key] = append([]byte(nil), blob...)
	return nil
}

func (repo *blobRepository) DeleteBlob(_ context.Context, key string) error {
	repo.db.Lock()
	defer repo.db.Unlock()
	delete(repo.db.table, key)
	return nil
}
