package submission

import (
	"context"
	"sync"

	"github.com/pkg/errors"

	"github.com/ntic/scicon/core"
)

// DefaultStorageKey is the durable storage key holding the JSON-serialized submissions.
const DefaultStorageKey = "author_submissions_v1"

var (
	// ErrBlobNotFound is returned by a Repository when nothing is stored under a key.
	ErrBlobNotFound = errors.New("blob not found")
	ErrStoreClosed  = errors.New("submission store closed")

	errCorruptBlob = errors.New("corrupt submissions blob")
)

// Repository is the durable key-value storage a Store mirrors its records to.
type Repository interface {
	GetBlob(ctx context.Context, key string) ([]byte, error)
	PutBlob(ctx context.Context, key string, blob []byte) error
	DeleteBlob(ctx context.Context, key string) error
}

type StoreOption func(*Store)

func WithStorageKey(key string) StoreOption {
	return func(s *Store) {
		if key != "" {
			s.key = key
		}
	}
}

// WithSeed replaces the records a fresh storage is seeded with.
func WithSeed(seed func() []Submission) StoreOption {
	return func(s *Store) { s.seed = seed }
}

func WithLogger(logger core.Logger) StoreOption {
	return func(s *Store) { s.logger = logger }
}

// Store owns the in-memory submissions and mirrors every change to a Repository.
// It is created by its owner, loaded once, and closed when the owner goes away.
type Store struct {
	repo   Repository
	key    string
	seed   func() []Submission
	logger core.Logger

	mu      sync.RWMutex
	records []Submission
	loaded  bool
	closed  bool
}

func NewStore(repo Repository, opts ...StoreOption) *Store {
	s := &Store{
		repo: repo,
		key:  DefaultStorageKey,
		seed: DefaultSeed,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Store) Key() string { return s.key }

// Load reads the durable storage. A missing or unparseable blob is replaced by the seed set,
// which is persisted right away. Only repository failures are returned.
func (s *Store) Load(ctx context.Context) ([]Submission, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil, ErrStoreClosed
	}
	if err := s.loadLocked(ctx); err != nil {
		return nil, err
	}
	return cloneAll(s.records), nil
}

func (s *Store) loadLocked(ctx context.Context) error {
	blob, err := s.repo.GetBlob(ctx, s.key)
	switch {
	case err == nil:
		records, dErr := decodeRecords(blob)
		if dErr == nil {
			s.records = records
			s.loaded = true
			return nil
		}
		s.warn("unparseable durable storage, reseeding", dErr)
	case errors.Cause(err) == ErrBlobNotFound:
	default:
		return errors.Wrap(err, "reading durable storage")
	}

	seeded := s.seed()
	if err := s.persistLocked(ctx, seeded); err != nil {
		return errors.Wrap(err, "seeding durable storage")
	}
	s.records = cloneAll(seeded)
	s.loaded = true
	return nil
}

// Persist replaces the whole collection and writes it to the durable storage.
func (s *Store) Persist(ctx context.Context, records []Submission) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrStoreClosed
	}
	records = cloneAll(records)
	if err := s.persistLocked(ctx, records); err != nil {
		return err
	}
	s.records = records
	s.loaded = true
	return nil
}

func (s *Store) persistLocked(ctx context.Context, records []Submission) error {
	blob, err := encodeRecords(records)
	if err != nil {
		return errors.Wrap(err, "encoding submissions")
	}
	if err := s.repo.PutBlob(ctx, s.key, blob); err != nil {
		return errors.Wrap(err, "writing durable storage")
	}
	return nil
}

// All returns a copy of every record, in storage order.
func (s *Store) All(ctx context.Context) ([]Submission, error) {
	if err := s.ensureLoaded(ctx); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneAll(s.records), nil
}

// Get returns a copy of the record with the given id.
func (s *Store) Get(ctx context.Context, id string) (Submission, error) {
	if err := s.ensureLoaded(ctx); err != nil {
		return Submission{}, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	if i := s.indexOf(id); i >= 0 {
		return s.records[i].clone(), nil
	}
	return Submission{}, ErrNotFound
}

// Update applies fn to a copy of the record and persists the collection when fn reports a change.
// The in-memory state is left untouched when fn or the write fails.
func (s *Store) Update(ctx context.Context, id string, fn func(*Submission) (bool, error)) (Submission, error) {
	if err := s.ensureLoaded(ctx); err != nil {
		return Submission{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return Submission{}, ErrStoreClosed
	}
	i := s.indexOf(id)
	if i < 0 {
		return Submission{}, ErrNotFound
	}

	rec := s.records[i].clone()
	changed, err := fn(&rec)
	if err != nil {
		return Submission{}, err
	}
	if !changed {
		return s.records[i].clone(), nil
	}

	next := cloneAll(s.records)
	next[i] = rec
	if err := s.persistLocked(ctx, next); err != nil {
		return Submission{}, err
	}
	s.records = next
	return rec.clone(), nil
}

// Add appends a record and persists the collection. A record without a last update time is stamped now.
func (s *Store) Add(ctx context.Context, rec Submission) (Submission, error) {
	if err := s.ensureLoaded(ctx); err != nil {
		return Submission{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return Submission{}, ErrStoreClosed
	}
	if s.indexOf(rec.ID) >= 0 {
		return Submission{}, errors.Errorf("submission %q already exists", rec.ID)
	}
	if rec.UpdatedAt.IsZero() {
		rec.UpdatedAt = nowFunc()
	}

	next := append(cloneAll(s.records), rec.clone())
	if err := s.persistLocked(ctx, next); err != nil {
		return Submission{}, err
	}
	s.records = next
	return rec.clone(), nil
}

// Reset clears the durable storage and reseeds it.
func (s *Store) Reset(ctx context.Context) ([]Submission, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil, ErrStoreClosed
	}
	if err := s.repo.DeleteBlob(ctx, s.key); err != nil && errors.Cause(err) != ErrBlobNotFound {
		return nil, errors.Wrap(err, "clearing durable storage")
	}
	s.records = nil
	s.loaded = false
	if err := s.loadLocked(ctx); err != nil {
		return nil, err
	}
	return cloneAll(s.records), nil
}

// Close releases the in-memory records. Every later call fails with ErrStoreClosed.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	s.records = nil
	return nil
}

func (s *Store) ensureLoaded(ctx context.Context) error {
	s.mu.RLock()
	loaded, closed := s.loaded, s.closed
	s.mu.RUnlock()
	if closed {
		return ErrStoreClosed
	}
	if loaded {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrStoreClosed
	}
	if s.loaded {
		return nil
	}
	return s.loadLocked(ctx)
}

func (s *Store) indexOf(id string) int {
	for i := range s.records {
		if s.records[i].ID == id {
			return i
		}
	}
	return -1
}

func (s *Store) warn(msg string, err error) {
	if s.logger != nil {
		s.logger.Warn(msg, err, map[string]interface{}{"storage_key": s.key})
	}
}

func cloneAll(records []Submission) []Submission {
	if records == nil {
		return nil
	}
	out := make([]Submission, len(records))
	for i, r := range records {
		out[i] = r.clone()
	}
	return out
}
