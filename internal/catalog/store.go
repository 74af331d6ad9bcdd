package catalog

import (
	"errors"
	"fmt"
	"time"

	bolt "go.etcd.io/bbolt"
)

var (
	bucketCatalog = []byte("catalog")
	keySnapshot   = []byte("snapshot")
	keyFetchedAt  = []byte("fetched_at")
)

// ErrNoSnapshot is returned by LoadSnapshot when the store has never been
// written. First run on a fresh host; not a failure.
var ErrNoSnapshot = errors.New("no cached database snapshot")

// Store persists the remote database verbatim so startup never depends on
// the network.
type Store struct {
	db *bolt.DB
}

// OpenStore opens or creates the cache database at path.
func OpenStore(path string) (*Store, error) {
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: 5 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("open catalog cache: %w", err)
	}
	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketCatalog)
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("create catalog bucket: %w", err)
	}
	return &Store{db: db}, nil
}

// Close releases the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// SaveSnapshot stores the raw database document and its fetch time. The
// bytes are kept verbatim so reloads re-run the same parse path as a fresh
// fetch.
func (s *Store) SaveSnapshot(raw []byte, fetchedAt time.Time) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketCatalog)
		if b == nil {
			return fmt.Errorf("bucket %q not found", bucketCatalog)
		}
		if err := b.Put(keySnapshot, raw); err != nil {
			return err
		}
		return b.Put(keyFetchedAt, []byte(fetchedAt.UTC().Format(time.RFC3339)))
	})
}

// LoadSnapshot returns the cached document and when it was fetched.
func (s *Store) LoadSnapshot() ([]byte, time.Time, error) {
	var (
		raw       []byte
		fetchedAt time.Time
	)
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketCatalog)
		if b == nil {
			return fmt.Errorf("bucket %q not found", bucketCatalog)
		}
		data := b.Get(keySnapshot)
		if data == nil {
			return ErrNoSnapshot
		}
		raw = append([]byte(nil), data...)
		if ts := b.Get(keyFetchedAt); ts != nil {
			parsed, err := time.Parse(time.RFC3339, string(ts))
			if err == nil {
				fetchedAt = parsed
			}
		}
		return nil
	})
	if err != nil {
		return nil, time.Time{}, err
	}
	return raw, fetchedAt, nil
}
