package storage

import (
	"errors"
	"fmt"

	"github.com/cockroachdb/pebble"
)

type PebbleStore struct {
	db *pebble.DB
}

func NewPebbleStore(path string) (*PebbleStore, error) {
	db, err := pebble.Open(path, &pebble.Options{})
	if err != nil {
		return nil, err
	}
	return &PebbleStore{db: db}, nil
}
func (s *PebbleStore) Close() error { return s.db.Close() }

func (s *PebbleStore) Get(key string) (string, bool, error) {
	val, closer, err := s.db.Get(viewerKey(key))
	if errors.Is(err, pebble.ErrNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to get %s: %w", key, err)
	}
	defer closer.Close()
	// val is only valid until closer.Close
	return string(val), true, nil
}

func (s *PebbleStore) Set(key, value string) error {
	if err := s.db.Set(viewerKey(key), []byte(value), pebble.Sync); err != nil {
		return fmt.Errorf("failed to save %s: %w", key, err)
	}
	return nil
}

var _ KeyValueStore = (*PebbleStore)(nil)
