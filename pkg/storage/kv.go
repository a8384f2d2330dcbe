package storage

import "sync"

// KeyValueStore holds the viewer's small persistent settings, the way a browser's
// local storage would. Values are opaque strings.
type KeyValueStore interface {
	Get(key string) (value string, ok bool, err error)
	Set(key, value string) error
}

// Viewer keys live under "v:" so the database can hold other data later.
const prefixViewer = "v:"

func viewerKey(key string) []byte { return []byte(prefixViewer + key) }

type MemoryStore struct {
	mu   sync.Mutex
	data map[string]string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: make(map[string]string)}
}

func (s *MemoryStore) Get(key string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.data[key]
	return v, ok, nil
}

func (s *MemoryStore) Set(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key] = value
	return nil
}

var _ KeyValueStore = (*MemoryStore)(nil)
