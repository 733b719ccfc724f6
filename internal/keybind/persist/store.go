package persist

import "sync"

// RecordName is the name of the single persisted override record.
const RecordName = "keybindings"

// Store is a durable key/value boundary over named records. Any backend
// providing these two operations can hold the override record.
type Store interface {
	// Get returns the value for a named record. The second return is false
	// when the record does not exist.
	Get(name string) (string, bool, error)

	// Set writes the value for a named record, replacing any previous value.
	Set(name, value string) error
}

// MemoryStore is an in-memory Store, used in tests and as the fallback when
// no durable backend is configured.
type MemoryStore struct {
	mu      sync.RWMutex
	records map[string]string
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		records: make(map[string]string),
	}
}

// Get returns the value for a named record.
func (s *MemoryStore) Get(name string) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	v, ok := s.records[name]
	return v, ok, nil
}

// Set writes the value for a named record.
func (s *MemoryStore) Set(name, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.records[name] = value
	return nil
}
