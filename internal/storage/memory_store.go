package storage

import "sync"

// MemoryStore implements KeyValueStore with an in-memory map.
// Used in tests and for ephemeral runs without a data directory.
type MemoryStore struct {
	mu    sync.RWMutex
	blobs map[string][]byte
}

// NewMemoryStore creates an empty in-memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		blobs: make(map[string][]byte),
	}
}

// Get returns the blob stored under key
func (ms *MemoryStore) Get(key string) ([]byte, bool, error) {
	ms.mu.RLock()
	defer ms.mu.RUnlock()

	data, ok := ms.blobs[key]
	if !ok {
		return nil, false, nil
	}

	// Return a copy so callers cannot mutate the stored blob
	out := make([]byte, len(data))
	copy(out, data)
	return out, true, nil
}

// Set stores the blob under key
func (ms *MemoryStore) Set(key string, data []byte) error {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	stored := make([]byte, len(data))
	copy(stored, data)
	ms.blobs[key] = stored
	return nil
}

// Delete removes the key
func (ms *MemoryStore) Delete(key string) error {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	delete(ms.blobs, key)
	return nil
}
