package blob

import (
	"context"
	"sync"

	"github.com/mbriard/carnets/internal/common"
)

// MemoryStore is an in-memory Store used by tests. It can be told to fail
// the next Delete, which the archive-index tests use to check that a catalog
// row is never left pointing at a deleted blob.
type MemoryStore struct {
	mu         sync.Mutex
	blobs      map[string][]byte
	FailPut    error
	FailDelete error
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{blobs: make(map[string][]byte)}
}

func (m *MemoryStore) Put(_ context.Context, key string, data []byte) error {
	if m.FailPut != nil {
		return m.FailPut
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := make([]byte, len(data))
	copy(cp, data)
	m.blobs[key] = cp
	return nil
}

func (m *MemoryStore) Get(_ context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.blobs[key]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return data, nil
}

func (m *MemoryStore) Delete(_ context.Context, key string) error {
	if m.FailDelete != nil {
		return m.FailDelete
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.blobs, key)
	return nil
}

// Len reports the number of stored blobs.
func (m *MemoryStore) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.blobs)
}
