package cart

import (
	"context"
	"sync"

	myErr "lifeline-store/internal/types/errors"
)

// MemorySnapshotRepository - хранилище в памяти процесса
type MemorySnapshotRepository struct {
	mu   sync.RWMutex
	data map[string][]byte
}

func NewMemorySnapshotRepository() *MemorySnapshotRepository {
	return &MemorySnapshotRepository{
		data: make(map[string][]byte),
	}
}

func (m *MemorySnapshotRepository) Get(_ context.Context, key string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	v, ok := m.data[key]
	if !ok {
		return nil, myErr.ErrNotFound
	}

	out := make([]byte, len(v))
	copy(out, v)

	return out, nil
}

func (m *MemorySnapshotRepository) Set(_ context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	v := make([]byte, len(value))
	copy(v, value)
	m.data[key] = v

	return nil
}
