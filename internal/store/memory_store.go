package store

import (
	"sync"

	"plebai/internal/domain"
)

// MemoryStore keeps secret slots in memory.
type MemoryStore struct {
	mu    sync.RWMutex
	slots map[string]string
}

// NewMemoryStore returns an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{slots: make(map[string]string)}
}

func (m *MemoryStore) LoadSecret(slot string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.slots[slot]
	if !ok || v == "" {
		return "", false, nil
	}
	return v, true, nil
}

func (m *MemoryStore) SaveSecret(slot, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.slots[slot] = value
	return nil
}

func (m *MemoryStore) DeleteSecret(slot string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.slots, slot)
	return nil
}

var _ domain.SecretStore = (*MemoryStore)(nil)
