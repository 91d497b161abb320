package repository

import (
	"context"
	"encoding/json"
	"strings"
	"sync"

	"github.com/bytedance/sonic"
)

// MemoryStore keeps collections in process memory. It backs local runs
// without a database and the service tests.
type MemoryStore struct {
	mu   sync.RWMutex
	data map[string]json.RawMessage
}

var _ CollectionStore = (*MemoryStore)(nil)

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: make(map[string]json.RawMessage)}
}

func (m *MemoryStore) Load(_ context.Context, path string) (json.RawMessage, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	raw, ok := m.data[strings.Trim(path, "/")]
	if !ok {
		return nil, nil
	}
	return append(json.RawMessage(nil), raw...), nil
}

func (m *MemoryStore) Replace(_ context.Context, path string, value any) error {
	body, err := sonic.Marshal(value)
	if err != nil {
		return err
	}
	m.mu.Lock()
	m.data[strings.Trim(path, "/")] = body
	m.mu.Unlock()
	return nil
}

func (m *MemoryStore) Delete(_ context.Context, path string) error {
	m.mu.Lock()
	delete(m.data, strings.Trim(path, "/"))
	m.mu.Unlock()
	return nil
}

// Seed stores a raw JSON document at path.
func (m *MemoryStore) Seed(path, rawJSON string) {
	m.mu.Lock()
	m.data[strings.Trim(path, "/")] = json.RawMessage(rawJSON)
	m.mu.Unlock()
}
