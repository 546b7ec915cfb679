package credentials

import (
	"context"
	"sync"
)

// Memory keeps the key in process memory. It is lost on restart.
type Memory struct {
	mu  sync.RWMutex
	key string
}

// NewMemory creates a Memory store, optionally pre-loaded with key (blank means unset).
func NewMemory(key string) *Memory {
	m := &Memory{}
	if k, err := normalizeKey(key); err == nil {
		m.key = k
	}
	return m
}

func (m *Memory) Get(_ context.Context) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.key, m.key != "", nil
}

func (m *Memory) Set(_ context.Context, key string) error {
	k, err := normalizeKey(key)
	if err != nil {
		return err
	}
	m.mu.Lock()
	m.key = k
	m.mu.Unlock()
	return nil
}
