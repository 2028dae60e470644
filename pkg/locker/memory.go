package locker

import (
	"context"
	"sync"
)

// Memory is a process-local Locker backed by a set guarded by a mutex.
// It is correctness-sufficient for a single-instance deployment only; a
// multi-instance deployment must use the Redis implementation instead.
type Memory struct {
	mu   sync.Mutex
	held map[string]struct{}
}

// NewMemory creates an in-memory locker.
func NewMemory() *Memory {
	return &Memory{held: make(map[string]struct{})}
}

// TryAcquire implements Locker.
func (m *Memory) TryAcquire(_ context.Context, key string) (bool, error) {
	if key == "" {
		return false, ErrEmptyKey
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.held[key]; ok {
		return false, nil
	}
	m.held[key] = struct{}{}
	return true, nil
}

// Release implements Locker.
func (m *Memory) Release(_ context.Context, key string) error {
	if key == "" {
		return nil
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.held, key)
	return nil
}

// Len reports the number of held keys. Exposed for monitoring and tests.
func (m *Memory) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.held)
}
