// Package memory contains an in-memory archive store for tests.
package memory

import (
	"context"
	"sync"
)

// Store keeps archived payloads in a map keyed by object name.
type Store struct {
	mu      sync.RWMutex
	objects map[string][]byte
}

// New returns an empty memory Store.
func New() *Store {
	return &Store{objects: make(map[string][]byte)}
}

// Put records the payload under the object name.
func (s *Store) Put(_ context.Context, objectName string, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	buf := make([]byte, len(data))
	copy(buf, data)
	s.objects[objectName] = buf
	return nil
}

// Get returns the stored payload and whether it exists.
func (s *Store) Get(objectName string) ([]byte, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	data, ok := s.objects[objectName]
	return data, ok
}

// Len returns the number of archived objects.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.objects)
}
