package memory

import (
	"context"
	"sync"
)

// Storage is an in-process Store used for development and tests.
type Storage struct {
	urlMap map[string]string
	mutex  sync.RWMutex
}

// NewStorage creates an empty in-memory storage.
func NewStorage() *Storage {
	return &Storage{
		urlMap: make(map[string]string),
	}
}

func (s *Storage) Put(_ context.Context, key, value string) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	s.urlMap[key] = value
	return nil
}

func (s *Storage) Get(_ context.Context, key string) (string, bool, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	value, found := s.urlMap[key]
	return value, found, nil
}

// Ping always succeeds.
func (s *Storage) Ping(context.Context) error {
	return nil
}

func (s *Storage) Close() error {
	return nil
}
