package storage

import (
	"context"
	"sync"
)

// MemoryStorage is an in-process Storage used by tests and by the
// database.use_in_memory configuration flag.
type MemoryStorage struct {
	mu         sync.RWMutex
	usage      map[string]int
	employers  []string
	categories []string
}

func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{
		usage: make(map[string]int),
	}
}

func (s *MemoryStorage) GetUsage(ctx context.Context, date string) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.usage[date], nil
}

func (s *MemoryStorage) IncrementUsage(ctx context.Context, date string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.usage[date]++
	return s.usage[date], nil
}

func (s *MemoryStorage) ListEmployers(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]string(nil), s.employers...), nil
}

func (s *MemoryStorage) ListResourceCategories(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]string(nil), s.categories...), nil
}

// SetEmployers replaces the employer vocabulary.
func (s *MemoryStorage) SetEmployers(employers []string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.employers = append([]string(nil), employers...)
}

// SetResourceCategories replaces the category vocabulary.
func (s *MemoryStorage) SetResourceCategories(categories []string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.categories = append([]string(nil), categories...)
}

func (s *MemoryStorage) Close() error {
	// Nothing to close for in-memory storage
	return nil
}
