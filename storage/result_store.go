// Package storage keeps analysis results addressable by id after the
// request that produced them returns.
package storage

import (
	"context"
	"errors"
	"sync"

	"github.com/Aashish23092/ocr-financial-ratios/dto"
)

var ErrNotFound = errors.New("result not found")

type ResultStore interface {
	Put(ctx context.Context, result *dto.AnalysisResult) error
	Get(ctx context.Context, id string) (*dto.AnalysisResult, error)
	Delete(ctx context.Context, id string) error
	Close() error
}

// MemoryStore is a process-local ResultStore. Results are shared, not
// copied; callers must not mutate a result after Put.
type MemoryStore struct {
	mu      sync.RWMutex
	results map[string]*dto.AnalysisResult
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{results: make(map[string]*dto.AnalysisResult)}
}

func (s *MemoryStore) Put(ctx context.Context, result *dto.AnalysisResult) error {
	if result == nil || result.ID == "" {
		return errors.New("result id is required")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.results[result.ID] = result
	return nil
}

func (s *MemoryStore) Get(ctx context.Context, id string) (*dto.AnalysisResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.results[id]
	if !ok {
		return nil, ErrNotFound
	}
	return r, nil
}

func (s *MemoryStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.results[id]; !ok {
		return ErrNotFound
	}
	delete(s.results, id)
	return nil
}

func (s *MemoryStore) Close() error {
	return nil
}
