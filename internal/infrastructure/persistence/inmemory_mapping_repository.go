// Package persistence provides mapping.Repository implementations. Every
// backend stores the same JSON document produced by mapping.Encode.
package persistence

import (
	"context"
	"sync"

	"github.com/lrcatalog/mapper/internal/domain/mapping"
)

// Ensure InMemoryMappingRepository implements mapping.Repository
var _ mapping.Repository = (*InMemoryMappingRepository)(nil)

// InMemoryMappingRepository keeps the encoded mapping in process memory.
// Nothing survives a restart; suitable for single-use sessions and testing.
type InMemoryMappingRepository struct {
	mu   sync.RWMutex
	data []byte
}

// NewInMemoryMappingRepository creates an empty in-memory repository
func NewInMemoryMappingRepository() *InMemoryMappingRepository {
	return &InMemoryMappingRepository{}
}

// Get decodes the stored document, if any
func (r *InMemoryMappingRepository) Get(ctx context.Context) (*mapping.Config, bool, error) {
	r.mu.RLock()
	data := r.data
	r.mu.RUnlock()

	if data == nil {
		return nil, false, nil
	}
	cfg, err := mapping.Decode(data)
	if err != nil {
		return nil, true, err
	}
	return cfg, true, nil
}

// Put replaces the stored document
func (r *InMemoryMappingRepository) Put(ctx context.Context, cfg *mapping.Config) error {
	data, err := mapping.Encode(cfg)
	if err != nil {
		return err
	}

	r.mu.Lock()
	r.data = data
	r.mu.Unlock()
	return nil
}
