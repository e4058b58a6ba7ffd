package store

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/grana-app/backend/internal/apperror"
	"github.com/grana-app/backend/internal/model"
)

// MemoryStore keeps the document in process memory. Used for tests and
// for running without Postgres. Documents are deep-copied through JSON so
// callers can never alias stored state.
type MemoryStore struct {
	mu      sync.RWMutex
	data    []byte
	version int64
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Load(ctx context.Context) (*model.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.data == nil {
		return nil, apperror.ErrNotFound
	}

	var doc model.Document
	if err := json.Unmarshal(s.data, &doc); err != nil {
		return nil, fmt.Errorf("decoding document: %w", err)
	}
	doc.Version = s.version
	return &doc, nil
}

func (s *MemoryStore) Save(ctx context.Context, doc *model.Document) error {
	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encoding document: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if doc.Version != s.version {
		return apperror.ErrVersionConflict
	}
	s.data = data
	s.version++
	doc.Version = s.version
	return nil
}
