package store

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"userd/internal/user/models"
)

// Memory is the in-process Store variant. It holds Records rather than
// users so that Get goes through the same projection and re-validation path
// as the durable variant.
type Memory struct {
	mu      sync.RWMutex
	records map[uuid.UUID]Record
	opts    options
}

// NewMemory constructs an empty in-memory store.
func NewMemory(opts ...Option) *Memory {
	o := defaultOptions()
	o.apply(opts)
	return &Memory{
		records: make(map[uuid.UUID]Record),
		opts:    o,
	}
}

func (s *Memory) Put(_ context.Context, user models.User) (models.IdentifiedUser, error) {
	identified := models.Identify(user, s.opts.newID())
	rec := newRecord(identified, s.opts.newVersion(), s.opts.clock())

	s.mu.Lock()
	s.records[rec.UserID] = rec
	s.mu.Unlock()

	return identified, nil
}

func (s *Memory) Get(_ context.Context, id uuid.UUID) (models.IdentifiedUser, error) {
	s.mu.RLock()
	rec, ok := s.records[id]
	s.mu.RUnlock()

	if !ok || !rec.Latest {
		return models.IdentifiedUser{}, ErrNotFound
	}
	return rec.User()
}
