package credits

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

type MemoryStore struct {
	mu      sync.Mutex
	entries map[uuid.UUID]Entry
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: make(map[uuid.UUID]Entry)}
}

func (s *MemoryStore) Get(_ context.Context, accountID uuid.UUID) (*Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[accountID]
	if !ok {
		return nil, ErrEntryNotFound
	}
	return &e, nil
}

func (s *MemoryStore) Deduct(_ context.Context, accountID uuid.UUID, amount int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[accountID]
	if !ok || amount > e.Total-e.Used {
		return ErrInsufficientCredits
	}
	e.Used += amount
	s.entries[accountID] = e
	return nil
}

func (s *MemoryStore) Reset(_ context.Context, accountID uuid.UUID, total int64, resetAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries[accountID] = Entry{AccountID: accountID, Total: total, ResetAt: &resetAt}
	return nil
}

func (s *MemoryStore) Init(_ context.Context, accountID uuid.UUID, total int64, resetAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.entries[accountID]; ok {
		return nil
	}
	s.entries[accountID] = Entry{AccountID: accountID, Total: total, ResetAt: &resetAt}
	return nil
}
