package billing

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

type MemorySubscriptionStore struct {
	mu   sync.RWMutex
	subs map[string]Subscription
}

func NewMemorySubscriptionStore() *MemorySubscriptionStore {
	return &MemorySubscriptionStore{subs: make(map[string]Subscription)}
}

func (s *MemorySubscriptionStore) Upsert(_ context.Context, sub *Subscription) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UTC()
	rec := *sub
	if existing, ok := s.subs[sub.ProviderSubscriptionID]; ok {
		rec.CreatedAt = existing.CreatedAt
	} else {
		rec.CreatedAt = now
	}
	rec.UpdatedAt = now
	s.subs[sub.ProviderSubscriptionID] = rec
	return nil
}

func (s *MemorySubscriptionStore) FindByProviderID(_ context.Context, id string) (*Subscription, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sub, ok := s.subs[id]
	if !ok {
		return nil, ErrSubscriptionNotFound
	}
	return &sub, nil
}

// FindByAccountID returns the most recently updated record of the account.
func (s *MemorySubscriptionStore) FindByAccountID(_ context.Context, accountID uuid.UUID) (*Subscription, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var found *Subscription
	for _, sub := range s.subs {
		if sub.AccountID != accountID {
			continue
		}
		if found == nil || sub.UpdatedAt.After(found.UpdatedAt) {
			found = &sub
		}
	}
	if found == nil {
		return nil, ErrSubscriptionNotFound
	}
	return found, nil
}
