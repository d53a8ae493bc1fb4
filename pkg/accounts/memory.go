package accounts

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryStore keeps accounts in a map. Returned accounts are copies.
type MemoryStore struct {
	mu       sync.RWMutex
	accounts map[uuid.UUID]Account
	now      func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{accounts: make(map[uuid.UUID]Account), now: time.Now}
}

func (s *MemoryStore) Create(_ context.Context, a *Account) error {
	if err := prepare(a, s.now()); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.accounts[a.ID]; ok {
		return ErrAccountExists
	}
	for _, existing := range s.accounts {
		if strings.EqualFold(existing.Email, a.Email) {
			return ErrAccountExists
		}
	}
	s.accounts[a.ID] = *a
	return nil
}

func (s *MemoryStore) FindByID(_ context.Context, id uuid.UUID) (*Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	a, ok := s.accounts[id]
	if !ok {
		return nil, ErrAccountNotFound
	}
	return &a, nil
}

func (s *MemoryStore) FindByBillingCustomerID(_ context.Context, customerID string) (*Account, error) {
	if customerID == "" {
		return nil, ErrAccountNotFound
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, a := range s.accounts {
		if a.BillingCustomerID == customerID {
			return &a, nil
		}
	}
	return nil, ErrAccountNotFound
}

func (s *MemoryStore) UpdatePlan(_ context.Context, id uuid.UUID, plan Plan) error {
	if !plan.Valid() {
		return ErrInvalidPlan
	}
	return s.update(id, func(a *Account) { a.Plan = plan })
}

func (s *MemoryStore) UpdateBillingCustomerID(_ context.Context, id uuid.UUID, customerID string) error {
	return s.update(id, func(a *Account) { a.BillingCustomerID = customerID })
}

func (s *MemoryStore) update(id uuid.UUID, fn func(*Account)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	a, ok := s.accounts[id]
	if !ok {
		return ErrAccountNotFound
	}
	fn(&a)
	a.UpdatedAt = s.now()
	s.accounts[id] = a
	return nil
}

// prepare validates a new account and fills defaults.
func prepare(a *Account, now time.Time) error {
	if a == nil || strings.TrimSpace(a.Email) == "" {
		return ErrInvalidAccount
	}
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	if a.Plan == "" {
		a.Plan = PlanFree
	}
	if !a.Plan.Valid() {
		return ErrInvalidPlan
	}
	a.CreatedAt = now
	a.UpdatedAt = now
	return nil
}
