package generations

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
)

type MemoryStore struct {
	mu      sync.RWMutex
	records []Record
	now     func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{now: time.Now}
}

func (s *MemoryStore) Create(_ context.Context, r *Record) error {
	if err := prepare(r, s.now()); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	rec := *r
	rec.Input = slices.Clone(r.Input)
	s.records = append(s.records, rec)
	return nil
}

func (s *MemoryStore) ListByAccount(_ context.Context, accountID uuid.UUID, page, limit int) (*Page, error) {
	page, limit = Normalize(page, limit)

	s.mu.RLock()
	var owned []Record
	for _, r := range s.records {
		if r.AccountID == accountID {
			owned = append(owned, r)
		}
	}
	s.mu.RUnlock()

	slices.SortStableFunc(owned, func(a, b Record) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})

	total := int64(len(owned))
	start := min(Offset(page, limit), len(owned))
	end := min(start+limit, len(owned))
	return newPage(owned[start:end], total, page, limit), nil
}

func (s *MemoryStore) FindOneByAccount(_ context.Context, id, accountID uuid.UUID) (*Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, r := range s.records {
		if r.ID == id && r.AccountID == accountID {
			return &r, nil
		}
	}
	return nil, ErrNotFound
}
