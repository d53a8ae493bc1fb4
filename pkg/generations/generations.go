// Package generations stores the immutable history of AI generations. Records
// are only ever read back by their owner.
package generations

import (
	"context"
	"encoding/json"
	"math"
	"time"

	"github.com/google/uuid"
)

const (
	DefaultPage  = 1
	DefaultLimit = 20
	MaxLimit     = 100
)

type Record struct {
	ID          uuid.UUID       `json:"id"`
	AccountID   uuid.UUID       `json:"accountId"`
	Type        string          `json:"type"`
	Title       string          `json:"title"`
	Input       json.RawMessage `json:"input"`
	Output      string          `json:"output"`
	CreditsUsed int64           `json:"creditsUsed"`
	CreatedAt   time.Time       `json:"createdAt"`
}

type Page struct {
	Items      []Record `json:"items"`
	Total      int64    `json:"total"`
	Page       int      `json:"page"`
	Limit      int      `json:"limit"`
	TotalPages int      `json:"totalPages"`
}

// Store persists generation records.
type Store interface {
	// Create assigns ID and CreatedAt when they are zero.
	Create(ctx context.Context, r *Record) error
	// ListByAccount returns the owner's records, newest first.
	ListByAccount(ctx context.Context, accountID uuid.UUID, page, limit int) (*Page, error)
	// FindOneByAccount returns ErrNotFound for missing records and for records
	// owned by another account alike.
	FindOneByAccount(ctx context.Context, id, accountID uuid.UUID) (*Record, error)
}

// Normalize clamps paging arguments to the supported range.
func Normalize(page, limit int) (int, int) {
	if page < 1 {
		page = DefaultPage
	}
	if limit < 1 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	return page, limit
}

// Offset returns the number of records before page. It saturates at
// math.MaxInt, so a page far past the end reads as empty.
func Offset(page, limit int) int {
	page, limit = Normalize(page, limit)
	if page-1 > (math.MaxInt-limit)/limit {
		return math.MaxInt
	}
	return (page - 1) * limit
}

func newPage(items []Record, total int64, page, limit int) *Page {
	if items == nil {
		items = []Record{}
	}
	return &Page{
		Items:      items,
		Total:      total,
		Page:       page,
		Limit:      limit,
		TotalPages: int((total + int64(limit) - 1) / int64(limit)),
	}
}

func prepare(r *Record, now time.Time) error {
	if r == nil || r.AccountID == uuid.Nil {
		return ErrInvalidRecord
	}
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	if r.CreatedAt.IsZero() {
		r.CreatedAt = now
	}
	if len(r.Input) == 0 {
		r.Input = json.RawMessage("{}")
	}
	return nil
}
