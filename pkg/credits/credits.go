package credits

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Balance is the caller-facing view of a ledger entry.
type Balance struct {
	Total     int64      `json:"total"`
	Used      int64      `json:"used"`
	Remaining int64      `json:"remaining"`
	ResetAt   *time.Time `json:"resetAt"`
}

// Entry is the stored ledger row of one account.
type Entry struct {
	AccountID uuid.UUID
	Total     int64
	Used      int64
	ResetAt   *time.Time
}

func (e Entry) Remaining() int64 {
	return e.Total - e.Used
}

func (e Entry) Balance() Balance {
	return Balance{
		Total:     e.Total,
		Used:      e.Used,
		Remaining: e.Remaining(),
		ResetAt:   e.ResetAt,
	}
}

// Store persists ledger entries.
//
// Deduct must check and apply the deduction atomically and return
// ErrInsufficientCredits, leaving the entry untouched, when the remaining
// balance is lower than amount or the entry does not exist.
type Store interface {
	Get(ctx context.Context, accountID uuid.UUID) (*Entry, error)
	Deduct(ctx context.Context, accountID uuid.UUID, amount int64) error
	// Reset creates or overwrites the entry with used = 0.
	Reset(ctx context.Context, accountID uuid.UUID, total int64, resetAt time.Time) error
	// Init creates the entry only if the account has none.
	Init(ctx context.Context, accountID uuid.UUID, total int64, resetAt time.Time) error
}
