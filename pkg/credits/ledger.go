package credits

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrymomot/proposalkit/pkg/logger"
)

// Ledger exposes the credit operations on top of a Store.
type Ledger struct {
	store  Store
	cfg    Config
	now    func() time.Time
	logger *slog.Logger
}

type Option func(*Ledger)

func WithConfig(cfg Config) Option {
	return func(l *Ledger) {
		l.cfg = cfg
	}
}

func WithLogger(log *slog.Logger) Option {
	return func(l *Ledger) {
		if log != nil {
			l.logger = log
		}
	}
}

// WithClock overrides the time source used for renewal dates.
func WithClock(now func() time.Time) Option {
	return func(l *Ledger) {
		if now != nil {
			l.now = now
		}
	}
}

// NewLedger panics if store is nil.
func NewLedger(store Store, opts ...Option) *Ledger {
	if store == nil {
		panic("credits: store is required")
	}
	l := &Ledger{
		store:  store,
		cfg:    DefaultConfig(),
		now:    time.Now,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Config returns the quotas the ledger applies.
func (l *Ledger) Config() Config {
	return l.cfg
}

// GetCredits returns the account balance. An account without an entry has a
// zero balance and no renewal date.
func (l *Ledger) GetCredits(ctx context.Context, accountID uuid.UUID) (Balance, error) {
	entry, err := l.store.Get(ctx, accountID)
	if err != nil {
		if errors.Is(err, ErrEntryNotFound) {
			return Balance{}, nil
		}
		return Balance{}, errors.Join(ErrStoreFailure, err)
	}
	return entry.Balance(), nil
}

// HasCredits reports whether the account can spend amount credits.
func (l *Ledger) HasCredits(ctx context.Context, accountID uuid.UUID, amount int64) (bool, error) {
	if amount < 1 {
		return false, ErrInvalidAmount
	}
	b, err := l.GetCredits(ctx, accountID)
	if err != nil {
		return false, err
	}
	return b.Remaining >= amount, nil
}

// DeductCredits spends amount credits or fails with ErrInsufficientCredits
// without changing the entry.
func (l *Ledger) DeductCredits(ctx context.Context, accountID uuid.UUID, amount int64) error {
	if amount < 1 {
		return ErrInvalidAmount
	}
	if err := l.store.Deduct(ctx, accountID, amount); err != nil {
		if errors.Is(err, ErrInsufficientCredits) {
			return ErrInsufficientCredits
		}
		return errors.Join(ErrStoreFailure, err)
	}
	return nil
}

// ResetCredits starts a new period with the given total.
func (l *Ledger) ResetCredits(ctx context.Context, accountID uuid.UUID, total int64) error {
	if total < 0 {
		return ErrInvalidAmount
	}
	resetAt := l.now().Add(l.cfg.Period)
	if err := l.store.Reset(ctx, accountID, total, resetAt); err != nil {
		return errors.Join(ErrStoreFailure, err)
	}
	l.logger.InfoContext(ctx, "credits reset",
		logger.AccountID(accountID),
		logger.Credits("total", total),
		slog.Time("reset_at", resetAt),
	)
	return nil
}

// UpgradeCredits resets the account to the Pro quota.
func (l *Ledger) UpgradeCredits(ctx context.Context, accountID uuid.UUID) error {
	return l.ResetCredits(ctx, accountID, l.cfg.ProQuota)
}

// DowngradeCredits resets the account to the Free quota.
func (l *Ledger) DowngradeCredits(ctx context.Context, accountID uuid.UUID) error {
	return l.ResetCredits(ctx, accountID, l.cfg.FreeQuota)
}

// Provision gives a new account the Free quota. Existing entries are kept.
func (l *Ledger) Provision(ctx context.Context, accountID uuid.UUID) error {
	if err := l.store.Init(ctx, accountID, l.cfg.FreeQuota, l.now().Add(l.cfg.Period)); err != nil {
		return errors.Join(ErrStoreFailure, err)
	}
	return nil
}
