package entitlement

import (
	"context"
	"errors"
	"log/slog"

	"github.com/google/uuid"

	"github.com/dmitrymomot/proposalkit/pkg/async"
	"github.com/dmitrymomot/proposalkit/pkg/logger"
)

// Cost is the number of credits one guarded call consumes.
const Cost int64 = 1

// Ledger is the subset of the credit ledger the gate needs.
type Ledger interface {
	HasCredits(ctx context.Context, accountID uuid.UUID, amount int64) (bool, error)
	DeductCredits(ctx context.Context, accountID uuid.UUID, amount int64) error
}

type Gate struct {
	ledger   Ledger
	cfg      Config
	logger   *slog.Logger
	observer Observer
	charges  async.Tracker
}

type Option func(*Gate)

func WithConfig(cfg Config) Option {
	return func(g *Gate) {
		g.cfg = cfg
	}
}

func WithLogger(log *slog.Logger) Option {
	return func(g *Gate) {
		if log != nil {
			g.logger = log
		}
	}
}

func WithObserver(o Observer) Option {
	return func(g *Gate) {
		g.observer = o
	}
}

// NewGate panics if ledger is nil.
func NewGate(ledger Ledger, opts ...Option) *Gate {
	if ledger == nil {
		panic("entitlement: ledger is required")
	}
	g := &Gate{
		ledger: ledger,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(g)
	}
	g.logger = g.logger.With(logger.Component("entitlement"))
	return g
}

// Admit runs the pre-work checks. It returns ErrUnauthenticated for a nil
// account id and ErrNoCredits when the balance cannot cover Cost.
func (g *Gate) Admit(ctx context.Context, accountID uuid.UUID) error {
	g.observe(ctx, accountID, StatePending)

	if accountID == uuid.Nil {
		g.observe(ctx, accountID, StateRejectedUnauthenticated)
		return ErrUnauthenticated
	}

	ok, err := g.ledger.HasCredits(ctx, accountID, Cost)
	if err != nil {
		g.observe(ctx, accountID, StateFailed)
		return errors.Join(ErrCreditCheck, err)
	}
	if !ok {
		g.observe(ctx, accountID, StateRejectedNoCredits)
		return ErrNoCredits
	}

	g.observe(ctx, accountID, StateAdmitted)
	return nil
}

// Charge deducts Cost in the background, once, without retries. The returned
// future resolves when the attempt has finished.
func (g *Gate) Charge(ctx context.Context, accountID uuid.UUID) *async.Future[struct{}] {
	f := async.Detached(ctx, g.cfg.ChargeTimeout, accountID, g.charge)
	g.charges.Track(f.Done())
	return f
}

func (g *Gate) charge(ctx context.Context, accountID uuid.UUID) (struct{}, error) {
	if err := g.ledger.DeductCredits(ctx, accountID, Cost); err != nil {
		g.logger.ErrorContext(ctx, "failed to charge credits for completed request",
			logger.AccountID(accountID),
			logger.Credits("amount", Cost),
			logger.Error(err),
		)
		g.observe(ctx, accountID, StateCompletedChargeFailed)
		return struct{}{}, err
	}
	g.observe(ctx, accountID, StateCompletedCharged)
	return struct{}{}, nil
}

// Wait blocks until every charge started so far has finished.
func (g *Gate) Wait(ctx context.Context) error {
	return g.charges.WaitContext(ctx)
}

func (g *Gate) observe(ctx context.Context, accountID uuid.UUID, s State) {
	if g.observer != nil {
		g.observer(ctx, accountID, s)
	}
}

// Run admits the caller, runs work and charges on success. A work error is
// returned unchanged and nothing is charged.
func Run[T any](ctx context.Context, g *Gate, accountID uuid.UUID, work func(context.Context) (T, error)) (T, error) {
	var zero T
	if err := g.Admit(ctx, accountID); err != nil {
		return zero, err
	}

	out, err := work(ctx)
	if err != nil {
		g.observe(ctx, accountID, StateFailed)
		return zero, err
	}

	g.Charge(ctx, accountID)
	return out, nil
}
