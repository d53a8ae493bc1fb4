package accounts

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dmitrymomot/proposalkit/pkg/pg"
)

// PostgresStore persists accounts in the accounts table.
type PostgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

const accountColumns = `id, email, plan, COALESCE(billing_customer_id, ''), created_at, updated_at`

func (s *PostgresStore) Create(ctx context.Context, a *Account) error {
	if err := prepare(a, time.Now().UTC()); err != nil {
		return err
	}
	_, err := s.pool.Exec(ctx,
		`INSERT INTO accounts (id, email, plan, billing_customer_id, created_at, updated_at)
		 VALUES ($1, $2, $3, NULLIF($4, ''), $5, $6)`,
		a.ID, a.Email, string(a.Plan), a.BillingCustomerID, a.CreatedAt, a.UpdatedAt,
	)
	if pg.IsDuplicateKeyError(err) {
		return ErrAccountExists
	}
	return err
}

func (s *PostgresStore) FindByID(ctx context.Context, id uuid.UUID) (*Account, error) {
	row := s.pool.QueryRow(ctx, `SELECT `+accountColumns+` FROM accounts WHERE id = $1`, id)
	return scanAccount(row)
}

func (s *PostgresStore) FindByBillingCustomerID(ctx context.Context, customerID string) (*Account, error) {
	if customerID == "" {
		return nil, ErrAccountNotFound
	}
	row := s.pool.QueryRow(ctx, `SELECT `+accountColumns+` FROM accounts WHERE billing_customer_id = $1`, customerID)
	return scanAccount(row)
}

func (s *PostgresStore) UpdatePlan(ctx context.Context, id uuid.UUID, plan Plan) error {
	if !plan.Valid() {
		return ErrInvalidPlan
	}
	tag, err := s.pool.Exec(ctx,
		`UPDATE accounts SET plan = $2, updated_at = NOW() WHERE id = $1`, id, string(plan))
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrAccountNotFound
	}
	return nil
}

func (s *PostgresStore) UpdateBillingCustomerID(ctx context.Context, id uuid.UUID, customerID string) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE accounts SET billing_customer_id = NULLIF($2, ''), updated_at = NOW() WHERE id = $1`, id, customerID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrAccountNotFound
	}
	return nil
}

func scanAccount(row pgx.Row) (*Account, error) {
	var (
		a    Account
		plan string
	)
	err := row.Scan(&a.ID, &a.Email, &plan, &a.BillingCustomerID, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		if pg.IsNotFoundError(err) {
			return nil, ErrAccountNotFound
		}
		return nil, errors.Join(errors.New("accounts: scan failed"), err)
	}
	a.Plan = Plan(plan)
	return &a, nil
}
