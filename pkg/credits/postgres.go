package credits

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dmitrymomot/proposalkit/pkg/pg"
)

// PostgresStore keeps entries in the credits table. Deduct is a single
// conditional UPDATE, so the row lock serialises concurrent deductions.
type PostgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

func (s *PostgresStore) Get(ctx context.Context, accountID uuid.UUID) (*Entry, error) {
	e := Entry{AccountID: accountID}
	err := s.pool.QueryRow(ctx,
		`SELECT total, used, reset_at FROM credits WHERE account_id = $1`, accountID,
	).Scan(&e.Total, &e.Used, &e.ResetAt)
	if err != nil {
		if pg.IsNotFoundError(err) {
			return nil, ErrEntryNotFound
		}
		return nil, err
	}
	return &e, nil
}

func (s *PostgresStore) Deduct(ctx context.Context, accountID uuid.UUID, amount int64) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE credits SET used = used + $2, updated_at = NOW()
		 WHERE account_id = $1 AND $2 <= total - used`,
		accountID, amount,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrInsufficientCredits
	}
	return nil
}

func (s *PostgresStore) Reset(ctx context.Context, accountID uuid.UUID, total int64, resetAt time.Time) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO credits (account_id, total, used, reset_at, updated_at)
		 VALUES ($1, $2, 0, $3, NOW())
		 ON CONFLICT (account_id) DO UPDATE
		 SET total = EXCLUDED.total, used = 0, reset_at = EXCLUDED.reset_at, updated_at = NOW()`,
		accountID, total, resetAt,
	)
	return err
}

func (s *PostgresStore) Init(ctx context.Context, accountID uuid.UUID, total int64, resetAt time.Time) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO credits (account_id, total, used, reset_at, updated_at)
		 VALUES ($1, $2, 0, $3, NOW())
		 ON CONFLICT (account_id) DO NOTHING`,
		accountID, total, resetAt,
	)
	return err
}
