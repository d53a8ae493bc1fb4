package generations

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dmitrymomot/proposalkit/pkg/pg"
)

type PostgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

const recordColumns = `id, account_id, type, title, input, output, credits_used, created_at`

func (s *PostgresStore) Create(ctx context.Context, r *Record) error {
	if err := prepare(r, time.Now().UTC()); err != nil {
		return err
	}
	_, err := s.pool.Exec(ctx,
		`INSERT INTO generations (`+recordColumns+`) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		r.ID, r.AccountID, r.Type, r.Title, []byte(r.Input), r.Output, r.CreditsUsed, r.CreatedAt,
	)
	return err
}

func (s *PostgresStore) ListByAccount(ctx context.Context, accountID uuid.UUID, page, limit int) (*Page, error) {
	page, limit = Normalize(page, limit)

	var total int64
	if err := s.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM generations WHERE account_id = $1`, accountID,
	).Scan(&total); err != nil {
		return nil, err
	}

	rows, err := s.pool.Query(ctx,
		`SELECT `+recordColumns+` FROM generations
		 WHERE account_id = $1
		 ORDER BY created_at DESC
		 LIMIT $2 OFFSET $3`,
		accountID, limit, int64(Offset(page, limit)),
	)
	if err != nil {
		return nil, err
	}
	items, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (Record, error) {
		r, err := scanRecord(row)
		if err != nil {
			return Record{}, err
		}
		return *r, nil
	})
	if err != nil {
		return nil, err
	}
	return newPage(items, total, page, limit), nil
}

func (s *PostgresStore) FindOneByAccount(ctx context.Context, id, accountID uuid.UUID) (*Record, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT `+recordColumns+` FROM generations WHERE id = $1 AND account_id = $2`, id, accountID)
	r, err := scanRecord(row)
	if err != nil {
		if pg.IsNotFoundError(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return r, nil
}

func scanRecord(row pgx.Row) (*Record, error) {
	var (
		r     Record
		input []byte
	)
	if err := row.Scan(&r.ID, &r.AccountID, &r.Type, &r.Title, &input, &r.Output, &r.CreditsUsed, &r.CreatedAt); err != nil {
		return nil, err
	}
	r.Input = input
	return &r, nil
}
