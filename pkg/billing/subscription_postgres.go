package billing

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dmitrymomot/proposalkit/pkg/accounts"
	"github.com/dmitrymomot/proposalkit/pkg/pg"
)

type PostgresSubscriptionStore struct {
	pool *pgxpool.Pool
}

func NewPostgresSubscriptionStore(pool *pgxpool.Pool) *PostgresSubscriptionStore {
	return &PostgresSubscriptionStore{pool: pool}
}

const subscriptionColumns = `account_id, provider_subscription_id, provider_price_id, plan, status,
	current_period_start, current_period_end, cancel_at_period_end, created_at, updated_at`

func (s *PostgresSubscriptionStore) Upsert(ctx context.Context, sub *Subscription) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO subscriptions (account_id, provider_subscription_id, provider_price_id, plan, status,
			current_period_start, current_period_end, cancel_at_period_end)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 ON CONFLICT (provider_subscription_id) DO UPDATE SET
			account_id = EXCLUDED.account_id,
			provider_price_id = EXCLUDED.provider_price_id,
			plan = EXCLUDED.plan,
			status = EXCLUDED.status,
			current_period_start = EXCLUDED.current_period_start,
			current_period_end = EXCLUDED.current_period_end,
			cancel_at_period_end = EXCLUDED.cancel_at_period_end,
			updated_at = NOW()`,
		sub.AccountID, sub.ProviderSubscriptionID, sub.ProviderPriceID, string(sub.Plan), sub.Status,
		sub.CurrentPeriodStart, sub.CurrentPeriodEnd, sub.CancelAtPeriodEnd,
	)
	return err
}

func (s *PostgresSubscriptionStore) FindByProviderID(ctx context.Context, id string) (*Subscription, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT `+subscriptionColumns+` FROM subscriptions WHERE provider_subscription_id = $1`, id)
	return scanSubscription(row)
}

func (s *PostgresSubscriptionStore) FindByAccountID(ctx context.Context, accountID uuid.UUID) (*Subscription, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT `+subscriptionColumns+` FROM subscriptions
		 WHERE account_id = $1 ORDER BY updated_at DESC LIMIT 1`, accountID)
	return scanSubscription(row)
}

func scanSubscription(row pgx.Row) (*Subscription, error) {
	var (
		sub  Subscription
		plan string
	)
	err := row.Scan(&sub.AccountID, &sub.ProviderSubscriptionID, &sub.ProviderPriceID, &plan, &sub.Status,
		&sub.CurrentPeriodStart, &sub.CurrentPeriodEnd, &sub.CancelAtPeriodEnd, &sub.CreatedAt, &sub.UpdatedAt)
	if err != nil {
		if pg.IsNotFoundError(err) {
			return nil, ErrSubscriptionNotFound
		}
		return nil, err
	}
	sub.Plan = accounts.Plan(plan)
	return &sub, nil
}
