package billing

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrymomot/proposalkit/pkg/accounts"
)

// StatusCanceled is the status a deleted subscription is stored with.
const StatusCanceled = "canceled"

// StatusActive is the only provider status that grants the paid plan.
const StatusActive = "active"

// Subscription is our record of the account's provider subscription.
type Subscription struct {
	AccountID              uuid.UUID
	ProviderSubscriptionID string
	ProviderPriceID        string
	Plan                   accounts.Plan
	Status                 string
	CurrentPeriodStart     *time.Time
	CurrentPeriodEnd       *time.Time
	CancelAtPeriodEnd      bool
	CreatedAt              time.Time
	UpdatedAt              time.Time
}

// SubscriptionStore persists subscription records keyed by the provider
// subscription id.
type SubscriptionStore interface {
	// Upsert inserts or overwrites the record with the same provider id.
	Upsert(ctx context.Context, s *Subscription) error
	FindByProviderID(ctx context.Context, providerSubscriptionID string) (*Subscription, error)
	FindByAccountID(ctx context.Context, accountID uuid.UUID) (*Subscription, error)
}

// planForStatus grants the paid plan only while the subscription is active.
func planForStatus(status string) accounts.Plan {
	if status == StatusActive {
		return accounts.PlanPro
	}
	return accounts.PlanFree
}
