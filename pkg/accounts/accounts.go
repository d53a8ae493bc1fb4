// Package accounts stores account identity, plan and billing customer
// reference. Accounts are created at registration and never deleted.
package accounts

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Plan is the subscription tier of an account.
type Plan string

const (
	PlanFree Plan = "free"
	PlanPro  Plan = "pro"
)

func (p Plan) Valid() bool {
	return p == PlanFree || p == PlanPro
}

type Account struct {
	ID    uuid.UUID
	Email string
	Plan  Plan
	// BillingCustomerID is empty until the first checkout.
	BillingCustomerID string
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// Store is the account persistence contract.
type Store interface {
	Create(ctx context.Context, a *Account) error
	FindByID(ctx context.Context, id uuid.UUID) (*Account, error)
	FindByBillingCustomerID(ctx context.Context, customerID string) (*Account, error)
	UpdatePlan(ctx context.Context, id uuid.UUID, plan Plan) error
	UpdateBillingCustomerID(ctx context.Context, id uuid.UUID, customerID string) error
}
