package billing

import (
	"time"

	"github.com/google/uuid"
)

// Event is a verified webhook delivery. The concrete type is one of
// CheckoutCompleted, SubscriptionUpdated, SubscriptionDeleted, InvoicePaid or
// UnknownEvent.
type Event interface {
	EventID() string
	EventType() string
	isEvent()
}

// Meta carries the provider's event id and raw event type.
type Meta struct {
	ID   string
	Type string
}

func (m Meta) EventID() string   { return m.ID }
func (m Meta) EventType() string { return m.Type }
func (Meta) isEvent()            {}

// CheckoutCompleted reports a finished first payment for a subscription.
// AccountID comes from the metadata attached at checkout and is uuid.Nil when
// missing or malformed.
type CheckoutCompleted struct {
	Meta
	AccountID      uuid.UUID
	CustomerID     string
	SubscriptionID string
}

// SubscriptionUpdated carries the subscription state after a change.
type SubscriptionUpdated struct {
	Meta
	CustomerID   string
	Subscription ProviderSubscription
}

type SubscriptionDeleted struct {
	Meta
	CustomerID     string
	SubscriptionID string
}

// InvoicePaid reports a successful renewal payment.
type InvoicePaid struct {
	Meta
	CustomerID     string
	SubscriptionID string
}

type UnknownEvent struct {
	Meta
}

// ProviderSubscription is the provider's view of a subscription.
type ProviderSubscription struct {
	ID                 string
	CustomerID         string
	PriceID            string
	Status             string
	CurrentPeriodStart *time.Time
	CurrentPeriodEnd   *time.Time
	CancelAtPeriodEnd  bool
}
