package billing

import "context"

type CheckoutRequest struct {
	CustomerID string
	PriceID    string
	SuccessURL string
	CancelURL  string
	Metadata   map[string]string
}

type CheckoutSession struct {
	URL       string `json:"url"`
	SessionID string `json:"session_id"`
}

// Provider is implemented by payment providers.
type Provider interface {
	// CreateCustomer returns the provider's customer id.
	CreateCustomer(ctx context.Context, email string, metadata map[string]string) (string, error)
	CreateCheckoutSession(ctx context.Context, req CheckoutRequest) (*CheckoutSession, error)
	// CreatePortalSession returns the URL of the customer's self-service portal.
	CreatePortalSession(ctx context.Context, customerID, returnURL string) (string, error)
	RetrieveSubscription(ctx context.Context, subscriptionID string) (*ProviderSubscription, error)
	// ParseWebhook verifies the signature and decodes the payload. A bad
	// signature yields ErrWebhookVerificationFailed.
	ParseWebhook(ctx context.Context, payload []byte, signature string) (Event, error)
}
