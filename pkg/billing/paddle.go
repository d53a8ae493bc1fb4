package billing

import (
	"context"
	"fmt"
	"strings"
	"time"

	paddle "github.com/PaddleHQ/paddle-go-sdk/v4"
)

// MetadataAccountID is the custom data key that carries our account id through
// the provider.
const MetadataAccountID = "account_id"

// PaddleProvider implements Provider on Paddle Billing.
type PaddleProvider struct {
	client   *paddle.SDK
	verifier *paddle.WebhookVerifier
	config   PaddleConfig
}

func NewPaddleProvider(config PaddleConfig) (*PaddleProvider, error) {
	if config.APIKey == "" {
		return nil, ErrMissingAPIKey
	}
	if config.WebhookSecret == "" {
		return nil, ErrMissingWebhookSecret
	}

	var (
		client *paddle.SDK
		err    error
	)
	switch strings.ToLower(config.Environment) {
	case "sandbox":
		client, err = paddle.NewSandbox(config.APIKey)
	case "production", "":
		client, err = paddle.New(config.APIKey)
	default:
		return nil, fmt.Errorf("%w: %s", ErrInvalidProviderEnvironment, config.Environment)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create paddle client: %w", err)
	}

	return &PaddleProvider{
		client:   client,
		verifier: paddle.NewWebhookVerifier(config.WebhookSecret),
		config:   config,
	}, nil
}

func (p *PaddleProvider) CreateCustomer(ctx context.Context, email string, metadata map[string]string) (string, error) {
	customer, err := p.client.CustomersClient.CreateCustomer(ctx, &paddle.CreateCustomerRequest{
		Email:      email,
		CustomData: customData(metadata),
	})
	if err != nil {
		return "", fmt.Errorf("%w: create customer: %w", ErrProvider, err)
	}
	return customer.ID, nil
}

// CreateCheckoutSession creates a ready transaction for the price. Paddle has
// no cancel redirect, so both redirect URLs travel in custom data for the
// checkout page to use.
func (p *PaddleProvider) CreateCheckoutSession(ctx context.Context, req CheckoutRequest) (*CheckoutSession, error) {
	if req.PriceID == "" {
		return nil, ErrMissingPriceID
	}
	if req.CustomerID == "" {
		return nil, ErrMissingCustomerID
	}

	data := customData(req.Metadata)
	if req.SuccessURL != "" {
		data["success_url"] = req.SuccessURL
	}
	if req.CancelURL != "" {
		data["cancel_url"] = req.CancelURL
	}

	item := paddle.NewCreateTransactionItemsTransactionItemFromCatalog(&paddle.TransactionItemFromCatalog{
		PriceID:  req.PriceID,
		Quantity: 1,
	})
	txReq := &paddle.CreateTransactionRequest{
		Items:      []paddle.CreateTransactionItems{*item},
		CustomerID: paddle.PtrTo(req.CustomerID),
		CustomData: data,
	}
	if p.config.CheckoutURL != "" {
		txReq.Checkout = &paddle.TransactionCheckout{URL: paddle.PtrTo(p.config.CheckoutURL)}
	}

	tx, err := p.client.TransactionsClient.CreateTransaction(ctx, txReq)
	if err != nil {
		return nil, fmt.Errorf("%w: create transaction: %w", ErrProvider, err)
	}
	if tx.Checkout == nil || tx.Checkout.URL == nil || *tx.Checkout.URL == "" {
		return nil, ErrNoCheckoutURL
	}

	return &CheckoutSession{URL: *tx.Checkout.URL, SessionID: tx.ID}, nil
}

// CreatePortalSession ignores returnURL: Paddle's portal links back through
// the account's configured website.
func (p *PaddleProvider) CreatePortalSession(ctx context.Context, customerID, _ string) (string, error) {
	if customerID == "" {
		return "", ErrMissingCustomerID
	}
	session, err := p.client.CustomerPortalSessionsClient.CreateCustomerPortalSession(ctx, &paddle.CreateCustomerPortalSessionRequest{
		CustomerID: customerID,
	})
	if err != nil {
		return "", fmt.Errorf("%w: create portal session: %w", ErrProvider, err)
	}
	if session.URLs.General.Overview == "" {
		return "", ErrNoPortalURL
	}
	return session.URLs.General.Overview, nil
}

func (p *PaddleProvider) RetrieveSubscription(ctx context.Context, subscriptionID string) (*ProviderSubscription, error) {
	sub, err := p.client.SubscriptionsClient.GetSubscription(ctx, &paddle.GetSubscriptionRequest{
		SubscriptionID: subscriptionID,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: get subscription: %w", ErrProvider, err)
	}

	out := &ProviderSubscription{
		ID:         sub.ID,
		CustomerID: sub.CustomerID,
		Status:     string(sub.Status),
	}
	if len(sub.Items) > 0 {
		out.PriceID = sub.Items[0].Price.ID
	}
	if sub.CurrentBillingPeriod != nil {
		out.CurrentPeriodStart = parseTime(sub.CurrentBillingPeriod.StartsAt)
		out.CurrentPeriodEnd = parseTime(sub.CurrentBillingPeriod.EndsAt)
	}
	if sub.ScheduledChange != nil {
		out.CancelAtPeriodEnd = string(sub.ScheduledChange.Action) == scheduledActionCancel
	}
	return out, nil
}

func customData(metadata map[string]string) paddle.CustomData {
	data := paddle.CustomData{}
	for k, v := range metadata {
		data[k] = v
	}
	return data
}

func parseTime(s string) *time.Time {
	if s == "" {
		return nil
	}
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return nil
	}
	t = t.UTC()
	return &t
}
