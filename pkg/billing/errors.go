package billing

import "errors"

var (
	ErrWebhookVerificationFailed = errors.New("webhook signature verification failed")
	ErrInvalidWebhookPayload     = errors.New("invalid webhook payload")
	ErrInvalidPlan               = errors.New("invalid billing plan")
	ErrNoBillingCustomer         = errors.New("no billing customer for account")
	ErrSubscriptionNotFound      = errors.New("subscription not found")
	ErrNoCheckoutURL             = errors.New("no checkout URL returned from provider")
	ErrNoPortalURL               = errors.New("no portal URL returned from provider")
	ErrProvider                  = errors.New("billing provider error")

	ErrMissingAPIKey              = errors.New("billing provider API key is required")
	ErrMissingWebhookSecret       = errors.New("billing provider webhook secret is required")
	ErrInvalidProviderEnvironment = errors.New("invalid billing provider environment")
	ErrMissingPriceID             = errors.New("price ID is required")
	ErrMissingCustomerID          = errors.New("customer ID is required")
)
