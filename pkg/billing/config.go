package billing

import "time"

// Config holds the provider-independent billing settings.
type Config struct {
	ProPriceID    string        `env:"BILLING_PRO_PRICE_ID,required"`
	FrontendURL   string        `env:"FRONTEND_URL" envDefault:"http://localhost:5173"`
	DedupeEnabled bool          `env:"BILLING_DEDUPE_ENABLED" envDefault:"false"`
	DedupeTTL     time.Duration `env:"BILLING_DEDUPE_TTL" envDefault:"72h"`
}

// PaddleConfig holds configuration for the Paddle provider.
type PaddleConfig struct {
	APIKey        string `env:"PADDLE_API_KEY,required"`
	WebhookSecret string `env:"PADDLE_WEBHOOK_SECRET,required"`
	Environment   string `env:"PADDLE_ENVIRONMENT" envDefault:"production"`
	// CheckoutURL is the approved page that hosts Paddle.js checkout. Paddle
	// falls back to the default payment link when empty.
	CheckoutURL string `env:"PADDLE_CHECKOUT_URL"`
}
