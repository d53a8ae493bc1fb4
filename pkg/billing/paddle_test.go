package billing_test

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"strconv"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/proposalkit/pkg/billing"
)

const webhookSecret = "pdl_ntfset_test_secret"

func sign(secret string, body []byte) string {
	ts := strconv.FormatInt(time.Now().Unix(), 10)
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(ts + ":"))
	mac.Write(body)
	return "ts=" + ts + ";h1=" + hex.EncodeToString(mac.Sum(nil))
}

func newPaddle(t *testing.T) *billing.PaddleProvider {
	t.Helper()
	p, err := billing.NewPaddleProvider(billing.PaddleConfig{
		APIKey:        "pdl_sdbx_apikey_test",
		WebhookSecret: webhookSecret,
		Environment:   "sandbox",
	})
	require.NoError(t, err)
	return p
}

func TestNewPaddleProvider(t *testing.T) {
	t.Parallel()

	_, err := billing.NewPaddleProvider(billing.PaddleConfig{WebhookSecret: "x"})
	assert.ErrorIs(t, err, billing.ErrMissingAPIKey)

	_, err = billing.NewPaddleProvider(billing.PaddleConfig{APIKey: "x"})
	assert.ErrorIs(t, err, billing.ErrMissingWebhookSecret)

	_, err = billing.NewPaddleProvider(billing.PaddleConfig{APIKey: "x", WebhookSecret: "y", Environment: "staging"})
	assert.ErrorIs(t, err, billing.ErrInvalidProviderEnvironment)
}

func TestPaddleProvider_ParseWebhook(t *testing.T) {
	t.Parallel()
	p := newPaddle(t)
	ctx := context.Background()
	accountID := uuid.New()

	t.Run("first payment is a completed checkout", func(t *testing.T) {
		t.Parallel()
		body := []byte(`{"event_id":"evt_1","event_type":"transaction.completed","data":{
			"id":"txn_1","origin":"web","customer_id":"ctm_1","subscription_id":"sub_1",
			"custom_data":{"account_id":"` + accountID.String() + `"}}}`)

		ev, err := p.ParseWebhook(ctx, body, sign(webhookSecret, body))
		require.NoError(t, err)
		checkout, ok := ev.(billing.CheckoutCompleted)
		require.True(t, ok, "got %T", ev)
		assert.Equal(t, "evt_1", checkout.EventID())
		assert.Equal(t, "transaction.completed", checkout.EventType())
		assert.Equal(t, accountID, checkout.AccountID)
		assert.Equal(t, "ctm_1", checkout.CustomerID)
		assert.Equal(t, "sub_1", checkout.SubscriptionID)
	})

	t.Run("malformed account id", func(t *testing.T) {
		t.Parallel()
		body := []byte(`{"event_id":"evt_2","event_type":"transaction.completed","data":{
			"origin":"api","customer_id":"ctm_1","subscription_id":"sub_1","custom_data":{"account_id":"nope"}}}`)

		ev, err := p.ParseWebhook(ctx, body, sign(webhookSecret, body))
		require.NoError(t, err)
		assert.Equal(t, uuid.Nil, ev.(billing.CheckoutCompleted).AccountID)
	})

	t.Run("recurring payment is a paid invoice", func(t *testing.T) {
		t.Parallel()
		body := []byte(`{"event_id":"evt_3","event_type":"transaction.completed","data":{
			"origin":"subscription_recurring","customer_id":"ctm_1","subscription_id":"sub_1"}}`)

		ev, err := p.ParseWebhook(ctx, body, sign(webhookSecret, body))
		require.NoError(t, err)
		assert.Equal(t, billing.InvoicePaid{
			Meta:           billing.Meta{ID: "evt_3", Type: "transaction.completed"},
			CustomerID:     "ctm_1",
			SubscriptionID: "sub_1",
		}, ev)
	})

	t.Run("one-off payment is unknown", func(t *testing.T) {
		t.Parallel()
		body := []byte(`{"event_id":"evt_4","event_type":"transaction.completed","data":{"origin":"web","customer_id":"ctm_1"}}`)

		ev, err := p.ParseWebhook(ctx, body, sign(webhookSecret, body))
		require.NoError(t, err)
		assert.IsType(t, billing.UnknownEvent{}, ev)
	})

	t.Run("subscription updated", func(t *testing.T) {
		t.Parallel()
		body := []byte(`{"event_id":"evt_5","event_type":"subscription.updated","data":{
			"id":"sub_1","status":"past_due","customer_id":"ctm_1",
			"items":[{"price":{"id":"pri_pro"}}],
			"current_billing_period":{"starts_at":"2025-03-01T00:00:00Z","ends_at":"2025-04-01T00:00:00Z"},
			"scheduled_change":{"action":"cancel","effective_at":"2025-04-01T00:00:00Z"}}}`)

		ev, err := p.ParseWebhook(ctx, body, sign(webhookSecret, body))
		require.NoError(t, err)
		upd, ok := ev.(billing.SubscriptionUpdated)
		require.True(t, ok, "got %T", ev)
		assert.Equal(t, "ctm_1", upd.CustomerID)
		assert.Equal(t, "sub_1", upd.Subscription.ID)
		assert.Equal(t, "past_due", upd.Subscription.Status)
		assert.Equal(t, "pri_pro", upd.Subscription.PriceID)
		assert.True(t, upd.Subscription.CancelAtPeriodEnd)
		require.NotNil(t, upd.Subscription.CurrentPeriodEnd)
		assert.Equal(t, time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC), *upd.Subscription.CurrentPeriodEnd)
	})

	t.Run("subscription canceled", func(t *testing.T) {
		t.Parallel()
		body := []byte(`{"event_id":"evt_6","event_type":"subscription.canceled","data":{"id":"sub_1","status":"canceled","customer_id":"ctm_1"}}`)

		ev, err := p.ParseWebhook(ctx, body, sign(webhookSecret, body))
		require.NoError(t, err)
		assert.Equal(t, billing.SubscriptionDeleted{
			Meta:           billing.Meta{ID: "evt_6", Type: "subscription.canceled"},
			CustomerID:     "ctm_1",
			SubscriptionID: "sub_1",
		}, ev)
	})

	t.Run("unhandled type", func(t *testing.T) {
		t.Parallel()
		body := []byte(`{"event_id":"evt_7","event_type":"customer.created","data":{"id":"ctm_9"}}`)

		ev, err := p.ParseWebhook(ctx, body, sign(webhookSecret, body))
		require.NoError(t, err)
		assert.Equal(t, billing.UnknownEvent{Meta: billing.Meta{ID: "evt_7", Type: "customer.created"}}, ev)
	})

	t.Run("wrong secret", func(t *testing.T) {
		t.Parallel()
		body := []byte(`{"event_id":"evt_8","event_type":"subscription.canceled","data":{}}`)

		_, err := p.ParseWebhook(ctx, body, sign("another_secret", body))
		assert.ErrorIs(t, err, billing.ErrWebhookVerificationFailed)
	})

	t.Run("tampered body", func(t *testing.T) {
		t.Parallel()
		body := []byte(`{"event_id":"evt_9","event_type":"subscription.canceled","data":{}}`)
		sig := sign(webhookSecret, body)

		_, err := p.ParseWebhook(ctx, append(body, ' '), sig)
		assert.ErrorIs(t, err, billing.ErrWebhookVerificationFailed)
	})

	t.Run("missing signature", func(t *testing.T) {
		t.Parallel()
		_, err := p.ParseWebhook(ctx, []byte(`{}`), "")
		assert.ErrorIs(t, err, billing.ErrWebhookVerificationFailed)
	})

	t.Run("invalid json", func(t *testing.T) {
		t.Parallel()
		body := []byte(`{not json`)
		_, err := p.ParseWebhook(ctx, body, sign(webhookSecret, body))
		assert.ErrorIs(t, err, billing.ErrInvalidWebhookPayload)
	})
}
