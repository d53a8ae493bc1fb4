package billing

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/google/uuid"
)

// SignatureHeader is the request header Paddle signs webhooks with.
const SignatureHeader = "Paddle-Signature"

const (
	paddleTransactionCompleted = "transaction.completed"
	paddleSubscriptionUpdated  = "subscription.updated"
	paddleSubscriptionCanceled = "subscription.canceled"

	originWeb                   = "web"
	originAPI                   = "api"
	originSubscriptionRecurring = "subscription_recurring"

	scheduledActionCancel = "cancel"
)

type paddleNotification struct {
	EventID   string          `json:"event_id"`
	EventType string          `json:"event_type"`
	Data      json.RawMessage `json:"data"`
}

type paddleBillingPeriod struct {
	StartsAt string `json:"starts_at"`
	EndsAt   string `json:"ends_at"`
}

type paddleItem struct {
	PriceID string `json:"price_id"`
	Price   *struct {
		ID string `json:"id"`
	} `json:"price"`
}

func (i paddleItem) priceID() string {
	if i.Price != nil && i.Price.ID != "" {
		return i.Price.ID
	}
	return i.PriceID
}

type paddleTransaction struct {
	ID             string         `json:"id"`
	Origin         string         `json:"origin"`
	CustomerID     string         `json:"customer_id"`
	SubscriptionID string         `json:"subscription_id"`
	CustomData     map[string]any `json:"custom_data"`
}

type paddleSubscription struct {
	ID                   string               `json:"id"`
	Status               string               `json:"status"`
	CustomerID           string               `json:"customer_id"`
	Items                []paddleItem         `json:"items"`
	CurrentBillingPeriod *paddleBillingPeriod `json:"current_billing_period"`
	ScheduledChange      *struct {
		Action string `json:"action"`
	} `json:"scheduled_change"`
}

// ParseWebhook verifies the Paddle-Signature header and maps the notification
// onto an Event.
func (p *PaddleProvider) ParseWebhook(ctx context.Context, payload []byte, signature string) (Event, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, "/webhook", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create request for verification: %w", err)
	}
	req.Header.Set(SignatureHeader, signature)

	valid, err := p.verifier.Verify(req)
	if err != nil {
		return nil, errors.Join(ErrWebhookVerificationFailed, err)
	}
	if !valid {
		return nil, ErrWebhookVerificationFailed
	}

	return decodePaddleNotification(payload)
}

func decodePaddleNotification(payload []byte) (Event, error) {
	var n paddleNotification
	if err := json.Unmarshal(payload, &n); err != nil {
		return nil, errors.Join(ErrInvalidWebhookPayload, err)
	}
	meta := Meta{ID: n.EventID, Type: n.EventType}

	switch n.EventType {
	case paddleTransactionCompleted:
		var tx paddleTransaction
		if err := json.Unmarshal(n.Data, &tx); err != nil {
			return nil, errors.Join(ErrInvalidWebhookPayload, err)
		}
		switch tx.Origin {
		case originWeb, originAPI:
			if tx.SubscriptionID == "" {
				return UnknownEvent{Meta: meta}, nil
			}
			return CheckoutCompleted{
				Meta:           meta,
				AccountID:      accountIDFrom(tx.CustomData),
				CustomerID:     tx.CustomerID,
				SubscriptionID: tx.SubscriptionID,
			}, nil
		case originSubscriptionRecurring:
			return InvoicePaid{
				Meta:           meta,
				CustomerID:     tx.CustomerID,
				SubscriptionID: tx.SubscriptionID,
			}, nil
		default:
			return UnknownEvent{Meta: meta}, nil
		}

	case paddleSubscriptionUpdated:
		var sub paddleSubscription
		if err := json.Unmarshal(n.Data, &sub); err != nil {
			return nil, errors.Join(ErrInvalidWebhookPayload, err)
		}
		return SubscriptionUpdated{
			Meta:         meta,
			CustomerID:   sub.CustomerID,
			Subscription: sub.toProvider(),
		}, nil

	case paddleSubscriptionCanceled:
		var sub paddleSubscription
		if err := json.Unmarshal(n.Data, &sub); err != nil {
			return nil, errors.Join(ErrInvalidWebhookPayload, err)
		}
		return SubscriptionDeleted{
			Meta:           meta,
			CustomerID:     sub.CustomerID,
			SubscriptionID: sub.ID,
		}, nil

	default:
		return UnknownEvent{Meta: meta}, nil
	}
}

func (s paddleSubscription) toProvider() ProviderSubscription {
	out := ProviderSubscription{
		ID:         s.ID,
		CustomerID: s.CustomerID,
		Status:     s.Status,
	}
	if len(s.Items) > 0 {
		out.PriceID = s.Items[0].priceID()
	}
	if s.CurrentBillingPeriod != nil {
		out.CurrentPeriodStart = parseTime(s.CurrentBillingPeriod.StartsAt)
		out.CurrentPeriodEnd = parseTime(s.CurrentBillingPeriod.EndsAt)
	}
	if s.ScheduledChange != nil {
		out.CancelAtPeriodEnd = s.ScheduledChange.Action == scheduledActionCancel
	}
	return out
}

func accountIDFrom(data map[string]any) uuid.UUID {
	raw, ok := data[MetadataAccountID].(string)
	if !ok {
		return uuid.Nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil
	}
	return id
}
