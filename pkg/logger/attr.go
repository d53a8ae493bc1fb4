package logger

import (
	"log/slog"
	"time"

	"github.com/google/uuid"
)

// Error logs err under "error". A nil err yields an empty attribute, which
// slog drops.
func Error(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}
	return slog.Any("error", err)
}

// AccountID is empty for uuid.Nil, so anonymous requests log no account.
func AccountID(id uuid.UUID) slog.Attr {
	if id == uuid.Nil {
		return slog.Attr{}
	}
	return slog.String("account_id", id.String())
}

func RequestID(id string) slog.Attr {
	if id == "" {
		return slog.Attr{}
	}
	return slog.String("request_id", id)
}

// Billing provider references.

func CustomerID(id string) slog.Attr     { return slog.String("customer_id", id) }
func SubscriptionID(id string) slog.Attr { return slog.String("subscription_id", id) }
func EventID(id string) slog.Attr        { return slog.String("event_id", id) }
func EventType(t string) slog.Attr       { return slog.String("event_type", t) }

// Plan accepts any string-based plan type.
func Plan[P ~string](plan P) slog.Attr {
	return slog.String("plan", string(plan))
}

// Credits logs a credit amount under key, such as "total" or "remaining".
func Credits(key string, n int64) slog.Attr {
	return slog.Int64(key, n)
}

func Duration(d time.Duration) slog.Attr {
	return slog.Duration("duration", d)
}

func Component(name string) slog.Attr {
	return slog.String("component", name)
}
