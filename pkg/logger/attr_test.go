package logger_test

import (
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/proposalkit/pkg/logger"
)

func TestError(t *testing.T) {
	t.Parallel()

	err := errors.New("boom")
	attr := logger.Error(err)
	require.Equal(t, "error", attr.Key)
	assert.Equal(t, err, attr.Value.Any())

	assert.True(t, logger.Error(nil).Equal(slog.Attr{}))
}

func TestAccountID(t *testing.T) {
	t.Parallel()

	id := uuid.New()
	attr := logger.AccountID(id)
	require.Equal(t, "account_id", attr.Key)
	assert.Equal(t, id.String(), attr.Value.String())

	assert.True(t, logger.AccountID(uuid.Nil).Equal(slog.Attr{}))
}

func TestRequestID(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "req-1", logger.RequestID("req-1").Value.String())
	assert.True(t, logger.RequestID("").Equal(slog.Attr{}))
}

func TestBillingAttrs(t *testing.T) {
	t.Parallel()

	type plan string

	assert.Equal(t, "event_id", logger.EventID("evt_1").Key)
	assert.Equal(t, "customer_id", logger.CustomerID("ctm_1").Key)
	assert.Equal(t, "subscription_id", logger.SubscriptionID("sub_1").Key)
	assert.Equal(t, "event_type", logger.EventType("transaction.completed").Key)
	assert.Equal(t, "pro", logger.Plan(plan("pro")).Value.String())

	credits := logger.Credits("total", 100)
	assert.Equal(t, "total", credits.Key)
	assert.Equal(t, int64(100), credits.Value.Int64())
}

func TestDuration(t *testing.T) {
	t.Parallel()

	attr := logger.Duration(1500 * time.Millisecond)
	assert.Equal(t, "duration", attr.Key)
	assert.Equal(t, 1500*time.Millisecond, attr.Value.Duration())
}
