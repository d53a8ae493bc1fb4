package accounts_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/proposalkit/pkg/accounts"
)

func TestMemoryStore(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("create defaults to free plan", func(t *testing.T) {
		t.Parallel()
		s := accounts.NewMemoryStore()
		a := &accounts.Account{Email: "jane@example.com"}
		require.NoError(t, s.Create(ctx, a))
		assert.NotEqual(t, uuid.Nil, a.ID)

		got, err := s.FindByID(ctx, a.ID)
		require.NoError(t, err)
		assert.Equal(t, accounts.PlanFree, got.Plan)
		assert.Empty(t, got.BillingCustomerID)
		assert.False(t, got.CreatedAt.IsZero())
	})

	t.Run("duplicate email rejected", func(t *testing.T) {
		t.Parallel()
		s := accounts.NewMemoryStore()
		require.NoError(t, s.Create(ctx, &accounts.Account{Email: "a@example.com"}))
		assert.ErrorIs(t, s.Create(ctx, &accounts.Account{Email: "A@example.com"}), accounts.ErrAccountExists)
		assert.ErrorIs(t, s.Create(ctx, &accounts.Account{}), accounts.ErrInvalidAccount)
	})

	t.Run("unknown id", func(t *testing.T) {
		t.Parallel()
		s := accounts.NewMemoryStore()
		_, err := s.FindByID(ctx, uuid.New())
		assert.ErrorIs(t, err, accounts.ErrAccountNotFound)
		assert.ErrorIs(t, s.UpdatePlan(ctx, uuid.New(), accounts.PlanPro), accounts.ErrAccountNotFound)
		assert.ErrorIs(t, s.UpdateBillingCustomerID(ctx, uuid.New(), "ctm_1"), accounts.ErrAccountNotFound)
	})

	t.Run("plan and customer updates", func(t *testing.T) {
		t.Parallel()
		s := accounts.NewMemoryStore()
		a := &accounts.Account{Email: "b@example.com"}
		require.NoError(t, s.Create(ctx, a))

		require.NoError(t, s.UpdatePlan(ctx, a.ID, accounts.PlanPro))
		assert.ErrorIs(t, s.UpdatePlan(ctx, a.ID, "gold"), accounts.ErrInvalidPlan)
		require.NoError(t, s.UpdateBillingCustomerID(ctx, a.ID, "ctm_1"))

		got, err := s.FindByBillingCustomerID(ctx, "ctm_1")
		require.NoError(t, err)
		assert.Equal(t, a.ID, got.ID)
		assert.Equal(t, accounts.PlanPro, got.Plan)

		_, err = s.FindByBillingCustomerID(ctx, "")
		assert.ErrorIs(t, err, accounts.ErrAccountNotFound)
	})

	t.Run("returned accounts are copies", func(t *testing.T) {
		t.Parallel()
		s := accounts.NewMemoryStore()
		a := &accounts.Account{Email: "c@example.com"}
		require.NoError(t, s.Create(ctx, a))

		got, err := s.FindByID(ctx, a.ID)
		require.NoError(t, err)
		got.Plan = accounts.PlanPro

		again, err := s.FindByID(ctx, a.ID)
		require.NoError(t, err)
		assert.Equal(t, accounts.PlanFree, again.Plan)
	})
}
