package generations_test

import (
	"context"
	"encoding/json"
	"math"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/proposalkit/pkg/generations"
)

func seed(t *testing.T, s generations.Store, accountID uuid.UUID, n int) []generations.Record {
	t.Helper()
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	out := make([]generations.Record, 0, n)
	for i := range n {
		r := &generations.Record{
			AccountID:   accountID,
			Type:        "proposal",
			Title:       "Proposal " + string(rune('A'+i)),
			Output:      "text",
			CreditsUsed: 1,
			CreatedAt:   base.Add(time.Duration(i) * time.Minute),
		}
		require.NoError(t, s.Create(context.Background(), r))
		out = append(out, *r)
	}
	return out
}

func TestMemoryStore_Create(t *testing.T) {
	t.Parallel()
	s := generations.NewMemoryStore()

	r := &generations.Record{AccountID: uuid.New(), Type: "proposal", Input: json.RawMessage(`{"budget":5000}`)}
	require.NoError(t, s.Create(context.Background(), r))
	assert.NotEqual(t, uuid.Nil, r.ID)
	assert.False(t, r.CreatedAt.IsZero())

	got, err := s.FindOneByAccount(context.Background(), r.ID, r.AccountID)
	require.NoError(t, err)
	assert.JSONEq(t, `{"budget":5000}`, string(got.Input))

	assert.ErrorIs(t, s.Create(context.Background(), &generations.Record{}), generations.ErrInvalidRecord)
}

func TestMemoryStore_ListByAccount(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := generations.NewMemoryStore()
	owner := uuid.New()
	records := seed(t, s, owner, 25)
	seed(t, s, uuid.New(), 3)

	t.Run("defaults and newest first", func(t *testing.T) {
		t.Parallel()
		p, err := s.ListByAccount(ctx, owner, 0, 0)
		require.NoError(t, err)
		assert.Equal(t, 1, p.Page)
		assert.Equal(t, 20, p.Limit)
		assert.Equal(t, int64(25), p.Total)
		assert.Equal(t, 2, p.TotalPages)
		require.Len(t, p.Items, 20)
		assert.Equal(t, records[24].ID, p.Items[0].ID)
		for i := 1; i < len(p.Items); i++ {
			assert.True(t, p.Items[i-1].CreatedAt.After(p.Items[i].CreatedAt))
		}
	})

	t.Run("last page", func(t *testing.T) {
		t.Parallel()
		p, err := s.ListByAccount(ctx, owner, 2, 20)
		require.NoError(t, err)
		require.Len(t, p.Items, 5)
		assert.Equal(t, records[0].ID, p.Items[4].ID)
	})

	t.Run("past the end", func(t *testing.T) {
		t.Parallel()
		p, err := s.ListByAccount(ctx, owner, 9, 10)
		require.NoError(t, err)
		assert.Empty(t, p.Items)
		assert.NotNil(t, p.Items)
		assert.Equal(t, 3, p.TotalPages)

		for _, page := range []int{math.MaxInt / 10, 461168601842738790, math.MaxInt} {
			p, err := s.ListByAccount(ctx, owner, page, 20)
			require.NoError(t, err)
			assert.Empty(t, p.Items)
			assert.Equal(t, page, p.Page)
			assert.Equal(t, int64(25), p.Total)
			assert.Equal(t, 2, p.TotalPages)
		}
	})

	t.Run("limit is capped", func(t *testing.T) {
		t.Parallel()
		p, err := s.ListByAccount(ctx, owner, 1, 1000)
		require.NoError(t, err)
		assert.Equal(t, generations.MaxLimit, p.Limit)
		assert.Len(t, p.Items, 25)
	})

	t.Run("empty account", func(t *testing.T) {
		t.Parallel()
		p, err := s.ListByAccount(ctx, uuid.New(), 1, 20)
		require.NoError(t, err)
		assert.Equal(t, int64(0), p.Total)
		assert.Equal(t, 0, p.TotalPages)
	})
}

func TestMemoryStore_FindOneByAccount(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := generations.NewMemoryStore()
	owner, other := uuid.New(), uuid.New()
	r := seed(t, s, owner, 1)[0]

	got, err := s.FindOneByAccount(ctx, r.ID, owner)
	require.NoError(t, err)
	assert.Equal(t, r.Title, got.Title)

	_, err = s.FindOneByAccount(ctx, r.ID, other)
	assert.ErrorIs(t, err, generations.ErrNotFound, "foreign record looks missing")

	_, err = s.FindOneByAccount(ctx, uuid.New(), owner)
	assert.ErrorIs(t, err, generations.ErrNotFound)
}

func TestNormalize(t *testing.T) {
	t.Parallel()
	page, limit := generations.Normalize(-3, 500)
	assert.Equal(t, 1, page)
	assert.Equal(t, 100, limit)

	page, limit = generations.Normalize(4, 10)
	assert.Equal(t, 4, page)
	assert.Equal(t, 10, limit)
}

func TestOffset(t *testing.T) {
	t.Parallel()
	assert.Equal(t, 0, generations.Offset(1, 20))
	assert.Equal(t, 60, generations.Offset(4, 20))
	assert.Equal(t, 0, generations.Offset(0, 0))
	assert.Equal(t, math.MaxInt, generations.Offset(math.MaxInt/10, 20))
	assert.Equal(t, math.MaxInt, generations.Offset(math.MaxInt, generations.MaxLimit))
}

func TestNewStore(t *testing.T) {
	t.Parallel()

	s, err := generations.NewStore(generations.Config{Backend: generations.BackendMemory}, nil, nil)
	require.NoError(t, err)
	assert.IsType(t, &generations.MemoryStore{}, s)

	_, err = generations.NewStore(generations.Config{Backend: "cassandra"}, nil, nil)
	assert.ErrorIs(t, err, generations.ErrUnknownBackend)

	_, err = generations.NewStore(generations.Config{Backend: generations.BackendMongo}, nil, nil)
	assert.ErrorIs(t, err, generations.ErrUnknownBackend)
}
