package entitlement_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/proposalkit/pkg/credits"
	"github.com/dmitrymomot/proposalkit/pkg/entitlement"
)

type mockLedger struct {
	mock.Mock
}

func (m *mockLedger) HasCredits(ctx context.Context, accountID uuid.UUID, amount int64) (bool, error) {
	args := m.Called(ctx, accountID, amount)
	return args.Bool(0), args.Error(1)
}

func (m *mockLedger) DeductCredits(ctx context.Context, accountID uuid.UUID, amount int64) error {
	args := m.Called(ctx, accountID, amount)
	return args.Error(0)
}

type recorder struct {
	mu     sync.Mutex
	states []entitlement.State
}

func (r *recorder) observe(_ context.Context, _ uuid.UUID, s entitlement.State) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.states = append(r.states, s)
}

func (r *recorder) get() []entitlement.State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]entitlement.State(nil), r.states...)
}

func seededLedger(t *testing.T, id uuid.UUID, total int64) *credits.Ledger {
	t.Helper()
	l := credits.NewLedger(credits.NewMemoryStore())
	require.NoError(t, l.ResetCredits(context.Background(), id, total))
	return l
}

func TestRun_Unauthenticated(t *testing.T) {
	t.Parallel()
	ledger := &mockLedger{}
	rec := &recorder{}
	gate := entitlement.NewGate(ledger, entitlement.WithObserver(rec.observe))

	called := false
	_, err := entitlement.Run(context.Background(), gate, uuid.Nil, func(context.Context) (string, error) {
		called = true
		return "x", nil
	})

	assert.ErrorIs(t, err, entitlement.ErrUnauthenticated)
	assert.False(t, called)
	ledger.AssertNotCalled(t, "HasCredits", mock.Anything, mock.Anything, mock.Anything)
	assert.Equal(t, []entitlement.State{entitlement.StatePending, entitlement.StateRejectedUnauthenticated}, rec.get())
}

func TestRun_NoCredits(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	id := uuid.New()
	ledger := seededLedger(t, id, 1)
	require.NoError(t, ledger.DeductCredits(ctx, id, 1))
	rec := &recorder{}
	gate := entitlement.NewGate(ledger, entitlement.WithObserver(rec.observe))

	called := false
	_, err := entitlement.Run(ctx, gate, id, func(context.Context) (string, error) {
		called = true
		return "x", nil
	})

	assert.ErrorIs(t, err, entitlement.ErrNoCredits)
	assert.False(t, called, "paid work must not start")
	assert.Equal(t, entitlement.StateRejectedNoCredits, rec.get()[1])

	b, err := ledger.GetCredits(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, int64(1), b.Used)
}

func TestRun_ChargesOnSuccess(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	id := uuid.New()
	ledger := seededLedger(t, id, 5)
	rec := &recorder{}
	gate := entitlement.NewGate(ledger, entitlement.WithObserver(rec.observe))

	out, err := entitlement.Run(ctx, gate, id, func(context.Context) (string, error) {
		return "proposal", nil
	})
	require.NoError(t, err)
	assert.Equal(t, "proposal", out)

	require.NoError(t, gate.Wait(ctx))
	b, err := ledger.GetCredits(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, credits.Balance{Total: 5, Used: 1, Remaining: 4, ResetAt: b.ResetAt}, b)
	assert.Equal(t, []entitlement.State{
		entitlement.StatePending,
		entitlement.StateAdmitted,
		entitlement.StateCompletedCharged,
	}, rec.get())
}

func TestRun_WorkFailureIsNotCharged(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	id := uuid.New()
	ledger := seededLedger(t, id, 5)
	rec := &recorder{}
	gate := entitlement.NewGate(ledger, entitlement.WithObserver(rec.observe))
	errUpstream := errors.New("upstream timeout")

	_, err := entitlement.Run(ctx, gate, id, func(context.Context) (string, error) {
		return "", errUpstream
	})
	assert.ErrorIs(t, err, errUpstream)

	require.NoError(t, gate.Wait(ctx))
	b, err := ledger.GetCredits(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, int64(0), b.Used)
	assert.Equal(t, entitlement.StateFailed, rec.get()[2])
	assert.True(t, entitlement.StateFailed.Terminal())
	assert.False(t, entitlement.StateAdmitted.Terminal())
}

func TestRun_ChargeFailureDoesNotFailResult(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	id := uuid.New()
	var buf bytes.Buffer
	log := slog.New(slog.NewJSONHandler(&syncWriter{w: &buf}, nil))

	ledger := &mockLedger{}
	ledger.On("HasCredits", mock.Anything, id, int64(1)).Return(true, nil)
	ledger.On("DeductCredits", mock.Anything, id, int64(1)).Return(errors.New("db down")).Once()

	rec := &recorder{}
	gate := entitlement.NewGate(ledger, entitlement.WithLogger(log), entitlement.WithObserver(rec.observe))

	out, err := entitlement.Run(ctx, gate, id, func(context.Context) (string, error) {
		return "ok", nil
	})
	require.NoError(t, err)
	assert.Equal(t, "ok", out)

	require.NoError(t, gate.Wait(ctx))
	ledger.AssertNumberOfCalls(t, "DeductCredits", 1)
	assert.Equal(t, entitlement.StateCompletedChargeFailed, rec.get()[2])
	assert.Contains(t, buf.String(), id.String())
	assert.Contains(t, buf.String(), "db down")
}

func TestRun_ChargeSurvivesRequestCancellation(t *testing.T) {
	t.Parallel()
	id := uuid.New()
	ledger := seededLedger(t, id, 5)
	gate := entitlement.NewGate(ledger, entitlement.WithConfig(entitlement.Config{ChargeTimeout: time.Second}))

	ctx, cancel := context.WithCancel(context.Background())
	_, err := entitlement.Run(ctx, gate, id, func(context.Context) (string, error) {
		cancel()
		return "done", nil
	})
	require.NoError(t, err)

	require.NoError(t, gate.Wait(context.Background()))
	b, err := ledger.GetCredits(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, int64(1), b.Used)
}

func TestRun_CreditCheckFailure(t *testing.T) {
	t.Parallel()
	id := uuid.New()
	ledger := &mockLedger{}
	ledger.On("HasCredits", mock.Anything, id, int64(1)).Return(false, errors.New("timeout"))
	rec := &recorder{}
	gate := entitlement.NewGate(ledger, entitlement.WithObserver(rec.observe))

	_, err := entitlement.Run(context.Background(), gate, id, func(context.Context) (int, error) {
		t.Fatal("work must not run")
		return 0, nil
	})
	assert.ErrorIs(t, err, entitlement.ErrCreditCheck)
	assert.NotErrorIs(t, err, entitlement.ErrNoCredits)
	assert.Equal(t, []entitlement.State{entitlement.StatePending, entitlement.StateFailed}, rec.get())
	ledger.AssertNotCalled(t, "DeductCredits", mock.Anything, mock.Anything, mock.Anything)
}

func TestRun_ConcurrentRequestsDoNotOverdraw(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	id := uuid.New()
	ledger := seededLedger(t, id, 1)
	gate := entitlement.NewGate(ledger)

	// Both requests are admitted before either is charged.
	admitted := make(chan struct{})
	var wg sync.WaitGroup
	var mu sync.Mutex
	successes := 0
	var once sync.Once
	var waiting sync.WaitGroup
	waiting.Add(2)
	for range 2 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := entitlement.Run(ctx, gate, id, func(context.Context) (string, error) {
				waiting.Done()
				once.Do(func() {
					go func() {
						waiting.Wait()
						close(admitted)
					}()
				})
				<-admitted
				return "ok", nil
			})
			if err == nil {
				mu.Lock()
				successes++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	require.NoError(t, gate.Wait(ctx))

	assert.Equal(t, 2, successes)
	b, err := ledger.GetCredits(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, int64(1), b.Used, "the losing charge is rejected, never overdrawn")
	assert.Equal(t, int64(0), b.Remaining)
}

type syncWriter struct {
	mu sync.Mutex
	w  *bytes.Buffer
}

func (s *syncWriter) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.w.Write(p)
}
