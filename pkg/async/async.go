package async

import (
	"context"
	"sync"
	"time"
)

// Future holds the eventual result of a function started with Async or Detached.
type Future[U any] struct {
	result U
	err    error
	done   chan struct{}
}

// Await blocks until the function returns.
func (f *Future[U]) Await() (U, error) {
	<-f.done
	return f.result, f.err
}

// AwaitWithTimeout waits at most timeout. The function keeps running after a
// timeout; only the caller stops waiting.
func (f *Future[U]) AwaitWithTimeout(timeout time.Duration) (U, error) {
	select {
	case <-f.done:
		return f.result, f.err
	case <-time.After(timeout):
		var zero U
		return zero, ErrTimeout
	}
}

// Done is closed once the result is available.
func (f *Future[U]) Done() <-chan struct{} {
	return f.done
}

func (f *Future[U]) IsComplete() bool {
	select {
	case <-f.done:
		return true
	default:
		return false
	}
}

// Async runs fn(ctx, param) on a new goroutine. If ctx is already done the
// function is not called and the future resolves to ctx.Err().
func Async[T any, U any](ctx context.Context, param T, fn func(context.Context, T) (U, error)) *Future[U] {
	f := &Future[U]{done: make(chan struct{})}

	go func() {
		defer close(f.done)
		if err := ctx.Err(); err != nil {
			f.err = err
			return
		}
		f.result, f.err = fn(ctx, param)
	}()

	return f
}

// Detached runs fn on a context that keeps the values of ctx but ignores its
// cancellation, bounded by timeout instead. Use it for work that must outlive
// the request that triggered it. A non-positive timeout means no bound.
func Detached[T any, U any](ctx context.Context, timeout time.Duration, param T, fn func(context.Context, T) (U, error)) *Future[U] {
	f := &Future[U]{done: make(chan struct{})}

	go func() {
		defer close(f.done)
		dctx := context.WithoutCancel(ctx)
		if timeout > 0 {
			var cancel context.CancelFunc
			dctx, cancel = context.WithTimeout(dctx, timeout)
			defer cancel()
		}
		f.result, f.err = fn(dctx, param)
	}()

	return f
}

// WaitAll awaits futures in order and stops at the first error.
func WaitAll[U any](futures ...*Future[U]) ([]U, error) {
	results := make([]U, len(futures))
	for i, future := range futures {
		result, err := future.Await()
		results[i] = result
		if err != nil {
			return results, err
		}
	}
	return results, nil
}

// Tracker counts in-flight futures so a caller can wait for all of them, for
// example during shutdown or at the end of a test.
type Tracker struct {
	wg sync.WaitGroup
}

// Track registers a future's completion channel.
func (t *Tracker) Track(done <-chan struct{}) {
	t.wg.Add(1)
	go func() {
		defer t.wg.Done()
		<-done
	}()
}

// Wait blocks until every tracked future has completed.
func (t *Tracker) Wait() {
	t.wg.Wait()
}

// WaitContext is like Wait but returns ctx.Err() if ctx ends first.
func (t *Tracker) WaitContext(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		t.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
