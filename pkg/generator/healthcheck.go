package generator

import (
	"context"
	"time"
)

// Healthcheck returns a check that pings g, bounded by timeout when it is
// positive.
func Healthcheck(g Generator, timeout time.Duration) func(context.Context) error {
	return func(ctx context.Context) error {
		if timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, timeout)
			defer cancel()
		}
		return g.Ping(ctx)
	}
}
