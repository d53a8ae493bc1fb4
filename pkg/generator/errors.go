package generator

import "errors"

var (
	ErrMisconfigured = errors.New("generator is misconfigured")
	ErrUnavailable   = errors.New("generation provider is unavailable")
	ErrTimeout       = errors.New("generation timed out")
	ErrEmptyResponse = errors.New("generation provider returned an empty response")
	ErrRateLimited   = errors.New("generation provider rate limit exceeded")
	ErrUpstream      = errors.New("generation provider error")
)

// IsRetryable reports whether the same request may succeed later.
func IsRetryable(err error) bool {
	return errors.Is(err, ErrTimeout) ||
		errors.Is(err, ErrUnavailable) ||
		errors.Is(err, ErrEmptyResponse) ||
		errors.Is(err, ErrRateLimited) ||
		errors.Is(err, ErrUpstream)
}
