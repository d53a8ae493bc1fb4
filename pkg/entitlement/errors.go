package entitlement

import "errors"

var (
	ErrUnauthenticated = errors.New("authentication required")
	ErrNoCredits       = errors.New("no credits remaining")
	ErrCreditCheck     = errors.New("failed to check credit balance")
)
