package credits

import "errors"

var (
	ErrInsufficientCredits = errors.New("insufficient credits")
	ErrInvalidAmount       = errors.New("credit amount must be positive")
	ErrEntryNotFound       = errors.New("credit entry not found")
	ErrStoreFailure        = errors.New("credit store operation failed")
)
