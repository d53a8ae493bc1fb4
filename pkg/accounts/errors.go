package accounts

import "errors"

var (
	ErrAccountNotFound = errors.New("account not found")
	ErrAccountExists   = errors.New("account already exists")
	ErrInvalidPlan     = errors.New("invalid plan")
	ErrInvalidAccount  = errors.New("invalid account")
)
