package mongo

import "errors"

var (
	ErrConnect   = errors.New("mongo: connect failed")
	ErrUnhealthy = errors.New("mongo: ping failed")
)
