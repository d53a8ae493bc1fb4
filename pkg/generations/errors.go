package generations

import "errors"

var (
	ErrNotFound       = errors.New("generation not found")
	ErrInvalidRecord  = errors.New("invalid generation record")
	ErrUnknownBackend = errors.New("unknown generations backend")
)
