package resolver

import "errors"

// Sentinel kinds for resolver errors.
var (
	ErrBatchTooLarge = errors.New("batch too large")
	ErrNilRegistry   = errors.New("nil registry")
)
