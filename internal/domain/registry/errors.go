package registry

import "errors"

// Sentinel kinds for registry construction errors.
var (
	ErrDuplicateID   = errors.New("duplicate player id")
	ErrInvalidPlayer = errors.New("invalid player")
)
