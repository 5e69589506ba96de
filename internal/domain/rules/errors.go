package rules

import "errors"

// Sentinel kinds for rule set errors.
var (
	ErrInvalidConfig = errors.New("invalid rules config")
	ErrInvalidRule   = errors.New("invalid rule")
	ErrDuplicateRule = errors.New("duplicate rule id")
)
