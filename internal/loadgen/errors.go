package loadgen

import "errors"

// Sentinel kinds for load runs.
var (
	ErrInvalidConfig = errors.New("invalid loadgen config")
	ErrUnhealthy     = errors.New("service not healthy")
)
