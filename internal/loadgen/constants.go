package loadgen

import "time"

// Defaults applied to zero Config fields.
const (
	DefaultBaseURL   = "http://localhost:9080"
	DefaultRosters   = 1000
	DefaultBatchSize = 50
	DefaultTimeout   = 30 * time.Second
)

// Drafting constants.
const (
	rosterSize = 11
	// One roster in sharedArmbandOdds reuses the captain as vice-captain.
	sharedArmbandOdds = 5
)

// Worker configuration constants.
const (
	workerChannelMultiplier = 2
)
