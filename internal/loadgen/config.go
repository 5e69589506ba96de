// Package loadgen drives a running server with randomly drafted rosters and
// checks every verdict it returns against a local validation engine.
package loadgen

import (
	"time"

	"github.com/okian/cricxi/internal/domain/model"
)

// Config holds configuration for a load run.
type Config struct {
	BaseURL   string             // Base URL of the service
	Rosters   int                // Number of rosters to draft
	BatchSize int                // Rosters per POST /validate/batch
	Workers   int                // Number of concurrent submitters
	Timeout   time.Duration      // HTTP request timeout
	Seed      uint64             // Drafting seed; equal seeds draft equal rosters
	Match     model.MatchContext // Fixture every roster is validated against
}

// Stats holds run statistics.
type Stats struct {
	RostersDrafted   int
	RostersSubmitted int
	BatchesSubmitted int
	BatchesFailed    int
	Valid            int
	Invalid          int
	// Mismatches counts rosters whose server verdict differs from the local one.
	Mismatches int
	StartTime  time.Time
	EndTime    time.Time
	Duration   time.Duration
}

// RostersPerSecond is the submit throughput of the run.
func (s *Stats) RostersPerSecond() float64 {
	if s.Duration <= 0 {
		return 0
	}
	return float64(s.RostersSubmitted) / s.Duration.Seconds()
}
