package loadgen

import (
	"context"
	"fmt"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/okian/cricxi/internal/domain/model"
	"github.com/okian/cricxi/internal/domain/rules"
	"github.com/okian/cricxi/internal/domain/types"
	"github.com/okian/cricxi/pkg/logger"
)

// Checker validates a roster locally.
type Checker interface {
	Validate(in rules.Input) types.Verdict
}

// Run drafts cfg.Rosters rosters from pool, submits them in batches with
// cfg.Workers concurrent submitters and compares every returned verdict with
// local. Failed batches are counted, not fatal.
func Run(ctx context.Context, cfg Config, pool []model.Player, local Checker) (*Stats, error) {
	cfg = withDefaults(cfg)
	log := logger.Get().Named("loadgen")
	stats := &Stats{StartTime: time.Now()}

	log.Info(ctx, "starting roster load run",
		logger.String("baseURL", cfg.BaseURL),
		logger.Int("rosters", cfg.Rosters),
		logger.Int("batchSize", cfg.BatchSize),
		logger.Int("workers", cfg.Workers),
		logger.Duration("timeout", cfg.Timeout))

	client := NewClient(cfg.BaseURL, cfg.Timeout)
	if err := client.Health(ctx); err != nil {
		return nil, fmt.Errorf("service health check failed: %w", err)
	}

	drafts, err := Generate(ctx, pool, cfg.Rosters, cfg.Seed)
	if err != nil {
		return nil, fmt.Errorf("roster drafting failed: %w", err)
	}
	stats.RostersDrafted = len(drafts)

	expected := make(map[string]bool, len(drafts))
	for _, d := range drafts {
		expected[d.Request.ID] = local.Validate(rules.Input{Roster: d.Roster, Match: cfg.Match}).IsValid
	}

	var (
		submitted, batches, failed atomic.Int64
		valid, invalid, mismatches atomic.Int64
	)
	check := func(rosters []model.Roster, want bool) {
		for _, r := range rosters {
			if exp, ok := expected[r.ID]; !ok || exp != want {
				mismatches.Add(1)
			}
		}
	}

	jobs := make(chan []Draft, cfg.Workers*workerChannelMultiplier)
	var wg sync.WaitGroup
	for i := 0; i < cfg.Workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for batch := range jobs {
				reqs := make([]RosterRequest, len(batch))
				for j, d := range batch {
					reqs[j] = d.Request
				}
				batches.Add(1)
				part, err := client.ValidateBatch(ctx, reqs, cfg.Match)
				if err != nil {
					failed.Add(1)
					log.Warn(ctx, "batch failed", logger.Int("rosters", len(batch)), logger.Error(err))
					continue
				}
				submitted.Add(int64(len(batch)))
				valid.Add(int64(len(part.Valid)))
				invalid.Add(int64(len(part.Invalid)))
				check(part.Valid, true)
				check(part.Invalid, false)
				if got := len(part.Valid) + len(part.Invalid); got != len(batch) {
					mismatches.Add(int64(abs(len(batch) - got)))
				}
			}
		}()
	}

	go func() {
		defer close(jobs)
		for start := 0; start < len(drafts); start += cfg.BatchSize {
			end := min(start+cfg.BatchSize, len(drafts))
			select {
			case <-ctx.Done():
				return
			case jobs <- drafts[start:end]:
			}
		}
	}()
	wg.Wait()

	stats.RostersSubmitted = int(submitted.Load())
	stats.BatchesSubmitted = int(batches.Load())
	stats.BatchesFailed = int(failed.Load())
	stats.Valid = int(valid.Load())
	stats.Invalid = int(invalid.Load())
	stats.Mismatches = int(mismatches.Load())
	stats.EndTime = time.Now()
	stats.Duration = stats.EndTime.Sub(stats.StartTime)

	log.Info(ctx, "load run completed",
		logger.Int("submitted", stats.RostersSubmitted),
		logger.Int("valid", stats.Valid),
		logger.Int("invalid", stats.Invalid),
		logger.Int("batchesFailed", stats.BatchesFailed),
		logger.Int("mismatches", stats.Mismatches),
		logger.Float64("rostersPerSecond", stats.RostersPerSecond()))

	if err := ctx.Err(); err != nil {
		return stats, err
	}
	return stats, nil
}

func withDefaults(cfg Config) Config {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Rosters <= 0 {
		cfg.Rosters = DefaultRosters
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = DefaultBatchSize
	}
	if cfg.Workers <= 0 {
		cfg.Workers = runtime.NumCPU()
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	return cfg
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
