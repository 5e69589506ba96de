// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New(ctx) to build a Config with defaults, and Load(ctx) to layer
//   a YAML file and environment variables on top.
// - All functions accept context.Context as the first parameter.
// - Errors wrap this package's sentinels so callers can use errors.Is.
package config

import (
	"context"
	"fmt"
	"runtime"
	"strings"

	"github.com/okian/cricxi/internal/domain/model"
	"github.com/okian/cricxi/internal/domain/resolver"
	"github.com/okian/cricxi/internal/domain/rules"
	"github.com/okian/cricxi/internal/domain/scoring"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":9080".
	Addr string `koanf:"addr"`

	// PlayersFile is the YAML player pool loaded at startup.
	PlayersFile string `koanf:"players_file"`

	// WorkerCount sets the number of batch validation workers.
	WorkerCount int `koanf:"worker_count"`

	// MaxBatchRosters caps POST /validate/batch.
	MaxBatchRosters int `koanf:"max_batch_rosters"`

	// QueueSize bounds the batch validation job queue.
	QueueSize int `koanf:"queue_size"`

	Resolver ResolverConfig `koanf:"resolver"`
	Rules    rules.Config   `koanf:"rules"`
	Scoring  ScoringConfig  `koanf:"scoring"`
}

// ResolverConfig tunes the identity resolution cascade.
type ResolverConfig struct {
	MaxBatchLines     int     `koanf:"max_batch_lines"`
	FuzzyThreshold    float64 `koanf:"fuzzy_threshold"`
	PoolConfidence    float64 `koanf:"pool_confidence"`
	MinSubstringLen   int     `koanf:"min_substring_len"`
	IncludeIneligible bool    `koanf:"include_ineligible"`
}

// Options translates the section into resolver options.
func (r ResolverConfig) Options() []resolver.Option {
	return []resolver.Option{
		resolver.WithMaxBatchLines(r.MaxBatchLines),
		resolver.WithFuzzyThreshold(r.FuzzyThreshold),
		resolver.WithPoolConfidence(r.PoolConfidence),
		resolver.WithMinSubstringLen(r.MinSubstringLen),
		resolver.WithIncludeIneligible(r.IncludeIneligible),
	}
}

// ScoringConfig tunes the roster strength score.
type ScoringConfig struct {
	HighValueCredits float64    `koanf:"high_value_credits"`
	Ideal            IdealRoles `koanf:"ideal"`
}

// IdealRoles is the role distribution a balanced roster aims for.
type IdealRoles struct {
	WK   int `koanf:"wk"`
	BAT  int `koanf:"bat"`
	AR   int `koanf:"ar"`
	BOWL int `koanf:"bowl"`
}

// Map returns the distribution keyed by role.
func (i IdealRoles) Map() map[model.Role]int {
	return map[model.Role]int{
		model.RoleWicketkeeper: i.WK,
		model.RoleBatter:       i.BAT,
		model.RoleAllrounder:   i.AR,
		model.RoleBowler:       i.BOWL,
	}
}

// ScoringOptions translates the scoring section into scorer options. The
// credit cap follows rules.credit_max.
func (c *Config) ScoringOptions() []scoring.Option {
	return []scoring.Option{
		scoring.WithCreditCap(c.Rules.CreditMax),
		scoring.WithHighValueCredits(c.Scoring.HighValueCredits),
		scoring.WithIdealRoles(c.Scoring.Ideal.Map()),
	}
}

// New creates a Config with defaults. Context is accepted first to satisfy
// the project-wide convention.
func New(_ context.Context) *Config {
	return &Config{
		LogLevel:        "info",
		Addr:            ":9080",
		PlayersFile:     "",
		WorkerCount:     runtime.NumCPU(),
		MaxBatchRosters: 1000,
		QueueSize:       4096,
		Resolver: ResolverConfig{
			MaxBatchLines:   resolver.DefaultMaxBatchLines,
			FuzzyThreshold:  resolver.DefaultFuzzyThreshold,
			PoolConfidence:  resolver.DefaultPoolConfidence,
			MinSubstringLen: resolver.DefaultMinSubstringLen,
		},
		Rules: rules.DefaultConfig(),
		Scoring: ScoringConfig{
			HighValueCredits: 10,
			Ideal:            IdealRoles{WK: 1, BAT: 4, AR: 2, BOWL: 4},
		},
	}
}

var logLevels = map[string]struct{}{"debug": {}, "info": {}, "warn": {}, "error": {}}

// Validate checks field ranges.
func (c *Config) Validate() error {
	if c.Addr == "" {
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	}
	if _, ok := logLevels[strings.ToLower(c.LogLevel)]; !ok {
		return fmt.Errorf("%w: unknown log_level %q", ErrInvalidConfig, c.LogLevel)
	}
	if c.WorkerCount <= 0 {
		return fmt.Errorf("%w: worker_count must be positive, got %d", ErrInvalidConfig, c.WorkerCount)
	}
	if c.MaxBatchRosters <= 0 {
		return fmt.Errorf("%w: max_batch_rosters must be positive, got %d", ErrInvalidConfig, c.MaxBatchRosters)
	}
	if c.QueueSize <= 0 {
		return fmt.Errorf("%w: queue_size must be positive, got %d", ErrInvalidConfig, c.QueueSize)
	}

	r := c.Resolver
	switch {
	case r.MaxBatchLines <= 0:
		return fmt.Errorf("%w: resolver.max_batch_lines must be positive", ErrInvalidConfig)
	case r.FuzzyThreshold <= 0 || r.FuzzyThreshold > 1:
		return fmt.Errorf("%w: resolver.fuzzy_threshold must be in (0, 1], got %v", ErrInvalidConfig, r.FuzzyThreshold)
	case r.PoolConfidence <= 0 || r.PoolConfidence > 1:
		return fmt.Errorf("%w: resolver.pool_confidence must be in (0, 1], got %v", ErrInvalidConfig, r.PoolConfidence)
	case r.MinSubstringLen <= 0:
		return fmt.Errorf("%w: resolver.min_substring_len must be positive", ErrInvalidConfig)
	}

	if err := c.Rules.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	if c.Scoring.HighValueCredits <= 0 {
		return fmt.Errorf("%w: scoring.high_value_credits must be positive", ErrInvalidConfig)
	}
	for role, n := range c.Scoring.Ideal.Map() {
		if n < 0 {
			return fmt.Errorf("%w: scoring.ideal.%s must not be negative", ErrInvalidConfig, strings.ToLower(string(role)))
		}
	}
	return nil
}
