package validation

import (
	"github.com/okian/cricxi/internal/domain/rules"
	"github.com/okian/cricxi/internal/domain/scoring"
)

// Option applies a configuration option to the Engine.
type Option func(*Engine)

// WithRuleSet replaces the default rule set.
func WithRuleSet(set *rules.RuleSet) Option {
	return func(e *Engine) {
		if set != nil {
			e.rules = set
		}
	}
}

// WithScorer replaces the default strength scorer.
func WithScorer(s scoring.Scorer) Option {
	return func(e *Engine) {
		if s != nil {
			e.scorer = s
		}
	}
}

// WithPool sets the player pool used when an input carries none.
func WithPool(pool rules.Lookup) Option {
	return func(e *Engine) {
		e.pool = pool
	}
}
