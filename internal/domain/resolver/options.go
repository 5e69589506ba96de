package resolver

// Defaults for the matching cascade.
const (
	DefaultFuzzyThreshold  = 0.7
	DefaultPoolConfidence  = 0.6
	DefaultMinSubstringLen = 3
	DefaultMaxBatchLines   = 200
)

// Option applies a configuration option to the Resolver.
type Option func(*Resolver)

// WithFuzzyThreshold sets the similarity an alias must exceed to match.
// Values outside (0, 1] are ignored.
func WithFuzzyThreshold(t float64) Option {
	return func(r *Resolver) {
		if t > 0 && t <= 1 {
			r.fuzzyThreshold = t
		}
	}
}

// WithPoolConfidence sets the confidence reported for pool-scan matches.
func WithPoolConfidence(c float64) Option {
	return func(r *Resolver) {
		if c > 0 && c <= 1 {
			r.poolConfidence = c
		}
	}
}

// WithMinSubstringLen sets the minimum rune length of the contained side of
// a substring match.
func WithMinSubstringLen(n int) Option {
	return func(r *Resolver) {
		if n > 0 {
			r.minSubstringLen = n
		}
	}
}

// WithMaxBatchLines caps the number of lines accepted per batch.
func WithMaxBatchLines(n int) Option {
	return func(r *Resolver) {
		if n > 0 {
			r.maxBatchLines = n
		}
	}
}

// WithIncludeIneligible makes players not eligible today candidates too.
func WithIncludeIneligible(include bool) Option {
	return func(r *Resolver) {
		r.includeIneligible = include
	}
}

// WithStrategies replaces the default exact, alias, pool cascade.
func WithStrategies(strategies ...Strategy) Option {
	return func(r *Resolver) {
		if len(strategies) > 0 {
			r.strategies = strategies
		}
	}
}
