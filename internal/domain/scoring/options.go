package scoring

import "github.com/okian/cricxi/internal/domain/model"

// Option applies a configuration option to the StrengthScorer.
type Option func(*StrengthScorer)

// WithCreditCap sets the credit budget used for utilization.
func WithCreditCap(limit float64) Option {
	return func(s *StrengthScorer) {
		if limit > 0 {
			s.creditCap = limit
		}
	}
}

// WithHighValueCredits sets the cost at which a player earns the star bonus.
func WithHighValueCredits(credits float64) Option {
	return func(s *StrengthScorer) {
		if credits > 0 {
			s.highValueCredits = credits
		}
	}
}

// WithIdealRoles sets the role distribution rosters are compared to.
// Roles missing from ideal keep their current target.
func WithIdealRoles(ideal map[model.Role]int) Option {
	return func(s *StrengthScorer) {
		for role, n := range ideal {
			if role.Valid() && n >= 0 {
				s.ideal[role] = n
			}
		}
	}
}
