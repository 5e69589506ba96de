// Package scoring ranks rosters by a heuristic strength score in [0, 100].
// It is a comparison aid for generated rosters, not a correctness gate.
package scoring

import (
	"math"

	"github.com/okian/cricxi/internal/domain/model"
)

// Score components.
const (
	validityPoints    = 40
	creditPoints      = 30
	overCapPenalty    = 5
	rolePointsPerRole = 5
	starPoints        = 3
	maxStarPoints     = 15
	maxScoreValue     = 100

	defaultCreditCap        = 100
	defaultHighValueCredits = 10
)

// Input is a roster and whether it passed validation.
type Input struct {
	Roster model.Roster
	Valid  bool
}

// Result is the score with its components. Total is clamped to [0, 100];
// the components are not.
type Result struct {
	RosterID string  `json:"roster_id,omitempty"`
	Validity float64 `json:"validity"`
	Credits  float64 `json:"credits"`
	Roles    float64 `json:"roles"`
	Stars    float64 `json:"stars"`
	Total    float64 `json:"total"`
}

// Scorer computes a strength score.
type Scorer interface {
	Score(in Input) Result
}

// StrengthScorer combines validity, credit utilization, role balance and a
// bonus for high-cost players.
type StrengthScorer struct {
	creditCap        float64
	highValueCredits float64
	ideal            map[model.Role]int
}

// DefaultIdealRoles is the distribution a balanced roster aims for.
func DefaultIdealRoles() map[model.Role]int {
	return map[model.Role]int{
		model.RoleWicketkeeper: 1,
		model.RoleBatter:       4,
		model.RoleAllrounder:   2,
		model.RoleBowler:       4,
	}
}

// NewStrengthScorer creates a scorer with configuration options.
func NewStrengthScorer(opts ...Option) *StrengthScorer {
	s := &StrengthScorer{
		creditCap:        defaultCreditCap,
		highValueCredits: defaultHighValueCredits,
		ideal:            DefaultIdealRoles(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Score computes the strength of in.Roster.
func (s *StrengthScorer) Score(in Input) Result {
	res := Result{RosterID: in.Roster.ID}
	if in.Valid {
		res.Validity = validityPoints
	}

	total := in.Roster.TotalCredits()
	if total <= s.creditCap {
		res.Credits = total / s.creditCap * creditPoints
	} else {
		res.Credits = -(total - s.creditCap) * overCapPenalty
	}

	counts := in.Roster.RoleCounts()
	for _, role := range model.Roles() {
		dev := math.Abs(float64(counts[role] - s.ideal[role]))
		res.Roles += math.Max(0, rolePointsPerRole-dev)
	}

	stars := 0
	for _, p := range in.Roster.Players {
		if p.CreditCost >= s.highValueCredits {
			stars++
		}
	}
	res.Stars = math.Min(float64(stars*starPoints), maxStarPoints)

	res.Total = math.Max(0, math.Min(maxScoreValue, res.Validity+res.Credits+res.Roles+res.Stars))
	return res
}
