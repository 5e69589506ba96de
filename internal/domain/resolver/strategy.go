package resolver

import (
	"strings"
	"unicode/utf8"

	"github.com/okian/cricxi/internal/domain/dedupe"
	"github.com/okian/cricxi/internal/domain/model"
	"github.com/okian/cricxi/internal/domain/registry"
	"github.com/okian/cricxi/internal/domain/similarity"
)

// Candidate is an accepted line ready for matching.
type Candidate struct {
	Line       string
	Normalized string
	Key        string

	IncludeIneligible bool
}

// Match is what a strategy found for a candidate.
type Match struct {
	Player     model.Player
	Confidence float64
	// Blocked is set on a failed attempt when only claimed players matched.
	Blocked bool
}

// Strategy is one stage of the matching cascade.
type Strategy interface {
	Name() string
	// TryMatch returns the first unclaimed player satisfying the stage, in
	// registry order.
	TryMatch(c Candidate, reg *registry.Registry, claims dedupe.Claims) (Match, bool)
}

// Strategy names.
const (
	StrategyExact = "exact"
	StrategyAlias = "alias"
	StrategyPool  = "pool"
)

// usable reports whether p may be matched; blocked is set when p is only
// unavailable because it is claimed.
func usable(p model.Player, c Candidate, claims dedupe.Claims) (ok, blocked bool) {
	if !p.IsEligibleToday && !c.IncludeIneligible {
		return false, false
	}
	if claims != nil && claims.Claimed(p.ID) {
		return false, true
	}
	return true, false
}

// contains reports whether either string contains the other, with the
// contained side at least minLen runes long.
func contains(a, b string, minLen int) bool {
	short, long := a, b
	if utf8.RuneCountInString(short) > utf8.RuneCountInString(long) {
		short, long = long, short
	}
	if utf8.RuneCountInString(short) < minLen {
		return false
	}
	return strings.Contains(long, short)
}

type exactStrategy struct{}

// ExactStrategy matches a key equal to a display or full name.
func ExactStrategy() Strategy { return exactStrategy{} }

func (exactStrategy) Name() string { return StrategyExact }

func (exactStrategy) TryMatch(c Candidate, reg *registry.Registry, claims dedupe.Claims) (Match, bool) {
	var m Match
	for _, p := range reg.MatchName(c.Key) {
		ok, blocked := usable(p, c, claims)
		if ok {
			return Match{Player: p, Confidence: 1}, true
		}
		m.Blocked = m.Blocked || blocked
	}
	return m, false
}

type aliasStrategy struct {
	threshold float64
	minLen    int
}

// AliasStrategy matches against aliases: exact alias keys first, then
// containment either way (confidence 1), then similarity above threshold.
func AliasStrategy(threshold float64, minSubstringLen int) Strategy {
	return aliasStrategy{threshold: threshold, minLen: minSubstringLen}
}

func (aliasStrategy) Name() string { return StrategyAlias }

func (s aliasStrategy) TryMatch(c Candidate, reg *registry.Registry, claims dedupe.Claims) (Match, bool) {
	var m Match
	for _, p := range reg.MatchAlias(c.Key) {
		ok, blocked := usable(p, c, claims)
		if ok {
			return Match{Player: p, Confidence: 1}, true
		}
		m.Blocked = m.Blocked || blocked
	}

	for _, p := range reg.AllPlayers() {
		conf, hit := s.score(c.Key, p.Aliases)
		if !hit {
			continue
		}
		ok, blocked := usable(p, c, claims)
		if ok {
			return Match{Player: p, Confidence: conf}, true
		}
		m.Blocked = m.Blocked || blocked
	}
	return m, false
}

// score returns the confidence of the first alias that matches key.
func (s aliasStrategy) score(key string, aliases []string) (float64, bool) {
	for _, alias := range aliases {
		if contains(key, alias, s.minLen) {
			return 1, true
		}
		if r := similarity.Ratio(key, alias); r > s.threshold {
			return r, true
		}
	}
	return 0, false
}

type poolStrategy struct {
	confidence float64
	minLen     int
}

// PoolStrategy scans display and full names for containment either way.
func PoolStrategy(confidence float64, minSubstringLen int) Strategy {
	return poolStrategy{confidence: confidence, minLen: minSubstringLen}
}

func (poolStrategy) Name() string { return StrategyPool }

func (s poolStrategy) TryMatch(c Candidate, reg *registry.Registry, claims dedupe.Claims) (Match, bool) {
	var m Match
	for _, p := range reg.AllPlayers() {
		hit := false
		for _, name := range reg.NamesOf(p.ID) {
			if contains(c.Key, name, s.minLen) {
				hit = true
				break
			}
		}
		if !hit {
			continue
		}
		ok, blocked := usable(p, c, claims)
		if ok {
			return Match{Player: p, Confidence: s.confidence}, true
		}
		m.Blocked = m.Blocked || blocked
	}
	return m, false
}
