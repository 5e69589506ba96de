// Package types contains result shapes shared by the domain, the service and the API.
package types

import "github.com/okian/cricxi/internal/domain/model"

// Status of a resolved line.
type Status string

const (
	StatusMatched   Status = "matched"
	StatusUnmatched Status = "unmatched"
)

// Reasons carried by unmatched results.
const (
	ReasonNoPlausibleName = "no-plausible-name"
	ReasonNoRegistryMatch = "no-registry-match"
	ReasonAlreadyClaimed  = "already-claimed"
)

// ResolutionResult is the outcome of resolving one OCR line.
type ResolutionResult struct {
	Line       string        `json:"line"`
	Position   int           `json:"position"`
	Normalized string        `json:"normalized,omitempty"`
	Status     Status        `json:"status"`
	Player     *model.Player `json:"player,omitempty"`
	Confidence float64       `json:"confidence"`
	Strategy   string        `json:"strategy,omitempty"`
	Reason     string        `json:"reason,omitempty"`

	// Hints read from the surrounding formation view, if any.
	RoleHint   model.Role `json:"role_hint,omitempty"`
	CreditHint float64    `json:"credit_hint,omitempty"`
	TeamHint   string     `json:"team_hint,omitempty"`
}

// Matched builds a matched result.
func Matched(line, normalized string, p model.Player, confidence float64, strategy string) ResolutionResult {
	return ResolutionResult{
		Line:       line,
		Normalized: normalized,
		Status:     StatusMatched,
		Player:     &p,
		Confidence: confidence,
		Strategy:   strategy,
	}
}

// Unmatched builds an unmatched result with a reason.
func Unmatched(line, normalized, reason string) ResolutionResult {
	return ResolutionResult{
		Line:       line,
		Normalized: normalized,
		Status:     StatusUnmatched,
		Reason:     reason,
	}
}

// IsMatched reports whether the line resolved to a player.
func (r ResolutionResult) IsMatched() bool {
	return r.Status == StatusMatched && r.Player != nil
}

// Failure is one violated rule.
type Failure struct {
	RuleID  string `json:"rule_id"`
	Name    string `json:"name"`
	Message string `json:"message"`
}

// Verdict is the outcome of validating one roster.
type Verdict struct {
	IsValid  bool      `json:"is_valid"`
	Errors   []string  `json:"errors"`
	Failures []Failure `json:"failures,omitempty"`
}

// Failed reports whether the rule with id failed.
func (v Verdict) Failed(ruleID string) bool {
	for _, f := range v.Failures {
		if f.RuleID == ruleID {
			return true
		}
	}
	return false
}

// Partition splits a validated batch.
type Partition struct {
	Valid   []model.Roster `json:"valid"`
	Invalid []model.Roster `json:"invalid"`
}

// Report bundles a verdict with remediation hints and a strength score.
type Report struct {
	Verdict
	Suggestions []string `json:"suggestions,omitempty"`
	Score       float64  `json:"score"`
}
