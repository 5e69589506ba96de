// Package validation evaluates rosters against a rule set.
//
// The engine is total: every roster shape, including empty, oversized and
// duplicate-laden ones, yields a verdict rather than an error, and inputs are
// never mutated.
package validation

import (
	"fmt"

	"github.com/okian/cricxi/internal/domain/model"
	"github.com/okian/cricxi/internal/domain/rules"
	"github.com/okian/cricxi/internal/domain/scoring"
	"github.com/okian/cricxi/internal/domain/types"
)

// AlreadyValid is the only suggestion for a valid roster.
const AlreadyValid = "Team is already valid"

// Engine validates, explains and scores rosters. It is safe for concurrent
// use as long as its rule set is not mutated concurrently.
type Engine struct {
	rules  *rules.RuleSet
	scorer scoring.Scorer
	pool   rules.Lookup
}

// NewEngine creates an engine with the default rules and scorer unless
// overridden by options.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{}
	for _, opt := range opts {
		opt(e)
	}
	if e.rules == nil {
		e.rules = rules.Default()
	}
	if e.scorer == nil {
		e.scorer = scoring.NewStrengthScorer()
	}
	return e
}

// Rules returns the active rule set.
func (e *Engine) Rules() *rules.RuleSet { return e.rules }

// Validate evaluates every rule without short-circuiting and reports each
// failure in rule order.
func (e *Engine) Validate(in rules.Input) types.Verdict {
	in = e.prepare(in)
	v := types.Verdict{Errors: []string{}}
	for _, r := range e.rules.Rules() {
		pass, msg := evaluate(r, in)
		if pass {
			continue
		}
		v.Errors = append(v.Errors, msg)
		v.Failures = append(v.Failures, types.Failure{RuleID: r.ID, Name: r.Name, Message: msg})
	}
	v.IsValid = len(v.Errors) == 0
	return v
}

// ValidateMany validates each roster against match and partitions copies
// carrying IsValid and Errors. Input order is kept within each side.
func (e *Engine) ValidateMany(rosters []model.Roster, match model.MatchContext) types.Partition {
	out := types.Partition{Valid: []model.Roster{}, Invalid: []model.Roster{}}
	for _, r := range rosters {
		checked := e.Annotate(rules.Input{Roster: r, Match: match})
		if checked.IsValid {
			out.Valid = append(out.Valid, checked)
		} else {
			out.Invalid = append(out.Invalid, checked)
		}
	}
	return out
}

// Annotate returns a copy of in.Roster carrying its verdict.
func (e *Engine) Annotate(in rules.Input) model.Roster {
	v := e.Validate(in)
	out := in.Roster.Clone()
	out.IsValid = v.IsValid
	out.Errors = v.Errors
	return out
}

// SuggestFixes returns remediation hints from every failing rule, in rule
// order and without repeats.
func (e *Engine) SuggestFixes(in rules.Input) []string {
	in = e.prepare(in)
	var (
		out    []string
		failed bool
		seen   = make(map[string]struct{})
	)
	for _, r := range e.rules.Rules() {
		if pass, _ := evaluate(r, in); pass {
			continue
		}
		failed = true
		for _, s := range suggestions(r, in) {
			if _, dup := seen[s]; dup {
				continue
			}
			seen[s] = struct{}{}
			out = append(out, s)
		}
	}
	if !failed {
		return []string{AlreadyValid}
	}
	return out
}

// Score returns the strength score in [0, 100].
func (e *Engine) Score(in rules.Input) float64 {
	return e.ScoreDetail(in).Total
}

// ScoreDetail returns the strength score with its components.
func (e *Engine) ScoreDetail(in rules.Input) scoring.Result {
	v := e.Validate(in)
	return e.scorer.Score(scoring.Input{Roster: in.Roster, Valid: v.IsValid})
}

// Report bundles the verdict, suggestions and score.
func (e *Engine) Report(in rules.Input) types.Report {
	v := e.Validate(in)
	return types.Report{
		Verdict:     v,
		Suggestions: e.SuggestFixes(in),
		Score:       e.scorer.Score(scoring.Input{Roster: in.Roster, Valid: v.IsValid}).Total,
	}
}

func (e *Engine) prepare(in rules.Input) rules.Input {
	if in.Pool == nil && e.pool != nil {
		in.Pool = e.pool
	}
	return in
}

// evaluate runs one rule; a panicking rule counts as failed.
func evaluate(r rules.Rule, in rules.Input) (pass bool, msg string) {
	defer func() {
		if rec := recover(); rec != nil {
			pass, msg = false, fmt.Sprintf("Rule %s could not be evaluated: %v", r.ID, rec)
		}
	}()
	if r.Passes(in) {
		return true, ""
	}
	return false, r.Failure(in)
}

func suggestions(r rules.Rule, in rules.Input) (out []string) {
	defer func() {
		if recover() != nil {
			out = nil
		}
	}()
	return r.Suggestions(in)
}
