// Package rules holds roster constraints as data: an ordered set of named
// predicates with their failure messages and remediation hints.
package rules

import (
	"fmt"
	"sync"

	"github.com/okian/cricxi/internal/domain/model"
)

// Lookup finds canonical players by id.
type Lookup interface {
	Get(id string) (model.Player, bool)
}

// Input is everything a rule may inspect.
type Input struct {
	Roster model.Roster
	Match  model.MatchContext
	// Pool is optional; rules that need it pass when it is nil.
	Pool Lookup
}

// Rule is one named roster constraint.
type Rule struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`

	Check   func(Input) bool     `json:"-"`
	Message func(Input) string   `json:"-"`
	Suggest func(Input) []string `json:"-"`
}

// Passes evaluates the predicate.
func (r Rule) Passes(in Input) bool {
	return r.Check(in)
}

// Failure returns the message reported when the rule fails.
func (r Rule) Failure(in Input) string {
	if r.Message != nil {
		return r.Message(in)
	}
	return r.Description
}

// Suggestions returns remediation hints for a failing input.
func (r Rule) Suggestions(in Input) []string {
	if r.Suggest == nil {
		return nil
	}
	return r.Suggest(in)
}

func (r Rule) validate() error {
	if r.ID == "" {
		return fmt.Errorf("%w: empty id", ErrInvalidRule)
	}
	if r.Check == nil {
		return fmt.Errorf("%w: %s has no check", ErrInvalidRule, r.ID)
	}
	return nil
}

// RuleSet is an ordered, mutable collection of rules. Evaluation order is
// insertion order.
type RuleSet struct {
	mu    sync.RWMutex
	rules []Rule
}

// NewRuleSet builds a set from rules in order.
func NewRuleSet(rules ...Rule) (*RuleSet, error) {
	s := &RuleSet{rules: make([]Rule, 0, len(rules))}
	for _, r := range rules {
		if err := s.Add(r); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// Add appends a rule. Ids must be unique.
func (s *RuleSet) Add(r Rule) error {
	if err := r.validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.rules {
		if existing.ID == r.ID {
			return fmt.Errorf("%w: %s", ErrDuplicateRule, r.ID)
		}
	}
	s.rules = append(s.rules, r)
	return nil
}

// Remove deletes the rule with id and reports whether it existed.
func (s *RuleSet) Remove(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, r := range s.rules {
		if r.ID == id {
			s.rules = append(s.rules[:i:i], s.rules[i+1:]...)
			return true
		}
	}
	return false
}

// Get returns the rule with id.
func (s *RuleSet) Get(id string) (Rule, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, r := range s.rules {
		if r.ID == id {
			return r, true
		}
	}
	return Rule{}, false
}

// Rules returns a snapshot of the rules in evaluation order.
func (s *RuleSet) Rules() []Rule {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]Rule(nil), s.rules...)
}

// IDs returns the rule ids in evaluation order.
func (s *RuleSet) IDs() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]string, len(s.rules))
	for i, r := range s.rules {
		out[i] = r.ID
	}
	return out
}

// Len returns the number of rules.
func (s *RuleSet) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.rules)
}
