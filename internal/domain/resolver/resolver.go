// Package resolver turns noisy OCR lines into canonical players.
//
// Each accepted line runs an ordered cascade of strategies (exact name,
// alias, pool scan) and the first success wins. Matches claim their player
// for the rest of the batch, so a player is never returned twice.
package resolver

import (
	"context"
	"fmt"

	"github.com/okian/cricxi/internal/domain/dedupe"
	"github.com/okian/cricxi/internal/domain/names"
	"github.com/okian/cricxi/internal/domain/registry"
	"github.com/okian/cricxi/internal/domain/types"
)

// Batch is one OCR pass: its lines and the collaborator's confidence score.
type Batch struct {
	Lines         []string `json:"lines"`
	OCRConfidence float64  `json:"ocr_confidence"`
}

// Counts tallies the classifier verdicts of a batch.
type Counts struct {
	Noise    int `json:"noise"`
	NotAName int `json:"not_a_name"`
	Name     int `json:"name"`
}

// Resolution is the outcome of a Batch. OCRConfidence is passed through untouched.
type Resolution struct {
	Results       []types.ResolutionResult `json:"results"`
	OCRConfidence float64                  `json:"ocr_confidence"`
	Counts        Counts                   `json:"counts"`
}

// Resolver matches lines against a Registry. It holds no per-batch state
// and is safe for concurrent use.
type Resolver struct {
	reg        *registry.Registry
	strategies []Strategy

	fuzzyThreshold    float64
	poolConfidence    float64
	minSubstringLen   int
	maxBatchLines     int
	includeIneligible bool
}

// New creates a Resolver over reg.
func New(reg *registry.Registry, opts ...Option) (*Resolver, error) {
	if reg == nil {
		return nil, ErrNilRegistry
	}
	r := &Resolver{
		reg:             reg,
		fuzzyThreshold:  DefaultFuzzyThreshold,
		poolConfidence:  DefaultPoolConfidence,
		minSubstringLen: DefaultMinSubstringLen,
		maxBatchLines:   DefaultMaxBatchLines,
	}
	for _, opt := range opts {
		opt(r)
	}
	if len(r.strategies) == 0 {
		r.strategies = []Strategy{
			ExactStrategy(),
			AliasStrategy(r.fuzzyThreshold, r.minSubstringLen),
			PoolStrategy(r.poolConfidence, r.minSubstringLen),
		}
	}
	return r, nil
}

// Registry returns the player pool the resolver matches against.
func (r *Resolver) Registry() *registry.Registry { return r.reg }

// Strategies returns the cascade stage names in order.
func (r *Resolver) Strategies() []string {
	out := make([]string, len(r.strategies))
	for i, s := range r.strategies {
		out[i] = s.Name()
	}
	return out
}

// ResolveNames resolves lines with no OCR confidence attached.
func (r *Resolver) ResolveNames(ctx context.Context, lines []string) ([]types.ResolutionResult, error) {
	res, err := r.Resolve(ctx, Batch{Lines: lines})
	if err != nil {
		return nil, err
	}
	return res.Results, nil
}

// Resolve classifies every line and runs accepted lines through the cascade.
// Noise lines produce no result. The only errors are an oversized batch and
// a context that is already done.
func (r *Resolver) Resolve(ctx context.Context, b Batch) (Resolution, error) {
	if err := ctx.Err(); err != nil {
		return Resolution{}, err
	}
	if len(b.Lines) > r.maxBatchLines {
		return Resolution{}, fmt.Errorf("%w: %d lines, limit %d", ErrBatchTooLarge, len(b.Lines), r.maxBatchLines)
	}

	out := Resolution{
		Results:       make([]types.ResolutionResult, 0, len(b.Lines)),
		OCRConfidence: b.OCRConfidence,
	}
	hints := names.ExtractFormation(b.Lines)
	claims := dedupe.NewClaims(dedupe.WithCapacity(len(b.Lines)))

	for i, line := range b.Lines {
		switch names.Classify(line) {
		case names.Noise:
			out.Counts.Noise++
			continue
		case names.NotAName:
			out.Counts.NotAName++
			res := types.Unmatched(line, names.Normalize(line), types.ReasonNoPlausibleName)
			res.Position = i
			out.Results = append(out.Results, res)
			continue
		}
		out.Counts.Name++

		res := r.match(ctx, line, claims)
		res.Position = i
		applyHint(&res, hints[i])
		out.Results = append(out.Results, res)
	}
	return out, nil
}

func (r *Resolver) match(ctx context.Context, line string, claims dedupe.Claims) types.ResolutionResult {
	c := Candidate{
		Line:              line,
		Normalized:        names.Normalize(line),
		IncludeIneligible: r.includeIneligible,
	}
	c.Key = names.Key(c.Normalized)

	blocked := false
	for _, s := range r.strategies {
		m, ok := s.TryMatch(c, r.reg, claims)
		if !ok {
			blocked = blocked || m.Blocked
			continue
		}
		claims.Claim(ctx, m.Player.ID)
		return types.Matched(line, c.Normalized, m.Player, m.Confidence, s.Name())
	}

	reason := types.ReasonNoRegistryMatch
	if blocked {
		reason = types.ReasonAlreadyClaimed
	}
	return types.Unmatched(line, c.Normalized, reason)
}

func applyHint(res *types.ResolutionResult, h names.Hint) {
	res.RoleHint = h.Role()
	if h.Meta != nil {
		res.CreditHint = h.Meta.Credits
		res.TeamHint = h.Meta.TeamTag
	}
}
