// Package registry holds the canonical player pool used for identity resolution.
package registry

import (
	"fmt"
	"strings"

	"github.com/okian/cricxi/internal/domain/model"
	"github.com/okian/cricxi/internal/domain/names"
)

// Registry is an immutable, indexed player pool. It is safe for concurrent
// readers once constructed.
type Registry struct {
	players []model.Player
	byID    map[string]int

	nameKeys  [][]string // display and full name keys per player
	aliasKeys [][]string // normalized alias keys per player

	nameIndex  map[string][]int
	aliasIndex map[string][]int
	teams      []string
}

// New validates players and builds the lookup indexes. Player order is kept:
// it is the tie-break order for every lookup.
func New(players ...model.Player) (*Registry, error) {
	r := &Registry{
		players:    make([]model.Player, 0, len(players)),
		byID:       make(map[string]int, len(players)),
		nameKeys:   make([][]string, 0, len(players)),
		aliasKeys:  make([][]string, 0, len(players)),
		nameIndex:  make(map[string][]int, len(players)*2),
		aliasIndex: make(map[string][]int, len(players)*2),
	}
	seenTeam := make(map[string]struct{})

	for pos, raw := range players {
		p, err := prepare(raw)
		if err != nil {
			return nil, fmt.Errorf("player %d (%q): %w", pos, p.ID, err)
		}
		if _, dup := r.byID[p.ID]; dup {
			return nil, fmt.Errorf("player %d: %w: %s", pos, ErrDuplicateID, p.ID)
		}

		i := len(r.players)
		r.byID[p.ID] = i

		nk := uniqueKeys(p.DisplayName, p.FullName)
		for _, k := range nk {
			r.nameIndex[k] = append(r.nameIndex[k], i)
		}
		ak := uniqueKeys(p.Aliases...)
		for _, k := range ak {
			r.aliasIndex[k] = append(r.aliasIndex[k], i)
		}
		p.Aliases = ak

		r.players = append(r.players, p)
		r.nameKeys = append(r.nameKeys, nk)
		r.aliasKeys = append(r.aliasKeys, ak)

		if _, ok := seenTeam[p.OriginTeam]; !ok {
			seenTeam[p.OriginTeam] = struct{}{}
			r.teams = append(r.teams, p.OriginTeam)
		}
	}
	return r, nil
}

func prepare(p model.Player) (model.Player, error) {
	p.ID = strings.TrimSpace(p.ID)
	p.DisplayName = strings.TrimSpace(p.DisplayName)
	p.FullName = strings.TrimSpace(p.FullName)
	p.OriginTeam = strings.TrimSpace(p.OriginTeam)
	if p.DisplayName == "" {
		p.DisplayName = p.FullName
	}

	switch {
	case p.ID == "":
		return p, fmt.Errorf("%w: empty id", ErrInvalidPlayer)
	case names.Key(p.DisplayName) == "":
		return p, fmt.Errorf("%w: empty name", ErrInvalidPlayer)
	case !p.Role.Valid():
		return p, fmt.Errorf("%w: unknown role %q", ErrInvalidPlayer, p.Role)
	case p.CreditCost <= 0:
		return p, fmt.Errorf("%w: credit cost must be positive, got %v", ErrInvalidPlayer, p.CreditCost)
	case p.OriginTeam == "":
		return p, fmt.Errorf("%w: empty origin team", ErrInvalidPlayer)
	}
	return p, nil
}

func uniqueKeys(raw ...string) []string {
	out := make([]string, 0, len(raw))
	seen := make(map[string]struct{}, len(raw))
	for _, s := range raw {
		k := names.Key(s)
		if k == "" {
			continue
		}
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, k)
	}
	return out
}

// Len returns the number of players.
func (r *Registry) Len() int { return len(r.players) }

// AllPlayers returns the players in registry order.
func (r *Registry) AllPlayers() []model.Player {
	out := make([]model.Player, len(r.players))
	copy(out, r.players)
	for i := range out {
		out[i].Aliases = append([]string(nil), r.players[i].Aliases...)
	}
	return out
}

// Get returns the player with the given id.
func (r *Registry) Get(id string) (model.Player, bool) {
	i, ok := r.byID[id]
	if !ok {
		return model.Player{}, false
	}
	return r.at(i), true
}

// Teams returns the distinct origin teams in first-seen order.
func (r *Registry) Teams() []string {
	return append([]string(nil), r.teams...)
}

// AliasesOf returns the normalized alias keys of the player with id.
func (r *Registry) AliasesOf(id string) []string {
	i, ok := r.byID[id]
	if !ok {
		return nil
	}
	return append([]string(nil), r.aliasKeys[i]...)
}

// NamesOf returns the display and full name keys of the player with id.
func (r *Registry) NamesOf(id string) []string {
	i, ok := r.byID[id]
	if !ok {
		return nil
	}
	return append([]string(nil), r.nameKeys[i]...)
}

// MatchName returns the players whose display or full name key equals key.
func (r *Registry) MatchName(key string) []model.Player {
	return r.collect(r.nameIndex[key])
}

// MatchAlias returns the players owning an alias whose key equals key.
func (r *Registry) MatchAlias(key string) []model.Player {
	return r.collect(r.aliasIndex[key])
}

// FindByExactAlias returns the first player owning alias key.
func (r *Registry) FindByExactAlias(key string) (model.Player, bool) {
	idx := r.aliasIndex[key]
	if len(idx) == 0 {
		return model.Player{}, false
	}
	return r.at(idx[0]), true
}

// Candidates returns every player whose name or alias key equals key,
// in registry order.
func (r *Registry) Candidates(key string) []model.Player {
	hit := make(map[int]struct{})
	for _, i := range r.nameIndex[key] {
		hit[i] = struct{}{}
	}
	for _, i := range r.aliasIndex[key] {
		hit[i] = struct{}{}
	}
	out := make([]model.Player, 0, len(hit))
	for i := range r.players {
		if _, ok := hit[i]; ok {
			out = append(out, r.at(i))
		}
	}
	return out
}

func (r *Registry) collect(idx []int) []model.Player {
	if len(idx) == 0 {
		return nil
	}
	out := make([]model.Player, 0, len(idx))
	for _, i := range idx {
		out = append(out, r.at(i))
	}
	return out
}

func (r *Registry) at(i int) model.Player {
	p := r.players[i]
	p.Aliases = append([]string(nil), p.Aliases...)
	return p
}

// Roster materializes a roster from player ids in the given order. Unknown
// ids become id-only stubs so validation can still report on them.
func (r *Registry) Roster(id string, playerIDs []string, captainID, viceCaptainID string) model.Roster {
	out := model.Roster{
		ID:            id,
		Players:       make([]model.Player, 0, len(playerIDs)),
		CaptainID:     captainID,
		ViceCaptainID: viceCaptainID,
	}
	for _, pid := range playerIDs {
		if p, ok := r.Get(pid); ok {
			out.Players = append(out.Players, p)
			continue
		}
		out.Players = append(out.Players, model.Player{ID: pid})
	}
	return out
}
