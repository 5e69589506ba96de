package rules

import (
	"fmt"
	"strconv"

	"github.com/okian/cricxi/internal/domain/model"
)

// Built-in rule ids.
const (
	IDTeamSize             = "team-size"
	IDCreditLimit          = "credit-limit"
	IDCreditFloor          = "credit-floor"
	IDWicketKeeper         = "wicket-keeper"
	IDBatterBand           = "batter-band"
	IDBowlerBand           = "bowler-band"
	IDAllrounderCap        = "allrounder-cap"
	IDTeamBalance          = "team-balance"
	IDCaptainSelected      = "captain-selected"
	IDViceCaptainSelected  = "vice-captain-selected"
	IDCaptainViceDifferent = "captain-vice-captain-different"
	IDUniquePlayers        = "unique-players"
	IDEligiblePlayers      = "eligible-players"
	IDKnownPlayers         = "known-players"
)

// Float sums of credit costs are compared with this tolerance.
const creditEpsilon = 1e-9

// Default returns the standard rule set.
func Default() *RuleSet {
	s, err := FromConfig(DefaultConfig())
	if err != nil {
		panic(err)
	}
	return s
}

// FromConfig builds the ordered rule set described by cfg.
func FromConfig(cfg Config) (*RuleSet, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	list := []Rule{TeamSize(cfg.RosterSize), CreditLimit(cfg.CreditMax)}
	if cfg.CreditMin > 0 {
		list = append(list, CreditFloor(cfg.CreditMin))
	}
	list = append(list,
		RoleBand(model.RoleWicketkeeper, cfg.Roles.WK),
		RoleBand(model.RoleBatter, cfg.Roles.BAT),
		RoleBand(model.RoleBowler, cfg.Roles.BOWL),
		RoleBand(model.RoleAllrounder, cfg.Roles.AR),
		TeamBalance(Band{Min: cfg.TeamMin, Max: cfg.TeamMax}),
		CaptainSelected(),
		ViceCaptainSelected(),
		CaptainViceCaptainDifferent(),
	)
	if cfg.RequireUnique {
		list = append(list, UniquePlayers())
	}
	if cfg.RequireEligible {
		list = append(list, EligiblePlayers())
	}
	if cfg.RequireKnown {
		list = append(list, KnownPlayers())
	}
	return NewRuleSet(list...)
}

// TeamSize requires exactly size players.
func TeamSize(size int) Rule {
	msg := fmt.Sprintf("Team must have exactly %d players", size)
	return Rule{
		ID:          IDTeamSize,
		Name:        "Team Size",
		Description: msg,
		Check:       func(in Input) bool { return len(in.Roster.Players) == size },
		Message:     func(Input) string { return msg },
		Suggest: func(in Input) []string {
			n := len(in.Roster.Players)
			switch {
			case n < size:
				return []string{fmt.Sprintf("Add %d player(s)", size-n)}
			case n > size:
				return []string{fmt.Sprintf("Remove %d player(s)", n-size)}
			}
			return nil
		},
	}
}

// CreditLimit caps total credits at limit.
func CreditLimit(limit float64) Rule {
	return Rule{
		ID:          IDCreditLimit,
		Name:        "Credit Limit",
		Description: fmt.Sprintf("Total credits must not exceed %s", formatCredits(limit)),
		Check:       func(in Input) bool { return in.Roster.TotalCredits() <= limit+creditEpsilon },
		Message: func(Input) string {
			return fmt.Sprintf("Total credits exceed %s limit", formatCredits(limit))
		},
		Suggest: func(in Input) []string {
			excess := in.Roster.TotalCredits() - limit
			if excess <= creditEpsilon {
				return nil
			}
			out := []string{fmt.Sprintf("Remove %.1f credits worth of players", excess)}
			if p, ok := mostExpensiveAtLeast(in.Roster.Players, excess); ok {
				out = append(out, fmt.Sprintf("Consider replacing %s (%scr)", p.Name(), formatCredits(p.CreditCost)))
			}
			return out
		},
	}
}

// CreditFloor requires total credits of at least floor.
func CreditFloor(floor float64) Rule {
	return Rule{
		ID:          IDCreditFloor,
		Name:        "Credit Floor",
		Description: fmt.Sprintf("Total credits must be at least %s", formatCredits(floor)),
		Check:       func(in Input) bool { return in.Roster.TotalCredits() >= floor-creditEpsilon },
		Message: func(Input) string {
			return fmt.Sprintf("Total credits below %s minimum", formatCredits(floor))
		},
		Suggest: func(in Input) []string {
			short := floor - in.Roster.TotalCredits()
			if short <= creditEpsilon {
				return nil
			}
			return []string{fmt.Sprintf("Spend %.1f more credits", short)}
		},
	}
}

// RoleBand keeps the count of role within band.
func RoleBand(role model.Role, band Band) Rule {
	id, name := roleRuleID(role)
	return Rule{
		ID:          id,
		Name:        name,
		Description: bandDescription(role, band),
		Check:       func(in Input) bool { return band.Contains(in.Roster.RoleCounts()[role]) },
		Message: func(in Input) string {
			n := in.Roster.RoleCounts()[role]
			switch {
			case band.Min == band.Max:
				return fmt.Sprintf("Team must have exactly %d %s", band.Min, countLabel(role, band.Min))
			case n < band.Min:
				return fmt.Sprintf("Team must have at least %d %s", band.Min, countLabel(role, band.Min))
			case n > band.Max:
				return fmt.Sprintf("Team cannot have more than %d %s", band.Max, countLabel(role, band.Max))
			}
			return bandDescription(role, band)
		},
		Suggest: func(in Input) []string {
			n := in.Roster.RoleCounts()[role]
			switch {
			case n < band.Min:
				return []string{fmt.Sprintf("Add %d %s(s)", band.Min-n, role.Label())}
			case n > band.Max:
				return []string{fmt.Sprintf("Remove %d %s(s)", n-band.Max, role.Label())}
			}
			return nil
		},
	}
}

// TeamBalance keeps the number of players from each match team within band.
// A match context without teams has nothing to balance.
func TeamBalance(band Band) Rule {
	msg := fmt.Sprintf("Team must have %d-%d players from each team", band.Min, band.Max)
	return Rule{
		ID:          IDTeamBalance,
		Name:        "Team Balance",
		Description: msg,
		Check: func(in Input) bool {
			counts := in.Roster.TeamCounts()
			for _, team := range in.Match.Teams() {
				if !band.Contains(counts[team]) {
					return false
				}
			}
			return true
		},
		Message: func(Input) string { return msg },
		Suggest: func(in Input) []string {
			var out []string
			counts := in.Roster.TeamCounts()
			for _, team := range in.Match.Teams() {
				n := counts[team]
				switch {
				case n < band.Min:
					out = append(out, fmt.Sprintf("Add %d player(s) from %s", band.Min-n, team))
				case n > band.Max:
					out = append(out, fmt.Sprintf("Remove %d player(s) from %s", n-band.Max, team))
				}
			}
			return out
		},
	}
}

// CaptainSelected requires the captain to be a member.
func CaptainSelected() Rule {
	return Rule{
		ID:          IDCaptainSelected,
		Name:        "Captain Selected",
		Description: "Team must have a captain",
		Check:       func(in Input) bool { return in.Roster.Has(in.Roster.CaptainID) },
		Message:     func(Input) string { return "Team must have a captain selected" },
		Suggest: func(in Input) []string {
			if in.Roster.CaptainID == "" {
				return []string{"Select a captain"}
			}
			return []string{"Select a captain from the team"}
		},
	}
}

// ViceCaptainSelected requires the vice-captain to be a member.
func ViceCaptainSelected() Rule {
	return Rule{
		ID:          IDViceCaptainSelected,
		Name:        "Vice Captain Selected",
		Description: "Team must have a vice-captain",
		Check:       func(in Input) bool { return in.Roster.Has(in.Roster.ViceCaptainID) },
		Message:     func(Input) string { return "Team must have a vice-captain selected" },
		Suggest: func(in Input) []string {
			if in.Roster.ViceCaptainID == "" {
				return []string{"Select a vice-captain"}
			}
			return []string{"Select a vice-captain from the team"}
		},
	}
}

// CaptainViceCaptainDifferent forbids the same player holding both armbands.
// Missing armbands are reported by the selection rules instead.
func CaptainViceCaptainDifferent() Rule {
	msg := "Captain and vice-captain must be different players"
	return Rule{
		ID:          IDCaptainViceDifferent,
		Name:        "Captain and Vice-Captain Different",
		Description: msg,
		Check: func(in Input) bool {
			r := in.Roster
			return r.CaptainID == "" || r.CaptainID != r.ViceCaptainID
		},
		Message: func(Input) string { return msg },
		Suggest: func(Input) []string { return []string{"Choose a different vice-captain"} },
	}
}

// UniquePlayers forbids the same player appearing twice.
func UniquePlayers() Rule {
	return Rule{
		ID:          IDUniquePlayers,
		Name:        "Unique Players",
		Description: "Team cannot contain the same player twice",
		Check:       func(in Input) bool { return len(duplicates(in.Roster.Players)) == 0 },
		Message:     func(Input) string { return "Team cannot contain the same player twice" },
		Suggest: func(in Input) []string {
			var out []string
			for _, p := range duplicates(in.Roster.Players) {
				out = append(out, fmt.Sprintf("Remove duplicate %s", p.Name()))
			}
			return out
		},
	}
}

// EligiblePlayers requires every member to be playing today. The pool, when
// present, is authoritative over the roster's own copy.
func EligiblePlayers() Rule {
	return Rule{
		ID:          IDEligiblePlayers,
		Name:        "Eligible Players",
		Description: "Every player must be playing today",
		Check:       func(in Input) bool { return len(ineligible(in)) == 0 },
		Message:     func(Input) string { return "Team contains players not playing today" },
		Suggest: func(in Input) []string {
			var out []string
			for _, p := range ineligible(in) {
				out = append(out, fmt.Sprintf("Replace %s, not playing today", p.Name()))
			}
			return out
		},
	}
}

// KnownPlayers requires every member to exist in the pool. Without a pool
// the rule passes.
func KnownPlayers() Rule {
	return Rule{
		ID:          IDKnownPlayers,
		Name:        "Known Players",
		Description: "Every player must exist in the player pool",
		Check:       func(in Input) bool { return len(unknown(in)) == 0 },
		Message:     func(Input) string { return "Team contains unknown players" },
		Suggest: func(in Input) []string {
			var out []string
			for _, id := range unknown(in) {
				out = append(out, fmt.Sprintf("Replace unknown player %s", id))
			}
			return out
		},
	}
}

func roleRuleID(role model.Role) (id, name string) {
	switch role {
	case model.RoleWicketkeeper:
		return IDWicketKeeper, "Wicket Keeper"
	case model.RoleBatter:
		return IDBatterBand, "Batter Band"
	case model.RoleBowler:
		return IDBowlerBand, "Bowler Band"
	case model.RoleAllrounder:
		return IDAllrounderCap, "All-Rounder Cap"
	}
	return "role-" + string(role), string(role) + " Band"
}

func bandDescription(role model.Role, b Band) string {
	switch {
	case b.Min == b.Max:
		return fmt.Sprintf("Team must have exactly %d %s", b.Min, countLabel(role, b.Min))
	case b.Min == 0:
		return fmt.Sprintf("Team must have at most %d %s", b.Max, countLabel(role, b.Max))
	}
	return fmt.Sprintf("Team must have %d-%d %s", b.Min, b.Max, countLabel(role, b.Max))
}

func countLabel(role model.Role, n int) string {
	if n == 1 {
		return role.Label()
	}
	return role.Label() + "s"
}

func formatCredits(c float64) string {
	return strconv.FormatFloat(c, 'f', -1, 64)
}

// mostExpensiveAtLeast returns the priciest member costing at least floor;
// ties go to the earlier member.
func mostExpensiveAtLeast(players []model.Player, floor float64) (model.Player, bool) {
	var (
		best  model.Player
		found bool
	)
	for _, p := range players {
		if p.CreditCost < floor {
			continue
		}
		if !found || p.CreditCost > best.CreditCost {
			best, found = p, true
		}
	}
	return best, found
}

func duplicates(players []model.Player) []model.Player {
	seen := make(map[string]int, len(players))
	var out []model.Player
	for _, p := range players {
		seen[p.ID]++
		if seen[p.ID] == 2 {
			out = append(out, p)
		}
	}
	return out
}

func ineligible(in Input) []model.Player {
	var out []model.Player
	for _, p := range in.Roster.Players {
		if in.Pool != nil {
			if canonical, ok := in.Pool.Get(p.ID); ok {
				p = canonical
			}
		}
		if !p.IsEligibleToday {
			out = append(out, p)
		}
	}
	return out
}

func unknown(in Input) []string {
	if in.Pool == nil {
		return nil
	}
	var out []string
	for _, p := range in.Roster.Players {
		if _, ok := in.Pool.Get(p.ID); !ok {
			out = append(out, p.ID)
		}
	}
	return out
}

// CheckRoleBands checks role counts of players against bands and returns one
// message per violation, in role order.
func CheckRoleBands(players []model.Player, bands map[model.Role]Band) (bool, []string) {
	counts := model.Roster{Players: players}.RoleCounts()
	var errs []string
	for _, role := range model.Roles() {
		b, ok := bands[role]
		if !ok {
			continue
		}
		n := counts[role]
		if n < b.Min {
			errs = append(errs, fmt.Sprintf("%s: Need at least %d, have %d", role, b.Min, n))
		}
		if n > b.Max {
			errs = append(errs, fmt.Sprintf("%s: Cannot have more than %d, have %d", role, b.Max, n))
		}
	}
	return len(errs) == 0, errs
}
