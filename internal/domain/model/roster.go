package model

// Roster is a candidate fantasy team. It is a plain container: nothing is
// enforced at construction time, validation inspects it afterwards.
type Roster struct {
	ID            string   `json:"id"`
	Players       []Player `json:"players"`
	CaptainID     string   `json:"captain_id,omitempty"`
	ViceCaptainID string   `json:"vice_captain_id,omitempty"`

	// Set on the copies returned by batch validation.
	IsValid bool     `json:"is_valid"`
	Errors  []string `json:"errors,omitempty"`
}

// MatchContext names the two real-world teams contesting a fixture.
type MatchContext struct {
	ID     string `json:"id,omitempty"`
	TeamA  string `json:"team_a"`
	TeamB  string `json:"team_b"`
	Format string `json:"format,omitempty"`
}

// Teams returns the non-empty team names of the fixture in order.
func (m MatchContext) Teams() []string {
	teams := make([]string, 0, 2)
	if m.TeamA != "" {
		teams = append(teams, m.TeamA)
	}
	if m.TeamB != "" && m.TeamB != m.TeamA {
		teams = append(teams, m.TeamB)
	}
	return teams
}

// TotalCredits sums the credit cost of every member.
func (r Roster) TotalCredits() float64 {
	var total float64
	for _, p := range r.Players {
		total += p.CreditCost
	}
	return total
}

// RoleCounts counts members per role. Every known role is present in the map.
func (r Roster) RoleCounts() map[Role]int {
	counts := make(map[Role]int, 4)
	for _, role := range Roles() {
		counts[role] = 0
	}
	for _, p := range r.Players {
		counts[p.Role]++
	}
	return counts
}

// TeamCounts counts members per origin team.
func (r Roster) TeamCounts() map[string]int {
	counts := make(map[string]int)
	for _, p := range r.Players {
		counts[p.OriginTeam]++
	}
	return counts
}

// Has reports whether a member with the given id is present.
func (r Roster) Has(id string) bool {
	if id == "" {
		return false
	}
	for _, p := range r.Players {
		if p.ID == id {
			return true
		}
	}
	return false
}

// Clone returns a copy that shares no slices with r.
func (r Roster) Clone() Roster {
	out := r
	out.Players = append([]Player(nil), r.Players...)
	for i := range out.Players {
		out.Players[i].Aliases = append([]string(nil), r.Players[i].Aliases...)
	}
	out.Errors = append([]string(nil), r.Errors...)
	return out
}
