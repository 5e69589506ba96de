// Package model contains domain models passed between layers.
package model

import (
	"fmt"
	"strings"
)

// Role is a player's fixed position in the fantasy taxonomy.
type Role string

// Roles in roster display order.
const (
	RoleWicketkeeper Role = "WK"
	RoleBatter       Role = "BAT"
	RoleAllrounder   Role = "AR"
	RoleBowler       Role = "BOWL"
)

// Roles lists every role in display order.
func Roles() []Role {
	return []Role{RoleWicketkeeper, RoleBatter, RoleAllrounder, RoleBowler}
}

// ParseRole accepts short codes (WK, BAT, AR, BOWL) and long names
// (WICKETKEEPER, BATTER, ALLROUNDER, BOWLER), case-insensitively.
func ParseRole(s string) (Role, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "WK", "WICKETKEEPER", "WICKET-KEEPER", "KEEPER":
		return RoleWicketkeeper, nil
	case "BAT", "BATTER", "BATSMAN":
		return RoleBatter, nil
	case "AR", "ALLROUNDER", "ALL-ROUNDER":
		return RoleAllrounder, nil
	case "BOWL", "BOWLER":
		return RoleBowler, nil
	}
	return "", fmt.Errorf("unknown role %q", s)
}

// Valid reports whether r is one of the four known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleWicketkeeper, RoleBatter, RoleAllrounder, RoleBowler:
		return true
	}
	return false
}

// Label returns the human form used in messages ("wicket-keeper", "batter", ...).
func (r Role) Label() string {
	switch r {
	case RoleWicketkeeper:
		return "wicket-keeper"
	case RoleBatter:
		return "batter"
	case RoleAllrounder:
		return "all-rounder"
	case RoleBowler:
		return "bowler"
	}
	return strings.ToLower(string(r))
}

// Player is a canonical roster entry. Players are created by an external
// admin process and are read-only to resolution and validation.
type Player struct {
	ID              string   `json:"id"`
	DisplayName     string   `json:"display_name"`
	FullName        string   `json:"full_name"`
	Aliases         []string `json:"aliases,omitempty"`
	OriginTeam      string   `json:"origin_team"`
	Role            Role     `json:"role"`
	CreditCost      float64  `json:"credit_cost"`
	IsEligibleToday bool     `json:"is_eligible_today"`
}

// Name returns the display name, falling back to the full name or id.
func (p Player) Name() string {
	switch {
	case p.DisplayName != "":
		return p.DisplayName
	case p.FullName != "":
		return p.FullName
	}
	return p.ID
}
