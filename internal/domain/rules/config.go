package rules

import (
	"fmt"

	"github.com/okian/cricxi/internal/domain/model"
)

// Band is an inclusive count range.
type Band struct {
	Min int `koanf:"min" json:"min"`
	Max int `koanf:"max" json:"max"`
}

// Contains reports whether n is within the band.
func (b Band) Contains(n int) bool { return n >= b.Min && n <= b.Max }

// RoleBands holds one count band per role.
type RoleBands struct {
	WK   Band `koanf:"wk" json:"WK"`
	BAT  Band `koanf:"bat" json:"BAT"`
	AR   Band `koanf:"ar" json:"AR"`
	BOWL Band `koanf:"bowl" json:"BOWL"`
}

// For returns the band of role.
func (b RoleBands) For(role model.Role) Band {
	switch role {
	case model.RoleWicketkeeper:
		return b.WK
	case model.RoleBatter:
		return b.BAT
	case model.RoleAllrounder:
		return b.AR
	case model.RoleBowler:
		return b.BOWL
	}
	return Band{}
}

// Map returns the bands keyed by role.
func (b RoleBands) Map() map[model.Role]Band {
	out := make(map[model.Role]Band, 4)
	for _, role := range model.Roles() {
		out[role] = b.For(role)
	}
	return out
}

// Config holds the recognized rule set fields.
type Config struct {
	RosterSize int       `koanf:"roster_size" json:"roster_size"`
	CreditMin  float64   `koanf:"credit_min" json:"credit_min"`
	CreditMax  float64   `koanf:"credit_max" json:"credit_max"`
	TeamMin    int       `koanf:"team_min" json:"team_min"`
	TeamMax    int       `koanf:"team_max" json:"team_max"`
	Roles      RoleBands `koanf:"roles" json:"roles"`

	RequireUnique   bool `koanf:"require_unique" json:"require_unique"`
	RequireEligible bool `koanf:"require_eligible" json:"require_eligible"`
	RequireKnown    bool `koanf:"require_known" json:"require_known"`
}

// DefaultConfig returns the standard 11-player, 100-credit rule set.
func DefaultConfig() Config {
	return Config{
		RosterSize: 11,
		CreditMax:  100,
		TeamMin:    1,
		TeamMax:    7,
		Roles: RoleBands{
			WK:   Band{Min: 1, Max: 1},
			BAT:  Band{Min: 3, Max: 5},
			AR:   Band{Min: 0, Max: 4},
			BOWL: Band{Min: 3, Max: 5},
		},
	}
}

// Validate rejects inverted bands and non-positive caps.
func (c Config) Validate() error {
	switch {
	case c.RosterSize <= 0:
		return fmt.Errorf("%w: roster_size must be positive, got %d", ErrInvalidConfig, c.RosterSize)
	case c.CreditMax <= 0:
		return fmt.Errorf("%w: credit_max must be positive, got %v", ErrInvalidConfig, c.CreditMax)
	case c.CreditMin < 0 || c.CreditMin > c.CreditMax:
		return fmt.Errorf("%w: credit_min must be in [0, %v], got %v", ErrInvalidConfig, c.CreditMax, c.CreditMin)
	case c.TeamMin < 0 || c.TeamMax <= 0 || c.TeamMin > c.TeamMax:
		return fmt.Errorf("%w: team band %d..%d", ErrInvalidConfig, c.TeamMin, c.TeamMax)
	}
	for _, role := range model.Roles() {
		b := c.Roles.For(role)
		if b.Min < 0 || b.Max < b.Min {
			return fmt.Errorf("%w: %s band %d..%d", ErrInvalidConfig, role, b.Min, b.Max)
		}
	}
	return nil
}
