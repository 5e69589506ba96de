package names

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/okian/cricxi/internal/domain/model"
)

// reMetaRow matches the role+credit+team row printed under a player name,
// e.g. "WK • 9.5cr • T1" or "BOWL | 8cr | AUS".
var reMetaRow = regexp.MustCompile(`(?i)^(WK|BAT|AR|BOWL)\s*[•·|-]\s*(\d+(?:\.\d+)?)\s*cr\s*[•·|-]\s*(T\d+|[A-Z]{2,4})$`)

var reSection = regexp.MustCompile(`(?i)^(wicket[- ]?keepers?|batters?|batsmen|all[- ]?rounders?|bowlers?)$`)

// MetaRow is the parsed form of a role+credit+team row.
type MetaRow struct {
	Role    model.Role
	Credits float64
	TeamTag string
}

// ParseMetaRow parses a role+credit+team row.
func ParseMetaRow(line string) (MetaRow, bool) {
	m := reMetaRow.FindStringSubmatch(collapse(line))
	if m == nil {
		return MetaRow{}, false
	}
	role, err := model.ParseRole(m[1])
	if err != nil {
		return MetaRow{}, false
	}
	credits, err := strconv.ParseFloat(m[2], 64)
	if err != nil {
		return MetaRow{}, false
	}
	return MetaRow{Role: role, Credits: credits, TeamTag: strings.ToUpper(m[3])}, true
}

// SectionRole maps a formation-view section header ("Batters",
// "Wicket-Keepers", ...) to its role.
func SectionRole(line string) (model.Role, bool) {
	m := reSection.FindStringSubmatch(collapse(line))
	if m == nil {
		return "", false
	}
	h := strings.ToLower(m[1])
	switch {
	case strings.HasPrefix(h, "wicket"):
		return model.RoleWicketkeeper, true
	case strings.HasPrefix(h, "bat"):
		return model.RoleBatter, true
	case strings.HasPrefix(h, "all"):
		return model.RoleAllrounder, true
	case strings.HasPrefix(h, "bowl"):
		return model.RoleBowler, true
	}
	return "", false
}

// Hint is what the surrounding lines say about a line: the formation section
// it sits under and the metadata row printed right after it.
type Hint struct {
	Section model.Role
	Meta    *MetaRow
}

// Role returns the most specific role hint; the metadata row wins over the section.
func (h Hint) Role() model.Role {
	if h.Meta != nil {
		return h.Meta.Role
	}
	return h.Section
}

// ExtractFormation returns one Hint per input line.
func ExtractFormation(lines []string) []Hint {
	hints := make([]Hint, len(lines))
	var section model.Role
	for i, line := range lines {
		if role, ok := SectionRole(line); ok {
			section = role
			continue
		}
		hints[i].Section = section
		if i+1 < len(lines) {
			if meta, ok := ParseMetaRow(lines[i+1]); ok {
				hints[i].Meta = &meta
			}
		}
	}
	return hints
}
