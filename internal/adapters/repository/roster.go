package repository

import (
	"context"
	"fmt"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/okian/cricxi/internal/domain/model"
)

// RosterFile is a roster described by player ids, with its fixture:
//
//	id: my-team
//	player_ids: [hope, joseph, ...]
//	captain_id: hope
//	vice_captain_id: joseph
//	match:
//	  team_a: WI
//	  team_b: AUS
type RosterFile struct {
	ID            string     `koanf:"id"`
	PlayerIDs     []string   `koanf:"player_ids"`
	CaptainID     string     `koanf:"captain_id"`
	ViceCaptainID string     `koanf:"vice_captain_id"`
	Match         matchEntry `koanf:"match"`
}

type matchEntry struct {
	ID     string `koanf:"id"`
	TeamA  string `koanf:"team_a"`
	TeamB  string `koanf:"team_b"`
	Format string `koanf:"format"`
}

// MatchContext returns the fixture the roster was built for.
func (f RosterFile) MatchContext() model.MatchContext {
	return model.MatchContext{ID: f.Match.ID, TeamA: f.Match.TeamA, TeamB: f.Match.TeamB, Format: f.Match.Format}
}

// LoadRosterFile reads a YAML roster file.
func LoadRosterFile(ctx context.Context, path string) (RosterFile, error) {
	if err := ctx.Err(); err != nil {
		return RosterFile{}, err
	}

	k := koanf.New(".")
	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		return RosterFile{}, fmt.Errorf("%w: %s: %w", ErrLoadRoster, path, err)
	}

	var f RosterFile
	if err := k.UnmarshalWithConf("", &f, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return RosterFile{}, fmt.Errorf("%w: %s: %w", ErrLoadRoster, path, err)
	}
	if len(f.PlayerIDs) == 0 {
		return RosterFile{}, fmt.Errorf("%w: %s: no player_ids", ErrLoadRoster, path)
	}
	return f, nil
}
