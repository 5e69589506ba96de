// Package repository loads the read-only player pool and roster files.
package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/okian/cricxi/internal/domain/model"
	"github.com/okian/cricxi/internal/domain/names"
	"github.com/okian/cricxi/internal/domain/registry"
)

// PlayerNamespace derives stable ids for pool entries that omit one.
var PlayerNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://github.com/okian/cricxi/players"))

// Source provides the canonical player pool.
type Source interface {
	Players(ctx context.Context) ([]model.Player, error)
}

// FileSource reads a YAML player pool of the form:
//
//	players:
//	  - id: hope
//	    display_name: Shai Hope
//	    aliases: [s hope]
//	    origin_team: WI
//	    role: WK
//	    credit_cost: 9.5
//	    is_eligible_today: true
type FileSource struct {
	path              string
	namespace         uuid.UUID
	eligibleByDefault bool
}

// NewFileSource creates a source for path.
func NewFileSource(path string, opts ...Option) *FileSource {
	s := &FileSource{path: path, namespace: PlayerNamespace, eligibleByDefault: true}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Path returns the file the source reads.
func (s *FileSource) Path() string { return s.path }

type playerRecord struct {
	ID          string   `koanf:"id"`
	DisplayName string   `koanf:"display_name"`
	FullName    string   `koanf:"full_name"`
	Aliases     []string `koanf:"aliases"`
	OriginTeam  string   `koanf:"origin_team"`
	Role        string   `koanf:"role"`
	CreditCost  float64  `koanf:"credit_cost"`
	Eligible    *bool    `koanf:"is_eligible_today"`
}

func (r playerRecord) player() model.Player {
	return model.Player{
		ID:          r.ID,
		DisplayName: r.DisplayName,
		FullName:    r.FullName,
		Aliases:     r.Aliases,
		OriginTeam:  r.OriginTeam,
		Role:        model.Role(r.Role),
		CreditCost:  r.CreditCost,
	}
}

// Players reads and normalizes the pool. Role long names are accepted and
// missing ids are derived from team and name.
func (s *FileSource) Players(ctx context.Context) ([]model.Player, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	k := koanf.New(".")
	if err := k.Load(file.Provider(s.path), yaml.Parser()); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrLoadPlayers, s.path, err)
	}

	var records []playerRecord
	if err := k.UnmarshalWithConf("players", &records, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrLoadPlayers, s.path, err)
	}

	out := make([]model.Player, 0, len(records))
	for i, rec := range records {
		p := rec.player()
		if role, err := model.ParseRole(string(p.Role)); err == nil {
			p.Role = role
		}
		p.IsEligibleToday = s.eligibleByDefault
		if rec.Eligible != nil {
			p.IsEligibleToday = *rec.Eligible
		}
		if strings.TrimSpace(p.ID) == "" {
			p.ID = s.DeriveID(p)
		}
		if p.ID == "" {
			return nil, fmt.Errorf("%w: %s: player %d has no id or name", ErrLoadPlayers, s.path, i)
		}
		out = append(out, p)
	}
	return out, nil
}

// DeriveID returns the deterministic id for a player without one, or "" when
// the player has no name to derive from.
func (s *FileSource) DeriveID(p model.Player) string {
	name := names.Key(p.DisplayName)
	if name == "" {
		name = names.Key(p.FullName)
	}
	if name == "" {
		return ""
	}
	key := strings.ToUpper(strings.TrimSpace(p.OriginTeam)) + "|" + name
	return uuid.NewSHA1(s.namespace, []byte(key)).String()
}

// LoadRegistry reads src and builds a registry from it.
func LoadRegistry(ctx context.Context, src Source) (*registry.Registry, error) {
	players, err := src.Players(ctx)
	if err != nil {
		return nil, err
	}
	reg, err := registry.New(players...)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadPlayers, err)
	}
	return reg, nil
}
