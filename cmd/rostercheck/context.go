package main

import (
	"context"
	"errors"

	"github.com/okian/cricxi/internal/adapters/repository"
	service "github.com/okian/cricxi/internal/app"
	"github.com/okian/cricxi/internal/config"
	"github.com/okian/cricxi/internal/domain/rules"
	"github.com/okian/cricxi/internal/domain/scoring"
	"github.com/okian/cricxi/internal/domain/validation"
	"github.com/okian/cricxi/pkg/logger"
)

var errNoPlayers = errors.New("no player pool: pass --players or set players_file")

// commandContext lazily loads configuration and the in-process service
// shared by every subcommand.
type commandContext struct {
	playersFlag *string

	cfg    *config.Config
	engine *validation.Engine
	svc    *service.Service
}

func newCommandContext(playersFlag *string) *commandContext {
	return &commandContext{playersFlag: playersFlag}
}

func (c *commandContext) ensureConfig(ctx context.Context) (*config.Config, error) {
	if c.cfg != nil {
		return c.cfg, nil
	}
	cfg, err := config.Load(ctx)
	if err != nil {
		return nil, err
	}
	if *c.playersFlag != "" {
		cfg.PlayersFile = *c.playersFlag
	}
	c.cfg = cfg
	return cfg, nil
}

func (c *commandContext) ensureEngine(ctx context.Context) (*validation.Engine, error) {
	if c.engine != nil {
		return c.engine, nil
	}
	cfg, err := c.ensureConfig(ctx)
	if err != nil {
		return nil, err
	}
	set, err := rules.FromConfig(cfg.Rules)
	if err != nil {
		return nil, err
	}
	c.engine = validation.NewEngine(
		validation.WithRuleSet(set),
		validation.WithScorer(scoring.NewStrengthScorer(cfg.ScoringOptions()...)),
	)
	return c.engine, nil
}

// ensureService returns a service with the player pool loaded. Batch
// workers are not started; the CLI validates inline.
func (c *commandContext) ensureService(ctx context.Context) (*service.Service, error) {
	if c.svc != nil {
		return c.svc, nil
	}
	cfg, err := c.ensureConfig(ctx)
	if err != nil {
		return nil, err
	}
	if cfg.PlayersFile == "" {
		return nil, errNoPlayers
	}
	engine, err := c.ensureEngine(ctx)
	if err != nil {
		return nil, err
	}
	svc := service.New(
		service.WithLogger(logger.Named("rostercheck")),
		service.WithSource(repository.NewFileSource(cfg.PlayersFile)),
		service.WithResolverOptions(cfg.Resolver.Options()...),
		service.WithEngine(engine),
		service.WithMaxBatchRosters(cfg.MaxBatchRosters),
	)
	if _, err := svc.LoadPlayers(ctx); err != nil {
		return nil, err
	}
	c.svc = svc
	return svc, nil
}
