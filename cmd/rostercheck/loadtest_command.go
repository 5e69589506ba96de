package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/okian/cricxi/internal/adapters/repository"
	"github.com/okian/cricxi/internal/loadgen"
)

func newLoadTestCommand(ctx *commandContext) *cobra.Command {
	var cfg loadgen.Config

	cmd := &cobra.Command{
		Use:   "loadtest",
		Short: "Submit random rosters to a running server and cross-check its verdicts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			appCfg, err := ctx.ensureConfig(cmd.Context())
			if err != nil {
				return err
			}
			if appCfg.PlayersFile == "" {
				return errNoPlayers
			}
			pool, err := repository.NewFileSource(appCfg.PlayersFile).Players(cmd.Context())
			if err != nil {
				return err
			}
			engine, err := ctx.ensureEngine(cmd.Context())
			if err != nil {
				return err
			}

			stats, err := loadgen.Run(cmd.Context(), cfg, pool, engine)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderStats(stats))
			if stats.Mismatches > 0 {
				return fmt.Errorf("%d verdicts differ from the local engine", stats.Mismatches)
			}
			return nil
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&cfg.BaseURL, "url", loadgen.DefaultBaseURL, "Base URL of the service")
	flags.IntVar(&cfg.Rosters, "rosters", loadgen.DefaultRosters, "Number of rosters to draft")
	flags.IntVar(&cfg.BatchSize, "batch", loadgen.DefaultBatchSize, "Rosters per batch request")
	flags.IntVar(&cfg.Workers, "workers", 0, "Concurrent submitters (default CPU cores)")
	flags.DurationVar(&cfg.Timeout, "timeout", loadgen.DefaultTimeout, "HTTP request timeout")
	flags.Uint64Var(&cfg.Seed, "seed", uint64(time.Now().UnixNano()), "Drafting seed")
	flags.StringVar(&cfg.Match.TeamA, "team-a", "", "First team of the fixture")
	flags.StringVar(&cfg.Match.TeamB, "team-b", "", "Second team of the fixture")
	return cmd
}

func renderStats(s *loadgen.Stats) string {
	row := func(k string, v int) []string { return []string{k, strconv.Itoa(v)} }
	return renderTable(
		[]string{"Metric", "Value"},
		[][]string{
			row("rosters drafted", s.RostersDrafted),
			row("rosters submitted", s.RostersSubmitted),
			row("batches", s.BatchesSubmitted),
			row("batches failed", s.BatchesFailed),
			row("valid", s.Valid),
			row("invalid", s.Invalid),
			row("mismatches", s.Mismatches),
			{"duration", s.Duration.Truncate(time.Millisecond).String()},
			{"rosters/s", formatFloat(s.RostersPerSecond(), 1)},
		},
		[]columnAlignment{alignLeft, alignRight},
	)
}

