package main

import (
	"github.com/spf13/cobra"
)

func newRootCommand() *cobra.Command {
	var playersFlag string

	ctx := newCommandContext(&playersFlag)

	rootCmd := &cobra.Command{
		Use:           "rostercheck",
		Short:         "Resolve OCR player names and validate fantasy cricket rosters",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	rootCmd.PersistentFlags().StringVarP(&playersFlag, "players", "p", "", "Player pool YAML file (overrides players_file)")

	rootCmd.AddCommand(newResolveCommand(ctx))
	rootCmd.AddCommand(newValidateCommand(ctx))
	rootCmd.AddCommand(newRulesCommand(ctx))
	rootCmd.AddCommand(newLoadTestCommand(ctx))

	return rootCmd
}
