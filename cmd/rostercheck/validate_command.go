package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/okian/cricxi/internal/adapters/repository"
	"github.com/okian/cricxi/internal/domain/model"
	"github.com/okian/cricxi/internal/domain/types"
)

var errRosterInvalid = errors.New("roster is invalid")

func newValidateCommand(ctx *commandContext) *cobra.Command {
	var rosterPath string
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate a roster file against the contest rules",
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := ctx.ensureService(cmd.Context())
			if err != nil {
				return err
			}
			f, err := repository.LoadRosterFile(cmd.Context(), rosterPath)
			if err != nil {
				return err
			}
			roster, err := svc.RosterFromIDs(f.ID, f.PlayerIDs, f.CaptainID, f.ViceCaptainID)
			if err != nil {
				return err
			}
			report, err := svc.Validate(cmd.Context(), roster, f.MatchContext())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				if err := enc.Encode(report); err != nil {
					return err
				}
			} else {
				fmt.Fprintln(out, renderReport(roster, report))
			}
			if !report.IsValid {
				return errRosterInvalid
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&rosterPath, "roster", "r", "", "Roster YAML file")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the report as JSON")
	_ = cmd.MarkFlagRequired("roster")
	return cmd
}

func renderReport(roster model.Roster, report types.Report) string {
	rows := make([][]string, 0, len(roster.Players))
	for _, p := range roster.Players {
		armband := ""
		switch p.ID {
		case roster.CaptainID:
			armband = "C"
		case roster.ViceCaptainID:
			armband = "VC"
		}
		rows = append(rows, []string{p.Name(), string(p.Role), p.OriginTeam, formatFloat(p.CreditCost, 1), armband})
	}

	var b strings.Builder
	b.WriteString(renderTable(
		[]string{"Player", "Role", "Team", "Credits", "C/VC"},
		rows,
		[]columnAlignment{alignLeft, alignLeft, alignLeft, alignRight, alignLeft},
	))
	fmt.Fprintf(&b, "\ncredits %s, score %s\n", formatFloat(roster.TotalCredits(), 1), formatFloat(report.Score, 2))

	if report.IsValid {
		b.WriteString("VALID")
		return b.String()
	}
	b.WriteString("INVALID")
	for _, e := range report.Errors {
		b.WriteString("\n  - " + e)
	}
	if len(report.Suggestions) > 0 {
		b.WriteString("\nsuggestions:")
		for _, s := range report.Suggestions {
			b.WriteString("\n  * " + s)
		}
	}
	return b.String()
}
