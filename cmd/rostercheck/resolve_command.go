package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/okian/cricxi/internal/domain/resolver"
	"github.com/okian/cricxi/internal/domain/types"
)

func newResolveCommand(ctx *commandContext) *cobra.Command {
	var ocrConfidence float64
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "resolve [file]",
		Short: "Resolve OCR text lines to canonical players",
		Long:  "Reads one OCR line per row from file, or from stdin when no file is given.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := ctx.ensureService(cmd.Context())
			if err != nil {
				return err
			}

			in := cmd.InOrStdin()
			if len(args) == 1 {
				f, err := os.Open(args[0])
				if err != nil {
					return err
				}
				defer f.Close()
				in = f
			}
			lines, err := readLines(in)
			if err != nil {
				return err
			}

			res, err := svc.Resolve(cmd.Context(), resolver.Batch{Lines: lines, OCRConfidence: ocrConfidence})
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(res)
			}
			fmt.Fprintln(out, renderResolution(res))
			return nil
		},
	}

	cmd.Flags().Float64Var(&ocrConfidence, "ocr-confidence", 0, "OCR confidence reported with the batch")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the resolution as JSON")
	return cmd
}

func readLines(r io.Reader) ([]string, error) {
	var lines []string
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		lines = append(lines, sc.Text())
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read lines: %w", err)
	}
	return lines, nil
}

func renderResolution(res resolver.Resolution) string {
	rows := make([][]string, 0, len(res.Results))
	matched := 0
	for _, r := range res.Results {
		row := []string{strconv.Itoa(r.Position + 1), r.Line, string(r.Status), "", "", "", "", formatFloat(r.Confidence, 2), via(r)}
		if r.IsMatched() {
			matched++
			row[3] = r.Player.Name()
			row[4] = string(r.Player.Role)
			row[5] = r.Player.OriginTeam
			row[6] = formatFloat(r.Player.CreditCost, 1)
		}
		rows = append(rows, row)
	}

	tbl := renderTable(
		[]string{"#", "Line", "Status", "Player", "Role", "Team", "Credits", "Confidence", "Via"},
		rows,
		[]columnAlignment{alignRight, alignLeft, alignLeft, alignLeft, alignLeft, alignLeft, alignRight, alignRight, alignLeft},
	)
	return fmt.Sprintf("%s\nmatched %d of %d name lines (%d noise, %d not a name)",
		tbl, matched, res.Counts.Name, res.Counts.Noise, res.Counts.NotAName)
}

func via(r types.ResolutionResult) string {
	if r.IsMatched() {
		return r.Strategy
	}
	return r.Reason
}
