package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"emocorpus/internal/journal"
	"emocorpus/internal/label"
)

type labelRow struct {
	Code    label.Code `json:"code"`
	Arousal int        `json:"arousal"`
	Raw     []string   `json:"raw"`
}

func newLabelsCommand(ctx *commandContext) *cobra.Command {
	var counts bool
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "labels",
		Short: "Show the unified emotion table or collected label counts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if counts {
				return ctx.withJournal(func(store *journal.Store) error {
					rows, err := store.LabelCounts(cmd.Context())
					if err != nil {
						return err
					}
					if asJSON {
						return writeJSON(cmd, rows)
					}
					return printLabelCounts(cmd, rows)
				})
			}

			rows := make([]labelRow, 0, len(label.Codes()))
			for _, code := range label.Codes() {
				rows = append(rows, labelRow{Code: code, Arousal: label.ArousalOf(code), Raw: label.Aliases(code)})
			}
			if asJSON {
				return writeJSON(cmd, rows)
			}
			table := make([][]string, 0, len(rows))
			for _, row := range rows {
				raw := strings.Join(row.Raw, ", ")
				if raw == "" {
					raw = "(anything else)"
				}
				table = append(table, []string{string(row.Code), strconv.Itoa(row.Arousal), raw})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"Code", "Arousal", "Raw emotions"},
				table,
				[]columnAlignment{alignLeft, alignRight, alignLeft},
			))
			return nil
		},
	}
	cmd.Flags().BoolVar(&counts, "counts", false, "Show collected files per dataset and label from the journal")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Output as JSON")
	return cmd
}

func printLabelCounts(cmd *cobra.Command, counts []journal.LabelCount) error {
	out := cmd.OutOrStdout()
	if len(counts) == 0 {
		fmt.Fprintln(out, "No collected files journaled yet; run emocorpus collect")
		return nil
	}
	rows := make([][]string, 0, len(counts))
	total := 0
	for _, c := range counts {
		rows = append(rows, []string{c.Dataset, c.LabelCode, strconv.Itoa(c.Arousal), strconv.Itoa(c.Count)})
		total += c.Count
	}
	fmt.Fprintln(out, renderTable(
		[]string{"Dataset", "Code", "Arousal", "Files"},
		rows,
		[]columnAlignment{alignLeft, alignLeft, alignRight, alignRight},
		"Total", "", "", strconv.Itoa(total),
	))
	return nil
}
