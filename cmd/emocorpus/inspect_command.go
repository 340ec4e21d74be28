package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"emocorpus/internal/dataset"
	"emocorpus/internal/label"
)

type inspectRow struct {
	Path       string       `json:"path"`
	Dataset    dataset.Kind `json:"dataset"`
	RawEmotion string       `json:"raw_emotion"`
	Label      label.Label  `json:"label"`
	PoolName   string       `json:"pool_name"`
}

func newInspectCommand() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:         "inspect <dataset> <path>...",
		Short:       "Show how file names map to unified labels and pool names",
		Args:        cobra.MinimumNArgs(2),
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := dataset.ParseKind(args[0])
			if err != nil {
				return err
			}
			rows := make([]inspectRow, 0, len(args)-1)
			for _, path := range args[1:] {
				rec := dataset.NewRecord(kind, path)
				rows = append(rows, inspectRow{
					Path:       path,
					Dataset:    kind,
					RawEmotion: rec.RawEmotion,
					Label:      rec.Label,
					PoolName:   rec.OutputFilename(),
				})
			}
			if asJSON {
				return writeJSON(cmd, rows)
			}
			table := make([][]string, 0, len(rows))
			for _, row := range rows {
				table = append(table, []string{
					row.Path,
					row.RawEmotion,
					string(row.Label.Code),
					strconv.Itoa(row.Label.Arousal),
					row.PoolName,
				})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"Path", "Raw", "Code", "Arousal", "Pool name"},
				table,
				[]columnAlignment{alignLeft, alignLeft, alignLeft, alignRight, alignLeft},
			))
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Output as JSON")
	return cmd
}
