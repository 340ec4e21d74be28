package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"emocorpus/internal/arff"
	"emocorpus/internal/config"
	"emocorpus/internal/smile"
)

type convertFileResult struct {
	Input    string             `json:"input"`
	Output   string             `json:"output"`
	Columns  int                `json:"columns"`
	Rows     int                `json:"rows"`
	NaNCells int                `json:"nan_cells"`
	Skipped  []arff.SkippedLine `json:"skipped,omitempty"`
}

func newConvertFileCommand() *cobra.Command {
	var xlsx bool
	var asJSON bool

	cmd := &cobra.Command{
		Use:         "convert-file <export> [table]",
		Short:       "Convert one feature export into a numeric table",
		Long:        "Convert one SMILExtract export. Without an explicit table path the output is written next to the export with _egemaps replaced by _converted.",
		Args:        cobra.RangeArgs(1, 2),
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			input, err := config.ExpandPath(args[0])
			if err != nil {
				return err
			}
			output := filepath.Join(filepath.Dir(input), smile.TableFilename(input))
			if len(args) == 2 {
				if output, err = config.ExpandPath(args[1]); err != nil {
					return err
				}
			}
			if output == input {
				return fmt.Errorf("refusing to overwrite %s; pass an explicit table path", input)
			}

			table, err := arff.ConvertFile(input, output)
			if err != nil {
				return err
			}
			if xlsx {
				if err := arff.WriteXLSX(strings.TrimSuffix(output, filepath.Ext(output))+".xlsx", table); err != nil {
					return fmt.Errorf("write xlsx: %w", err)
				}
			}

			result := convertFileResult{
				Input:    input,
				Output:   output,
				Columns:  len(table.Columns),
				Rows:     len(table.Rows),
				NaNCells: table.NaNCount(),
				Skipped:  table.Skipped,
			}
			if asJSON {
				return writeJSON(cmd, result)
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Wrote %s (%d columns, %d rows, %d NaN cells)\n", output, result.Columns, result.Rows, result.NaNCells)
			for _, line := range table.Skipped {
				fmt.Fprintf(out, "  skipped line %d: %d fields (%s)\n", line.Line, line.Fields, line.Reason)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&xlsx, "xlsx", false, "Also write an .xlsx workbook")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Output as JSON")
	return cmd
}
