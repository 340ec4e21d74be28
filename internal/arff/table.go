package arff

import "math"

// SkipReason classifies why a data line was left out of the table.
type SkipReason string

const (
	// SkipTooFewFields marks lines with fewer than three comma-separated fields.
	SkipTooFewFields SkipReason = "too_few_fields"
	// SkipWidthMismatch marks lines whose feature count differs from the header.
	SkipWidthMismatch SkipReason = "width_mismatch"
)

// SkippedLine records a data line that did not produce a row.
type SkippedLine struct {
	Line   int        `json:"line"`
	Fields int        `json:"fields"`
	Reason SkipReason `json:"reason"`
}

// Table is the numeric view of one export. Every row has len(Columns) values.
//
// A data line whose feature count (fields minus the leading name and the
// trailing class) differs from len(Columns) is dropped, never padded with NaN
// or truncated, and recorded in Skipped with SkipWidthMismatch. NaN is reserved
// for cells that are present but not numeric, so a NaN always names a real
// cell of the export.
type Table struct {
	Columns []string
	Rows    [][]float64
	Skipped []SkippedLine
}

// NaNCount returns the number of NaN cells across all rows.
func (t *Table) NaNCount() int {
	if t == nil {
		return 0
	}
	count := 0
	for _, row := range t.Rows {
		for _, v := range row {
			if math.IsNaN(v) {
				count++
			}
		}
	}
	return count
}
