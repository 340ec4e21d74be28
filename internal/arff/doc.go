// Package arff converts the ARFF-style attribute/data exports written by
// openSMILE into plain numeric tables.
//
// Parse runs a two-state machine over the export: attribute declarations are
// collected until the @data marker, after which each comma-delimited row is
// reduced to its feature fields (identifier and trailing class placeholder
// removed) and coerced to float64. Bad numeric fields become NaN and short
// rows are skipped and reported, so one damaged row never loses the file.
// An export that never reaches @data fails with ErrMissingDataSection.
package arff
