// Package dataset turns per-dataset audio file naming conventions into
// canonical labels and pool filenames.
//
// Each supported corpus has its own grammar (Kind) with one pure parser per
// variant. Parsers never fail: names that do not fit the grammar resolve to
// the raw string "unknown", which label.Unify maps to UNK. Discovery helpers
// walk the on-disk layout each corpus ships with; copying is left to callers.
package dataset
