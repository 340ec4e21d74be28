// Package journal persists per-file job outcomes in SQLite.
//
// Every batch stage (collect, extract, convert) records one row per source
// file keyed by (stage, source path): status, output path, label, table
// shape, and the classified error for failures. The journal powers resume
// (files already done are skipped), the status command, and run history.
// Writes retry on SQLITE_BUSY so concurrent workers can share one Store.
package journal
