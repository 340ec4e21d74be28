// Package preflight provides readiness checks for the filesystem paths and
// external tools emocorpus depends on.
//
// The CLI "emocorpus preflight" command runs RunAll and prints one line per
// check. Dataset roots that are not configured are skipped.
package preflight
