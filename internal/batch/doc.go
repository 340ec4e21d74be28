// Package batch drives the corpus pipeline over whole directories.
//
// Three stages run in order: collect copies every discovered dataset file
// into the pool under its unified name, extract runs SMILExtract on each
// pool file, and convert turns each export into a numeric table. Files are
// processed by a bounded worker group. A failing file is logged, journaled
// as failed, and counted; it never stops the batch. Only a held lock, an
// unusable extractor, or context cancellation make a stage return an error.
//
// A Runner holds the batch lock for the duration of one command so two
// invocations never write into the same pool concurrently.
package batch
