// Package label maps free-form emotion strings from any source dataset onto
// the canonical (emotion code, arousal) pair used throughout the corpus.
//
// Unify is total: strings outside the fixed table resolve to UNK with low
// arousal instead of failing, so callers can filter unknowns downstream.
// Arousal is derived from the code alone and never supplied independently.
package label
