// Command emocorpus prepares speech emotion corpora for model training.
//
// It collects TESS, SAVEE, RAVDESS, and CREMA-D clips into one pool under
// unified emotion labels, runs openSMILE's SMILExtract on every clip, and
// converts the resulting ARFF-style exports into numeric CSV tables. Per-file
// outcomes are journaled so interrupted runs resume where they stopped.
package main
