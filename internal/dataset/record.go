package dataset

import (
	"path/filepath"

	"emocorpus/internal/label"
)

// Record describes one discovered audio file and the pool name it maps to.
type Record struct {
	Kind        Kind
	SourcePath  string
	RawFilename string
	RawEmotion  string
	Label       label.Label
}

// NewRecord parses path with kind's grammar and unifies the result.
func NewRecord(kind Kind, path string) Record {
	raw := RawEmotion(kind, path)
	return Record{
		Kind:        kind,
		SourcePath:  path,
		RawFilename: filepath.Base(path),
		RawEmotion:  raw,
		Label:       label.Unify(raw),
	}
}

// OutputFilename returns the pool name for the record.
func (r Record) OutputFilename() string {
	return OutputFilename(r.Kind, r.Label, r.RawFilename)
}

// OutputFilename builds "{kind}_{code}_{arousal}_{base}". The original base
// name is kept to avoid collisions between speakers and takes.
func OutputFilename(kind Kind, l label.Label, base string) string {
	return string(kind) + "_" + l.String() + "_" + base
}
