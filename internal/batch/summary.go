package batch

import (
	"sort"
	"sync"
	"time"

	"emocorpus/internal/journal"
)

// Failure describes one file that could not be processed.
type Failure struct {
	Path    string `json:"path"`
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

// Summary reports the outcome of one stage.
type Summary struct {
	RunID     string         `json:"run_id"`
	Stage     journal.Stage  `json:"stage"`
	Total     int            `json:"total"`
	Succeeded int            `json:"succeeded"`
	Failed    int            `json:"failed"`
	Skipped   int            `json:"skipped"`
	Unknown   int            `json:"unknown,omitempty"`
	Labels    map[string]int `json:"labels,omitempty"`
	Rows      int            `json:"rows,omitempty"`
	NaNCells  int            `json:"nan_cells,omitempty"`
	Dropped   int            `json:"dropped_lines,omitempty"`
	Failures  []Failure      `json:"failures,omitempty"`
	Duration  time.Duration  `json:"duration"`
}

type tally struct {
	mu      sync.Mutex
	summary Summary
}

func newTally(runID string, stage journal.Stage) *tally {
	return &tally{summary: Summary{RunID: runID, Stage: stage}}
}

func (t *tally) update(fn func(*Summary)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	fn(&t.summary)
}

func (t *tally) result(elapsed time.Duration) Summary {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := t.summary
	out.Duration = elapsed
	sort.Slice(out.Failures, func(i, j int) bool { return out.Failures[i].Path < out.Failures[j].Path })
	return out
}
