package journal

import "time"

// Stage names a batch pipeline step.
type Stage string

const (
	StageCollect Stage = "collect"
	StageExtract Stage = "extract"
	StageConvert Stage = "convert"
)

// Stages lists pipeline steps in execution order.
func Stages() []Stage {
	return []Stage{StageCollect, StageExtract, StageConvert}
}

// Status is the outcome of one job.
type Status string

const (
	StatusDone   Status = "done"
	StatusFailed Status = "failed"
)

// Job is one journaled file outcome.
type Job struct {
	ID           int64     `json:"id"`
	Stage        Stage     `json:"stage"`
	SourcePath   string    `json:"source_path"`
	OutputPath   string    `json:"output_path,omitempty"`
	Dataset      string    `json:"dataset,omitempty"`
	LabelCode    string    `json:"label_code,omitempty"`
	Arousal      int       `json:"arousal"`
	Status       Status    `json:"status"`
	ErrorKind    string    `json:"error_kind,omitempty"`
	ErrorMessage string    `json:"error_message,omitempty"`
	Rows         int       `json:"rows"`
	Skipped      int       `json:"skipped"`
	NaNCells     int       `json:"nan_cells"`
	RunID        string    `json:"run_id,omitempty"`
	Attempts     int       `json:"attempts"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Run summarizes one batch invocation.
type Run struct {
	ID         string    `json:"id"`
	Command    string    `json:"command"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
	Succeeded  int       `json:"succeeded"`
	Failed     int       `json:"failed"`
	Skipped    int       `json:"skipped"`
}

// StageCount is the number of jobs per stage and status.
type StageCount struct {
	Stage  Stage  `json:"stage"`
	Status Status `json:"status"`
	Count  int    `json:"count"`
}

// LabelCount is the number of collected files per dataset and label code.
type LabelCount struct {
	Dataset   string `json:"dataset"`
	LabelCode string `json:"label_code"`
	Arousal   int    `json:"arousal"`
	Count     int    `json:"count"`
}
