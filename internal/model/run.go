package model

import "time"

// RunStatus represents the current state of a batch run.
type RunStatus string

const (
	RunStatusRunning  RunStatus = "running"
	RunStatusComplete RunStatus = "complete"
	RunStatusFailed   RunStatus = "failed"
)

// Run is one bulk resolution over an input file.
type Run struct {
	ID        string      `json:"id"`
	Input     string      `json:"input"`
	Status    RunStatus   `json:"status"`
	Summary   *RunSummary `json:"summary,omitempty"`
	Error     string      `json:"error,omitempty"`
	CreatedAt time.Time   `json:"created_at"`
	UpdatedAt time.Time   `json:"updated_at"`
}

// RunSummary holds the counters of a finished run.
type RunSummary struct {
	Loaded   int   `json:"loaded"`
	Skipped  int   `json:"skipped"`
	Resolved int64 `json:"resolved"`
	Matched  int64 `json:"matched"`
	Failed   int64 `json:"failed"`
	Duration int64 `json:"duration_ms"`
}
