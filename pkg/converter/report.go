package converter

import "time"

// ItemResult records the outcome of one batch item. Results are ordered
// by submission index, so Report.Items always matches the input order.
type ItemResult struct {
	Path       string        `json:"path"`
	OutputPath string        `json:"outputPath,omitempty"`
	Kind       Kind          `json:"kind"`
	Status     Status        `json:"status"`
	Error      string        `json:"error,omitempty"`
	Duration   time.Duration `json:"-"`
	DurationMs int64         `json:"durationMs"`
}

// ReportSummary aggregates counts and timing for a finished run.
type ReportSummary struct {
	InputCount   int       `json:"inputCount"`
	Succeeded    int       `json:"succeeded"`
	Failed       int       `json:"failed"`
	Config       string    `json:"config"`
	Concurrency  int       `json:"concurrency"`
	Timestamp    time.Time `json:"timestamp"`
	DurationMs   int64     `json:"durationMs"`
	FatalErrors  []string  `json:"fatalErrors,omitempty"`
	AppVersion   string    `json:"appVersion,omitempty"`
	Cancelled    bool      `json:"cancelled"`
	OutputPath   string    `json:"outputPath"`
}

// Report is the complete result of a batch run.
type Report struct {
	Summary ReportSummary `json:"summary"`
	Items   []ItemResult  `json:"items"`
}
