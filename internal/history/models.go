package history

import (
	"database/sql"
	"fmt"
	"time"
)

// Status is the lifecycle state of a run.
type Status string

const (
	StatusRunning   Status = "running"
	StatusSucceeded Status = "succeeded"
	StatusFailed    Status = "failed"
)

// Counts tallies row outcomes for a run.
type Counts struct {
	Rows            int `json:"rows"`
	Summarized      int `json:"summarized"`
	SummarySkipped  int `json:"summary_skipped"`
	SummaryDegraded int `json:"summary_degraded"`
	Classified      int `json:"classified"`
	ClassifySkipped int `json:"classify_skipped"`
	ParseFailed     int `json:"parse_failed"`
	LLMFailed       int `json:"llm_failed"`
}

// Run is one batch invocation.
type Run struct {
	ID         string    `json:"id"`
	Stage      string    `json:"stage"`
	InputPath  string    `json:"input_path"`
	OutputPath string    `json:"output_path"`
	Status     Status    `json:"status"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at,omitzero"`
	Counts     Counts    `json:"counts"`
	Error      string    `json:"error,omitempty"`
	ErrorKind  string    `json:"error_kind,omitempty"`
}

// Duration returns the wall time of a finished run, or zero while running.
func (r *Run) Duration() time.Duration {
	if r.FinishedAt.IsZero() {
		return 0
	}
	return r.FinishedAt.Sub(r.StartedAt)
}

const runColumns = "id, stage, input_path, output_path, status, started_at, finished_at, rows_total, summarized, summary_skipped, summary_degraded, classified, classify_skipped, parse_failed, llm_failed, error_message, error_kind"

func scanRun(scanner interface{ Scan(dest ...any) error }) (*Run, error) {
	var (
		run         Run
		statusStr   string
		startedRaw  string
		finishedRaw sql.NullString
		errMessage  sql.NullString
		errKind     sql.NullString
	)
	if err := scanner.Scan(
		&run.ID,
		&run.Stage,
		&run.InputPath,
		&run.OutputPath,
		&statusStr,
		&startedRaw,
		&finishedRaw,
		&run.Counts.Rows,
		&run.Counts.Summarized,
		&run.Counts.SummarySkipped,
		&run.Counts.SummaryDegraded,
		&run.Counts.Classified,
		&run.Counts.ClassifySkipped,
		&run.Counts.ParseFailed,
		&run.Counts.LLMFailed,
		&errMessage,
		&errKind,
	); err != nil {
		return nil, err
	}

	run.Status = Status(statusStr)
	started, err := parseTime(startedRaw)
	if err != nil {
		return nil, fmt.Errorf("parse started_at: %w", err)
	}
	run.StartedAt = started
	if finishedRaw.Valid && finishedRaw.String != "" {
		finished, err := parseTime(finishedRaw.String)
		if err != nil {
			return nil, fmt.Errorf("parse finished_at: %w", err)
		}
		run.FinishedAt = finished
	}
	run.Error = errMessage.String
	run.ErrorKind = errKind.String
	return &run, nil
}

// timeLayout is fixed width so stored timestamps sort lexically.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(raw string) (time.Time, error) {
	return time.Parse(time.RFC3339Nano, raw)
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}
