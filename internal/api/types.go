package api

import (
	"time"

	"callscribe/internal/history"
	"callscribe/internal/topics"
)

// dateTimeFormat is used for RFC3339 timestamps in API payloads.
const dateTimeFormat = "2006-01-02T15:04:05.000Z07:00"

// SummaryRequest is the body of POST /v1/summaries. Transcript must be
// present but may be blank.
type SummaryRequest struct {
	Transcript *string `json:"transcript" validate:"required,max=200000"`
}

// SummaryResponse carries the summary text and how it was produced.
type SummaryResponse struct {
	Summary string `json:"summary"`
	Status  string `json:"status"`
}

// ClassificationRequest is the body of POST /v1/classifications.
type ClassificationRequest struct {
	Summary *string `json:"summary" validate:"required,max=20000"`
}

// ClassificationResponse always carries three slots per list.
type ClassificationResponse struct {
	Subcategories  []string `json:"subcategories"`
	MainCategories []string `json:"mainCategories"`
	Status         string   `json:"status"`
}

// CatalogEntry is one subcategory mapping.
type CatalogEntry struct {
	SubCategory  string `json:"subCategory"`
	MainCategory string `json:"mainCategory"`
}

// CatalogResponse lists the catalog in prompt order.
type CatalogResponse struct {
	Count   int            `json:"count"`
	Entries []CatalogEntry `json:"entries"`
}

// Run describes a batch run in a transport-friendly format.
type Run struct {
	ID              string `json:"id"`
	Stage           string `json:"stage"`
	InputPath       string `json:"inputPath"`
	OutputPath      string `json:"outputPath"`
	Status          string `json:"status"`
	StartedAt       string `json:"startedAt"`
	FinishedAt      string `json:"finishedAt,omitempty"`
	DurationMS      int64  `json:"durationMs"`
	Rows            int    `json:"rows"`
	Summarized      int    `json:"summarized"`
	SummarySkipped  int    `json:"summarySkipped"`
	SummaryDegraded int    `json:"summaryDegraded"`
	Classified      int    `json:"classified"`
	ClassifySkipped int    `json:"classifySkipped"`
	ParseFailed     int    `json:"parseFailed"`
	LLMFailed       int    `json:"llmFailed"`
	Error           string `json:"error,omitempty"`
	ErrorKind       string `json:"errorKind,omitempty"`
}

// ErrorResponse is written for every non-2xx answer.
type ErrorResponse struct {
	Error string `json:"error"`
}

// FromRun converts a history run.
func FromRun(run *history.Run) Run {
	if run == nil {
		return Run{}
	}
	return Run{
		ID:              run.ID,
		Stage:           run.Stage,
		InputPath:       run.InputPath,
		OutputPath:      run.OutputPath,
		Status:          string(run.Status),
		StartedAt:       FormatTime(run.StartedAt),
		FinishedAt:      FormatTime(run.FinishedAt),
		DurationMS:      run.Duration().Milliseconds(),
		Rows:            run.Counts.Rows,
		Summarized:      run.Counts.Summarized,
		SummarySkipped:  run.Counts.SummarySkipped,
		SummaryDegraded: run.Counts.SummaryDegraded,
		Classified:      run.Counts.Classified,
		ClassifySkipped: run.Counts.ClassifySkipped,
		ParseFailed:     run.Counts.ParseFailed,
		LLMFailed:       run.Counts.LLMFailed,
		Error:           run.Error,
		ErrorKind:       run.ErrorKind,
	}
}

// FromRuns converts a slice of history runs.
func FromRuns(runs []*history.Run) []Run {
	out := make([]Run, 0, len(runs))
	for _, run := range runs {
		out = append(out, FromRun(run))
	}
	return out
}

// FromCatalog lists catalog entries in prompt order.
func FromCatalog(catalog *topics.Catalog) CatalogResponse {
	entries := catalog.Entries()
	out := CatalogResponse{Count: len(entries), Entries: make([]CatalogEntry, 0, len(entries))}
	for _, entry := range entries {
		out.Entries = append(out.Entries, CatalogEntry{SubCategory: entry.Sub, MainCategory: entry.Main})
	}
	return out
}

// FromClassification flattens a topics outcome.
func FromClassification(outcome topics.Outcome) ClassificationResponse {
	return ClassificationResponse{
		Subcategories:  append([]string(nil), outcome.Result.Subcategories[:]...),
		MainCategories: append([]string(nil), outcome.Result.MainCategories[:]...),
		Status:         string(outcome.Status),
	}
}

// FormatTime converts a time to RFC3339 or returns empty string.
func FormatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(dateTimeFormat)
}
