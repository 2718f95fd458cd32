package summary

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"callscribe/internal/logging"
	"callscribe/internal/services/llm"
)

// ErrorMarker prefixes the summary field when every LLM attempt failed.
const ErrorMarker = "[SUMMARY_ERROR]"

// Status describes how a summary was produced.
type Status string

const (
	StatusSkipped    Status = "skipped"
	StatusSummarized Status = "summarized"
	StatusDegraded   Status = "degraded"
)

// Invoker sends a chat prompt and returns the raw assistant text.
type Invoker interface {
	Invoke(ctx context.Context, messages []llm.Message) (string, error)
}

// Outcome is the per-row summary result.
type Outcome struct {
	Text   string
	Status Status
	// Err is the underlying failure for degraded outcomes.
	Err error
}

// Service turns transcripts into summaries.
type Service struct {
	invoker Invoker
	logger  *slog.Logger
}

// NewService constructs a summary service.
func NewService(invoker Invoker, logger *slog.Logger) *Service {
	return &Service{
		invoker: invoker,
		logger:  logging.NewComponentLogger(logger, "summary"),
	}
}

// Summarize produces the summary for one transcript. It never returns an
// error: exhausted retries become a degraded outcome whose text carries
// ErrorMarker and the last cause.
func (s *Service) Summarize(ctx context.Context, transcript string) Outcome {
	transcript = strings.TrimSpace(transcript)
	if transcript == "" {
		return Outcome{Status: StatusSkipped}
	}

	reply, err := s.invoker.Invoke(ctx, BuildPrompt(transcript))
	if err != nil {
		cause := err
		var invokeErr *llm.Error
		if errors.As(err, &invokeErr) && invokeErr.Cause != nil {
			cause = invokeErr.Cause
		}
		logging.WarnWithContext(logging.WithContext(ctx, s.logger), "summary degraded", "summary_degraded",
			logging.Error(err),
			logging.String(logging.FieldImpact, "summary column holds an error marker"),
		)
		return Outcome{Text: ErrorMarker + " " + cause.Error(), Status: StatusDegraded, Err: err}
	}
	return Outcome{Text: Extract(reply), Status: StatusSummarized}
}

// IsDegraded reports whether a stored summary is an error marker rather than
// model output.
func IsDegraded(text string) bool {
	return strings.HasPrefix(strings.TrimSpace(text), ErrorMarker)
}
