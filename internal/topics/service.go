package topics

import (
	"context"
	"log/slog"
	"strings"

	"callscribe/internal/logging"
	"callscribe/internal/services/llm"
	"callscribe/internal/summary"
)

// Status describes how a classification was produced.
type Status string

const (
	StatusSkipped     Status = "skipped"
	StatusClassified  Status = "classified"
	StatusParseFailed Status = "parse_failed"
	StatusLLMFailed   Status = "llm_failed"
)

// Invoker sends a chat prompt and returns the raw assistant text.
type Invoker interface {
	Invoke(ctx context.Context, messages []llm.Message) (string, error)
}

// Outcome is the per-row classification result.
type Outcome struct {
	Result Result
	Status Status
	Err    error
}

// Classifier assigns three catalog subcategories to a call summary.
type Classifier struct {
	invoker Invoker
	catalog *Catalog
	logger  *slog.Logger
}

// NewClassifier constructs a classifier over an immutable catalog.
func NewClassifier(invoker Invoker, catalog *Catalog, logger *slog.Logger) *Classifier {
	return &Classifier{
		invoker: invoker,
		catalog: catalog,
		logger:  logging.NewComponentLogger(logger, "topics"),
	}
}

// Catalog returns the catalog the classifier resolves labels against.
func (c *Classifier) Catalog() *Catalog {
	return c.catalog
}

// Classify never returns an error: every failure yields three empty slots
// and a status describing why.
func (c *Classifier) Classify(ctx context.Context, summaryText string) Outcome {
	if strings.TrimSpace(summaryText) == "" || summary.IsDegraded(summaryText) {
		return Outcome{Status: StatusSkipped}
	}

	logger := logging.WithContext(ctx, c.logger)
	reply, err := c.invoker.Invoke(ctx, BuildPrompt(summaryText, c.catalog.Keys()))
	if err != nil {
		logging.WarnWithContext(logger, "classification llm failure", "topics_llm_failed",
			logging.Error(err),
			logging.String(logging.FieldImpact, "topic columns left empty"),
		)
		return Outcome{Status: StatusLLMFailed, Err: err}
	}

	result, err := Extract(reply, c.catalog)
	if err != nil {
		logging.WarnWithContext(logger, "classification parse failed", "topics_parse_failed",
			logging.Error(err),
			logging.String("raw_content", reply),
			logging.String(logging.FieldImpact, "topic columns left empty"),
		)
		return Outcome{Status: StatusParseFailed, Err: err}
	}
	return Outcome{Result: result, Status: StatusClassified}
}
