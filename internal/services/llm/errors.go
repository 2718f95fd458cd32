package llm

import (
	"fmt"
	"strings"
)

// TransportError reports a network failure, timeout or non-2xx status.
type TransportError struct {
	StatusCode int
	Body       string
	Err        error
}

func (e *TransportError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("llm request: http %d: %s", e.StatusCode, summarizePayloadSnippet(e.Body))
	}
	return fmt.Sprintf("llm request: %v", e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// ResponseShapeError reports a 2xx response without choices[0].message.content.
type ResponseShapeError struct {
	Reason  string
	Snippet string
}

func (e *ResponseShapeError) Error() string {
	return fmt.Sprintf("llm response: %s (response_snippet=%s)", e.Reason, e.Snippet)
}

// Error is returned once every attempt has failed. Cause is the last failure.
type Error struct {
	Attempts int
	Cause    error
}

func (e *Error) Error() string {
	return fmt.Sprintf("llm invoke: failed after %d attempts: %v", e.Attempts, e.Cause)
}

func (e *Error) Unwrap() error { return e.Cause }

func summarizePayloadSnippet(content string) string {
	trimmed := strings.TrimSpace(content)
	if trimmed == "" {
		return "<empty>"
	}
	clean := strings.Join(strings.Fields(trimmed), " ")
	const limit = 160
	runes := []rune(clean)
	if len(runes) > limit {
		clean = string(runes[:limit]) + "..."
	}
	return clean
}
