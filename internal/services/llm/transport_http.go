package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

const maxResponseBytes = 8 << 20

type httpTransport struct {
	endpoint string
	apiKey   string
	client   *http.Client
}

type chatCompletionRequest struct {
	Model    string    `json:"model"`
	Messages []Message `json:"messages"`
}

// Pointers distinguish a missing field from an empty one.
type chatCompletionResponse struct {
	Choices []struct {
		Message *struct {
			Content *string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

func (t *httpTransport) send(ctx context.Context, model string, messages []Message) (string, error) {
	encoded, err := json.Marshal(chatCompletionRequest{Model: model, Messages: messages})
	if err != nil {
		return "", fmt.Errorf("llm request: encode body: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.endpoint, bytes.NewReader(encoded))
	if err != nil {
		return "", fmt.Errorf("llm request: new request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if t.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+t.apiKey)
	}

	resp, err := t.client.Do(req)
	if err != nil {
		return "", &TransportError{Err: fmt.Errorf("http error (timeout=%s): %w", t.client.Timeout, err)}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return "", &TransportError{StatusCode: 0, Err: fmt.Errorf("read body: %w", err)}
	}
	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return "", &TransportError{StatusCode: resp.StatusCode, Body: string(body)}
	}
	return decodeCompletion(body)
}

func decodeCompletion(body []byte) (string, error) {
	snippet := summarizePayloadSnippet(string(body))
	var completion chatCompletionResponse
	if err := json.Unmarshal(body, &completion); err != nil {
		return "", &ResponseShapeError{Reason: "decode response: " + err.Error(), Snippet: snippet}
	}
	if len(completion.Choices) == 0 {
		if completion.Error != nil && strings.TrimSpace(completion.Error.Message) != "" {
			return "", &ResponseShapeError{Reason: "api error: " + strings.TrimSpace(completion.Error.Message), Snippet: snippet}
		}
		return "", &ResponseShapeError{Reason: "empty choices", Snippet: snippet}
	}
	first := completion.Choices[0]
	if first.Message == nil {
		return "", &ResponseShapeError{Reason: "choices[0].message missing", Snippet: snippet}
	}
	if first.Message.Content == nil {
		return "", &ResponseShapeError{Reason: "choices[0].message.content missing", Snippet: snippet}
	}
	return *first.Message.Content, nil
}
