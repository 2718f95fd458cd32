package llm

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
)

type openAITransport struct {
	client openai.Client
}

func newOpenAITransport(cfg Config, httpClient *http.Client) *openAITransport {
	opts := []option.RequestOption{
		option.WithHTTPClient(httpClient),
		option.WithMaxRetries(0),
		option.WithBaseURL(sdkBaseURL(cfg.Endpoint)),
	}
	if cfg.APIKey != "" {
		opts = append(opts, option.WithAPIKey(cfg.APIKey))
	}
	return &openAITransport{client: openai.NewClient(opts...)}
}

// sdkBaseURL strips the chat/completions suffix; the SDK appends it itself.
func sdkBaseURL(endpoint string) string {
	base := strings.TrimRight(strings.TrimSpace(endpoint), "/")
	base = strings.TrimSuffix(base, "/chat/completions")
	return base + "/"
}

func (t *openAITransport) send(ctx context.Context, model string, messages []Message) (string, error) {
	params := openai.ChatCompletionNewParams{
		Model:    model,
		Messages: make([]openai.ChatCompletionMessageParamUnion, 0, len(messages)),
	}
	for _, msg := range messages {
		switch msg.Role {
		case RoleSystem:
			params.Messages = append(params.Messages, openai.SystemMessage(msg.Content))
		case RoleAssistant:
			params.Messages = append(params.Messages, openai.AssistantMessage(msg.Content))
		default:
			params.Messages = append(params.Messages, openai.UserMessage(msg.Content))
		}
	}

	resp, err := t.client.Chat.Completions.New(ctx, params)
	if err != nil {
		var apiErr *openai.Error
		if errors.As(err, &apiErr) {
			return "", &TransportError{StatusCode: apiErr.StatusCode, Body: apiErr.RawJSON(), Err: err}
		}
		return "", &TransportError{Err: err}
	}
	if resp == nil || len(resp.Choices) == 0 {
		return "", &ResponseShapeError{Reason: "empty choices", Snippet: "<empty>"}
	}
	message := resp.Choices[0].Message
	if !message.JSON.Content.Valid() {
		return "", &ResponseShapeError{
			Reason:  "choices[0].message.content missing",
			Snippet: summarizePayloadSnippet(message.RawJSON()),
		}
	}
	return message.Content, nil
}
