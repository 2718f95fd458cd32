package llm

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"callscribe/internal/logging"
)

const (
	defaultHTTPTimeout = 120 * time.Second
	defaultRetryDelay  = 1 * time.Second
	defaultMaxAttempts = 2

	// BackendHTTP posts the chat payload with a hand-built request.
	BackendHTTP = "http"
	// BackendOpenAI goes through the official OpenAI SDK.
	BackendOpenAI = "openai"
)

// Role tags a chat message.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one role-tagged chat message.
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// Config captures the runtime settings required to talk to the LLM.
type Config struct {
	Backend     string
	Endpoint    string
	Model       string
	APIKey      string
	VerifyTLS   bool
	MaxAttempts int
	Timeout     time.Duration
	RetryDelay  time.Duration
}

// transport performs exactly one chat request.
type transport interface {
	send(ctx context.Context, model string, messages []Message) (string, error)
}

// Client sends chat prompts with a bounded, fixed-delay retry policy.
type Client struct {
	cfg        Config
	httpClient *http.Client
	transport  transport
	logger     *slog.Logger
	sleeper    func(time.Duration)
}

// Option customizes the client.
type Option func(*Client)

// WithHTTPClient overrides the HTTP client built from Config.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithLogger sets the logger used for attempt diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithSleeper overrides how retry sleeps are performed (useful for tests).
func WithSleeper(sleeper func(time.Duration)) Option {
	return func(c *Client) {
		c.sleeper = sleeper
	}
}

// NewClient constructs an LLM client using the supplied configuration.
func NewClient(cfg Config, opts ...Option) *Client {
	cfg.Backend = strings.ToLower(strings.TrimSpace(cfg.Backend))
	if cfg.Backend == "" {
		cfg.Backend = BackendHTTP
	}
	cfg.Endpoint = strings.TrimSpace(cfg.Endpoint)
	cfg.Model = strings.TrimSpace(cfg.Model)
	cfg.APIKey = strings.TrimSpace(cfg.APIKey)
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = defaultMaxAttempts
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultHTTPTimeout
	}
	if cfg.RetryDelay < 0 {
		cfg.RetryDelay = defaultRetryDelay
	}

	client := &Client{
		cfg:        cfg,
		httpClient: newHTTPClient(cfg),
		logger:     logging.NewNop(),
	}
	for _, opt := range opts {
		opt(client)
	}
	client.logger = logging.NewComponentLogger(client.logger, "llm")

	switch cfg.Backend {
	case BackendOpenAI:
		client.transport = newOpenAITransport(cfg, client.httpClient)
	default:
		client.transport = &httpTransport{endpoint: cfg.Endpoint, apiKey: cfg.APIKey, client: client.httpClient}
	}
	return client
}

func newHTTPClient(cfg Config) *http.Client {
	base, ok := http.DefaultTransport.(*http.Transport)
	if !ok {
		return &http.Client{Timeout: cfg.Timeout}
	}
	tr := base.Clone()
	tr.TLSClientConfig = &tls.Config{InsecureSkipVerify: !cfg.VerifyTLS} //nolint:gosec // internal gateways use self-signed certs
	return &http.Client{Timeout: cfg.Timeout, Transport: tr}
}

// Config returns the client's effective configuration.
func (c *Client) Config() Config {
	return c.cfg
}

// Invoke sends messages and returns the assistant text verbatim.
//
// Every failure is retried until MaxAttempts attempts have been made. The
// returned error is always *Error unless the context ended first.
func (c *Client) Invoke(ctx context.Context, messages []Message) (string, error) {
	if len(messages) == 0 {
		return "", errors.New("llm invoke: at least one message required")
	}
	attempts := c.cfg.MaxAttempts
	logger := logging.WithContext(ctx, c.logger)
	var lastErr error

	if logger.Enabled(ctx, slog.LevelDebug) {
		logger.DebugContext(ctx, "llm request",
			logging.String("model", c.cfg.Model),
			logging.String("backend", c.cfg.Backend),
			logging.Int("prompt_tokens_estimate", EstimateTokens(messages)),
		)
	}

	for attempt := 1; attempt <= attempts; attempt++ {
		start := time.Now()
		content, err := c.transport.send(ctx, c.cfg.Model, messages)
		if err == nil {
			logger.DebugContext(ctx, "llm response",
				logging.Int("attempt", attempt),
				logging.Duration("latency", time.Since(start)),
				logging.Int("response_chars", len(content)),
			)
			return content, nil
		}
		lastErr = err
		if ctxErr := ctx.Err(); ctxErr != nil {
			return "", fmt.Errorf("llm invoke: %w", ctxErr)
		}

		logger.WarnContext(ctx, "llm attempt failed",
			logging.Int("attempt", attempt),
			logging.Int("attempts", attempts),
			logging.Error(err),
			logging.String(logging.FieldEventType, "llm_attempt_failed"),
		)

		if attempt < attempts {
			if err := c.sleep(ctx, c.cfg.RetryDelay); err != nil {
				return "", fmt.Errorf("llm invoke: %w", err)
			}
		}
	}

	return "", &Error{Attempts: attempts, Cause: lastErr}
}

// Ping issues a trivial request to verify the endpoint answers.
func (c *Client) Ping(ctx context.Context) (string, error) {
	reply, err := c.Invoke(ctx, []Message{
		{Role: RoleSystem, Content: "You are a health check. Reply with the single word: pong."},
		{Role: RoleUser, Content: "ping"},
	})
	if err != nil {
		return "", err
	}
	reply = strings.TrimSpace(reply)
	if reply == "" {
		return "", errors.New("llm ping: empty reply")
	}
	return reply, nil
}

func (c *Client) sleep(ctx context.Context, delay time.Duration) error {
	if delay <= 0 {
		return ctx.Err()
	}
	if c.sleeper != nil {
		c.sleeper(delay)
		return ctx.Err()
	}
	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
