// Package llm provides the chat-completion client used for call summaries and
// topic classification.
//
// # Entry Points
//
// NewClient: construct a client from an immutable Config.
// Client.Invoke: send role-tagged messages, receive the assistant text.
// Client.Ping: verify the endpoint and model answer at all.
//
// # Transports
//
// The "http" backend hand-builds the {"model","messages"} POST and reads
// choices[0].message.content. The "openai" backend drives the official SDK
// with its own retries disabled. Both share one *http.Client whose TLS
// verification follows Config.VerifyTLS.
//
// # Retry Behaviour
//
// Every failure (network error, timeout, non-2xx, malformed response) is
// retried until MaxAttempts attempts have been made, sleeping RetryDelay
// between attempts and never after the last one. Each failed attempt logs a
// WARN with attempt, attempts and error. Exhaustion returns *Error wrapping
// the last cause; context cancellation stops the loop immediately.
package llm
