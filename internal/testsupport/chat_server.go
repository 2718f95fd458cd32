package testsupport

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"callscribe/internal/services/llm"
)

// ChatReply is what the fake endpoint answers for one request. A non-zero
// Status other than 200 is written with Content as the body.
type ChatReply struct {
	Status  int
	Content string
}

// ChatServer is a fake OpenAI-compatible chat-completions endpoint.
type ChatServer struct {
	*httptest.Server

	mu       sync.Mutex
	requests [][]llm.Message
}

// NewChatServer starts a fake endpoint at /v1/chat/completions that answers
// each request with reply(messages). The server is closed on test cleanup.
func NewChatServer(t testing.TB, reply func(messages []llm.Message) ChatReply) *ChatServer {
	t.Helper()

	cs := &ChatServer{}
	mux := http.NewServeMux()
	mux.HandleFunc("POST /v1/chat/completions", func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Messages []llm.Message `json:"messages"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		cs.mu.Lock()
		cs.requests = append(cs.requests, body.Messages)
		cs.mu.Unlock()

		out := reply(body.Messages)
		if out.Status != 0 && out.Status != http.StatusOK {
			http.Error(w, out.Content, out.Status)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"id":      "chatcmpl-fake",
			"object":  "chat.completion",
			"created": 1700000000,
			"model":   "fake",
			"choices": []any{
				map[string]any{
					"index":         0,
					"finish_reason": "stop",
					"message":       map[string]any{"role": "assistant", "content": out.Content},
				},
			},
		})
	})
	cs.Server = httptest.NewServer(mux)
	t.Cleanup(cs.Close)
	return cs
}

// Endpoint returns the full chat-completions URL.
func (cs *ChatServer) Endpoint() string {
	return cs.URL + "/v1/chat/completions"
}

// Requests returns a copy of the prompts received so far.
func (cs *ChatServer) Requests() [][]llm.Message {
	cs.mu.Lock()
	defer cs.mu.Unlock()
	return append([][]llm.Message(nil), cs.requests...)
}
