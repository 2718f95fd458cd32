package testsupport

import (
	"context"

	"github.com/stretchr/testify/mock"

	"callscribe/internal/services/llm"
)

// MockInvoker is a testify mock satisfying the summary and topics Invoker
// interfaces.
type MockInvoker struct {
	mock.Mock
}

func (m *MockInvoker) Invoke(ctx context.Context, messages []llm.Message) (string, error) {
	args := m.Called(ctx, messages)
	return args.String(0), args.Error(1)
}

// UserContent returns the user message of a prompt, for argument matchers.
func UserContent(messages []llm.Message) string {
	for _, msg := range messages {
		if msg.Role == llm.RoleUser {
			return msg.Content
		}
	}
	return ""
}
