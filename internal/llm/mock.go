package llm

import (
	"context"
	"sync"

	"github.com/SeoyeongHwang/AugmentedSelf-v0/internal/domain"
)

// DefaultMockResponse is a well-formed cards reply.
const DefaultMockResponse = `{"cards":[{"title":"Mock Aspect","description":"A mock self-aspect for testing.","traits":["Mock","Testing"]}]}`

// MockClient is a configurable completion client for testing.
// Set Response/Error to control what Complete returns, or Responses/Errors
// to script successive calls.
type MockClient struct {
	mu sync.Mutex

	Response string
	Error    error

	// Responses and Errors, when set, are consumed one per call before
	// falling back to Response/Error.
	Responses []string
	Errors    []error

	// Call tracking for assertions
	Calls []domain.CompletionRequest
}

func NewMockClient() *MockClient {
	return &MockClient{Response: DefaultMockResponse}
}

func (m *MockClient) Complete(ctx context.Context, req domain.CompletionRequest) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	n := len(m.Calls)
	m.Calls = append(m.Calls, req)

	if err := ctx.Err(); err != nil {
		return "", err
	}
	if n < len(m.Errors) && m.Errors[n] != nil {
		return "", m.Errors[n]
	}
	if n < len(m.Responses) {
		return m.Responses[n], nil
	}
	if m.Error != nil {
		return "", m.Error
	}
	return m.Response, nil
}

// CallCount returns the number of Complete calls so far.
func (m *MockClient) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Calls)
}

// Reset clears call tracking.
func (m *MockClient) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls = nil
}
