package advisory

import (
	"context"
	"sync"
)

// MockClient is a test double for Client.
type MockClient struct {
	mu       sync.Mutex
	Response *Response
	Err      error
	Calls    []string // prompts received

	// Block, when set, makes Complete wait for ctx cancellation.
	Block bool
}

func (m *MockClient) Complete(ctx context.Context, prompt string, _ ...Option) (*Response, error) {
	m.mu.Lock()
	m.Calls = append(m.Calls, prompt)
	block := m.Block
	m.mu.Unlock()

	if block {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	return m.Response, m.Err
}

// CallCount returns the number of Complete calls so far.
func (m *MockClient) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Calls)
}
