package line

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

type MockCall struct {
	UserID string
	Text   string
}

// MockClient is a configurable in-memory Client. It records every call
// and can be told to fail specific recipients or everything at once.
type MockClient struct {
	mu    sync.Mutex
	Calls []MockCall

	// FailUsers maps a user id to the error its sends should return.
	FailUsers map[string]error

	// FailAll, when set, makes every send return this error.
	FailAll error

	// ConnErr is returned by TestConnection when set.
	ConnErr error
}

func NewMockClient() *MockClient {
	return &MockClient{
		Calls:     make([]MockCall, 0),
		FailUsers: make(map[string]error),
	}
}

func (m *MockClient) PushText(ctx context.Context, userID, text string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Calls = append(m.Calls, MockCall{UserID: userID, Text: text})

	if m.FailAll != nil {
		return "", m.FailAll
	}
	if err, ok := m.FailUsers[userID]; ok {
		return "", err
	}
	return fmt.Sprintf("mock-message-%d", len(m.Calls)), nil
}

func (m *MockClient) TestConnection(ctx context.Context) error {
	if m.ConnErr != nil {
		return m.ConnErr
	}
	return nil
}

// CallCount returns the number of sends recorded so far.
func (m *MockClient) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Calls)
}

var ErrMockSend = errors.New("mock send failure")
