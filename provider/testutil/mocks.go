package testutil

import (
	"context"
	"sync"

	"notebookagent/model"
)

// MockGenerator implements model.Generator with scripted replies.
type MockGenerator struct {
	mu sync.Mutex

	// Replies are returned in order; the last one repeats once exhausted.
	Replies []string
	// GenerateFunc overrides Replies when set.
	GenerateFunc func(ctx context.Context, messages []model.Message) string

	calls  [][]model.Message
	notice func(text string)
}

// NewMockGenerator creates a mock returning replies in order
func NewMockGenerator(replies ...string) *MockGenerator {
	return &MockGenerator{Replies: replies}
}

func (m *MockGenerator) Generate(ctx context.Context, messages []model.Message) string {
	m.mu.Lock()
	snapshot := append([]model.Message(nil), messages...)
	m.calls = append(m.calls, snapshot)
	n := len(m.calls)
	fn := m.GenerateFunc
	m.mu.Unlock()

	if fn != nil {
		return fn(ctx, messages)
	}
	if len(m.Replies) == 0 {
		return "Mock response"
	}
	if n > len(m.Replies) {
		return m.Replies[len(m.Replies)-1]
	}
	return m.Replies[n-1]
}

// SetNoticeHandler implements model.NoticeSource.
func (m *MockGenerator) SetNoticeHandler(fn func(text string)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.notice = fn
}

// RaiseNotice delivers text to the registered notice handler, if any.
func (m *MockGenerator) RaiseNotice(text string) {
	m.mu.Lock()
	fn := m.notice
	m.mu.Unlock()
	if fn != nil {
		fn(text)
	}
}

// Calls returns the message sequences received so far.
func (m *MockGenerator) Calls() [][]model.Message {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([][]model.Message(nil), m.calls...)
}

// CallCount returns how many times Generate was called.
func (m *MockGenerator) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.calls)
}
