package mocks

import (
	"context"
	"sync"

	"github.com/phrazzld/scribe-api/internal/generation"
)

// MockGenerator implements generation.Generator for testing
type MockGenerator struct {
	// GenerateFn allows test cases to mock the Generate behavior
	GenerateFn func(ctx context.Context, topic string) (string, error)

	// Default response values
	Content string
	Err     error

	mu     sync.Mutex
	topics []string
	ctxs   []context.Context
}

// Ensure MockGenerator implements generation.Generator
var _ generation.Generator = (*MockGenerator)(nil)

// Generate implements the generation.Generator interface
func (m *MockGenerator) Generate(ctx context.Context, topic string) (string, error) {
	m.mu.Lock()
	m.topics = append(m.topics, topic)
	m.ctxs = append(m.ctxs, ctx)
	m.mu.Unlock()

	if m.GenerateFn != nil {
		return m.GenerateFn(ctx, topic)
	}

	return m.Content, m.Err
}

// CallCount returns how many times Generate was called.
func (m *MockGenerator) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.topics)
}

// Topics returns the topics passed to Generate, in call order.
func (m *MockGenerator) Topics() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.topics...)
}

// Contexts returns the contexts passed to Generate, in call order.
func (m *MockGenerator) Contexts() []context.Context {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]context.Context(nil), m.ctxs...)
}

// NewMockGeneratorWithContent creates a MockGenerator that returns content
func NewMockGeneratorWithContent(content string) *MockGenerator {
	return &MockGenerator{Content: content}
}

// NewMockGeneratorWithError creates a MockGenerator that returns the specified error
func NewMockGeneratorWithError(err error) *MockGenerator {
	return &MockGenerator{Err: err}
}
