package llm

import (
	"context"

	"github.com/PabloGalante/quip-agent/internal/domain"
)

// MockLLM is a canned CompletionClient for local development and tests.
// It never leaves the process and never fails.
type MockLLM struct{}

func NewMockLLM() *MockLLM {
	return &MockLLM{}
}

func (m *MockLLM) Complete(ctx context.Context, req domain.CompletionRequest) (string, error) {
	return "Why do programmers prefer dark mode? Because light attracts bugs.", nil
}
