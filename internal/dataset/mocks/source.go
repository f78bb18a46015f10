package mocks

import (
	"context"
	"sync"

	"github.com/godilite/survey-dashboard/internal/survey"
)

// MockSource is a mock implementation of dataset.Source.
type MockSource struct {
	FetchPartFunc func(ctx context.Context, part string) ([]survey.RawRecord, error)

	mu    sync.Mutex
	calls []string
}

func (m *MockSource) FetchPart(ctx context.Context, part string) ([]survey.RawRecord, error) {
	m.mu.Lock()
	m.calls = append(m.calls, part)
	m.mu.Unlock()

	if m.FetchPartFunc != nil {
		return m.FetchPartFunc(ctx, part)
	}
	return []survey.RawRecord{}, nil
}

// Calls returns the parts fetched so far.
func (m *MockSource) Calls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.calls...)
}
