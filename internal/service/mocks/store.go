package mocks

import (
	"context"
	"errors"
	"sync"

	"github.com/godilite/survey-dashboard/internal/dataset"
	"github.com/godilite/survey-dashboard/internal/survey"
)

// MockDatasetStore is a mock implementation of the DatasetStore interface
// for testing the service layer.
type MockDatasetStore struct {
	GetFunc        func(ctx context.Context, t survey.Type) (*dataset.Dataset, error)
	InvalidateFunc func(t survey.Type)

	mu          sync.Mutex
	invalidated []survey.Type
}

// Get implements the DatasetStore interface
func (m *MockDatasetStore) Get(ctx context.Context, t survey.Type) (*dataset.Dataset, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, t)
	}
	return nil, errors.New("GetFunc not implemented")
}

// Invalidate implements the DatasetStore interface
func (m *MockDatasetStore) Invalidate(t survey.Type) {
	m.mu.Lock()
	m.invalidated = append(m.invalidated, t)
	m.mu.Unlock()
	if m.InvalidateFunc != nil {
		m.InvalidateFunc(t)
	}
}

// Invalidated returns the survey types invalidated so far.
func (m *MockDatasetStore) Invalidated() []survey.Type {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]survey.Type(nil), m.invalidated...)
}
