package mocks

import (
	"context"

	"github.com/godilite/survey-dashboard/internal/analytics"
	"github.com/godilite/survey-dashboard/internal/service"
)

type MockAnalyticsService struct {
	DashboardFunc func(ctx context.Context, view analytics.View, c analytics.Criteria) (service.Dashboard, error)
	CompareFunc   func(ctx context.Context, view analytics.View, left, right analytics.Criteria) (service.Comparison, error)
	OptionsFunc   func(ctx context.Context, view analytics.View, field analytics.Field, c analytics.Criteria) ([]string, error)
}

func (m *MockAnalyticsService) Dashboard(ctx context.Context, view analytics.View, c analytics.Criteria) (service.Dashboard, error) {
	if m.DashboardFunc != nil {
		return m.DashboardFunc(ctx, view, c)
	}
	return service.Dashboard{View: view, Criteria: c}, nil
}

func (m *MockAnalyticsService) Compare(ctx context.Context, view analytics.View, left, right analytics.Criteria) (service.Comparison, error) {
	if m.CompareFunc != nil {
		return m.CompareFunc(ctx, view, left, right)
	}
	return service.Comparison{}, nil
}

func (m *MockAnalyticsService) Options(ctx context.Context, view analytics.View, field analytics.Field, c analytics.Criteria) ([]string, error) {
	if m.OptionsFunc != nil {
		return m.OptionsFunc(ctx, view, field, c)
	}
	return []string{}, nil
}
