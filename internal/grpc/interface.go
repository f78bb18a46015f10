package grpc

import (
	"context"

	"github.com/godilite/survey-dashboard/internal/analytics"
	"github.com/godilite/survey-dashboard/internal/service"
)

type AnalyticsService interface {
	Dashboard(ctx context.Context, view analytics.View, c analytics.Criteria) (service.Dashboard, error)
	Compare(ctx context.Context, view analytics.View, left, right analytics.Criteria) (service.Comparison, error)
	Options(ctx context.Context, view analytics.View, field analytics.Field, c analytics.Criteria) ([]string, error)
}
