package service

import (
	"context"
	"time"

	"github.com/godilite/survey-dashboard/internal/dataset"
	"github.com/godilite/survey-dashboard/internal/survey"
)

// DatasetStore defines the dataset cache operations used by the service.
type DatasetStore interface {
	Get(ctx context.Context, t survey.Type) (*dataset.Dataset, error)
	Invalidate(t survey.Type)
}

// Cacher defines the interface for cache operations.
type Cacher interface {
	Close() error
	Get(ctx context.Context, key string, dest any) error
	Set(ctx context.Context, key string, value any, expiration time.Duration) error
}
