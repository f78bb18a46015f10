package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/godilite/survey-dashboard/internal/analytics"
	"github.com/godilite/survey-dashboard/internal/dataset"
	"github.com/godilite/survey-dashboard/internal/survey"
	"github.com/godilite/survey-dashboard/pkg/cache"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
)

const (
	defaultCacheTTL    = 10 * time.Minute
	defaultLoadTimeout = 30 * time.Second
)

var (
	ErrNoDataset         = errors.New("dataset unavailable")
	ErrUnknownSurveyType = errors.New("unknown survey type")
	ErrUnknownField      = errors.New("unknown filter field")
	ErrUnsupportedView   = errors.New("view not available for survey type")
	ErrSessionNotFound   = errors.New("session not found")
)

// AnalyticsService answers dashboard queries over cached datasets.
type AnalyticsService struct {
	store       DatasetStore
	cache       Cacher
	logger      *zap.Logger
	sfGroup     singleflight.Group
	cacheTTL    time.Duration
	loadTimeout time.Duration
	policy      analytics.ResidualPolicy
}

type Option func(*AnalyticsService)

func WithCacheTTL(ttl time.Duration) Option {
	return func(s *AnalyticsService) {
		if ttl > 0 {
			s.cacheTTL = ttl
		}
	}
}

func WithLoadTimeout(d time.Duration) Option {
	return func(s *AnalyticsService) {
		if d > 0 {
			s.loadTimeout = d
		}
	}
}

func WithResidualPolicy(p analytics.ResidualPolicy) Option {
	return func(s *AnalyticsService) { s.policy = p }
}

// NewAnalyticsService creates the service. A nil cache disables memoization.
func NewAnalyticsService(store DatasetStore, c Cacher, logger *zap.Logger, opts ...Option) *AnalyticsService {
	if store == nil {
		panic("store must not be nil")
	}
	if c == nil {
		c = cache.Nop{}
	}
	if logger == nil {
		l, _ := zap.NewProduction()
		logger = l
	}

	s := &AnalyticsService{
		store:       store,
		cache:       c,
		logger:      logger.Named("analytics"),
		cacheTTL:    defaultCacheTTL,
		loadTimeout: defaultLoadTimeout,
		policy:      analytics.LastCategory,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Store exposes the dataset store, for sessions.
func (s *AnalyticsService) Store() DatasetStore {
	return s.store
}

// Invalidate drops the cached dataset of t, typically after an upload.
func (s *AnalyticsService) Invalidate(t survey.Type) {
	s.store.Invalidate(t)
}

func checkView(view analytics.View, t survey.Type) error {
	if view == analytics.ViewProfessor && !t.IsDisciplinary() {
		return fmt.Errorf("%w: %s on %s", ErrUnsupportedView, view, t)
	}
	return nil
}

func (s *AnalyticsService) dataset(ctx context.Context, t survey.Type) (*dataset.Dataset, error) {
	if _, err := survey.ParseType(string(t)); err != nil {
		return nil, fmt.Errorf("%w: %q", ErrUnknownSurveyType, t)
	}

	loadCtx, cancel := context.WithTimeout(ctx, s.loadTimeout)
	defer cancel()

	ds, err := s.store.Get(loadCtx, t)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		s.logger.Warn("dataset unavailable", zap.String("survey_type", string(t)), zap.Error(err))
		return nil, fmt.Errorf("%w: %v", ErrNoDataset, err)
	}
	return ds, nil
}

// Dashboard computes the options, chart and metrics of one panel.
func (s *AnalyticsService) Dashboard(ctx context.Context, view analytics.View, c analytics.Criteria) (Dashboard, error) {
	if err := checkView(view, c.SurveyType); err != nil {
		return Dashboard{}, err
	}
	ds, err := s.dataset(ctx, c.SurveyType)
	if err != nil {
		return Dashboard{}, err
	}
	return s.DashboardFor(ctx, ds, view, c)
}

// DashboardFor computes a dashboard over an already loaded dataset.
func (s *AnalyticsService) DashboardFor(ctx context.Context, ds *dataset.Dataset, view analytics.View, c analytics.Criteria) (Dashboard, error) {
	key := memoKey(memoDashboard, ds.ID(), view, c, s.policy.String())
	return FindAndCache(ctx, s.cache, &s.sfGroup, key, s.cacheTTL, s.logger, func(context.Context) (Dashboard, error) {
		return BuildDashboard(ds, view, c, s.policy), nil
	})
}

// BuildDashboard is the uncached computation behind Dashboard.
func BuildDashboard(ds *dataset.Dataset, view analytics.View, c analytics.Criteria, policy analytics.ResidualPolicy) Dashboard {
	h := analytics.HierarchyFor(view, c.SurveyType)
	filtered := analytics.Filter(ds.Records, c)
	aggregates := analytics.Aggregate(filtered,
		analytics.WithResidualPolicy(policy),
		analytics.WithQuestionIndex(analytics.IndexQuestions(ds.Records)))

	questions := make([]QuestionChart, len(aggregates))
	for i, q := range aggregates {
		questions[i] = QuestionChart{QuestionAggregate: q, Code: q.Label()}
	}

	return Dashboard{
		View:      h.View,
		Criteria:  c,
		DatasetID: ds.ID(),
		Options:   h.AllOptions(ds.Records, c),
		Total:     len(ds.Records),
		Matched:   len(filtered),
		Questions: questions,
		Metrics:   analytics.ComputeMetrics(filtered, c.SurveyType),
	}
}

// Compare computes two independent panels and the deltas of their metrics.
// The panels may use different survey types.
func (s *AnalyticsService) Compare(ctx context.Context, view analytics.View, left, right analytics.Criteria) (Comparison, error) {
	var out Comparison
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		d, err := s.Dashboard(gctx, view, left)
		out.Left = d
		return err
	})
	g.Go(func() error {
		d, err := s.Dashboard(gctx, view, right)
		out.Right = d
		return err
	})
	if err := g.Wait(); err != nil {
		return Comparison{}, err
	}

	out.Metrics = analytics.CompareMetrics(out.Left.Metrics, out.Right.Metrics)
	return out, nil
}

// Options lists the choices of one filter field.
func (s *AnalyticsService) Options(ctx context.Context, view analytics.View, field analytics.Field, c analytics.Criteria) ([]string, error) {
	if err := checkView(view, c.SurveyType); err != nil {
		return nil, err
	}
	ds, err := s.dataset(ctx, c.SurveyType)
	if err != nil {
		return nil, err
	}

	key := memoKey(memoOptions, ds.ID(), view, c, string(field))
	return FindAndCache(ctx, s.cache, &s.sfGroup, key, s.cacheTTL, s.logger, func(context.Context) ([]string, error) {
		opts, err := analytics.Options(view, field, ds.Records, c)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrUnknownField, field, err)
		}
		return opts, nil
	})
}

// Update applies a field change with cascade reset.
func (s *AnalyticsService) Update(view analytics.View, c analytics.Criteria, field analytics.Field, values []string) (analytics.Criteria, error) {
	next, err := analytics.Update(view, c, field, values)
	switch {
	case errors.Is(err, survey.ErrUnknownType):
		return c, fmt.Errorf("%w: %v", ErrUnknownSurveyType, err)
	case err != nil:
		return c, fmt.Errorf("%w: %s: %v", ErrUnknownField, field, err)
	}
	return next, nil
}
