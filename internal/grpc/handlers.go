package grpc

import (
	"context"
	"errors"
	"time"

	pb "github.com/godilite/survey-dashboard/api/v1"
	"github.com/godilite/survey-dashboard/internal/analytics"
	"github.com/godilite/survey-dashboard/internal/service"
	"go.uber.org/zap"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
)

const defaultGRPCTimeout = 10 * time.Second

// DashboardRequest is the body of GetDashboard.
type DashboardRequest struct {
	View     string             `json:"view"`
	Criteria analytics.Criteria `json:"criteria"`
}

// CompareRequest is the body of CompareDashboards.
type CompareRequest struct {
	View  string             `json:"view"`
	Left  analytics.Criteria `json:"left"`
	Right analytics.Criteria `json:"right"`
}

// OptionsRequest is the body of ListOptions.
type OptionsRequest struct {
	View     string             `json:"view"`
	Field    string             `json:"field"`
	Criteria analytics.Criteria `json:"criteria"`
}

// OptionsResponse is the body returned by ListOptions.
type OptionsResponse struct {
	Field   analytics.Field `json:"field"`
	Options []string        `json:"options"`
}

type GRPCHandlers struct {
	pb.UnimplementedSurveyAnalyticsServer
	analytics AnalyticsService
	logger    *zap.Logger
	timeout   time.Duration
}

// NewGRPCHandlers initializes the gRPC handlers.
func NewGRPCHandlers(svc AnalyticsService, logger *zap.Logger, timeout time.Duration) *GRPCHandlers {
	if svc == nil {
		panic("nil AnalyticsService provided to NewGRPCHandlers")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if timeout <= 0 {
		timeout = defaultGRPCTimeout
	}
	return &GRPCHandlers{
		analytics: svc,
		logger:    logger.Named("grpc-handler"),
		timeout:   timeout,
	}
}

func parseView(s string) (analytics.View, error) {
	view, ok := analytics.ParseView(s)
	if !ok {
		return "", status.Errorf(codes.InvalidArgument, "unknown view %q", s)
	}
	return view, nil
}

func decode(in *structpb.Struct, v any) error {
	if err := pb.Decode(in, v); err != nil {
		return status.Error(codes.InvalidArgument, err.Error())
	}
	return nil
}

func (s *GRPCHandlers) encode(op string, v any) (*structpb.Struct, error) {
	out, err := pb.Encode(v)
	if err != nil {
		s.logger.Error("encode response", zap.String("op", op), zap.Error(err))
		return nil, status.Errorf(codes.Internal, "%s failed: %v", op, err)
	}
	return out, nil
}

func (s *GRPCHandlers) handleError(ctx context.Context, op string, err error) error {
	switch ctx.Err() {
	case context.Canceled:
		s.logger.Warn("request canceled", zap.String("op", op))
		return status.Error(codes.Canceled, "request canceled")
	case context.DeadlineExceeded:
		s.logger.Warn("request timeout", zap.String("op", op))
		return status.Error(codes.DeadlineExceeded, "request timed out")
	}

	switch {
	case errors.Is(err, service.ErrNoDataset):
		s.logger.Info("no dataset", zap.String("op", op), zap.Error(err))
		return status.Error(codes.NotFound, err.Error())
	case errors.Is(err, service.ErrUnknownSurveyType),
		errors.Is(err, service.ErrUnknownField),
		errors.Is(err, service.ErrUnsupportedView):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, context.Canceled):
		return status.Error(codes.Canceled, "request canceled")
	case errors.Is(err, context.DeadlineExceeded):
		return status.Error(codes.DeadlineExceeded, "request timed out")
	default:
		s.logger.Error("unexpected error", zap.String("op", op), zap.Error(err))
		return status.Errorf(codes.Internal, "%s failed: %v", op, err)
	}
}

func (s *GRPCHandlers) GetDashboard(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	var req DashboardRequest
	if err := decode(in, &req); err != nil {
		return nil, err
	}
	view, err := parseView(req.View)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	d, err := s.analytics.Dashboard(ctx, view, req.Criteria)
	if err != nil {
		return nil, s.handleError(ctx, "GetDashboard", err)
	}
	return s.encode("GetDashboard", d)
}

func (s *GRPCHandlers) CompareDashboards(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	var req CompareRequest
	if err := decode(in, &req); err != nil {
		return nil, err
	}
	view, err := parseView(req.View)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	cmp, err := s.analytics.Compare(ctx, view, req.Left, req.Right)
	if err != nil {
		return nil, s.handleError(ctx, "CompareDashboards", err)
	}
	return s.encode("CompareDashboards", cmp)
}

func (s *GRPCHandlers) ListOptions(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	var req OptionsRequest
	if err := decode(in, &req); err != nil {
		return nil, err
	}
	view, err := parseView(req.View)
	if err != nil {
		return nil, err
	}
	field, err := analytics.ParseField(req.Field)
	if err != nil {
		return nil, status.Errorf(codes.InvalidArgument, "unknown field %q", req.Field)
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	opts, err := s.analytics.Options(ctx, view, field, req.Criteria)
	if err != nil {
		return nil, s.handleError(ctx, "ListOptions", err)
	}
	return s.encode("ListOptions", OptionsResponse{Field: field, Options: opts})
}
