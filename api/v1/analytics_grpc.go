// Package v1 declares the survey.v1.SurveyAnalytics gRPC service. Requests
// and responses are google.protobuf.Struct documents carrying the JSON shape
// of the HTTP API, so no generated message types are involved.
package v1

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
)

const (
	ServiceName = "survey.v1.SurveyAnalytics"

	GetDashboardFullMethod      = "/" + ServiceName + "/GetDashboard"
	CompareDashboardsFullMethod = "/" + ServiceName + "/CompareDashboards"
	ListOptionsFullMethod       = "/" + ServiceName + "/ListOptions"
)

// SurveyAnalyticsServer is the server API for the SurveyAnalytics service.
type SurveyAnalyticsServer interface {
	GetDashboard(context.Context, *structpb.Struct) (*structpb.Struct, error)
	CompareDashboards(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ListOptions(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

// UnimplementedSurveyAnalyticsServer can be embedded to have forward
// compatible implementations.
type UnimplementedSurveyAnalyticsServer struct{}

func (UnimplementedSurveyAnalyticsServer) GetDashboard(context.Context, *structpb.Struct) (*structpb.Struct, error) {
	return nil, status.Error(codes.Unimplemented, "method GetDashboard not implemented")
}

func (UnimplementedSurveyAnalyticsServer) CompareDashboards(context.Context, *structpb.Struct) (*structpb.Struct, error) {
	return nil, status.Error(codes.Unimplemented, "method CompareDashboards not implemented")
}

func (UnimplementedSurveyAnalyticsServer) ListOptions(context.Context, *structpb.Struct) (*structpb.Struct, error) {
	return nil, status.Error(codes.Unimplemented, "method ListOptions not implemented")
}

func RegisterSurveyAnalyticsServer(s grpc.ServiceRegistrar, srv SurveyAnalyticsServer) {
	s.RegisterService(&SurveyAnalytics_ServiceDesc, srv)
}

type unaryMethod func(SurveyAnalyticsServer, context.Context, *structpb.Struct) (*structpb.Struct, error)

func unaryHandler(fullMethod string, call unaryMethod) grpc.MethodHandler {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(structpb.Struct)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(SurveyAnalyticsServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(SurveyAnalyticsServer), ctx, req.(*structpb.Struct))
		}
		return interceptor(ctx, in, info, handler)
	}
}

// SurveyAnalytics_ServiceDesc is the grpc.ServiceDesc for the SurveyAnalytics
// service.
var SurveyAnalytics_ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*SurveyAnalyticsServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "GetDashboard",
			Handler:    unaryHandler(GetDashboardFullMethod, SurveyAnalyticsServer.GetDashboard),
		},
		{
			MethodName: "CompareDashboards",
			Handler:    unaryHandler(CompareDashboardsFullMethod, SurveyAnalyticsServer.CompareDashboards),
		},
		{
			MethodName: "ListOptions",
			Handler:    unaryHandler(ListOptionsFullMethod, SurveyAnalyticsServer.ListOptions),
		},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "survey/v1/analytics.proto",
}

// SurveyAnalyticsClient is the client API for the SurveyAnalytics service.
type SurveyAnalyticsClient interface {
	GetDashboard(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error)
	CompareDashboards(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error)
	ListOptions(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error)
}

type surveyAnalyticsClient struct {
	cc grpc.ClientConnInterface
}

func NewSurveyAnalyticsClient(cc grpc.ClientConnInterface) SurveyAnalyticsClient {
	return &surveyAnalyticsClient{cc}
}

func (c *surveyAnalyticsClient) invoke(ctx context.Context, method string, in *structpb.Struct, opts []grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, method, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *surveyAnalyticsClient) GetDashboard(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, GetDashboardFullMethod, in, opts)
}

func (c *surveyAnalyticsClient) CompareDashboards(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, CompareDashboardsFullMethod, in, opts)
}

func (c *surveyAnalyticsClient) ListOptions(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, ListOptionsFullMethod, in, opts)
}
