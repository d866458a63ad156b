package handler

import (
	"context"

	"github.com/rs/zerolog/log"
	"google.golang.org/grpc/codes"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/wrapperspb"

	"github.com/velox/url-shortener/internal/proto"
)

var _ proto.ShortenerServer = (*ShortenerGRPCServer)(nil)

type ShortenerGRPCServer struct {
	urlService URLService
}

func NewShortenerGRPCServer(urlService URLService) *ShortenerGRPCServer {
	return &ShortenerGRPCServer{
		urlService: urlService,
	}
}

func (s *ShortenerGRPCServer) Shorten(ctx context.Context, req *wrapperspb.StringValue) (*wrapperspb.StringValue, error) {
	result, err := s.urlService.Shorten(ctx, req.GetValue())
	if err != nil {
		return nil, grpcError(err, proto.ShortenFullMethod)
	}

	return wrapperspb.String(result.Shortened), nil
}

func (s *ShortenerGRPCServer) Resolve(ctx context.Context, req *wrapperspb.StringValue) (*wrapperspb.StringValue, error) {
	if req.GetValue() == "" {
		return nil, status.Error(codes.InvalidArgument, "code is required")
	}

	originalURL, found, err := s.urlService.Resolve(ctx, req.GetValue())
	if err != nil {
		return nil, grpcError(err, proto.ResolveFullMethod)
	}

	if !found {
		return nil, status.Error(codes.NotFound, notFoundMessage)
	}

	return wrapperspb.String(originalURL), nil
}

func grpcError(err error, method string) error {
	code, message := grpcCode(err)
	if code != codes.InvalidArgument {
		log.Error().Err(err).Str("method", method).Msg("gRPC request failed")
	}
	return status.Error(code, message)
}

// HealthServer answers grpc.health.v1 checks from the store's availability.
type HealthServer struct {
	healthpb.UnimplementedHealthServer
	urlService URLService
}

func NewHealthServer(urlService URLService) *HealthServer {
	return &HealthServer{urlService: urlService}
}

func (h *HealthServer) Check(ctx context.Context, req *healthpb.HealthCheckRequest) (*healthpb.HealthCheckResponse, error) {
	if svc := req.GetService(); svc != "" && svc != proto.ServiceName {
		return nil, status.Errorf(codes.NotFound, "unknown service %q", svc)
	}

	if err := h.urlService.Health(ctx); err != nil {
		return &healthpb.HealthCheckResponse{Status: healthpb.HealthCheckResponse_NOT_SERVING}, nil
	}

	return &healthpb.HealthCheckResponse{Status: healthpb.HealthCheckResponse_SERVING}, nil
}
