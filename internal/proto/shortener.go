// Package proto registers the velox.v1.Shortener gRPC service. Requests and
// responses use the well-known StringValue wrapper, so no generated message
// types are needed.
package proto

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

const (
	ServiceName       = "velox.v1.Shortener"
	ShortenFullMethod = "/velox.v1.Shortener/Shorten"
	ResolveFullMethod = "/velox.v1.Shortener/Resolve"
)

// ShortenerServer is the server API for the Shortener service.
type ShortenerServer interface {
	// Shorten takes an original URL and returns the absolute short URL.
	Shorten(context.Context, *wrapperspb.StringValue) (*wrapperspb.StringValue, error)
	// Resolve takes a short code and returns the original URL.
	Resolve(context.Context, *wrapperspb.StringValue) (*wrapperspb.StringValue, error)
}

func RegisterShortenerServer(s grpc.ServiceRegistrar, srv ShortenerServer) {
	s.RegisterService(&shortenerServiceDesc, srv)
}

func unaryHandler(fullMethod string, call func(ShortenerServer, context.Context, *wrapperspb.StringValue) (*wrapperspb.StringValue, error)) func(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	return func(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
		in := new(wrapperspb.StringValue)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(ShortenerServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{
			Server:     srv,
			FullMethod: fullMethod,
		}
		handler := func(ctx context.Context, req interface{}) (interface{}, error) {
			return call(srv.(ShortenerServer), ctx, req.(*wrapperspb.StringValue))
		}
		return interceptor(ctx, in, info, handler)
	}
}

var shortenerServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*ShortenerServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "Shorten",
			Handler:    unaryHandler(ShortenFullMethod, ShortenerServer.Shorten),
		},
		{
			MethodName: "Resolve",
			Handler:    unaryHandler(ResolveFullMethod, ShortenerServer.Resolve),
		},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "velox/v1/shortener.proto",
}

// ShortenerClient calls the Shortener service over a client connection.
type ShortenerClient struct {
	cc grpc.ClientConnInterface
}

func NewShortenerClient(cc grpc.ClientConnInterface) *ShortenerClient {
	return &ShortenerClient{cc: cc}
}

func (c *ShortenerClient) Shorten(ctx context.Context, in *wrapperspb.StringValue, opts ...grpc.CallOption) (*wrapperspb.StringValue, error) {
	out := new(wrapperspb.StringValue)
	if err := c.cc.Invoke(ctx, ShortenFullMethod, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *ShortenerClient) Resolve(ctx context.Context, in *wrapperspb.StringValue, opts ...grpc.CallOption) (*wrapperspb.StringValue, error) {
	out := new(wrapperspb.StringValue)
	if err := c.cc.Invoke(ctx, ResolveFullMethod, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}
