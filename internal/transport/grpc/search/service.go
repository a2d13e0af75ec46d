package search

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

// ServiceName is the fully qualified gRPC service name.
const ServiceName = "procat.search.v1.SearchService"

// Full method names, as used by interceptors and clients.
const (
	SearchProductsFullMethod     = "/" + ServiceName + "/SearchProducts"
	SearchPriceHistoryFullMethod = "/" + ServiceName + "/SearchPriceHistory"
)

// SearchServiceServer is the server API for SearchService.
// Requests and replies are google.protobuf.Struct messages.
type SearchServiceServer interface {
	SearchProducts(context.Context, *structpb.Struct) (*structpb.Struct, error)
	SearchPriceHistory(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

// RegisterSearchServiceServer registers srv with the gRPC server.
func RegisterSearchServiceServer(s grpc.ServiceRegistrar, srv SearchServiceServer) {
	s.RegisterService(&ServiceDesc, srv)
}

// ServiceDesc is the grpc.ServiceDesc for SearchService.
var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*SearchServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "SearchProducts",
			Handler:    searchProductsHandler,
		},
		{
			MethodName: "SearchPriceHistory",
			Handler:    searchPriceHistoryHandler,
		},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "procat/search/v1/search.proto",
}

func searchProductsHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(structpb.Struct)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(SearchServiceServer).SearchProducts(ctx, in)
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: SearchProductsFullMethod,
	}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(SearchServiceServer).SearchProducts(ctx, req.(*structpb.Struct))
	}
	return interceptor(ctx, in, info, handler)
}

func searchPriceHistoryHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(structpb.Struct)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(SearchServiceServer).SearchPriceHistory(ctx, in)
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: SearchPriceHistoryFullMethod,
	}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(SearchServiceServer).SearchPriceHistory(ctx, req.(*structpb.Struct))
	}
	return interceptor(ctx, in, info, handler)
}

// SearchServiceClient is the client API for SearchService.
type SearchServiceClient interface {
	SearchProducts(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error)
	SearchPriceHistory(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error)
}

type searchServiceClient struct {
	cc grpc.ClientConnInterface
}

// NewSearchServiceClient creates a client for SearchService over cc.
func NewSearchServiceClient(cc grpc.ClientConnInterface) SearchServiceClient {
	return &searchServiceClient{cc: cc}
}

func (c *searchServiceClient) SearchProducts(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, SearchProductsFullMethod, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *searchServiceClient) SearchPriceHistory(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, SearchPriceHistoryFullMethod, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}
