// Package pb describes the ReplayService gRPC API.
// Messages are protobuf well-known types, so there is no .proto to compile:
// a request is a serialized invocation descriptor in a StringValue, a response is a Summary in a Struct.
package pb

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

const (
	ReplayServiceName                           = "compreplay.ReplayService"
	ReplayService_CreateFromSerializedInvocation = "/compreplay.ReplayService/CreateFromSerializedInvocation"
)

type ReplayServiceServer interface {
	CreateFromSerializedInvocation(context.Context, *wrapperspb.StringValue) (*structpb.Struct, error)
}

func RegisterReplayServiceServer(registrar grpc.ServiceRegistrar, srv ReplayServiceServer) {
	registrar.RegisterService(&ReplayService_ServiceDesc, srv)
}

func replayServiceCreateFromSerializedInvocationHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(wrapperspb.StringValue)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(ReplayServiceServer).CreateFromSerializedInvocation(ctx, in)
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: ReplayService_CreateFromSerializedInvocation,
	}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(ReplayServiceServer).CreateFromSerializedInvocation(ctx, req.(*wrapperspb.StringValue))
	}
	return interceptor(ctx, in, info, handler)
}

var ReplayService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: ReplayServiceName,
	HandlerType: (*ReplayServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "CreateFromSerializedInvocation",
			Handler:    replayServiceCreateFromSerializedInvocationHandler,
		},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "replay-service.go",
}

type ReplayServiceClient interface {
	CreateFromSerializedInvocation(ctx context.Context, in *wrapperspb.StringValue, opts ...grpc.CallOption) (*structpb.Struct, error)
}

type replayServiceClient struct {
	cc grpc.ClientConnInterface
}

func NewReplayServiceClient(cc grpc.ClientConnInterface) ReplayServiceClient {
	return &replayServiceClient{cc}
}

func (c *replayServiceClient) CreateFromSerializedInvocation(ctx context.Context, in *wrapperspb.StringValue, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, ReplayService_CreateFromSerializedInvocation, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}
