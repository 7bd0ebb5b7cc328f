package grpcserver

import (
	"context"
	"encoding/json"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"
)

// ServiceName is the fully qualified gRPC service name.
const ServiceName = "portal.v1.PortalService"

// FullMethod returns the wire path of a PortalService method.
func FullMethod(method string) string {
	return "/" + ServiceName + "/" + method
}

// PortalServiceServer is the server API for PortalService.
// Every message is a google.protobuf.Struct carrying the JSON shape of the
// HTTP API.
type PortalServiceServer interface {
	Login(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Register(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Logout(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Me(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Options(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ListMyRequests(context.Context, *structpb.Struct) (*structpb.Struct, error)
	SubmitLeave(context.Context, *structpb.Struct) (*structpb.Struct, error)
	SubmitOvertime(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ListRequests(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ApproveRequest(context.Context, *structpb.Struct) (*structpb.Struct, error)
	RejectRequest(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ListUsers(context.Context, *structpb.Struct) (*structpb.Struct, error)
	SeedDemoData(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Reset(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

type unaryFunc func(PortalServiceServer, context.Context, *structpb.Struct) (*structpb.Struct, error)

func unaryMethod(name string, fn unaryFunc) grpc.MethodDesc {
	return grpc.MethodDesc{
		MethodName: name,
		Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
			in := new(structpb.Struct)
			if err := dec(in); err != nil {
				return nil, err
			}
			impl := srv.(PortalServiceServer)
			if interceptor == nil {
				return fn(impl, ctx, in)
			}
			info := &grpc.UnaryServerInfo{Server: srv, FullMethod: FullMethod(name)}
			return interceptor(ctx, in, info, func(ctx context.Context, req any) (any, error) {
				return fn(impl, ctx, req.(*structpb.Struct))
			})
		},
	}
}

// PortalServiceDesc describes PortalService for grpc.Server.RegisterService.
var PortalServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*PortalServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		unaryMethod("Login", PortalServiceServer.Login),
		unaryMethod("Register", PortalServiceServer.Register),
		unaryMethod("Logout", PortalServiceServer.Logout),
		unaryMethod("Me", PortalServiceServer.Me),
		unaryMethod("Options", PortalServiceServer.Options),
		unaryMethod("ListMyRequests", PortalServiceServer.ListMyRequests),
		unaryMethod("SubmitLeave", PortalServiceServer.SubmitLeave),
		unaryMethod("SubmitOvertime", PortalServiceServer.SubmitOvertime),
		unaryMethod("ListRequests", PortalServiceServer.ListRequests),
		unaryMethod("ApproveRequest", PortalServiceServer.ApproveRequest),
		unaryMethod("RejectRequest", PortalServiceServer.RejectRequest),
		unaryMethod("ListUsers", PortalServiceServer.ListUsers),
		unaryMethod("SeedDemoData", PortalServiceServer.SeedDemoData),
		unaryMethod("Reset", PortalServiceServer.Reset),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "portal/v1/portal.proto",
}

// RegisterPortalServiceServer registers srv on s.
func RegisterPortalServiceServer(s grpc.ServiceRegistrar, srv PortalServiceServer) {
	s.RegisterService(&PortalServiceDesc, srv)
}

// encode converts a JSON-serializable value into a Struct.
func encode(v any) (*structpb.Struct, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, status.Errorf(codes.Internal, "encode response: %v", err)
	}
	out := &structpb.Struct{}
	if err := protojson.Unmarshal(b, out); err != nil {
		return nil, status.Errorf(codes.Internal, "encode response: %v", err)
	}
	return out, nil
}

// decode converts a Struct into out through its JSON form.
func decode(in *structpb.Struct, out any) error {
	if in == nil {
		in = &structpb.Struct{}
	}
	b, err := protojson.Marshal(in)
	if err != nil {
		return status.Errorf(codes.InvalidArgument, "decode request: %v", err)
	}
	if err := json.Unmarshal(b, out); err != nil {
		return status.Errorf(codes.InvalidArgument, "decode request: %v", err)
	}
	return nil
}

// Client calls PortalService over any connection.
type Client struct {
	cc grpc.ClientConnInterface
}

func NewClient(cc grpc.ClientConnInterface) *Client {
	return &Client{cc: cc}
}

// Call invokes method with in encoded as a Struct and decodes the reply into out.
// out may be nil.
func (c *Client) Call(ctx context.Context, method string, in, out any, opts ...grpc.CallOption) error {
	if in == nil {
		in = struct{}{}
	}
	req, err := encode(in)
	if err != nil {
		return err
	}
	resp := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, FullMethod(method), req, resp, opts...); err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	return decode(resp, out)
}
