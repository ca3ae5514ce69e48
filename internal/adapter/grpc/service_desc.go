package grpc

import (
	"context"

	"google.golang.org/grpc"
)

// ServiceName is the fully qualified name of the deposit service
const ServiceName = "wheeltrack.v1.DepositService"

// DepositServiceServer is the server API for DepositService
type DepositServiceServer interface {
	RecordDeposit(context.Context, *RecordDepositRequest) (*RecordDepositResponse, error)
	ListDeposits(context.Context, *ListDepositsRequest) (*ListDepositsResponse, error)
	UpdateDepositNotes(context.Context, *UpdateDepositNotesRequest) (*UpdateDepositNotesResponse, error)
	DeleteDeposit(context.Context, *DeleteDepositRequest) (*DeleteDepositResponse, error)
	GetDepositSummary(context.Context, *GetDepositSummaryRequest) (*GetDepositSummaryResponse, error)
	CompareLumpSum(context.Context, *CompareLumpSumRequest) (*CompareLumpSumResponse, error)
}

// DepositServiceDesc describes DepositService for grpc.Server.RegisterService
var DepositServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*DepositServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "RecordDeposit", Handler: unaryHandler("RecordDeposit", DepositServiceServer.RecordDeposit)},
		{MethodName: "ListDeposits", Handler: unaryHandler("ListDeposits", DepositServiceServer.ListDeposits)},
		{MethodName: "UpdateDepositNotes", Handler: unaryHandler("UpdateDepositNotes", DepositServiceServer.UpdateDepositNotes)},
		{MethodName: "DeleteDeposit", Handler: unaryHandler("DeleteDeposit", DepositServiceServer.DeleteDeposit)},
		{MethodName: "GetDepositSummary", Handler: unaryHandler("GetDepositSummary", DepositServiceServer.GetDepositSummary)},
		{MethodName: "CompareLumpSum", Handler: unaryHandler("CompareLumpSum", DepositServiceServer.CompareLumpSum)},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "wheeltrack/v1/deposit.proto",
}

// RegisterDepositServiceServer registers srv on s
func RegisterDepositServiceServer(s grpc.ServiceRegistrar, srv DepositServiceServer) {
	s.RegisterService(&DepositServiceDesc, srv)
}

func fullMethod(method string) string {
	return "/" + ServiceName + "/" + method
}

// unaryHandler decodes the request and runs call through the server's interceptor chain
func unaryHandler[Req, Resp any](method string, call func(DepositServiceServer, context.Context, *Req) (*Resp, error)) grpc.MethodHandler {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(Req)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(DepositServiceServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{
			Server:     srv,
			FullMethod: fullMethod(method),
		}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(DepositServiceServer), ctx, req.(*Req))
		}
		return interceptor(ctx, in, info, handler)
	}
}

// DepositServiceClient is the client API for DepositService
type DepositServiceClient struct {
	cc grpc.ClientConnInterface
}

// NewDepositServiceClient creates a client that speaks the JSON codec over cc
func NewDepositServiceClient(cc grpc.ClientConnInterface) *DepositServiceClient {
	return &DepositServiceClient{cc: cc}
}

func (c *DepositServiceClient) RecordDeposit(ctx context.Context, in *RecordDepositRequest, opts ...grpc.CallOption) (*RecordDepositResponse, error) {
	return invoke[RecordDepositResponse](ctx, c.cc, "RecordDeposit", in, opts)
}

func (c *DepositServiceClient) ListDeposits(ctx context.Context, in *ListDepositsRequest, opts ...grpc.CallOption) (*ListDepositsResponse, error) {
	return invoke[ListDepositsResponse](ctx, c.cc, "ListDeposits", in, opts)
}

func (c *DepositServiceClient) UpdateDepositNotes(ctx context.Context, in *UpdateDepositNotesRequest, opts ...grpc.CallOption) (*UpdateDepositNotesResponse, error) {
	return invoke[UpdateDepositNotesResponse](ctx, c.cc, "UpdateDepositNotes", in, opts)
}

func (c *DepositServiceClient) DeleteDeposit(ctx context.Context, in *DeleteDepositRequest, opts ...grpc.CallOption) (*DeleteDepositResponse, error) {
	return invoke[DeleteDepositResponse](ctx, c.cc, "DeleteDeposit", in, opts)
}

func (c *DepositServiceClient) GetDepositSummary(ctx context.Context, in *GetDepositSummaryRequest, opts ...grpc.CallOption) (*GetDepositSummaryResponse, error) {
	return invoke[GetDepositSummaryResponse](ctx, c.cc, "GetDepositSummary", in, opts)
}

func (c *DepositServiceClient) CompareLumpSum(ctx context.Context, in *CompareLumpSumRequest, opts ...grpc.CallOption) (*CompareLumpSumResponse, error) {
	return invoke[CompareLumpSumResponse](ctx, c.cc, "CompareLumpSum", in, opts)
}

func invoke[Resp any](ctx context.Context, cc grpc.ClientConnInterface, method string, in any, opts []grpc.CallOption) (*Resp, error) {
	out := new(Resp)
	opts = append([]grpc.CallOption{grpc.CallContentSubtype(codecName)}, opts...)
	if err := cc.Invoke(ctx, fullMethod(method), in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}
