package v1

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
)

const ServiceName = "assessment.v1.AssessmentStore"

const (
	AssessmentStore_ListCompetencies_FullMethodName    = "/" + ServiceName + "/ListCompetencies"
	AssessmentStore_CreateAssessment_FullMethodName    = "/" + ServiceName + "/CreateAssessment"
	AssessmentStore_GetAssessment_FullMethodName       = "/" + ServiceName + "/GetAssessment"
	AssessmentStore_SubmitResponse_FullMethodName      = "/" + ServiceName + "/SubmitResponse"
	AssessmentStore_CompleteAssessment_FullMethodName  = "/" + ServiceName + "/CompleteAssessment"
	AssessmentStore_ListMyAssessments_FullMethodName   = "/" + ServiceName + "/ListMyAssessments"
	AssessmentStore_GetAssessmentResult_FullMethodName = "/" + ServiceName + "/GetAssessmentResult"
)

// AssessmentStoreServer is the server API for the AssessmentStore service.
type AssessmentStoreServer interface {
	ListCompetencies(context.Context, *Empty) (*ListCompetenciesResponse, error)
	CreateAssessment(context.Context, *CreateAssessmentRequest) (*Assessment, error)
	GetAssessment(context.Context, *AssessmentRequest) (*GetAssessmentResponse, error)
	SubmitResponse(context.Context, *SubmitResponseRequest) (*Empty, error)
	CompleteAssessment(context.Context, *AssessmentRequest) (*AssessmentResult, error)
	ListMyAssessments(context.Context, *Empty) (*ListMyAssessmentsResponse, error)
	GetAssessmentResult(context.Context, *AssessmentRequest) (*AssessmentResult, error)
}

// UnimplementedAssessmentStoreServer can be embedded to have forward compatible implementations.
type UnimplementedAssessmentStoreServer struct{}

func (UnimplementedAssessmentStoreServer) ListCompetencies(context.Context, *Empty) (*ListCompetenciesResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method ListCompetencies not implemented")
}
func (UnimplementedAssessmentStoreServer) CreateAssessment(context.Context, *CreateAssessmentRequest) (*Assessment, error) {
	return nil, status.Error(codes.Unimplemented, "method CreateAssessment not implemented")
}
func (UnimplementedAssessmentStoreServer) GetAssessment(context.Context, *AssessmentRequest) (*GetAssessmentResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method GetAssessment not implemented")
}
func (UnimplementedAssessmentStoreServer) SubmitResponse(context.Context, *SubmitResponseRequest) (*Empty, error) {
	return nil, status.Error(codes.Unimplemented, "method SubmitResponse not implemented")
}
func (UnimplementedAssessmentStoreServer) CompleteAssessment(context.Context, *AssessmentRequest) (*AssessmentResult, error) {
	return nil, status.Error(codes.Unimplemented, "method CompleteAssessment not implemented")
}
func (UnimplementedAssessmentStoreServer) ListMyAssessments(context.Context, *Empty) (*ListMyAssessmentsResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method ListMyAssessments not implemented")
}
func (UnimplementedAssessmentStoreServer) GetAssessmentResult(context.Context, *AssessmentRequest) (*AssessmentResult, error) {
	return nil, status.Error(codes.Unimplemented, "method GetAssessmentResult not implemented")
}

func RegisterAssessmentStoreServer(s grpc.ServiceRegistrar, srv AssessmentStoreServer) {
	s.RegisterService(&AssessmentStore_ServiceDesc, srv)
}

// unaryHandler decodes the Struct payload into Req, runs the call through the
// interceptor chain and encodes the typed response back into a Struct.
func unaryHandler[Req, Resp any](
	fullMethod string,
	call func(AssessmentStoreServer, context.Context, *Req) (*Resp, error),
) grpc.MethodHandler {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(structpb.Struct)
		if err := dec(in); err != nil {
			return nil, err
		}
		req := new(Req)
		if err := Decode(in, req); err != nil {
			return nil, status.Error(codes.InvalidArgument, err.Error())
		}

		handler := func(ctx context.Context, req any) (any, error) {
			resp, err := call(srv.(AssessmentStoreServer), ctx, req.(*Req))
			if err != nil {
				return nil, err
			}
			return Encode(resp)
		}
		if interceptor == nil {
			return handler(ctx, req)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
		return interceptor(ctx, req, info, handler)
	}
}

// AssessmentStore_ServiceDesc is the grpc.ServiceDesc for the AssessmentStore service.
var AssessmentStore_ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*AssessmentStoreServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "ListCompetencies",
			Handler:    unaryHandler(AssessmentStore_ListCompetencies_FullMethodName, AssessmentStoreServer.ListCompetencies),
		},
		{
			MethodName: "CreateAssessment",
			Handler:    unaryHandler(AssessmentStore_CreateAssessment_FullMethodName, AssessmentStoreServer.CreateAssessment),
		},
		{
			MethodName: "GetAssessment",
			Handler:    unaryHandler(AssessmentStore_GetAssessment_FullMethodName, AssessmentStoreServer.GetAssessment),
		},
		{
			MethodName: "SubmitResponse",
			Handler:    unaryHandler(AssessmentStore_SubmitResponse_FullMethodName, AssessmentStoreServer.SubmitResponse),
		},
		{
			MethodName: "CompleteAssessment",
			Handler:    unaryHandler(AssessmentStore_CompleteAssessment_FullMethodName, AssessmentStoreServer.CompleteAssessment),
		},
		{
			MethodName: "ListMyAssessments",
			Handler:    unaryHandler(AssessmentStore_ListMyAssessments_FullMethodName, AssessmentStoreServer.ListMyAssessments),
		},
		{
			MethodName: "GetAssessmentResult",
			Handler:    unaryHandler(AssessmentStore_GetAssessmentResult_FullMethodName, AssessmentStoreServer.GetAssessmentResult),
		},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "api/v1/assessment.go",
}

// AssessmentStoreClient is the client API for the AssessmentStore service.
type AssessmentStoreClient interface {
	ListCompetencies(ctx context.Context, in *Empty, opts ...grpc.CallOption) (*ListCompetenciesResponse, error)
	CreateAssessment(ctx context.Context, in *CreateAssessmentRequest, opts ...grpc.CallOption) (*Assessment, error)
	GetAssessment(ctx context.Context, in *AssessmentRequest, opts ...grpc.CallOption) (*GetAssessmentResponse, error)
	SubmitResponse(ctx context.Context, in *SubmitResponseRequest, opts ...grpc.CallOption) (*Empty, error)
	CompleteAssessment(ctx context.Context, in *AssessmentRequest, opts ...grpc.CallOption) (*AssessmentResult, error)
	ListMyAssessments(ctx context.Context, in *Empty, opts ...grpc.CallOption) (*ListMyAssessmentsResponse, error)
	GetAssessmentResult(ctx context.Context, in *AssessmentRequest, opts ...grpc.CallOption) (*AssessmentResult, error)
}

type assessmentStoreClient struct {
	cc grpc.ClientConnInterface
}

func NewAssessmentStoreClient(cc grpc.ClientConnInterface) AssessmentStoreClient {
	return &assessmentStoreClient{cc: cc}
}

func invoke[Req, Resp any](ctx context.Context, cc grpc.ClientConnInterface, method string, in *Req, opts []grpc.CallOption) (*Resp, error) {
	if in == nil {
		in = new(Req)
	}
	payload, err := Encode(in)
	if err != nil {
		return nil, err
	}
	reply := new(structpb.Struct)
	if err := cc.Invoke(ctx, method, payload, reply, opts...); err != nil {
		return nil, err
	}
	out := new(Resp)
	if err := Decode(reply, out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *assessmentStoreClient) ListCompetencies(ctx context.Context, in *Empty, opts ...grpc.CallOption) (*ListCompetenciesResponse, error) {
	return invoke[Empty, ListCompetenciesResponse](ctx, c.cc, AssessmentStore_ListCompetencies_FullMethodName, in, opts)
}

func (c *assessmentStoreClient) CreateAssessment(ctx context.Context, in *CreateAssessmentRequest, opts ...grpc.CallOption) (*Assessment, error) {
	return invoke[CreateAssessmentRequest, Assessment](ctx, c.cc, AssessmentStore_CreateAssessment_FullMethodName, in, opts)
}

func (c *assessmentStoreClient) GetAssessment(ctx context.Context, in *AssessmentRequest, opts ...grpc.CallOption) (*GetAssessmentResponse, error) {
	return invoke[AssessmentRequest, GetAssessmentResponse](ctx, c.cc, AssessmentStore_GetAssessment_FullMethodName, in, opts)
}

func (c *assessmentStoreClient) SubmitResponse(ctx context.Context, in *SubmitResponseRequest, opts ...grpc.CallOption) (*Empty, error) {
	return invoke[SubmitResponseRequest, Empty](ctx, c.cc, AssessmentStore_SubmitResponse_FullMethodName, in, opts)
}

func (c *assessmentStoreClient) CompleteAssessment(ctx context.Context, in *AssessmentRequest, opts ...grpc.CallOption) (*AssessmentResult, error) {
	return invoke[AssessmentRequest, AssessmentResult](ctx, c.cc, AssessmentStore_CompleteAssessment_FullMethodName, in, opts)
}

func (c *assessmentStoreClient) ListMyAssessments(ctx context.Context, in *Empty, opts ...grpc.CallOption) (*ListMyAssessmentsResponse, error) {
	return invoke[Empty, ListMyAssessmentsResponse](ctx, c.cc, AssessmentStore_ListMyAssessments_FullMethodName, in, opts)
}

func (c *assessmentStoreClient) GetAssessmentResult(ctx context.Context, in *AssessmentRequest, opts ...grpc.CallOption) (*AssessmentResult, error) {
	return invoke[AssessmentRequest, AssessmentResult](ctx, c.cc, AssessmentStore_GetAssessmentResult_FullMethodName, in, opts)
}
