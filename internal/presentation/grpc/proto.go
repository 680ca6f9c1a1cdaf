package grpc

// proto.go declares the lending.v1.LendingService contract by hand. Messages
// are plain structs carried by the JSON codec registered in json_codec.go.

import (
	"context"

	grpclib "google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/andresv02/loan-management-system/internal/application/dto"
)

// ServiceName is the fully qualified gRPC service name.
const ServiceName = "lending.v1.LendingService"

// ---------------------------------------------------------------------------
// Messages
// ---------------------------------------------------------------------------

// Amounts travel as decimal strings and dates as YYYY-MM-DD.

type PreviewScheduleRequest struct {
	Principal      string `json:"principal"`
	TargetInterest string `json:"target_interest"`
	FirstDueDate   string `json:"first_due_date,omitempty"`
	PeriodCount    int    `json:"period_count,omitempty"`
	DurationMonths int    `json:"duration_months,omitempty"`
}

type ApproveApplicationRequest struct {
	ApplicationID  string `json:"application_id"`
	TargetInterest string `json:"target_interest"`
	FirstDueDate   string `json:"first_due_date,omitempty"`
	CompanyID      string `json:"company_id,omitempty"`
}

type RecordPaymentRequest struct {
	LoanID      string `json:"loan_id"`
	Amount      string `json:"amount"`
	PaidOn      string `json:"paid_on,omitempty"`
	PeriodIndex int    `json:"period_index"`
}

type ReversePaymentRequest struct {
	PaymentID string `json:"payment_id"`
}

type GetLoanRequest struct {
	LoanID string `json:"loan_id"`
}

// ---------------------------------------------------------------------------
// Service
// ---------------------------------------------------------------------------

// LendingServiceServer is the server API for LendingService.
type LendingServiceServer interface {
	PreviewSchedule(context.Context, *PreviewScheduleRequest) (*dto.ScheduleResponse, error)
	ApproveApplication(context.Context, *ApproveApplicationRequest) (*dto.LoanResponse, error)
	RecordPayment(context.Context, *RecordPaymentRequest) (*dto.PaymentResponse, error)
	ReversePayment(context.Context, *ReversePaymentRequest) (*dto.PaymentResponse, error)
	GetLoan(context.Context, *GetLoanRequest) (*dto.LoanResponse, error)
	mustEmbedUnimplementedLendingServiceServer()
}

// UnimplementedLendingServiceServer provides forward-compatible default implementations.
type UnimplementedLendingServiceServer struct{}

func (UnimplementedLendingServiceServer) PreviewSchedule(context.Context, *PreviewScheduleRequest) (*dto.ScheduleResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method PreviewSchedule not implemented")
}
func (UnimplementedLendingServiceServer) ApproveApplication(context.Context, *ApproveApplicationRequest) (*dto.LoanResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method ApproveApplication not implemented")
}
func (UnimplementedLendingServiceServer) RecordPayment(context.Context, *RecordPaymentRequest) (*dto.PaymentResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method RecordPayment not implemented")
}
func (UnimplementedLendingServiceServer) ReversePayment(context.Context, *ReversePaymentRequest) (*dto.PaymentResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method ReversePayment not implemented")
}
func (UnimplementedLendingServiceServer) GetLoan(context.Context, *GetLoanRequest) (*dto.LoanResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method GetLoan not implemented")
}
func (UnimplementedLendingServiceServer) mustEmbedUnimplementedLendingServiceServer() {}

// RegisterLendingServiceServer registers the LendingServiceServer with the gRPC server.
func RegisterLendingServiceServer(s grpclib.ServiceRegistrar, srv LendingServiceServer) {
	s.RegisterService(&lendingServiceDesc, srv)
}

var lendingServiceDesc = grpclib.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*LendingServiceServer)(nil),
	Methods: []grpclib.MethodDesc{
		{
			MethodName: "PreviewSchedule",
			Handler: unaryHandler("PreviewSchedule", func(srv LendingServiceServer, ctx context.Context, in *PreviewScheduleRequest) (any, error) {
				return srv.PreviewSchedule(ctx, in)
			}),
		},
		{
			MethodName: "ApproveApplication",
			Handler: unaryHandler("ApproveApplication", func(srv LendingServiceServer, ctx context.Context, in *ApproveApplicationRequest) (any, error) {
				return srv.ApproveApplication(ctx, in)
			}),
		},
		{
			MethodName: "RecordPayment",
			Handler: unaryHandler("RecordPayment", func(srv LendingServiceServer, ctx context.Context, in *RecordPaymentRequest) (any, error) {
				return srv.RecordPayment(ctx, in)
			}),
		},
		{
			MethodName: "ReversePayment",
			Handler: unaryHandler("ReversePayment", func(srv LendingServiceServer, ctx context.Context, in *ReversePaymentRequest) (any, error) {
				return srv.ReversePayment(ctx, in)
			}),
		},
		{
			MethodName: "GetLoan",
			Handler: unaryHandler("GetLoan", func(srv LendingServiceServer, ctx context.Context, in *GetLoanRequest) (any, error) {
				return srv.GetLoan(ctx, in)
			}),
		},
	},
	Streams:  []grpclib.StreamDesc{},
	Metadata: "lending/v1/lending.proto",
}

// unaryHandler builds the grpc.MethodDesc handler for one method: decode the
// request, then run the interceptor chain around call.
func unaryHandler[Req any](
	method string,
	call func(srv LendingServiceServer, ctx context.Context, in *Req) (any, error),
) func(srv any, ctx context.Context, dec func(any) error, interceptor grpclib.UnaryServerInterceptor) (any, error) {
	fullMethod := "/" + ServiceName + "/" + method
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpclib.UnaryServerInterceptor) (any, error) {
		in := new(Req)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(LendingServiceServer), ctx, in)
		}
		info := &grpclib.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(LendingServiceServer), ctx, req.(*Req))
		}
		return interceptor(ctx, in, info, handler)
	}
}
