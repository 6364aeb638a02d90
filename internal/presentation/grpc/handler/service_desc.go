package handler

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

// PaymentServiceName gRPCサービス名
const PaymentServiceName = "payments.v1.PaymentService"

const (
	CreatePaymentIntentMethod = "/" + PaymentServiceName + "/CreatePaymentIntent"
	ConfirmPaymentMethod      = "/" + PaymentServiceName + "/ConfirmPayment"
)

// PaymentServiceServer 決済サービスのサーバーインターフェース
// リクエスト・レスポンスはJSONボディと同じフィールド名のStruct
type PaymentServiceServer interface {
	CreatePaymentIntent(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ConfirmPayment(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

// PaymentServiceDesc 決済サービスのサービス定義
var PaymentServiceDesc = grpc.ServiceDesc{
	ServiceName: PaymentServiceName,
	HandlerType: (*PaymentServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "CreatePaymentIntent",
			Handler:    createPaymentIntentHandler,
		},
		{
			MethodName: "ConfirmPayment",
			Handler:    confirmPaymentHandler,
		},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "payments/v1/payment_service.proto",
}

// RegisterPaymentServiceServer 決済サービスを登録
func RegisterPaymentServiceServer(s grpc.ServiceRegistrar, srv PaymentServiceServer) {
	s.RegisterService(&PaymentServiceDesc, srv)
}

func createPaymentIntentHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(structpb.Struct)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(PaymentServiceServer).CreatePaymentIntent(ctx, in)
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: CreatePaymentIntentMethod,
	}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(PaymentServiceServer).CreatePaymentIntent(ctx, req.(*structpb.Struct))
	}
	return interceptor(ctx, in, info, handler)
}

func confirmPaymentHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(structpb.Struct)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(PaymentServiceServer).ConfirmPayment(ctx, in)
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: ConfirmPaymentMethod,
	}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(PaymentServiceServer).ConfirmPayment(ctx, req.(*structpb.Struct))
	}
	return interceptor(ctx, in, info, handler)
}
