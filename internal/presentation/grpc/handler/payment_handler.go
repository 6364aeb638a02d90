package handler

import (
	"context"
	"errors"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	paymentapp "payment-relay/internal/application/payment"
	"payment-relay/internal/domain/identity"
	"payment-relay/internal/domain/payment_intent"
)

// PaymentHandler gRPC決済サービスハンドラー
type PaymentHandler struct {
	paymentService *paymentapp.PaymentApplicationService
}

var _ PaymentServiceServer = (*PaymentHandler)(nil)

// NewPaymentHandler 新しいPaymentHandlerを作成
func NewPaymentHandler(paymentService *paymentapp.PaymentApplicationService) *PaymentHandler {
	return &PaymentHandler{
		paymentService: paymentService,
	}
}

// CreatePaymentIntent PaymentIntent作成
func (h *PaymentHandler) CreatePaymentIntent(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	caller, ok := identity.FromContext(ctx)
	if !ok {
		return nil, status.Error(codes.Unauthenticated, "authentication required")
	}

	amount, err := amountField(req, "amount")
	if err != nil {
		return nil, h.handleError(err)
	}

	resp, err := h.paymentService.CreatePaymentIntent(ctx, &paymentapp.CreatePaymentIntentRequest{
		Caller:   caller,
		Amount:   amount,
		Currency: stringField(req, "currency"),
	})
	if err != nil {
		return nil, h.handleError(err)
	}

	return structpb.NewStruct(map[string]interface{}{
		"client_secret":     resp.ClientSecret,
		"payment_intent_id": resp.PaymentIntentID,
	})
}

// ConfirmPayment 決済確認
// 未完了の場合もOKでstatus="failed"を返す
func (h *PaymentHandler) ConfirmPayment(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	caller, ok := identity.FromContext(ctx)
	if !ok {
		return nil, status.Error(codes.Unauthenticated, "authentication required")
	}

	resp, err := h.paymentService.ConfirmPayment(ctx, &paymentapp.ConfirmPaymentRequest{
		Caller:          caller,
		PaymentIntentID: stringField(req, "payment_intent_id"),
	})
	if err != nil {
		return nil, h.handleError(err)
	}

	out := map[string]interface{}{
		"status":            resp.Status,
		"message":           resp.Message,
		"payment_intent_id": resp.PaymentIntentID,
	}
	if !resp.Succeeded() {
		out["processor_status"] = resp.ProcessorStatus
	}
	return structpb.NewStruct(out)
}

// handleError エラーをgRPCステータスに変換
func (h *PaymentHandler) handleError(err error) error {
	var validationErr *payment_intent.ValidationError
	var authErr *payment_intent.AuthError
	var processorErr *payment_intent.ProcessorError

	switch {
	case errors.As(err, &validationErr):
		return status.Error(codes.InvalidArgument, validationErr.Message)
	case errors.As(err, &authErr):
		return status.Error(codes.Unauthenticated, authErr.Message)
	case errors.As(err, &processorErr):
		if processorErr.Kind() == payment_intent.ProcessorErrorKindRejected {
			return status.Error(codes.FailedPrecondition, processorErr.Message)
		}
		return status.Error(codes.Unavailable, "payment processor request failed")
	case errors.Is(err, payment_intent.ErrProcessorUnavailable):
		return status.Error(codes.Unavailable, "payment processor is temporarily unavailable")
	}

	// gRPCステータスエラーの場合はそのまま返す
	if _, ok := status.FromError(err); ok {
		return err
	}
	return status.Error(codes.Internal, "internal server error")
}

// stringField 文字列フィールドを取得（未指定や型違いは空文字）
func stringField(s *structpb.Struct, key string) string {
	v, ok := s.GetFields()[key]
	if !ok {
		return ""
	}
	return v.GetStringValue()
}

// amountField 金額フィールドを取得（未指定・null・空文字は0）
// 数値は切り捨て、文字列は数字のみ整数に変換する
func amountField(s *structpb.Struct, key string) (int64, error) {
	v, ok := s.GetFields()[key]
	if !ok {
		return 0, nil
	}
	switch kind := v.GetKind().(type) {
	case *structpb.Value_NullValue:
		return 0, nil
	case *structpb.Value_NumberValue:
		return payment_intent.AmountFromFloat(kind.NumberValue)
	case *structpb.Value_StringValue:
		if kind.StringValue == "" {
			return 0, nil
		}
		return payment_intent.ParseAmount(kind.StringValue)
	default:
		return 0, payment_intent.ErrAmountNotInteger
	}
}
