package payment

import (
	"context"
	"errors"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	otelcodes "go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"payment-relay/internal/domain/identity"
	"payment-relay/internal/domain/payment_intent"
	"payment-relay/internal/infrastructure/config"
	otelinfra "payment-relay/internal/infrastructure/observability/otel"
)

const (
	operationCreateIntent   = "create_intent"
	operationRetrieveIntent = "retrieve_intent"
)

// PaymentApplicationService 決済アプリケーションサービス
// 状態はすべて外部プロセッサが持ち、ここでは入力検証と結果の変換のみ行う
type PaymentApplicationService struct {
	processor       payment_intent.Processor
	defaultCurrency string
	timeout         time.Duration
	logger          *otelinfra.Logger
	metrics         *otelinfra.Metrics
	tracer          trace.Tracer
}

// NewPaymentApplicationService 新しいPaymentApplicationServiceを作成
func NewPaymentApplicationService(
	processor payment_intent.Processor,
	cfg *config.ProcessorConfig,
	logger *otelinfra.Logger,
	metrics *otelinfra.Metrics,
) *PaymentApplicationService {
	currency := cfg.DefaultCurrency
	if currency == "" {
		currency = "eur"
	}
	return &PaymentApplicationService{
		processor:       processor,
		defaultCurrency: currency,
		timeout:         cfg.Timeout,
		logger:          logger,
		metrics:         metrics,
		tracer:          otel.Tracer("payment-service"),
	}
}

// CreatePaymentIntent プロセッサにPaymentIntentを作成し、クライアントシークレットを返す
func (s *PaymentApplicationService) CreatePaymentIntent(ctx context.Context, req *CreatePaymentIntentRequest) (*CreatePaymentIntentResponse, error) {
	ctx, span := s.tracer.Start(ctx, "PaymentApplicationService.CreatePaymentIntent")
	defer span.End()

	if err := requireCaller(req.Caller); err != nil {
		return nil, s.fail(ctx, span, "Unauthenticated payment intent request", err, nil)
	}

	// 金額は存在チェックのみ（0は未指定扱い）
	if req.Amount == 0 {
		return nil, s.fail(ctx, span, "Payment intent validation failed", payment_intent.ErrAmountRequired, map[string]interface{}{
			"user_id": req.Caller.UserID,
		})
	}

	currency := req.Currency
	if currency == "" {
		currency = s.defaultCurrency
	}

	span.SetAttributes(
		attribute.String("user_id", req.Caller.UserID),
		attribute.Int64("amount", req.Amount),
		attribute.String("currency", currency),
	)

	s.logger.Info(ctx, "Creating payment intent", map[string]interface{}{
		"user_id":  req.Caller.UserID,
		"amount":   req.Amount,
		"currency": currency,
	})

	var intent *payment_intent.PaymentIntent
	err := s.callProcessor(ctx, operationCreateIntent, func(ctx context.Context) error {
		var err error
		intent, err = s.processor.CreateIntent(ctx, payment_intent.CreateIntentParams{
			Amount:   req.Amount,
			Currency: currency,
			Metadata: req.Caller.Metadata(),
		})
		return err
	})
	if err != nil {
		return nil, s.fail(ctx, span, "Failed to create payment intent", err, map[string]interface{}{
			"user_id":  req.Caller.UserID,
			"amount":   req.Amount,
			"currency": currency,
		})
	}

	span.SetAttributes(attribute.String("payment_intent_id", intent.ID()))
	s.metrics.RecordIntentCreated(ctx, currency)
	s.logger.Info(ctx, "Payment intent created", map[string]interface{}{
		"user_id":           req.Caller.UserID,
		"payment_intent_id": intent.ID(),
	})

	return &CreatePaymentIntentResponse{
		ClientSecret:    intent.ClientSecret(),
		PaymentIntentID: intent.ID(),
	}, nil
}

// ConfirmPayment プロセッサからPaymentIntentのステータスを取得し、成否を返す
// succeeded以外のステータスはすべてfailedとして扱う
func (s *PaymentApplicationService) ConfirmPayment(ctx context.Context, req *ConfirmPaymentRequest) (*ConfirmPaymentResponse, error) {
	ctx, span := s.tracer.Start(ctx, "PaymentApplicationService.ConfirmPayment")
	defer span.End()

	if err := requireCaller(req.Caller); err != nil {
		return nil, s.fail(ctx, span, "Unauthenticated payment confirmation request", err, nil)
	}

	if req.PaymentIntentID == "" {
		return nil, s.fail(ctx, span, "Payment confirmation validation failed", payment_intent.ErrPaymentIntentIDRequired, map[string]interface{}{
			"user_id": req.Caller.UserID,
		})
	}

	span.SetAttributes(
		attribute.String("user_id", req.Caller.UserID),
		attribute.String("payment_intent_id", req.PaymentIntentID),
	)

	var intent *payment_intent.PaymentIntent
	err := s.callProcessor(ctx, operationRetrieveIntent, func(ctx context.Context) error {
		var err error
		intent, err = s.processor.RetrieveIntent(ctx, req.PaymentIntentID)
		return err
	})
	if err != nil {
		return nil, s.fail(ctx, span, "Failed to retrieve payment intent", err, map[string]interface{}{
			"user_id":           req.Caller.UserID,
			"payment_intent_id": req.PaymentIntentID,
		})
	}

	resp := &ConfirmPaymentResponse{
		PaymentIntentID: intent.ID(),
		ProcessorStatus: intent.Status().String(),
	}
	if intent.IsSucceeded() {
		resp.Status = ConfirmationStatusSuccess
		resp.Message = messagePaymentSucceeded
	} else {
		resp.Status = ConfirmationStatusFailed
		resp.Message = messagePaymentNotCompleted
	}

	span.SetAttributes(
		attribute.String("processor_status", resp.ProcessorStatus),
		attribute.String("confirmation_status", resp.Status),
	)
	s.metrics.RecordConfirmation(ctx, resp.Status, resp.ProcessorStatus)
	s.logger.Info(ctx, "Payment confirmation checked", map[string]interface{}{
		"user_id":           req.Caller.UserID,
		"payment_intent_id": resp.PaymentIntentID,
		"processor_status":  resp.ProcessorStatus,
		"status":            resp.Status,
		"pending":           intent.Status().IsPending(),
	})

	return resp, nil
}

// callProcessor タイムアウト付きでプロセッサを呼び出し、所要時間とエラーを記録
func (s *PaymentApplicationService) callProcessor(ctx context.Context, operation string, fn func(context.Context) error) error {
	callCtx := ctx
	if s.timeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	start := time.Now()
	err := fn(callCtx)
	s.metrics.RecordProcessorLatency(ctx, operation, time.Since(start).Seconds())

	if err == nil {
		return nil
	}

	// タイムアウトはプロセッサ到達不可として扱う
	if errors.Is(callCtx.Err(), context.DeadlineExceeded) && !errors.Is(err, payment_intent.ErrProcessorUnavailable) {
		err = payment_intent.NewUnavailableError(err)
	}
	s.metrics.RecordProcessorError(ctx, operation, payment_intent.ErrorKind(err))
	return err
}

// fail エラーをスパンとログに記録して返す
func (s *PaymentApplicationService) fail(ctx context.Context, span trace.Span, message string, err error, fields map[string]interface{}) error {
	span.RecordError(err)
	span.SetStatus(otelcodes.Error, err.Error())

	var validationErr *payment_intent.ValidationError
	var authErr *payment_intent.AuthError
	if errors.As(err, &validationErr) || errors.As(err, &authErr) {
		s.logger.Warn(ctx, message, withError(fields, err))
	} else {
		s.logger.Error(ctx, message, err, fields)
	}
	return err
}

// requireCaller 呼び出し元が認証済みかを確認
func requireCaller(caller *identity.Caller) error {
	if caller == nil || caller.UserID == "" {
		return payment_intent.NewAuthError("authentication required")
	}
	return nil
}

// withError フィールドにエラーメッセージを追加
func withError(fields map[string]interface{}, err error) map[string]interface{} {
	merged := make(map[string]interface{}, len(fields)+1)
	for k, v := range fields {
		merged[k] = v
	}
	merged["error"] = err.Error()
	return merged
}
