package payment

import "payment-relay/internal/domain/identity"

const (
	// ConfirmationStatusSuccess 決済完了
	ConfirmationStatusSuccess = "success"
	// ConfirmationStatusFailed 決済未完了（succeeded以外のすべて）
	ConfirmationStatusFailed = "failed"

	messagePaymentSucceeded    = "Payment completed successfully"
	messagePaymentNotCompleted = "Payment was not completed"
)

// CreatePaymentIntentRequest PaymentIntent作成リクエスト
type CreatePaymentIntentRequest struct {
	Caller   *identity.Caller
	Amount   int64  // 通貨の最小単位
	Currency string // 空ならデフォルト通貨
}

// CreatePaymentIntentResponse PaymentIntent作成レスポンス
type CreatePaymentIntentResponse struct {
	ClientSecret    string
	PaymentIntentID string
}

// ConfirmPaymentRequest 決済確認リクエスト
type ConfirmPaymentRequest struct {
	Caller          *identity.Caller
	PaymentIntentID string
}

// ConfirmPaymentResponse 決済確認レスポンス
type ConfirmPaymentResponse struct {
	Status          string // "success" or "failed"
	Message         string
	PaymentIntentID string
	ProcessorStatus string
}

// Succeeded 決済が完了したかどうかを返す
func (r *ConfirmPaymentResponse) Succeeded() bool {
	return r.Status == ConfirmationStatusSuccess
}
